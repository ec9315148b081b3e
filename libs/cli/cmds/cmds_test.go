package cmds

import (
	"testing"

	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

func TestWithdrawPayload(t *testing.T) {
	payload, err := withdrawPayload(nil)
	require.NoError(t, err)
	require.Nil(t, payload.Amount)

	payload, err = withdrawPayload([]string{"1500"})
	require.NoError(t, err)
	require.Equal(t, uint64(1500), payload.Amount.Uint64())

	payload, err = withdrawPayload([]string{"0x10"})
	require.NoError(t, err)
	require.Equal(t, uint64(16), payload.Amount.Uint64())

	_, err = withdrawPayload([]string{"-1"})
	require.Error(t, err)
}

func TestCheckResult(t *testing.T) {
	require.NoError(t, checkResult(&ctypes.ResultBroadcastTxCommit{}))

	err := checkResult(&ctypes.ResultBroadcastTxCommit{
		CheckTx: abcitypes.ResponseCheckTx{Code: 7, Log: "bad nonce"},
	})
	require.ErrorContains(t, err, "check tx")
	require.ErrorContains(t, err, "bad nonce")

	err = checkResult(&ctypes.ResultBroadcastTxCommit{
		DeliverTx: abcitypes.ResponseDeliverTx{Code: 3, Log: "unauthorized"},
	})
	require.ErrorContains(t, err, "deliver tx")
}

func TestTxCmd(t *testing.T) {
	cmd := NewTxCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"transfer", "withdraw", "change-admin", "set-beneficiaries", "emergency-withdraw"} {
		require.True(t, names[n], n)
	}
	require.NotNil(t, cmd.PersistentFlags().Lookup("from"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("rpc"))
}
