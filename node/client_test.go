package node

import (
	"testing"

	"github.com/beatoz/taxpool-go/ctrlers/taxpool"
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
)

func TestLocalClient_DeliverInBlockOrder(t *testing.T) {
	node := newTestNode(t)
	pool := taxpool.PoolAddress()

	client := NewLocalClient(nil, node.app).(*localClient)
	client.txPreparer.start()
	defer client.txPreparer.stop()

	var resps []*abcitypes.ResponseDeliverTx
	client.SetResponseCallback(func(req *abcitypes.Request, res *abcitypes.Response) {
		if r := res.GetDeliverTx(); r != nil {
			resps = append(resps, r)
		}
	})

	// the txs of one sender depend on each other by nonce.
	var txs [][]byte
	for i := 0; i < 20; i++ {
		txs = append(txs, node.signedTx(t, node.funder, &ctrlertypes.TrxPayloadTransfer{To: pool, Denom: types.DefaultDenom, Amount: uint256.NewInt(10)}))
		node.nonces[node.funder.Address().String()]++
	}
	txs = append(txs, []byte("garbage"))

	_, err := client.BeginBlockSync(abcitypes.RequestBeginBlock{
		Header: tmproto.Header{ChainID: testChainId, Height: 1},
	})
	require.NoError(t, err)
	for _, bz := range txs {
		client.DeliverTxAsync(abcitypes.RequestDeliverTx{Tx: bz})
	}
	_, err = client.EndBlockSync(abcitypes.RequestEndBlock{Height: 1})
	require.NoError(t, err)
	_, err = client.CommitSync()
	require.NoError(t, err)

	require.Len(t, resps, len(txs))
	for i := 0; i < 20; i++ {
		require.Equal(t, abcitypes.CodeTypeOK, resps[i].Code, resps[i].Log)
	}
	require.NotEqual(t, abcitypes.CodeTypeOK, resps[20].Code)

	require.Equal(t, "200", node.balance(t, pool))
	require.Equal(t, "70", node.claimable(t, node.benA.Address()))
	require.Equal(t, uint64(21), node.app.metaDB.Txn())
}
