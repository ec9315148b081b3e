package taxpool

import (
	"testing"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func Test_Query(t *testing.T) {
	env := newTestEnv(t, weighted(3, 350, 650))
	walA, walB := env.wallet(1), env.wallet(2)

	require.NoError(t, env.chain.Commit(env.ctrler))
	require.Equal(t, int64(1), env.chain.LastHeight())

	env.deposit(1000)
	_, xerr := env.withdraw(t, walA, nil)
	require.NoError(t, xerr)
	require.NoError(t, env.chain.Commit(env.ctrler))
	require.Equal(t, int64(2), env.chain.LastHeight())

	// beneficiaries
	bz, xerr := env.ctrler.Query(abcitypes.RequestQuery{Path: "beneficiaries"})
	require.NoError(t, xerr)
	list := &BeneficiariesResponse{}
	require.NoError(t, jsonx.Unmarshal(bz, list))
	require.Equal(t, uint32(3), list.DecimalPlaces)
	require.Len(t, list.Beneficiaries, 2)
	require.Equal(t, walA.Address(), list.Beneficiaries[0].Address)
	require.Equal(t, uint64(350), list.Beneficiaries[0].Weight)
	require.Equal(t, "0.35", list.Beneficiaries[0].Share)
	require.Equal(t, "350", list.Beneficiaries[0].Withdrawn)
	require.Equal(t, walB.Address(), list.Beneficiaries[1].Address)
	require.Equal(t, "0.65", list.Beneficiaries[1].Share)
	require.Equal(t, "0", list.Beneficiaries[1].Withdrawn)

	// at the first height, nothing is withdrawn.
	bz, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "beneficiaries", Height: 1})
	require.NoError(t, xerr)
	require.NoError(t, jsonx.Unmarshal(bz, list))
	require.Equal(t, "0", list.Beneficiaries[0].Withdrawn)

	// beneficiary_balance
	bz, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "beneficiary_balance", Data: walB.Address()})
	require.NoError(t, xerr)
	bal := &BalanceResponse{}
	require.NoError(t, jsonx.Unmarshal(bz, bal))
	require.Equal(t, "650", bal.Claimable)

	_, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "beneficiary_balance", Data: env.wallet(4).Address()})
	require.True(t, xerr.Contains(xerrors.ErrNotBeneficiary))
	_, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "beneficiary_balance", Data: []byte{0x01}})
	require.True(t, xerr.Contains(xerrors.ErrInvalidQueryParams))

	// admin
	bz, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "admin"})
	require.NoError(t, xerr)
	admin := &AdminResponse{}
	require.NoError(t, jsonx.Unmarshal(bz, admin))
	require.Equal(t, env.admin.Address(), admin.Admin)

	// config
	bz, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "config"})
	require.NoError(t, xerr)
	cfg := &Config{}
	require.NoError(t, cfg.Decode(bz))
	require.Equal(t, PoolAddress(), cfg.PoolAddress)
	require.Equal(t, types.DefaultDenom, cfg.Denom)
	require.False(t, cfg.Frozen)

	// pool
	bz, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "pool"})
	require.NoError(t, xerr)
	pool := &PoolResponse{}
	require.NoError(t, jsonx.Unmarshal(bz, pool))
	require.Equal(t, "650", pool.Balance)
	require.Equal(t, "350", pool.TotalWithdrawn)
	require.Equal(t, uint64(1000), pool.TotalWeight)

	_, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "unknown"})
	require.Equal(t, xerrors.ErrInvalidQueryPath, xerr)
}

func Test_Query_Frozen(t *testing.T) {
	env := newTestEnv(t, weighted(3, 350, 650))
	env.deposit(1000)

	_, xerr := env.run(t, env.admin, &ctrlertypes.TrxPayloadEmergencyWithdraw{}, true)
	require.NoError(t, xerr)
	_, _, xerr = env.ctrler.Commit()
	require.NoError(t, xerr)

	_, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "beneficiary_balance", Data: env.wallet(1).Address()})
	require.Equal(t, xerrors.ErrFrozenPool, xerr)

	// the membership is still readable.
	_, xerr = env.ctrler.Query(abcitypes.RequestQuery{Path: "beneficiaries"})
	require.NoError(t, xerr)
}
