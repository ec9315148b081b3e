package taxpool

import (
	"os"
	"testing"

	cfg "github.com/beatoz/taxpool-go/cmd/config"
	"github.com/beatoz/taxpool-go/ctrlers/mocks"
	acctmock "github.com/beatoz/taxpool-go/ctrlers/mocks/acct"
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/genesis"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainId = "taxpool-test-chain"

type testEnv struct {
	ctrler *TaxPoolCtrler
	acct   *acctmock.AcctHandlerMock
	admin  *acctmock.Wallet
	chain  *mocks.Chain
	nonce  int64
}

func newTestEnv(t *testing.T, genTaxPool func(admin *acctmock.Wallet, wals []*acctmock.Wallet) *genesis.GenesisTaxPool) *testEnv {
	dir, err := os.MkdirTemp("", "taxpool-ctrler-test-*")
	require.NoError(t, err)

	config := cfg.DefaultConfig().SetRoot(dir)
	acct := acctmock.NewAcctHandlerMock(5)
	admin := acct.GetWallet(0)

	ctrler, xerr := NewTaxPoolCtrler(config, acct, log.NewNopLogger())
	require.NoError(t, xerr)

	appState := &genesis.GenesisAppState{}
	if genTaxPool != nil {
		appState.TaxPool = genTaxPool(admin, acct.GetAllWallets()[1:])
	}
	require.NoError(t, ctrler.InitLedger(appState))

	t.Cleanup(func() {
		require.NoError(t, ctrler.Close())
		require.NoError(t, os.RemoveAll(dir))
	})

	return &testEnv{ctrler: ctrler, acct: acct, admin: admin, chain: mocks.NewChain(testChainId, 1, acct)}
}

// weighted returns a genesis whose beneficiaries are the wallets 1, 2, ... with `weights`.
func weighted(decimalPlaces uint32, weights ...uint64) func(*acctmock.Wallet, []*acctmock.Wallet) *genesis.GenesisTaxPool {
	return func(admin *acctmock.Wallet, wals []*acctmock.Wallet) *genesis.GenesisTaxPool {
		gen := &genesis.GenesisTaxPool{
			Admin:         admin.Address(),
			DecimalPlaces: decimalPlaces,
		}
		for i, w := range weights {
			gen.Beneficiaries = append(gen.Beneficiaries, &ctrlertypes.BeneficiaryWeight{
				Address: wals[i].Address(),
				Weight:  w,
			})
		}
		return gen
	}
}

func (env *testEnv) wallet(i int) *acctmock.Wallet {
	return env.acct.GetWallet(i)
}

func (env *testEnv) deposit(amt uint64) {
	env.acct.Deposit(PoolAddress(), types.DefaultDenom, uint256.NewInt(amt))
}

func (env *testEnv) poolBalance() uint64 {
	bal, _ := env.acct.Balance(PoolAddress(), types.DefaultDenom, true)
	return bal.Uint64()
}

func (env *testEnv) balanceOf(w *acctmock.Wallet) uint64 {
	bal, _ := env.acct.Balance(w.Address(), types.DefaultDenom, true)
	return bal.Uint64()
}

// run signs and executes a command of `sender` as DeliverTx (or CheckTx).
// The transfer effects are applied to the accounts only when the command succeeds.
func (env *testEnv) run(t *testing.T, sender *acctmock.Wallet, payload ctrlertypes.ITrxPayload, exec bool) (*ctrlertypes.TrxContext, xerrors.XError) {
	txctx, xerr := env.chain.SignedTrxCtx(sender, env.nonce, payload, exec)
	require.NoError(t, xerr)
	env.nonce++

	if xerr := env.ctrler.ValidateTrx(txctx); xerr != nil {
		return txctx, xerr
	}
	if xerr := env.ctrler.ExecuteTrx(txctx); xerr != nil {
		require.Empty(t, txctx.Effects)
		require.Empty(t, txctx.Events)
		return txctx, xerr
	}
	if exec {
		require.NoError(t, env.acct.Apply(txctx.Effects))
	}
	return txctx, nil
}

func (env *testEnv) withdraw(t *testing.T, w *acctmock.Wallet, amt *uint256.Int) (*ctrlertypes.TrxContext, xerrors.XError) {
	return env.run(t, w, &ctrlertypes.TrxPayloadWithdraw{Amount: amt}, true)
}

func (env *testEnv) claimable(t *testing.T, w *acctmock.Wallet) uint64 {
	amt, xerr := env.ctrler.Claimable(w.Address())
	require.NoError(t, xerr)
	return amt.Uint64()
}

func (env *testEnv) stored(t *testing.T, w *acctmock.Wallet) *StoredBeneficiary {
	b, xerr := env.ctrler.newSession(true).beneficiary(w.Address())
	require.NoError(t, xerr)
	return b
}

func (env *testEnv) pool(t *testing.T) *TaxPool {
	pool, xerr := env.ctrler.newSession(true).pool()
	require.NoError(t, xerr)
	return pool
}

// requireWithdrawnSum checks that the accumulator's total equals the sum of every entry's withdrawn amount.
func (env *testEnv) requireWithdrawnSum(t *testing.T) {
	list, _, xerr := env.ctrler.Beneficiaries()
	require.NoError(t, xerr)

	sum := uint256.NewInt(0)
	for _, b := range list {
		_ = sum.Add(sum, b.Withdrawn)
	}
	require.Equal(t, sum.Dec(), env.pool(t).TotalWithdrawn.Dec())
}

func amount(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}
