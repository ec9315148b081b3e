package taxpool

import (
	"bytes"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	v1 "github.com/beatoz/taxpool-go/ledger/v1"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func newItemFor(key v1.LedgerKey) v1.ILedgerItem {
	switch {
	case bytes.Equal(key, v1.KeyConfig):
		return &Config{}
	case bytes.Equal(key, v1.KeyBeneficiariesList):
		return &WeightTable{}
	case bytes.Equal(key, v1.KeyTaxPool):
		return &TaxPool{}
	case bytes.HasPrefix(key, v1.KeyPrefixBeneficiary):
		return &StoredBeneficiary{}
	default:
		panic("unknown key for the tax pool ledger")
	}
}

// stateView binds a state ledger to the ledger which `exec` selects.
type stateView struct {
	ledger v1.IStateLedger
	exec   bool
}

func (v stateView) Get(key v1.LedgerKey) (v1.ILedgerItem, xerrors.XError) {
	return v.ledger.Get(key, v.exec)
}

func (v stateView) Seek(prefix []byte, ascending bool, cb v1.FuncIterate) xerrors.XError {
	return v.ledger.Seek(prefix, ascending, cb, v.exec)
}

func (v stateView) Set(key v1.LedgerKey, item v1.ILedgerItem) xerrors.XError {
	return v.ledger.Set(key, item, v.exec)
}

func (v stateView) Del(key v1.LedgerKey) xerrors.XError {
	return v.ledger.Del(key, v.exec)
}

func (v stateView) Snapshot() int {
	return v.ledger.Snapshot(v.exec)
}

func (v stateView) RevertToSnapshot(snap int) xerrors.XError {
	return v.ledger.RevertToSnapshot(snap, v.exec)
}

var _ v1.IImitable = stateView{}

// session runs one invocation against a store and a balance oracle.
// Effects and events are collected and handed over only when the invocation succeeds.
type session struct {
	store  v1.IImitable
	oracle ctrlertypes.IBalanceOracle
	exec   bool

	effects []*ctrlertypes.TransferEffect
	events  []abcitypes.Event
}

func newSession(store v1.IImitable, oracle ctrlertypes.IBalanceOracle, exec bool) *session {
	return &session{
		store:  store,
		oracle: oracle,
		exec:   exec,
	}
}

func (s *session) config() (*Config, xerrors.XError) {
	item, xerr := s.store.Get(v1.LedgerKeyConfig())
	if xerr != nil {
		return nil, notFoundAs(xerr, xerrors.ErrUninitialized)
	}
	return item.(*Config), nil
}

func (s *session) weightTable() (*WeightTable, xerrors.XError) {
	item, xerr := s.store.Get(v1.LedgerKeyBeneficiariesList())
	if xerr != nil {
		return nil, notFoundAs(xerr, xerrors.ErrUninitialized)
	}
	return item.(*WeightTable), nil
}

func (s *session) pool() (*TaxPool, xerrors.XError) {
	item, xerr := s.store.Get(v1.LedgerKeyTaxPool())
	if xerr != nil {
		return nil, notFoundAs(xerr, xerrors.ErrUninitialized)
	}
	return item.(*TaxPool), nil
}

func (s *session) beneficiary(addr types.Address) (*StoredBeneficiary, xerrors.XError) {
	item, xerr := s.store.Get(v1.LedgerKeyBeneficiary(addr))
	if xerr != nil {
		return nil, notFoundAs(xerr, xerrors.ErrNotBeneficiary.Wrapf("address: %v", addr))
	}
	return item.(*StoredBeneficiary), nil
}

func (s *session) balance(cfg *Config) (*uint256.Int, xerrors.XError) {
	bal, xerr := s.oracle.Balance(cfg.PoolAddress, cfg.Denom, s.exec)
	if xerr != nil {
		if xerr.Contains(xerrors.ErrOracle) {
			return nil, xerr
		}
		return nil, xerrors.ErrOracle.Wrap(xerr)
	}
	return bal, nil
}

// refreshedPool loads the accumulator and recomputes it from the live pool balance.
// It also returns the balance the accumulator is computed from.
func (s *session) refreshedPool(cfg *Config) (*TaxPool, *uint256.Int, xerrors.XError) {
	if cfg.Frozen {
		return nil, nil, xerrors.ErrFrozenPool
	}
	pool, xerr := s.pool()
	if xerr != nil {
		return nil, nil, xerr
	}
	bal, xerr := s.balance(cfg)
	if xerr != nil {
		return nil, nil, xerr
	}
	refreshed, xerr := pool.Refresh(bal)
	if xerr != nil {
		return nil, nil, xerr
	}
	return refreshed, bal, nil
}

func (s *session) emit(eff *ctrlertypes.TransferEffect) {
	s.effects = append(s.effects, eff)
}

func (s *session) notify(evt abcitypes.Event) {
	s.events = append(s.events, evt)
}

func notFoundAs(xerr, as xerrors.XError) xerrors.XError {
	if xerr.Code() == xerrors.ErrCodeNotFoundResult {
		return as
	}
	if xerr.Code() == xerrors.ErrCodeStore {
		return xerr
	}
	return xerrors.ErrStore.Wrap(xerr)
}
