package taxpool

import (
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	v1 "github.com/beatoz/taxpool-go/ledger/v1"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
)

// withdraw pays `caller` the requested part of its claimable balance.
// A nil `requested` claims all of it.
func (s *session) withdraw(caller types.Address, requested *uint256.Int) (*uint256.Int, xerrors.XError) {
	cfg, xerr := s.config()
	if xerr != nil {
		return nil, xerr
	}
	if cfg.Frozen {
		return nil, xerrors.ErrFrozenPool
	}

	b, xerr := s.beneficiary(caller)
	if xerr != nil {
		return nil, xerr
	}

	pool, _, xerr := s.refreshedPool(cfg)
	if xerr != nil {
		return nil, xerr
	}

	claimable, xerr := b.Claimable(pool)
	if xerr != nil {
		return nil, xerr
	}

	amt := claimable
	if requested != nil {
		amt = requested
	}
	if amt.Gt(claimable) {
		return nil, xerrors.InsufficientBalance(claimable, amt)
	}

	if xerr := s.payout(cfg, pool, b, amt); xerr != nil {
		return nil, xerr
	}
	if xerr := s.store.Set(v1.LedgerKeyBeneficiary(b.Address), b); xerr != nil {
		return nil, xerr
	}
	if xerr := s.store.Set(v1.LedgerKeyTaxPool(), pool); xerr != nil {
		return nil, xerr
	}

	s.notify(newEvent(ACTION_WITHDRAW,
		attrAddress(ctrlertypes.EVENT_ATTR_BENEFICIARY, b.Address),
		attrAmount(amt)))
	return amt, nil
}

// payout records `amt` as paid to `b` and emits the transfer.
// Nothing is emitted for a zero amount.
func (s *session) payout(cfg *Config, pool *TaxPool, b *StoredBeneficiary, amt *uint256.Int) xerrors.XError {
	if xerr := b.AddWithdrawn(amt); xerr != nil {
		return xerr
	}
	if xerr := pool.RecordPayout(amt); xerr != nil {
		return xerr
	}
	if !amt.IsZero() {
		s.emit(ctrlertypes.NewTransferEffect(cfg.PoolAddress, b.Address, cfg.Denom, amt))
	}
	return nil
}

// claimableOf returns the amount `addr` can withdraw now.
func (s *session) claimableOf(addr types.Address) (*uint256.Int, xerrors.XError) {
	cfg, xerr := s.config()
	if xerr != nil {
		return nil, xerr
	}
	if cfg.Frozen {
		return nil, xerrors.ErrFrozenPool
	}
	b, xerr := s.beneficiary(addr)
	if xerr != nil {
		return nil, xerr
	}
	pool, _, xerr := s.refreshedPool(cfg)
	if xerr != nil {
		return nil, xerr
	}
	return b.Claimable(pool)
}
