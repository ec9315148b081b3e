package taxpool

import (
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	v1 "github.com/beatoz/taxpool-go/ledger/v1"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
)

// PoolAddress is the account holding the pool's balance.
func PoolAddress() types.Address {
	return types.DeriveAddress("pool")
}

func (s *session) initialize(admin types.Address, denom string, list []*ctrlertypes.BeneficiaryWeight, decimalPlaces uint32) xerrors.XError {
	if err := types.ValidateAddress(admin); err != nil {
		return xerrors.ErrInvalidAddress.Wrap(err)
	}
	if _, xerr := s.store.Get(v1.LedgerKeyConfig()); xerr == nil {
		return xerrors.ErrInitChain.Wrapf("the tax pool is already initialized")
	}
	if denom == "" {
		denom = types.DefaultDenom
	}
	if xerr := ValidateWeights(list, decimalPlaces); xerr != nil {
		return xerr
	}

	cfg := &Config{
		PoolAddress: PoolAddress(),
		Admin:       admin,
		Denom:       denom,
	}
	if xerr := s.store.Set(v1.LedgerKeyConfig(), cfg); xerr != nil {
		return xerr
	}
	return s.install(list, decimalPlaces, uint256.NewInt(0))
}

// install writes a validated beneficiary set and a fresh accumulator.
// `baseline` is the pool balance that does not belong to the new set.
func (s *session) install(list []*ctrlertypes.BeneficiaryWeight, decimalPlaces uint32, baseline *uint256.Int) xerrors.XError {
	denom, xerr := Denominator(decimalPlaces)
	if xerr != nil {
		return xerr
	}

	table := &WeightTable{DecimalPlaces: decimalPlaces}
	for _, bw := range list {
		addr := append(types.Address(nil), bw.Address...)
		if xerr := s.store.Set(v1.LedgerKeyBeneficiary(addr), NewStoredBeneficiary(addr, bw.Weight)); xerr != nil {
			return xerr
		}
		table.Addresses = append(table.Addresses, addr)
	}
	if xerr := s.store.Set(v1.LedgerKeyBeneficiariesList(), table); xerr != nil {
		return xerr
	}
	return s.store.Set(v1.LedgerKeyTaxPool(), NewTaxPool(denom, baseline))
}

func (s *session) changeAdmin(caller, newAdmin types.Address) xerrors.XError {
	cfg, xerr := s.config()
	if xerr != nil {
		return xerr
	}
	if !cfg.IsAdmin(caller) {
		return xerrors.ErrUnauthorized.Wrapf("%v is not the admin", caller)
	}
	if err := types.ValidateAddress(newAdmin); err != nil {
		return xerrors.ErrInvalidAddress.Wrap(err)
	}

	cfg.Admin = append(types.Address(nil), newAdmin...)
	if xerr := s.store.Set(v1.LedgerKeyConfig(), cfg); xerr != nil {
		return xerr
	}

	s.notify(newEvent(ACTION_CHANGE_ADMIN, attrAddress(ctrlertypes.EVENT_ATTR_ADMIN, newAdmin)))
	return nil
}

// setBeneficiaries settles every current beneficiary in table order and installs `list`.
// The settled amounts leave the pool through the emitted effects,
// so the balance left after them becomes the baseline of the new set.
//
// When the pool is frozen, the old claims were already swept.
// The old entries are dropped without payment and the pool is unfrozen.
// Everything received since the sweep belongs to the new set.
func (s *session) setBeneficiaries(caller types.Address, list []*ctrlertypes.BeneficiaryWeight, decimalPlaces uint32) xerrors.XError {
	cfg, xerr := s.config()
	if xerr != nil {
		return xerr
	}
	if !cfg.IsAdmin(caller) {
		return xerrors.ErrUnauthorized.Wrapf("%v is not the admin", caller)
	}
	if xerr := ValidateWeights(list, decimalPlaces); xerr != nil {
		return xerr
	}

	table, xerr := s.weightTable()
	if xerr != nil {
		return xerr
	}

	baseline := uint256.NewInt(0)
	if cfg.Frozen {
		for _, addr := range table.Addresses {
			if xerr := s.store.Del(v1.LedgerKeyBeneficiary(addr)); xerr != nil {
				return xerr
			}
		}

		cfg.Frozen = false
		if xerr := s.store.Set(v1.LedgerKeyConfig(), cfg); xerr != nil {
			return xerr
		}
	} else {
		pool, bal, xerr := s.refreshedPool(cfg)
		if xerr != nil {
			return xerr
		}

		settled := uint256.NewInt(0)
		for _, addr := range table.Addresses {
			b, xerr := s.beneficiary(addr)
			if xerr != nil {
				return xerrors.ErrInternal.Wrapf("the entry of %v is missing: %v", addr, xerr)
			}
			claimable, xerr := b.Claimable(pool)
			if xerr != nil {
				return xerr
			}
			if xerr := s.payout(cfg, pool, b, claimable); xerr != nil {
				return xerr
			}
			if xerr := s.store.Del(v1.LedgerKeyBeneficiary(addr)); xerr != nil {
				return xerr
			}
			_ = settled.Add(settled, claimable)

			s.notify(newEvent(ACTION_SETTLE,
				attrAddress(ctrlertypes.EVENT_ATTR_BENEFICIARY, addr),
				attrAmount(claimable)))
		}

		if bal.Lt(settled) {
			return xerrors.ErrInternal.Wrapf("settled(%v) more than the pool balance(%v)", settled.Dec(), bal.Dec())
		}
		baseline = new(uint256.Int).Sub(bal, settled)
	}

	if xerr := s.install(list, decimalPlaces, baseline); xerr != nil {
		return xerr
	}

	s.notify(newEvent(ACTION_SET_BENEFICIARIES, attrAddress(ctrlertypes.EVENT_ATTR_ADMIN, caller)))
	return nil
}

// emergencyWithdraw sweeps the whole pool balance to the admin and freezes the pool.
// The beneficiary entries are left as they are, but they can not be claimed any more.
func (s *session) emergencyWithdraw(caller types.Address) (*uint256.Int, xerrors.XError) {
	cfg, xerr := s.config()
	if xerr != nil {
		return nil, xerr
	}
	if !cfg.IsAdmin(caller) {
		return nil, xerrors.ErrUnauthorized.Wrapf("%v is not the admin", caller)
	}

	bal, xerr := s.balance(cfg)
	if xerr != nil {
		return nil, xerr
	}

	cfg.Frozen = true
	if xerr := s.store.Set(v1.LedgerKeyConfig(), cfg); xerr != nil {
		return nil, xerr
	}
	if !bal.IsZero() {
		s.emit(ctrlertypes.NewTransferEffect(cfg.PoolAddress, caller, cfg.Denom, bal))
	}

	s.notify(newEvent(ACTION_EMERGENCY_WITHDRAW,
		attrAddress(ctrlertypes.EVENT_ATTR_ADMIN, caller),
		attrAmount(bal)))
	return bal, nil
}
