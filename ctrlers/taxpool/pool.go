package taxpool

import (
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
)

// SCALE is the fixed-point factor of TaxPool.AccPerShare.
var SCALE = uint256.NewInt(1_000_000_000_000_000_000)

// TaxPool is the accumulator of a beneficiary set.
//
// AccPerShare = (balance + TotalWithdrawn - Baseline) * SCALE / TotalWeight
//
// Baseline is the balance which was in the pool when the beneficiary set was installed
// and does not belong to it.
type TaxPool struct {
	TotalWeight    uint64       `json:"totalWeight"`
	TotalWithdrawn *uint256.Int `json:"totalWithdrawn"`
	AccPerShare    *uint256.Int `json:"accPerShare"`
	Baseline       *uint256.Int `json:"baseline"`
}

func NewTaxPool(totalWeight uint64, baseline *uint256.Int) *TaxPool {
	return &TaxPool{
		TotalWeight:    totalWeight,
		TotalWithdrawn: uint256.NewInt(0),
		AccPerShare:    uint256.NewInt(0),
		Baseline:       new(uint256.Int).Set(baseline),
	}
}

// Refresh returns the accumulator recomputed from the current pool balance.
// The receiver is not changed.
func (pool *TaxPool) Refresh(balance *uint256.Int) (*TaxPool, xerrors.XError) {
	if pool == nil || pool.TotalWeight == 0 {
		return nil, xerrors.ErrUninitialized
	}

	received, overflow := new(uint256.Int).AddOverflow(balance, pool.TotalWithdrawn)
	if overflow {
		return nil, xerrors.ErrOverFlow.Wrapf("balance(%v) + withdrawn(%v)", balance.Dec(), pool.TotalWithdrawn.Dec())
	}
	if received.Lt(pool.Baseline) {
		return nil, xerrors.ErrInternal.Wrapf("received(%v) is less than baseline(%v)", received.Dec(), pool.Baseline.Dec())
	}
	_ = received.Sub(received, pool.Baseline)

	acc, overflow := new(uint256.Int).MulOverflow(received, SCALE)
	if overflow {
		return nil, xerrors.ErrOverFlow.Wrapf("received(%v) * SCALE", received.Dec())
	}
	_ = acc.Div(acc, uint256.NewInt(pool.TotalWeight))

	if acc.Lt(pool.AccPerShare) {
		return nil, xerrors.ErrInternal.Wrapf("accumulator moves backward: %v -> %v", pool.AccPerShare.Dec(), acc.Dec())
	}

	return &TaxPool{
		TotalWeight:    pool.TotalWeight,
		TotalWithdrawn: new(uint256.Int).Set(pool.TotalWithdrawn),
		AccPerShare:    acc,
		Baseline:       new(uint256.Int).Set(pool.Baseline),
	}, nil
}

// RecordPayout adds `amt` to TotalWithdrawn.
// It must be called once for every payout, before the transfer is emitted.
func (pool *TaxPool) RecordPayout(amt *uint256.Int) xerrors.XError {
	sum, overflow := new(uint256.Int).AddOverflow(pool.TotalWithdrawn, amt)
	if overflow {
		return xerrors.ErrOverFlow.Wrapf("total withdrawn(%v) + %v", pool.TotalWithdrawn.Dec(), amt.Dec())
	}
	pool.TotalWithdrawn = sum
	return nil
}

func (pool *TaxPool) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(pool)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (pool *TaxPool) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, pool); err != nil {
		return xerrors.From(err)
	}
	return nil
}
