package taxpool

import (
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
)

// MaxDecimalPlaces is the largest precision whose denominator, 10^19, fits in uint64.
const MaxDecimalPlaces uint32 = 19

// Denominator returns 10^decimalPlaces.
func Denominator(decimalPlaces uint32) (uint64, xerrors.XError) {
	if decimalPlaces > MaxDecimalPlaces {
		return 0, xerrors.ErrInvalidWeights.Wrapf("decimal places(%d) is too large, max: %d", decimalPlaces, MaxDecimalPlaces)
	}
	d := uint64(1)
	for i := uint32(0); i < decimalPlaces; i++ {
		d *= 10
	}
	return d, nil
}

// ValidateWeights checks that `list` has unique, well-formed addresses with non-zero weights
// and that the weights sum up to exactly 10^decimalPlaces.
// The pool address is not a valid beneficiary.
func ValidateWeights(list []*ctrlertypes.BeneficiaryWeight, decimalPlaces uint32) xerrors.XError {
	denom, xerr := Denominator(decimalPlaces)
	if xerr != nil {
		return xerr
	}
	if len(list) == 0 {
		return xerrors.ErrInvalidWeights.Wrapf("no beneficiary")
	}

	seen := make(map[string]struct{}, len(list))
	sum := uint256.NewInt(0)
	for _, b := range list {
		if b == nil {
			return xerrors.ErrInvalidWeights.Wrapf("nil beneficiary")
		}
		if err := types.ValidateAddress(b.Address); err != nil {
			return xerrors.ErrInvalidWeights.Wrap(err)
		}
		if b.Address.Equal(PoolAddress()) {
			return xerrors.ErrInvalidWeights.Wrapf("the pool can not be its own beneficiary")
		}
		if _, ok := seen[string(b.Address)]; ok {
			return xerrors.ErrInvalidWeights.Wrapf("duplicated beneficiary: %v", b.Address)
		}
		seen[string(b.Address)] = struct{}{}

		if b.Weight == 0 {
			return xerrors.ErrInvalidWeights.Wrapf("zero weight: %v", b.Address)
		}
		// the sum is kept in 256 bits so that it can not wrap around.
		_ = sum.Add(sum, uint256.NewInt(b.Weight))
	}

	if !sum.Eq(uint256.NewInt(denom)) {
		return xerrors.ErrInvalidWeights.Wrapf("the sum of weights(%v) is not %v", sum.Dec(), denom)
	}
	return nil
}

// WeightTable is the membership of the current beneficiary set in table order.
// The weight of each member is kept in its StoredBeneficiary entry.
type WeightTable struct {
	Addresses     []types.Address `json:"addresses"`
	DecimalPlaces uint32          `json:"decimalPlaces"`
}

func (wt *WeightTable) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(wt)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (wt *WeightTable) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, wt); err != nil {
		return xerrors.From(err)
	}
	return nil
}
