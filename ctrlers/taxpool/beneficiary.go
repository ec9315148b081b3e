package taxpool

import (
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
)

// StoredBeneficiary is the ledger entry of a beneficiary.
// Withdrawn is the part of its lifetime share that has already been paid.
type StoredBeneficiary struct {
	Address   types.Address `json:"address"`
	Weight    uint64        `json:"weight"`
	Withdrawn *uint256.Int  `json:"withdrawn"`
}

func NewStoredBeneficiary(addr types.Address, weight uint64) *StoredBeneficiary {
	return &StoredBeneficiary{
		Address:   addr,
		Weight:    weight,
		Withdrawn: uint256.NewInt(0),
	}
}

// Claimable returns `Weight * pool.AccPerShare / SCALE - Withdrawn`.
func (b *StoredBeneficiary) Claimable(pool *TaxPool) (*uint256.Int, xerrors.XError) {
	share, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(b.Weight), pool.AccPerShare)
	if overflow {
		return nil, xerrors.ErrOverFlow.Wrapf("weight(%v) * acc(%v)", b.Weight, pool.AccPerShare.Dec())
	}
	_ = share.Div(share, SCALE)

	if share.Lt(b.Withdrawn) {
		return nil, xerrors.ErrInternal.Wrapf("beneficiary(%v) has withdrawn(%v) more than its share(%v)", b.Address, b.Withdrawn.Dec(), share.Dec())
	}
	return share.Sub(share, b.Withdrawn), nil
}

func (b *StoredBeneficiary) AddWithdrawn(amt *uint256.Int) xerrors.XError {
	sum, overflow := new(uint256.Int).AddOverflow(b.Withdrawn, amt)
	if overflow {
		return xerrors.ErrOverFlow.Wrapf("withdrawn(%v) + %v", b.Withdrawn.Dec(), amt.Dec())
	}
	b.Withdrawn = sum
	return nil
}

func (b *StoredBeneficiary) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(b)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (b *StoredBeneficiary) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, b); err != nil {
		return xerrors.From(err)
	}
	return nil
}
