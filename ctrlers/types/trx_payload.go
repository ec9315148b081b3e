package types

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/bytes"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// TrxPayloadTransfer moves an amount of `Denom` from the sender to `To`.
// Sending to the pool address is how the tax pool is funded.
type TrxPayloadTransfer struct {
	To     types.Address `json:"to"`
	Denom  string        `json:"denom"`
	Amount *uint256.Int  `json:"amount"`
}

type transferRLP struct {
	To     types.Address
	Denom  string
	Amount bytes.HexBytes
}

func (tx *TrxPayloadTransfer) Type() int32 {
	return TRX_TRANSFER
}

func (tx *TrxPayloadTransfer) Equal(_p ITrxPayload) bool {
	_tx, ok := _p.(*TrxPayloadTransfer)
	if !ok {
		return false
	}
	return tx.To.Compare(_tx.To) == 0 && tx.Denom == _tx.Denom && tx.Amount.Eq(_tx.Amount)
}

func (tx *TrxPayloadTransfer) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &transferRLP{
		To:     tx.To,
		Denom:  tx.Denom,
		Amount: tx.Amount.Bytes(),
	})
}

func (tx *TrxPayloadTransfer) DecodeRLP(s *rlp.Stream) error {
	r := &transferRLP{}
	if err := s.Decode(r); err != nil {
		return err
	}
	amt, err := decodeAmount(r.Amount)
	if err != nil {
		return err
	}
	tx.To = r.To
	tx.Denom = r.Denom
	tx.Amount = amt
	return nil
}

// decodeAmount rejects a big-endian amount longer than 256 bits.
func decodeAmount(bz []byte) (*uint256.Int, error) {
	if len(bz) > 32 {
		return nil, fmt.Errorf("amount is %d bytes long, max: 32", len(bz))
	}
	return new(uint256.Int).SetBytes(bz), nil
}

// TrxPayloadWithdraw claims the sender's share of the tax pool.
// A nil `Amount` claims everything the sender can withdraw.
type TrxPayloadWithdraw struct {
	Amount *uint256.Int `json:"amount,omitempty"`
}

type withdrawRLP struct {
	HasAmount bool
	Amount    bytes.HexBytes
}

func (tx *TrxPayloadWithdraw) Type() int32 {
	return TRX_WITHDRAW
}

func (tx *TrxPayloadWithdraw) Equal(_p ITrxPayload) bool {
	_tx, ok := _p.(*TrxPayloadWithdraw)
	if !ok {
		return false
	}
	if tx.Amount == nil || _tx.Amount == nil {
		return tx.Amount == nil && _tx.Amount == nil
	}
	return tx.Amount.Eq(_tx.Amount)
}

func (tx *TrxPayloadWithdraw) EncodeRLP(w io.Writer) error {
	r := &withdrawRLP{}
	if tx.Amount != nil {
		r.HasAmount = true
		r.Amount = tx.Amount.Bytes()
	}
	return rlp.Encode(w, r)
}

func (tx *TrxPayloadWithdraw) DecodeRLP(s *rlp.Stream) error {
	r := &withdrawRLP{}
	if err := s.Decode(r); err != nil {
		return err
	}
	tx.Amount = nil
	if r.HasAmount {
		amt, err := decodeAmount(r.Amount)
		if err != nil {
			return err
		}
		tx.Amount = amt
	}
	return nil
}

type TrxPayloadChangeAdmin struct {
	NewAdmin types.Address `json:"newAdmin"`
}

type changeAdminRLP struct {
	NewAdmin types.Address
}

func (tx *TrxPayloadChangeAdmin) Type() int32 {
	return TRX_CHANGE_ADMIN
}

func (tx *TrxPayloadChangeAdmin) Equal(_p ITrxPayload) bool {
	_tx, ok := _p.(*TrxPayloadChangeAdmin)
	if !ok {
		return false
	}
	return tx.NewAdmin.Compare(_tx.NewAdmin) == 0
}

func (tx *TrxPayloadChangeAdmin) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &changeAdminRLP{NewAdmin: tx.NewAdmin})
}

func (tx *TrxPayloadChangeAdmin) DecodeRLP(s *rlp.Stream) error {
	r := &changeAdminRLP{}
	if err := s.Decode(r); err != nil {
		return err
	}
	tx.NewAdmin = r.NewAdmin
	return nil
}

// BeneficiaryWeight is an entry of a weight table.
// `Weight` is a fixed-point number whose precision is decided by the table.
type BeneficiaryWeight struct {
	Address types.Address `json:"address"`
	Weight  uint64        `json:"weight"`
}

// ParseBeneficiaryWeight parses `<address>:<weight>`.
func ParseBeneficiaryWeight(s string) (*BeneficiaryWeight, error) {
	a, w, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("invalid beneficiary %q, expected <address>:<weight>", s)
	}
	addr, err := types.HexToAddress(a)
	if err != nil {
		return nil, fmt.Errorf("invalid beneficiary %q: %w", s, err)
	}
	weight, err := strconv.ParseUint(w, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid beneficiary %q: %w", s, err)
	}
	return &BeneficiaryWeight{Address: addr, Weight: weight}, nil
}

func ParseBeneficiaryWeights(args []string) ([]*BeneficiaryWeight, error) {
	var ret []*BeneficiaryWeight
	for _, arg := range args {
		b, err := ParseBeneficiaryWeight(arg)
		if err != nil {
			return nil, err
		}
		ret = append(ret, b)
	}
	return ret, nil
}

type TrxPayloadSetBeneficiaries struct {
	Beneficiaries []*BeneficiaryWeight `json:"beneficiaries"`
	DecimalPlaces uint32               `json:"decimalPlaces"`
}

type setBeneficiariesRLP struct {
	Beneficiaries []*BeneficiaryWeight
	DecimalPlaces uint32
}

func (tx *TrxPayloadSetBeneficiaries) Type() int32 {
	return TRX_SET_BENEFICIARIES
}

func (tx *TrxPayloadSetBeneficiaries) Equal(_p ITrxPayload) bool {
	_tx, ok := _p.(*TrxPayloadSetBeneficiaries)
	if !ok {
		return false
	}
	if tx.DecimalPlaces != _tx.DecimalPlaces || len(tx.Beneficiaries) != len(_tx.Beneficiaries) {
		return false
	}
	for i, b := range tx.Beneficiaries {
		if b.Address.Compare(_tx.Beneficiaries[i].Address) != 0 || b.Weight != _tx.Beneficiaries[i].Weight {
			return false
		}
	}
	return true
}

func (tx *TrxPayloadSetBeneficiaries) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &setBeneficiariesRLP{
		Beneficiaries: tx.Beneficiaries,
		DecimalPlaces: tx.DecimalPlaces,
	})
}

func (tx *TrxPayloadSetBeneficiaries) DecodeRLP(s *rlp.Stream) error {
	r := &setBeneficiariesRLP{}
	if err := s.Decode(r); err != nil {
		return err
	}
	tx.Beneficiaries = r.Beneficiaries
	tx.DecimalPlaces = r.DecimalPlaces
	return nil
}

type TrxPayloadEmergencyWithdraw struct{}

func (tx *TrxPayloadEmergencyWithdraw) Type() int32 {
	return TRX_EMERGENCY_WITHDRAW
}

func (tx *TrxPayloadEmergencyWithdraw) Equal(_p ITrxPayload) bool {
	_, ok := _p.(*TrxPayloadEmergencyWithdraw)
	return ok
}

func (tx *TrxPayloadEmergencyWithdraw) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []interface{}{})
}

func (tx *TrxPayloadEmergencyWithdraw) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	return s.ListEnd()
}

var _ ITrxPayload = (*TrxPayloadTransfer)(nil)
var _ ITrxPayload = (*TrxPayloadWithdraw)(nil)
var _ ITrxPayload = (*TrxPayloadChangeAdmin)(nil)
var _ ITrxPayload = (*TrxPayloadSetBeneficiaries)(nil)
var _ ITrxPayload = (*TrxPayloadEmergencyWithdraw)(nil)
