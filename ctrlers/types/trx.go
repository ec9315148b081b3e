package types

import (
	"io"
	"time"

	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/bytes"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	TRX_TRANSFER int32 = 1 + iota
	TRX_WITHDRAW
	TRX_CHANGE_ADMIN
	TRX_SET_BENEFICIARIES
	TRX_EMERGENCY_WITHDRAW
)

type trxKind struct {
	name       string
	newPayload func() ITrxPayload
}

var trxKinds = map[int32]trxKind{
	TRX_TRANSFER:           {"transfer", func() ITrxPayload { return &TrxPayloadTransfer{} }},
	TRX_WITHDRAW:           {"withdraw", func() ITrxPayload { return &TrxPayloadWithdraw{} }},
	TRX_CHANGE_ADMIN:       {"change_admin", func() ITrxPayload { return &TrxPayloadChangeAdmin{} }},
	TRX_SET_BENEFICIARIES:  {"set_beneficiaries", func() ITrxPayload { return &TrxPayloadSetBeneficiaries{} }},
	TRX_EMERGENCY_WITHDRAW: {"emergency_withdraw", func() ITrxPayload { return &TrxPayloadEmergencyWithdraw{} }},
}

const (
	EVENT_ATTR_TXSTATUS    = "status"
	EVENT_ATTR_TXTYPE      = "type"
	EVENT_ATTR_TXSENDER    = "sender"
	EVENT_ATTR_TXRECVER    = "receiver"
	EVENT_ATTR_AMOUNT      = "amount"
	EVENT_ATTR_DENOM       = "denom"
	EVENT_ATTR_ACTION      = "action"
	EVENT_ATTR_BENEFICIARY = "beneficiary"
	EVENT_ATTR_ADMIN       = "admin"
)

type trxRLP struct {
	Version uint64
	Time    uint64
	Nonce   uint64
	From    types.Address
	Type    uint64
	Payload bytes.HexBytes
	Sig     bytes.HexBytes
}

type ITrxPayload interface {
	Type() int32
	Equal(ITrxPayload) bool
	rlp.Encoder
	rlp.Decoder
}

// Trx is the signed command delivered to the application.
// Everything but `Sig` is covered by the signature.
type Trx struct {
	Version int32          `json:"version,omitempty"`
	Time    int64          `json:"time"`
	Nonce   int64          `json:"nonce"`
	From    types.Address  `json:"from"`
	Type    int32          `json:"type"`
	Payload ITrxPayload    `json:"payload,omitempty"`
	Sig     bytes.HexBytes `json:"sig"`
}

func NewTrx(ver int32, from types.Address, nonce int64, payload ITrxPayload) *Trx {
	return &Trx{
		Version: ver,
		Time:    time.Now().Round(0).UTC().UnixNano(),
		Nonce:   nonce,
		From:    from,
		Type:    payload.Type(),
		Payload: payload,
	}
}

func (tx *Trx) Equal(o *Trx) bool {
	switch {
	case tx.Version != o.Version, tx.Time != o.Time, tx.Nonce != o.Nonce, tx.Type != o.Type:
		return false
	case !tx.From.Equal(o.From), !tx.Sig.Equal(o.Sig):
		return false
	case tx.Payload == nil || o.Payload == nil:
		return tx.Payload == nil && o.Payload == nil
	}
	return tx.Payload.Equal(o.Payload)
}

func (tx *Trx) EncodeRLP(w io.Writer) error {
	var payload bytes.HexBytes
	if tx.Payload != nil {
		_tmp, err := rlp.EncodeToBytes(tx.Payload)
		if err != nil {
			return err
		}
		payload = _tmp
	}

	tmpTx := &trxRLP{
		Version: uint64(tx.Version),
		Time:    uint64(tx.Time),
		Nonce:   uint64(tx.Nonce),
		From:    tx.From,
		Type:    uint64(tx.Type),
		Payload: payload,
		Sig:     tx.Sig,
	}
	return rlp.Encode(w, tmpTx)
}

func (tx *Trx) DecodeRLP(s *rlp.Stream) error {
	rtx := &trxRLP{}
	err := s.Decode(rtx)
	if err != nil {
		return err
	}

	tx.Version = int32(rtx.Version)
	tx.Time = int64(rtx.Time)
	tx.Nonce = int64(rtx.Nonce)
	tx.From = rtx.From
	tx.Type = int32(rtx.Type)
	tx.Sig = rtx.Sig

	tx.Payload = nil
	if len(rtx.Payload) == 0 {
		return nil
	}
	kind, ok := trxKinds[tx.Type]
	if !ok {
		return xerrors.ErrInvalidTrxPayloadType
	}
	payload := kind.newPayload()
	if err := rlp.DecodeBytes(rtx.Payload, payload); err != nil {
		return err
	}
	tx.Payload = payload
	return nil
}

var (
	_ rlp.Encoder = (*Trx)(nil)
	_ rlp.Decoder = (*Trx)(nil)
)

func (tx *Trx) GetType() int32 {
	return tx.Type
}

func (tx *Trx) TypeString() string {
	return TrxTypeString(tx.GetType())
}

func (tx *Trx) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *Trx) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, tx); err != nil {
		return xerrors.ErrInvalidTrx.Wrap(err)
	}
	return nil
}

func (tx *Trx) Validate() xerrors.XError {
	if len(tx.From) != types.AddrSize {
		return xerrors.ErrInvalidAddress
	}
	if _, ok := trxKinds[tx.Type]; !ok {
		return xerrors.ErrInvalidTrxType
	}
	if tx.Payload == nil {
		return xerrors.ErrInvalidTrxPayloadType.Wrapf("the payload of tx type(%v) should not be nil", tx.Type)
	}
	if tx.Type != tx.Payload.Type() {
		return xerrors.ErrInvalidTrxPayloadType
	}
	if len(tx.Sig) == 0 {
		return xerrors.ErrInvalidTrxSig
	}
	return nil
}

func TrxTypeString(t int32) string {
	if kind, ok := trxKinds[t]; ok {
		return kind.name
	}
	return "unknown"
}
