package types

import (
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/bytes"
	"github.com/beatoz/taxpool-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TrxContext is a decoded and authenticated tx in a block,
// with what its execution produces.
type TrxContext struct {
	*BlockContext

	Tx     *Trx
	TxIdx  int
	TxHash bytes.HexBytes
	Exec   bool

	Sender       types.Address
	SenderPubKey bytes.HexBytes

	Events []abcitypes.Event
	// Effects are applied by the executor only if the handler succeeds.
	Effects []*TransferEffect
}

// NewTrxContext decodes txbz and recovers its sender.
// It fails unless the tx is signed by `from` for the chain of bctx.
func NewTrxContext(txbz []byte, bctx *BlockContext, exec bool) (*TrxContext, xerrors.XError) {
	tx := &Trx{}
	if xerr := tx.Decode(txbz); xerr != nil {
		return nil, xerr
	}
	if xerr := tx.Validate(); xerr != nil {
		return nil, xerr
	}
	sender, pubKey, xerr := VerifyTrx(tx, bctx.ChainID())
	if xerr != nil {
		return nil, xerr
	}

	return &TrxContext{
		BlockContext: bctx,
		Tx:           tx,
		TxIdx:        bctx.TxsCnt(),
		TxHash:       tmtypes.Tx(txbz).Hash(),
		Exec:         exec,
		Sender:       sender,
		SenderPubKey: pubKey,
	}, nil
}

func (ctx *TrxContext) AddEffect(eff *TransferEffect) {
	ctx.Effects = append(ctx.Effects, eff)
}

func (ctx *TrxContext) AddEvent(evt abcitypes.Event) {
	ctx.Events = append(ctx.Events, evt)
}
