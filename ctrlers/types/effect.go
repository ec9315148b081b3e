package types

import (
	"fmt"
	"github.com/beatoz/taxpool-go/types"
	"github.com/holiman/uint256"
)

// TransferEffect is a transfer instruction decided by a handler.
// The handler never moves value by itself; the executor applies the effect
// after every ledger change of the transaction succeeded.
type TransferEffect struct {
	From   types.Address `json:"from"`
	To     types.Address `json:"to"`
	Denom  string        `json:"denom"`
	Amount *uint256.Int  `json:"amount"`
}

func NewTransferEffect(from, to types.Address, denom string, amt *uint256.Int) *TransferEffect {
	return &TransferEffect{
		From:   from,
		To:     to,
		Denom:  denom,
		Amount: new(uint256.Int).Set(amt),
	}
}

func (eff *TransferEffect) String() string {
	return fmt.Sprintf("transfer %s%s from %v to %v", eff.Amount.Dec(), eff.Denom, eff.From, eff.To)
}
