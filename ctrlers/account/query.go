package account

import (
	"strings"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

// Query answers `account` and `account/<denom>`.
// `req.Data` is the address.
func (ctrler *AcctCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	denom := types.DefaultDenom
	if _, d, ok := strings.Cut(req.Path, "/"); ok && d != "" {
		denom = d
	}
	if err := types.ValidateAddress(req.Data); err != nil {
		return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
	}

	simu, xerr := ctrler.SimuAcctCtrlerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}

	acct := simu.FindAccount(req.Data, denom, false)
	if acct == nil {
		acct = ctrlertypes.NewAccount(req.Data, denom)
	}

	// NOTE
	// `Account::Balance`, which type is *uint256.Int, is marshaled to a decimal string.
	_acct := &struct {
		Address types.Address `json:"address"`
		Denom   string        `json:"denom"`
		Nonce   int64         `json:"nonce"`
		Balance string        `json:"balance"`
	}{
		Address: acct.Address,
		Denom:   acct.Denom,
		Nonce:   acct.GetNonce(),
		Balance: acct.GetBalance().Dec(),
	}
	if raw, err := tmjson.Marshal(_acct); err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	} else {
		return raw, nil
	}
}
