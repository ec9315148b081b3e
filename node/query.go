package node

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/beatoz/taxpool-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type queryHandler func(req abcitypes.RequestQuery) ([]byte, xerrors.XError)

// queryRoutes maps the first path segment to its handler.
// "account/<denom>" is routed by "account".
func (ctrler *TaxPoolApp) queryRoutes() map[string]queryHandler {
	taxpool := ctrler.taxCtrler.Query
	return map[string]queryHandler{
		"chain_id": func(abcitypes.RequestQuery) ([]byte, xerrors.XError) {
			return []byte(ctrler.rootConfig.ChainId()), nil
		},
		"block_height": func(abcitypes.RequestQuery) ([]byte, xerrors.XError) {
			bz := make([]byte, 8)
			binary.BigEndian.PutUint64(bz, uint64(ctrler.lastBlockCtx.Height()))
			return bz, nil
		},
		"txn": func(abcitypes.RequestQuery) ([]byte, xerrors.XError) {
			return []byte(strconv.Quote(strconv.FormatUint(ctrler.metaDB.Txn(), 10))), nil
		},
		"account":             ctrler.acctCtrler.Query,
		"beneficiaries":       taxpool,
		"beneficiary_balance": taxpool,
		"admin":               taxpool,
		"config":              taxpool,
		"pool":                taxpool,
	}
}

func (ctrler *TaxPoolApp) Query(req abcitypes.RequestQuery) abcitypes.ResponseQuery {
	if req.Height == 0 {
		req.Height = ctrler.lastBlockCtx.Height()
	}

	key := req.Data
	if len(key) > 32 {
		key = ethcrypto.Keccak256(key)
	}
	response := abcitypes.ResponseQuery{
		Code:   abcitypes.CodeTypeOK,
		Key:    key,
		Height: req.Height,
	}

	var xerr xerrors.XError
	route, sub, _ := strings.Cut(req.Path, "/")
	if handler, ok := ctrler.queryRoutes()[route]; !ok || (sub != "" && route != "account") {
		xerr = xerrors.ErrInvalidQueryPath
	} else {
		response.Value, xerr = handler(req)
	}

	if xerr != nil {
		ctrler.logger.Error("query failed", "path", req.Path, "error", xerr)
		response.Code = xerr.Code()
		response.Log = xerr.Error()
		response.Value = nil
	}
	return response
}
