package rpc

import (
	"fmt"
	"regexp"
	"strings"

	abytes "github.com/beatoz/taxpool-go/types/bytes"
	"github.com/beatoz/taxpool-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmbytes "github.com/tendermint/tendermint/libs/bytes"
	tmrpccore "github.com/tendermint/tendermint/rpc/core"
	tmrpccoretypes "github.com/tendermint/tendermint/rpc/core/types"
	tmrpctypes "github.com/tendermint/tendermint/rpc/jsonrpc/types"
)

type QueryResult struct {
	Value abcitypes.ResponseQuery `json:"value"`
}

func QueryAccount(ctx *tmrpctypes.Context, addr abytes.HexBytes, denom string, heightPtr *int64) (*QueryResult, error) {
	path := routePath(ctx)
	if denom != "" {
		path += "/" + denom
	}
	return query(ctx, path, addr, heightPtr)
}

func QueryBeneficiaryBalance(ctx *tmrpctypes.Context, addr abytes.HexBytes, heightPtr *int64) (*QueryResult, error) {
	return query(ctx, routePath(ctx), addr, heightPtr)
}

// QueryTaxPool serves the queries that take no parameter such as `beneficiaries` and `admin`.
func QueryTaxPool(ctx *tmrpctypes.Context, heightPtr *int64) (*QueryResult, error) {
	return query(ctx, routePath(ctx), nil, heightPtr)
}

func query(ctx *tmrpctypes.Context, path string, data []byte, heightPtr *int64) (*QueryResult, error) {
	height, err := queryHeight(heightPtr)
	if err != nil {
		return nil, err
	}
	resp, err := tmrpccore.ABCIQuery(ctx, path, tmbytes.HexBytes(data), height, false)
	if err != nil {
		return nil, err
	}
	return &QueryResult{resp.Response}, nil
}

// queryHeight maps a missing height to 0, the latest one.
func queryHeight(heightPtr *int64) (int64, error) {
	if heightPtr == nil {
		return 0, nil
	}
	if *heightPtr < 0 {
		return 0, fmt.Errorf("negative height: %d", *heightPtr)
	}
	return *heightPtr, nil
}

// routePath is the name of the route serving ctx, over JSON-RPC or URI.
func routePath(ctx *tmrpctypes.Context) string {
	if ctx.JSONReq != nil {
		return ctx.JSONReq.Method
	}
	if ctx.HTTPReq != nil {
		return strings.Trim(ctx.HTTPReq.URL.Path, "/")
	}
	return ""
}

var reHexValue = regexp.MustCompile(`(?i)(0x)?([a-f0-9]{40,})`)

// normalizeQuery rewrites addresses and hashes in an event query
// the way events carry them: upper case without 0x.
func normalizeQuery(q string) string {
	return reHexValue.ReplaceAllStringFunc(q, func(m string) string {
		return strings.ToUpper(reHexValue.FindStringSubmatch(m)[2])
	})
}

func Subscribe(ctx *tmrpctypes.Context, query string) (*tmrpccoretypes.ResultSubscribe, error) {
	// return error when the event subscription request is received over http session.
	if ctx.WSConn == nil || ctx.JSONReq == nil {
		return nil, xerrors.NewOrdinary("error connection type: no websocket connection")
	}
	return tmrpccore.Subscribe(ctx, normalizeQuery(query))
}

func Unsubscribe(ctx *tmrpctypes.Context, query string) (*tmrpccoretypes.ResultUnsubscribe, error) {
	return tmrpccore.Unsubscribe(ctx, normalizeQuery(query))
}

func TxSearch(
	ctx *tmrpctypes.Context,
	query string,
	prove bool,
	pagePtr, perPagePtr *int,
	orderBy string,
) (*tmrpccoretypes.ResultTxSearch, error) {
	return tmrpccore.TxSearch(ctx, normalizeQuery(query), prove, pagePtr, perPagePtr, orderBy)
}
