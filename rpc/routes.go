package rpc

import (
	tmrpccore "github.com/tendermint/tendermint/rpc/core"
	tmrpcserver "github.com/tendermint/tendermint/rpc/jsonrpc/server"
)

// AddRoutes registers the tax pool queries on the rpc server of tendermint.
// It must be called before the node starts.
func AddRoutes() {
	tmrpccore.Routes["account"] = tmrpcserver.NewRPCFunc(QueryAccount, "addr,denom,height")
	tmrpccore.Routes["beneficiaries"] = tmrpcserver.NewRPCFunc(QueryTaxPool, "height")
	tmrpccore.Routes["beneficiary_balance"] = tmrpcserver.NewRPCFunc(QueryBeneficiaryBalance, "addr,height")
	tmrpccore.Routes["admin"] = tmrpcserver.NewRPCFunc(QueryTaxPool, "height")
	tmrpccore.Routes["pool"] = tmrpcserver.NewRPCFunc(QueryTaxPool, "height")
	tmrpccore.Routes["config"] = tmrpcserver.NewRPCFunc(QueryTaxPool, "height")

	// addresses in events are upper-case hex.
	tmrpccore.Routes["subscribe"] = tmrpcserver.NewWSRPCFunc(Subscribe, "query")
	tmrpccore.Routes["unsubscribe"] = tmrpcserver.NewWSRPCFunc(Unsubscribe, "query")
	tmrpccore.Routes["tx_search"] = tmrpcserver.NewRPCFunc(TxSearch, "query,prove,page,per_page,order_by")
}
