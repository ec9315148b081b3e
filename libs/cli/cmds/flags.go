package cmds

import (
	"github.com/beatoz/taxpool-go/types"
	"github.com/spf13/cobra"
)

type flags struct {
	RPCUrl string
	From   string
	To     string
	Amount string
	Denom  string
	Height int64
}

var rootFlags = &flags{}

// AddTxFlags registers the flags shared by the commands sending a tx.
func AddTxFlags(cmd *cobra.Command) {
	addRPCFlag(cmd)
	cmd.PersistentFlags().StringVar(&rootFlags.From, "from", "", "wallet key file of the sender")
}

// AddQueryFlags registers the flags shared by the query commands.
func AddQueryFlags(cmd *cobra.Command) {
	addRPCFlag(cmd)
	cmd.PersistentFlags().Int64Var(&rootFlags.Height, "height", 0, "block height to query, the last block by default")
}

func addRPCFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&rootFlags.RPCUrl, "rpc", "http://localhost:26657", "rpc address of a taxpool node")
}

func addDenomFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rootFlags.Denom, "denom", types.DefaultDenom, "denomination")
}
