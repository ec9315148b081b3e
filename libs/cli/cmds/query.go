package cmds

import (
	"errors"

	"github.com/beatoz/taxpool-go/ctrlers/taxpool"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/spf13/cobra"
)

// NewQueryCmd returns `query` and its sub commands.
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the state of a taxpool node",
	}
	AddQueryFlags(cmd)
	cmd.AddCommand(
		NewCmd_Account(),
		NewCmd_Beneficiaries(),
		NewCmd_Balance(),
		NewCmd_Admin(),
		NewCmd_Pool(),
	)
	return cmd
}

func NewCmd_Account() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account <address>",
		Short: "get account",
		Args:  cobra.ExactArgs(1),
		RunE:  account,
	}
	addDenomFlag(cmd)
	return cmd
}

func account(cmd *cobra.Command, args []string) error {
	addr, err := types.HexToAddress(args[0])
	if err != nil {
		return err
	}
	c, err := newClient(rootFlags.RPCUrl)
	if err != nil {
		return err
	}
	acct, err := c.account(addr, rootFlags.Denom)
	if err != nil {
		return err
	}
	return printJSON(acct)
}

func NewCmd_Beneficiaries() *cobra.Command {
	return &cobra.Command{
		Use:   "beneficiaries",
		Short: "get the weight table of the tax pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return queryAndPrint("beneficiaries", nil, &taxpool.BeneficiariesResponse{})
		},
	}
}

func NewCmd_Balance() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "get the claimable amount of a beneficiary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := types.HexToAddress(args[0])
			if err != nil {
				return err
			}
			return queryAndPrint("beneficiary_balance", addr, &taxpool.BalanceResponse{})
		},
	}
}

func NewCmd_Admin() *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "get the admin of the tax pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return queryAndPrint("admin", nil, &taxpool.AdminResponse{})
		},
	}
}

func NewCmd_Pool() *cobra.Command {
	return &cobra.Command{
		Use:   "pool",
		Short: "get the accounting state of the tax pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return queryAndPrint("pool", nil, &taxpool.PoolResponse{})
		},
	}
}

func queryAndPrint(path string, data []byte, resp interface{}) error {
	c, err := newClient(rootFlags.RPCUrl)
	if err != nil {
		return err
	}
	bz, err := c.query(path, data, rootFlags.Height)
	if err != nil {
		return err
	}
	if len(bz) == 0 {
		return errors.New("empty response")
	}
	if err := jsonx.Unmarshal(bz, resp); err != nil {
		return err
	}
	return printJSON(resp)
}
