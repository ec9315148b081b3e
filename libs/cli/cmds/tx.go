package cmds

import (
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

var decimalPlaces uint32

// NewTxCmd returns `tx` and its sub commands.
func NewTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Send a tx to a taxpool node",
	}
	AddTxFlags(cmd)
	cmd.AddCommand(
		NewCmd_Transfer(),
		NewCmd_Withdraw(),
		NewCmd_ChangeAdmin(),
		NewCmd_SetBeneficiaries(),
		NewCmd_EmergencyWithdraw(),
	)
	return cmd
}

func NewCmd_Transfer() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer <to> <amount>",
		Short: "transfer coins. sending to the pool address funds the tax pool",
		Args:  cobra.ExactArgs(2),
		RunE:  transfer,
	}
	addDenomFlag(cmd)
	return cmd
}

func transfer(cmd *cobra.Command, args []string) error {
	to, err := types.HexToAddress(args[0])
	if err != nil {
		return err
	}
	amt, err := types.ParseAmount(args[1])
	if err != nil {
		return err
	}
	return send(&ctrlertypes.TrxPayloadTransfer{To: to, Denom: rootFlags.Denom, Amount: amt})
}

func NewCmd_Withdraw() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw [amount]",
		Short: "withdraw the claimable amount, or a part of it, from the tax pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := withdrawPayload(args)
			if err != nil {
				return err
			}
			return send(payload)
		},
	}
}

func withdrawPayload(args []string) (*ctrlertypes.TrxPayloadWithdraw, error) {
	var amt *uint256.Int
	if len(args) > 0 {
		var err error
		if amt, err = types.ParseAmount(args[0]); err != nil {
			return nil, err
		}
	}
	return &ctrlertypes.TrxPayloadWithdraw{Amount: amt}, nil
}

func NewCmd_ChangeAdmin() *cobra.Command {
	return &cobra.Command{
		Use:   "change-admin <new admin>",
		Short: "hand over the administration of the tax pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := types.HexToAddress(args[0])
			if err != nil {
				return err
			}
			return send(&ctrlertypes.TrxPayloadChangeAdmin{NewAdmin: addr})
		},
	}
}

func NewCmd_SetBeneficiaries() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-beneficiaries <address>:<weight>...",
		Short: "settle every beneficiary and replace the weight table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := ctrlertypes.ParseBeneficiaryWeights(args)
			if err != nil {
				return err
			}
			return send(&ctrlertypes.TrxPayloadSetBeneficiaries{Beneficiaries: list, DecimalPlaces: decimalPlaces})
		},
	}
	cmd.Flags().Uint32Var(&decimalPlaces, "decimal_places", 0, "the precision of the weights")
	return cmd
}

func NewCmd_EmergencyWithdraw() *cobra.Command {
	return &cobra.Command{
		Use:   "emergency-withdraw",
		Short: "move the whole pool balance to the admin and freeze the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(&ctrlertypes.TrxPayloadEmergencyWithdraw{})
		},
	}
}

func send(payload ctrlertypes.ITrxPayload) error {
	c, err := newClient(rootFlags.RPCUrl)
	if err != nil {
		return err
	}
	ret, err := c.sendTrx(rootFlags.From, payload)
	if ret != nil {
		_ = printJSON(&struct {
			Hash   string `json:"hash"`
			Height int64  `json:"height"`
		}{
			Hash:   ret.Hash.String(),
			Height: ret.Height,
		})
	}
	return err
}
