package commands

import (
	"bytes"
	"fmt"
	"os"

	cfg "github.com/beatoz/taxpool-go/cmd/config"
	"github.com/beatoz/taxpool-go/genesis"
	"github.com/beatoz/taxpool-go/node"
	"github.com/spf13/cobra"
	tmcmds "github.com/tendermint/tendermint/cmd/tendermint/commands"
	"github.com/tendermint/tendermint/crypto/tmhash"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/types"
)

var genesisHash []byte

// AddNodeFlags adds the node flags of tendermint and the ones of the ledgers.
func AddNodeFlags(cmd *cobra.Command) {
	tmcmds.AddNodeFlags(cmd)
	cmd.Flags().BytesHexVar(
		&genesisHash,
		"taxpool.genesis_hash",
		[]byte{},
		"optional SHA-256 hash of the genesis file, checked before the node starts")
	cmd.Flags().Int("ledger_cache_size", rootConfig.LedgerCacheSize, "node cache size of the ledgers")
}

// NewRunNodeCmd returns the command that allows the CLI to start a node.
func NewRunNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"run"},
		Short:   "Run the taxpool node",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkGenesisHash(rootConfig); err != nil {
				return err
			}

			genDoc, err := types.GenesisDocFromFile(rootConfig.GenesisFile())
			if err != nil {
				return fmt.Errorf("can't load genesis file: %w", err)
			}
			if _, err := genesis.AppStateFromDoc(genDoc); err != nil {
				return fmt.Errorf("invalid genesis app state: %w", err)
			}
			rootConfig.SetChainId(genDoc.ChainID)
			logger.Info("TaxPool Blockchain", "chainId", rootConfig.ChainId())

			n, err := node.NewTaxPoolNode(rootConfig, logger)
			if err != nil {
				return fmt.Errorf("failed to create node: %w", err)
			}

			if err := n.Start(); err != nil {
				return fmt.Errorf("failed to start node: %w", err)
			}

			logger.Info("Started node", "nodeInfo", n.Switch().NodeInfo())

			tmos.TrapSignal(logger, func() {
				if !n.IsRunning() {
					return
				}
				if err := n.Stop(); err != nil {
					logger.Error("unable to stop the node", "error", err)
				}
				// closes the ledgers of the app
				if err := n.ProxyApp().Stop(); err != nil {
					logger.Error("unable to stop the proxy app", "error", err)
				}
			})
			select {}
		},
	}

	AddNodeFlags(cmd)
	return cmd
}

// checkGenesisHash compares --taxpool.genesis_hash, if given, with the sha256 of the genesis file.
func checkGenesisHash(config *cfg.Config) error {
	if len(genesisHash) == 0 || config.Genesis == "" {
		return nil
	}
	bz, err := os.ReadFile(config.GenesisFile())
	if err != nil {
		return fmt.Errorf("can't read genesis file: %w", err)
	}
	if actual := tmhash.Sum(bz); !bytes.Equal(genesisHash, actual) {
		return fmt.Errorf("--taxpool.genesis_hash=%X does not match %s hash: %X",
			genesisHash, config.GenesisFile(), actual)
	}
	return nil
}
