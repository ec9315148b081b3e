package commands

import (
	"os"

	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
)

// ResetAllCmd removes the database of this node and resets the priv validator state.
var ResetAllCmd = &cobra.Command{
	Use:     "unsafe-reset-all",
	Aliases: []string{"unsafe_reset_all"},
	Short:   "(unsafe) Remove all the data and WAL, reset this node's validator to genesis state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resetAll(rootConfig.DBDir(), rootConfig.P2P.AddrBookFile(),
			rootConfig.PrivValidatorKeyFile(), rootConfig.PrivValidatorStateFile())
	},
}

// ResetPrivValidatorCmd resets the private validator files.
var ResetPrivValidatorCmd = &cobra.Command{
	Use:     "unsafe-reset-priv-validator",
	Aliases: []string{"unsafe_reset_priv_validator"},
	Short:   "(unsafe) Reset this node's validator to genesis state",
	Run: func(cmd *cobra.Command, args []string) {
		resetFilePV(rootConfig.PrivValidatorKeyFile(), rootConfig.PrivValidatorStateFile())
	},
}

// ShowNodeIDCmd dumps node's ID to the standard output.
var ShowNodeIDCmd = &cobra.Command{
	Use:     "show-node-id",
	Aliases: []string{"show_node_id"},
	Short:   "Show this node's ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeKey, err := p2p.LoadNodeKey(rootConfig.NodeKeyFile())
		if err != nil {
			return err
		}
		cmd.Println(nodeKey.ID())
		return nil
	},
}

func resetAll(dbDir, addrBookFile, privValKeyFile, privValStateFile string) error {
	if err := os.Remove(addrBookFile); err == nil {
		logger.Info("Removed existing address book", "file", addrBookFile)
	} else if !os.IsNotExist(err) {
		logger.Error("Error removing address book", "file", addrBookFile, "err", err)
	}

	if err := os.RemoveAll(dbDir); err == nil {
		logger.Info("Removed all blockchain history", "dir", dbDir)
	} else {
		logger.Error("Error removing all blockchain history", "dir", dbDir, "err", err)
	}
	if err := tmos.EnsureDir(dbDir, 0o700); err != nil {
		return err
	}

	resetFilePV(privValKeyFile, privValStateFile)
	return nil
}

func resetFilePV(privValKeyFile, privValStateFile string) {
	if tmos.FileExists(privValKeyFile) {
		pv := privval.LoadFilePVEmptyState(privValKeyFile, privValStateFile)
		pv.Reset()
		logger.Info("Reset private validator file to genesis state", "keyFile", privValKeyFile,
			"stateFile", privValStateFile)
	} else {
		pv := privval.GenFilePV(privValKeyFile, privValStateFile)
		pv.Save()
		logger.Info("Generated private validator file", "keyFile", privValKeyFile,
			"stateFile", privValStateFile)
	}
}
