package main

import (
	"os"
	"path/filepath"

	"github.com/beatoz/taxpool-go/cmd/commands"
	"github.com/beatoz/taxpool-go/libs/cli/cmds"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.ResetPrivValidatorCmd,
		commands.ResetAllCmd,
		commands.NewRunNodeCmd(),
		commands.ShowNodeIDCmd,
		commands.NewWalletKeyCmd(),
		commands.VersionCmd,
		cmds.NewTxCmd(),
		cmds.NewQueryCmd(),
	)

	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	executor := cli.PrepareBaseCmd(commands.RootCmd, "TAXPOOL", filepath.Join(home, ".taxpool"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
