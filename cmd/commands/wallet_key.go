package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beatoz/taxpool-go/libs"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types/bytes"
	acrypto "github.com/beatoz/taxpool-go/types/crypto"
	"github.com/spf13/cobra"
)

var (
	changePass bool
	showPrv    bool
	newKeyCnt  int
)

func AddWalletKeyCmdFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(
		&changePass,
		"change-passphrase",
		"c",
		false,
		"Change passphrase of a wallet key file")
	cmd.Flags().BoolVar(
		&showPrv,
		"show-private",
		false,
		"Print the private key of a wallet key file")
	cmd.Flags().IntVarP(
		&newKeyCnt,
		"new",
		"n",
		0,
		"Generate new wallet key files in the given directory")
}

func NewWalletKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wallet-key [file or dir]...",
		Aliases: []string{"wallet_key"},
		Short:   "Wallet key file management",
		Args:    cobra.MinimumNArgs(1),
		RunE:    handleWalletKey,
	}

	AddWalletKeyCmdFlag(cmd)

	return cmd
}

func handleWalletKey(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if strings.HasPrefix(arg, "~") {
			if home, err := os.UserHomeDir(); err != nil {
				return err
			} else {
				arg = strings.Replace(arg, "~", home, 1)
			}
		}

		if newKeyCnt > 0 {
			if err := newWalletKeys(arg, newKeyCnt); err != nil {
				return err
			}
			continue
		}

		fileInfo, err := os.Stat(arg)
		if err != nil {
			return err
		}

		if changePass {
			if err := resetPassphrase(arg); err != nil {
				return err
			}
		} else if fileInfo.IsDir() {
			if err := showWalletKeyDir(arg); err != nil {
				return err
			}
		} else {
			if err := showWalletKeyFile(arg); err != nil {
				return err
			}
		}
	}
	return nil
}

func newWalletKeys(dir string, cnt int) error {
	s, err := libs.ReadCredential(fmt.Sprintf("Passphrase for new keys in %v: ", dir))
	if err != nil {
		return err
	}
	defer libs.ClearCredential(s)

	wks, err := acrypto.CreateWalletKeyFiles(s, cnt, dir)
	if err != nil {
		return err
	}
	for _, wk := range wks {
		fmt.Println(wk.Address, wk.Path())
	}
	return nil
}

func showWalletKeyDir(path string) error {
	return filepath.WalkDir(path, func(entry string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := showWalletKeyFile(entry); err != nil {
			return err
		}
		fmt.Println("---")
		return nil
	})
}

func showWalletKeyFile(path string) error {
	wk, err := acrypto.OpenWalletKey(path)
	if err != nil {
		return err
	}

	tmp := &struct {
		Address bytes.HexBytes `json:"address"`
		Path    string         `json:"path"`
		PrvKey  bytes.HexBytes `json:"prvKey,omitempty"`
		PubKey  bytes.HexBytes `json:"pubKey,omitempty"`
	}{
		Address: wk.Address,
		Path:    wk.Path(),
	}

	if showPrv {
		s, err := libs.ReadCredential(fmt.Sprintf("Passphrase for %v: ", filepath.Base(path)))
		if err != nil {
			return err
		}
		defer libs.ClearCredential(s)

		if err := wk.Unlock(s); err != nil {
			return err
		}
		defer wk.Lock()

		tmp.PrvKey = wk.PrvKey()
		tmp.PubKey = wk.PubKey()
	}

	bz, err := jsonx.MarshalIndent(tmp, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}

func resetPassphrase(path string) error {
	wk, err := acrypto.OpenWalletKey(path)
	if err != nil {
		return err
	}

	pass0, err := libs.ReadCredential(fmt.Sprintf("Current Passphrase for %v: ", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer bytes.ClearBytes(pass0)
	if err := wk.Unlock(pass0); err != nil {
		return err
	}
	defer wk.Lock()

	pass1, err := libs.ReadCredential(fmt.Sprintf("New Passphrase for %v: ", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer bytes.ClearBytes(pass1)

	return wk.ChangePassphrase(pass1)
}
