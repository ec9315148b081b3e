package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	cfg "github.com/beatoz/taxpool-go/cmd/config"
	"github.com/beatoz/taxpool-go/ctrlers/taxpool"
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/genesis"
	"github.com/beatoz/taxpool-go/libs"
	"github.com/beatoz/taxpool-go/types"
	acrypto "github.com/beatoz/taxpool-go/types/crypto"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
)

const defaultValidatorPower = int64(10)

var (
	chainID       = "localnet"
	holderCnt     = 10
	privValCnt    = 1
	holderBalance = "100000000000000000000000000" // 100_000_000 * 10^18

	taxArgs = &TaxPoolArgs{}
)

// TaxPoolArgs is the tax pool section of a new genesis.
// An empty `Admin` means the first holder, and empty `Beneficiaries` means
// the first holder takes the whole pool.
type TaxPoolArgs struct {
	Admin         string
	Denom         string
	Beneficiaries []string
	DecimalPlaces uint32
}

func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a taxpool node",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&chainID,
		"chain_id",
		chainID,
		"the id of chain to generate")
	cmd.Flags().IntVar(
		&holderCnt,
		"holders",
		holderCnt,
		"the number of holder's account files to be generated.\n"+
			"these accounts will be saved at $TAXPOOLHOME/walkeys directory.")
	cmd.Flags().StringVar(
		&holderBalance,
		"holder_balance",
		holderBalance,
		"the initial balance of every holder")
	cmd.Flags().IntVar(
		&privValCnt,
		"priv_validator_cnt",
		privValCnt,
		"the number of validators.\n"+
			"the first validator's key file is created as $TAXPOOLHOME/config/priv_validator_key.json.\n"+
			"if there is more than one validator, the rest will be created in the $TAXPOOLHOME/walkeys/vals directory.")
	cmd.Flags().StringVar(
		&taxArgs.Admin,
		"taxpool.admin",
		"",
		"the address of the tax pool admin. the first holder by default")
	cmd.Flags().StringVar(
		&taxArgs.Denom,
		"taxpool.denom",
		types.DefaultDenom,
		"the denomination distributed by the tax pool")
	cmd.Flags().StringSliceVar(
		&taxArgs.Beneficiaries,
		"taxpool.beneficiary",
		nil,
		"a beneficiary as <address>:<weight>. it can be repeated.\n"+
			"the weights must sum up to 10^decimal_places")
	cmd.Flags().Uint32Var(
		&taxArgs.DecimalPlaces,
		"taxpool.decimal_places",
		0,
		"the precision of the beneficiary weights")
}

func initFiles(cmd *cobra.Command, args []string) error {
	s, err := libs.ReadSecret("TAXPOOL_HOLDER_SECRET", "Passphrase for initial holder's accounts: ")
	if err != nil {
		return err
	}
	defer libs.ClearCredential(s)

	return InitFilesWith(chainID, rootConfig, privValCnt, holderCnt, s, taxArgs)
}

func InitFilesWith(chainID string, config *cfg.Config, vcnt, hcnt int, hsecret []byte, taxArgs *TaxPoolArgs) error {
	// private validator
	privValKeyFile := config.PrivValidatorKeyFile()
	privValStateFile := config.PrivValidatorStateFile()

	defaultValDirPath := filepath.Join(config.RootDir, acrypto.DefaultValKeyDir)
	if err := tmos.EnsureDir(defaultValDirPath, acrypto.DefaultWalletKeyDirPerm); err != nil {
		return err
	}

	var pvs []*privval.FilePV
	for i := 0; i < vcnt; i++ {
		var pv *privval.FilePV

		_keyFilePath := filepath.Join(defaultValDirPath, fmt.Sprintf("%s%d%s", strings.TrimSuffix(filepath.Base(privValKeyFile), filepath.Ext(privValKeyFile)), i, filepath.Ext(privValKeyFile)))
		_keyStateFilePath := filepath.Join(defaultValDirPath, fmt.Sprintf("%s%d%s", strings.TrimSuffix(filepath.Base(privValStateFile), filepath.Ext(privValStateFile)), i, filepath.Ext(privValStateFile)))
		if i == 0 {
			_keyFilePath, _keyStateFilePath = privValKeyFile, privValStateFile
		}

		if tmos.FileExists(_keyFilePath) {
			pv = privval.LoadFilePV(_keyFilePath, _keyStateFilePath)
			logger.Info("Found private validator", "keyFile", _keyFilePath,
				"stateFile", _keyStateFilePath)
		} else {
			pv = privval.GenFilePV(_keyFilePath, _keyStateFilePath)
			pv.Save()
			logger.Info("Generated private validator", "keyFile", _keyFilePath,
				"stateFile", _keyStateFilePath)
		}
		pvs = append(pvs, pv)
	}

	nodeKeyFile := config.NodeKeyFile()
	if tmos.FileExists(nodeKeyFile) {
		logger.Info("Found node key", "path", nodeKeyFile)
	} else {
		if _, err := p2p.LoadOrGenNodeKey(nodeKeyFile); err != nil {
			return err
		}
		logger.Info("Generated node key", "path", nodeKeyFile)
	}

	// genesis file
	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	balance, err := types.ParseAmount(holderBalance)
	if err != nil {
		return err
	}

	defaultWalkeyDirPath := filepath.Join(config.RootDir, acrypto.DefaultWalletKeyDir)
	if err := tmos.EnsureDir(defaultWalkeyDirPath, acrypto.DefaultWalletKeyDirPerm); err != nil {
		return err
	}
	walkeys, err := acrypto.CreateWalletKeyFiles(hsecret, hcnt, defaultWalkeyDirPath)
	if err != nil {
		return err
	}
	logger.Info("Generated initial holder's wallet key files", "path", defaultWalkeyDirPath, "count", len(walkeys))

	var valset []tmtypes.GenesisValidator
	for i, pv := range pvs {
		pubKey, err := pv.GetPubKey()
		if err != nil {
			return fmt.Errorf("can't get pubkey: %w", err)
		}
		valset = append(valset, tmtypes.GenesisValidator{
			Address: pubKey.Address(),
			PubKey:  pubKey,
			Power:   defaultValidatorPower,
			Name:    fmt.Sprintf("validator%d", i),
		})
	}

	holders := make([]*genesis.GenesisAssetHolder, len(walkeys))
	for i, wk := range walkeys {
		holders[i] = &genesis.GenesisAssetHolder{
			Address: wk.Address,
			Denom:   types.DefaultDenom,
			Balance: new(uint256.Int).Set(balance),
		}
	}

	taxPool, err := genesisTaxPool(taxArgs, walkeys)
	if err != nil {
		return err
	}

	genDoc, err := genesis.NewGenesisDoc(chainID, tmtypes.DefaultConsensusParams(), valset, &genesis.GenesisAppState{
		AssetHolders: holders,
		TaxPool:      taxPool,
	})
	if err != nil {
		return err
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genFile)
	return nil
}

func genesisTaxPool(args *TaxPoolArgs, walkeys []*acrypto.WalletKey) (*genesis.GenesisTaxPool, error) {
	ret := &genesis.GenesisTaxPool{
		Denom:         args.Denom,
		DecimalPlaces: args.DecimalPlaces,
	}

	if args.Admin != "" {
		admin, err := types.HexToAddress(args.Admin)
		if err != nil {
			return nil, fmt.Errorf("invalid admin: %w", err)
		}
		ret.Admin = admin
	} else if len(walkeys) > 0 {
		ret.Admin = walkeys[0].Address
	} else {
		return nil, fmt.Errorf("no admin of the tax pool")
	}

	if len(args.Beneficiaries) > 0 {
		list, err := ctrlertypes.ParseBeneficiaryWeights(args.Beneficiaries)
		if err != nil {
			return nil, err
		}
		ret.Beneficiaries = list
	} else if len(walkeys) > 0 {
		d, xerr := taxpool.Denominator(args.DecimalPlaces)
		if xerr != nil {
			return nil, xerr
		}
		ret.Beneficiaries = []*ctrlertypes.BeneficiaryWeight{
			{Address: walkeys[0].Address, Weight: d},
		}
	}

	if xerr := taxpool.ValidateWeights(ret.Beneficiaries, ret.DecimalPlaces); xerr != nil {
		return nil, xerr
	}
	return ret, nil
}
