package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beatoz/taxpool-go/genesis"
	acrypto "github.com/beatoz/taxpool-go/types/crypto"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/require"
	tmcfg "github.com/tendermint/tendermint/config"
	tmlog "github.com/tendermint/tendermint/libs/log"
	tmtypes "github.com/tendermint/tendermint/types"
)

func init() {
	acrypto.ScryptN, acrypto.ScryptP = keystore.LightScryptN, keystore.LightScryptP
}

func testRoot(t *testing.T) string {
	logger = tmlog.NewNopLogger()
	root := filepath.Join(os.TempDir(), "init-cmd-test")
	require.NoError(t, os.RemoveAll(root))
	tmcfg.EnsureRoot(root)
	t.Cleanup(func() { _ = os.RemoveAll(root) })
	return root
}

func Test_InitFiles(t *testing.T) {
	config := rootConfig
	config.SetRoot(testRoot(t))

	require.NoError(t, InitFilesWith("init-test-chain-id", config, 3, 4, []byte("1111"), &TaxPoolArgs{DecimalPlaces: 3}))

	genDoc, err := tmtypes.GenesisDocFromFile(config.GenesisFile())
	require.NoError(t, err)
	require.Equal(t, "init-test-chain-id", genDoc.ChainID)
	require.Len(t, genDoc.Validators, 3)

	appState, err := genesis.AppStateFromDoc(genDoc)
	require.NoError(t, err)

	require.Len(t, appState.AssetHolders, 4)
	for _, h := range appState.AssetHolders {
		require.Equal(t, holderBalance, h.Balance.Dec())
	}

	// the first holder is the admin and the only beneficiary.
	first := appState.AssetHolders[0].Address
	require.NotNil(t, appState.TaxPool)
	require.Equal(t, first, appState.TaxPool.Admin)
	require.Len(t, appState.TaxPool.Beneficiaries, 1)
	require.Equal(t, first, appState.TaxPool.Beneficiaries[0].Address)
	require.Equal(t, uint64(1000), appState.TaxPool.Beneficiaries[0].Weight)

	// holder key files can be unlocked.
	files, err := os.ReadDir(filepath.Join(config.RootDir, acrypto.DefaultWalletKeyDir))
	require.NoError(t, err)
	cnt := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		wk, err := acrypto.OpenWalletKey(filepath.Join(config.RootDir, acrypto.DefaultWalletKeyDir, f.Name()))
		require.NoError(t, err)
		require.NoError(t, wk.Unlock([]byte("1111")))
		cnt++
	}
	require.Equal(t, 4, cnt)

	// a second run keeps the genesis
	require.NoError(t, InitFilesWith("other-chain-id", config, 1, 1, []byte("1111"), &TaxPoolArgs{}))
	genDoc2, err := tmtypes.GenesisDocFromFile(config.GenesisFile())
	require.NoError(t, err)
	require.Equal(t, genDoc.ChainID, genDoc2.ChainID)
}

func Test_InitFiles_Beneficiaries(t *testing.T) {
	config := rootConfig
	config.SetRoot(testRoot(t))

	benA := "0x" + "aa00000000000000000000000000000000000000"
	benB := "0x" + "bb00000000000000000000000000000000000000"

	err := InitFilesWith("init-test-chain-id", config, 1, 1, []byte("1111"), &TaxPoolArgs{
		Admin:         benB,
		Beneficiaries: []string{benA + ":350", benB + ":600"},
		DecimalPlaces: 3,
	})
	require.Error(t, err)
	require.True(t, xerrors.From(err).Contains(xerrors.ErrInvalidWeights))
	require.NoFileExists(t, config.GenesisFile())

	require.NoError(t, InitFilesWith("init-test-chain-id", config, 1, 1, []byte("1111"), &TaxPoolArgs{
		Admin:         benB,
		Beneficiaries: []string{benA + ":350", benB + ":650"},
		DecimalPlaces: 3,
	}))
	genDoc, err := tmtypes.GenesisDocFromFile(config.GenesisFile())
	require.NoError(t, err)
	appState, err := genesis.AppStateFromDoc(genDoc)
	require.NoError(t, err)
	require.Equal(t, "BB00000000000000000000000000000000000000", appState.TaxPool.Admin.String())
	require.Len(t, appState.TaxPool.Beneficiaries, 2)
	require.Equal(t, uint64(650), appState.TaxPool.Beneficiaries[1].Weight)
}
