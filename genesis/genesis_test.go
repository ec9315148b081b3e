package genesis

import (
	"testing"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/ed25519"
	tmtypes "github.com/tendermint/tendermint/types"
)

func testAppState() *GenesisAppState {
	a := types.Address(bytesOf(0xaa))
	b := types.Address(bytesOf(0xbb))
	return &GenesisAppState{
		AssetHolders: []*GenesisAssetHolder{
			{Address: a, Balance: uint256.NewInt(1000)},
			{Address: b, Denom: "uatom", Balance: uint256.MustFromDecimal("100000000000000000000000000")},
		},
		TaxPool: &GenesisTaxPool{
			Admin:         a,
			Beneficiaries: []*ctrlertypes.BeneficiaryWeight{{Address: a, Weight: 40}, {Address: b, Weight: 60}},
			DecimalPlaces: 2,
		},
	}
}

func bytesOf(v byte) []byte {
	bz := make([]byte, types.AddrSize)
	for i := range bz {
		bz[i] = v
	}
	return bz
}

func testValidators() []tmtypes.GenesisValidator {
	pub := ed25519.GenPrivKey().PubKey()
	return []tmtypes.GenesisValidator{{Address: pub.Address(), PubKey: pub, Power: 10, Name: "val0"}}
}

func TestHolderJSON(t *testing.T) {
	h := testAppState().AssetHolders[1]
	bz, err := jsonx.Marshal(h)
	require.NoError(t, err)
	require.Contains(t, string(bz), `"balance":"100000000000000000000000000"`)

	var h2 GenesisAssetHolder
	require.NoError(t, jsonx.Unmarshal(bz, &h2))
	require.Equal(t, h.Address, h2.Address)
	require.Equal(t, "uatom", h2.DenomOrDefault())
	require.Equal(t, h.Balance.Dec(), h2.Balance.Dec())

	require.Error(t, jsonx.Unmarshal([]byte(`{"address":"AA","balance":"-1"}`), &h2))
	require.Equal(t, types.DefaultDenom, testAppState().AssetHolders[0].DenomOrDefault())
}

func TestAppStateHash(t *testing.T) {
	h0, err := testAppState().Hash()
	require.NoError(t, err)
	require.Len(t, h0, 32)

	changed := testAppState()
	changed.TaxPool.Beneficiaries[0].Weight = 41
	h1, err := changed.Hash()
	require.NoError(t, err)
	require.NotEqual(t, h0, h1)

	changed = testAppState()
	changed.AssetHolders[0].Balance = uint256.NewInt(1001)
	h1, err = changed.Hash()
	require.NoError(t, err)
	require.NotEqual(t, h0, h1)
}

func TestNewGenesisDoc(t *testing.T) {
	doc, err := NewGenesisDoc("genesis-test-chain", tmtypes.DefaultConsensusParams(), testValidators(), testAppState())
	require.NoError(t, err)
	require.Equal(t, "genesis-test-chain", doc.ChainID)
	require.False(t, doc.GenesisTime.IsZero())

	appState, err := AppStateFromDoc(doc)
	require.NoError(t, err)
	require.Len(t, appState.AssetHolders, 2)
	require.Equal(t, uint32(2), appState.TaxPool.DecimalPlaces)
	require.Equal(t, uint64(60), appState.TaxPool.Beneficiaries[1].Weight)

	// tampered app state
	doc.AppHash[0] ^= 0xff
	_, err = AppStateFromDoc(doc)
	require.ErrorContains(t, err, "hash mismatch")
}

func TestNewGenesisDoc_Invalid(t *testing.T) {
	appState := testAppState()
	appState.AssetHolders[1].Address = types.Address{0x01}
	_, err := NewGenesisDoc("genesis-test-chain", tmtypes.DefaultConsensusParams(), testValidators(), appState)
	require.ErrorContains(t, err, "asset holder #1")

	appState = testAppState()
	appState.AssetHolders[0].Balance = nil
	_, err = NewGenesisDoc("genesis-test-chain", tmtypes.DefaultConsensusParams(), testValidators(), appState)
	require.Error(t, err)

	appState = testAppState()
	appState.TaxPool.Beneficiaries = nil
	_, err = NewGenesisDoc("genesis-test-chain", tmtypes.DefaultConsensusParams(), testValidators(), appState)
	require.Error(t, err)

	_, err = NewGenesisDoc("", tmtypes.DefaultConsensusParams(), testValidators(), testAppState())
	require.Error(t, err)
}
