package genesis

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// NewGenesisDoc builds a genesis doc whose AppHash commits to appState.
func NewGenesisDoc(
	chainID string,
	consensusParams *tmproto.ConsensusParams,
	validators []tmtypes.GenesisValidator,
	appState *GenesisAppState,
) (*tmtypes.GenesisDoc, error) {
	if err := appState.Validate(); err != nil {
		return nil, err
	}
	blob, err := jsonx.Marshal(appState)
	if err != nil {
		return nil, err
	}
	appHash, err := appState.Hash()
	if err != nil {
		return nil, err
	}

	doc := &tmtypes.GenesisDoc{
		ChainID:         chainID,
		GenesisTime:     tmtime.Now(),
		ConsensusParams: consensusParams,
		Validators:      validators,
		AppState:        blob,
		AppHash:         appHash,
	}
	if err := doc.ValidateAndComplete(); err != nil {
		return nil, err
	}
	return doc, nil
}

// AppStateFromDoc parses the app state of doc and checks it against doc.AppHash.
func AppStateFromDoc(doc *tmtypes.GenesisDoc) (*GenesisAppState, error) {
	appState, err := ParseAppState(doc.AppState)
	if err != nil {
		return nil, err
	}
	hash, err := appState.Hash()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(hash, doc.AppHash) {
		return nil, fmt.Errorf("app state hash mismatch: expected %X, actual %X", doc.AppHash, hash)
	}
	return appState, nil
}

// Validate checks the asset holders.
// The tax pool section is checked by the tax pool ledger at InitChain.
func (ga *GenesisAppState) Validate() error {
	for i, h := range ga.AssetHolders {
		if err := types.ValidateAddress(h.Address); err != nil {
			return fmt.Errorf("asset holder #%d: %w", i, err)
		}
		if h.Balance == nil {
			return fmt.Errorf("asset holder #%d: no balance", i)
		}
	}
	if ga.TaxPool != nil && len(ga.TaxPool.Beneficiaries) == 0 {
		return errors.New("tax pool without beneficiaries")
	}
	return nil
}
