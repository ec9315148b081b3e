package genesis

import (
	"encoding/binary"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"golang.org/x/crypto/sha3"
)

// GenesisTaxPool initializes the tax pool.
// An empty `Denom` means types.DefaultDenom.
type GenesisTaxPool struct {
	Admin         types.Address                    `json:"admin"`
	Denom         string                           `json:"denom,omitempty"`
	Beneficiaries []*ctrlertypes.BeneficiaryWeight `json:"beneficiaries"`
	DecimalPlaces uint32                           `json:"decimalPlaces"`
}

type GenesisAppState struct {
	AssetHolders []*GenesisAssetHolder `json:"assetHolders"`
	TaxPool      *GenesisTaxPool       `json:"taxPool"`
}

// Hash is keccak256 over the holders in order, followed by the tax pool section.
func (ga *GenesisAppState) Hash() ([]byte, error) {
	hasher := sha3.NewLegacyKeccak256()
	for _, h := range ga.AssetHolders {
		h.writeTo(hasher)
	}
	if tp := ga.TaxPool; tp != nil {
		hasher.Write(tp.Admin)
		hasher.Write([]byte(tp.Denom))
		for _, b := range tp.Beneficiaries {
			hasher.Write(b.Address)
			hasher.Write(binary.BigEndian.AppendUint64(nil, b.Weight))
		}
		hasher.Write(binary.BigEndian.AppendUint32(nil, tp.DecimalPlaces))
	}
	return hasher.Sum(nil), nil
}

func ParseAppState(bz []byte) (*GenesisAppState, error) {
	appState := &GenesisAppState{}
	if err := jsonx.Unmarshal(bz, appState); err != nil {
		return nil, err
	}
	return appState, nil
}
