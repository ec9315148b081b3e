package genesis

import (
	"hash"

	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/holiman/uint256"
)

// GenesisAssetHolder is an account funded at genesis.
type GenesisAssetHolder struct {
	Address types.Address
	Denom   string
	Balance *uint256.Int
}

// holderJSON keeps the balance as a decimal string.
type holderJSON struct {
	Address types.Address `json:"address"`
	Denom   string        `json:"denom"`
	Balance string        `json:"balance"`
}

func (gh *GenesisAssetHolder) MarshalJSON() ([]byte, error) {
	bal := "0"
	if gh.Balance != nil {
		bal = gh.Balance.Dec()
	}
	return jsonx.Marshal(&holderJSON{Address: gh.Address, Denom: gh.Denom, Balance: bal})
}

func (gh *GenesisAssetHolder) UnmarshalJSON(bz []byte) error {
	var tm holderJSON
	if err := jsonx.Unmarshal(bz, &tm); err != nil {
		return err
	}
	bal, err := uint256.FromDecimal(tm.Balance)
	if err != nil {
		return err
	}
	*gh = GenesisAssetHolder{Address: tm.Address, Denom: tm.Denom, Balance: bal}
	return nil
}

// DenomOrDefault returns types.DefaultDenom for an empty Denom.
func (gh *GenesisAssetHolder) DenomOrDefault() string {
	if gh.Denom == "" {
		return types.DefaultDenom
	}
	return gh.Denom
}

func (gh *GenesisAssetHolder) writeTo(h hash.Hash) {
	h.Write(gh.Address)
	h.Write([]byte(gh.Denom))
	h.Write(gh.Balance.Bytes())
}
