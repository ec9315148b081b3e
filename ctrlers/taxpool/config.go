package taxpool

import (
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
)

// Config identifies the pool and its owner.
// Only the admin can change it.
type Config struct {
	PoolAddress types.Address `json:"poolAddress"`
	Admin       types.Address `json:"admin"`
	Denom       string        `json:"denom"`

	// Frozen is set by an emergency withdrawal.
	// While it is set, no beneficiary can withdraw until the admin installs a new beneficiary set.
	Frozen bool `json:"frozen"`
}

func (cfg *Config) IsAdmin(addr types.Address) bool {
	return cfg.Admin.Compare(addr) == 0
}

func (cfg *Config) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(cfg)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (cfg *Config) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, cfg); err != nil {
		return xerrors.From(err)
	}
	return nil
}
