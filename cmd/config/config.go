package config

import (
	tmcfg "github.com/tendermint/tendermint/config"
)

const DefaultLedgerCacheSize = 10000

type Config struct {
	*tmcfg.Config `mapstructure:",squash"`

	// LedgerCacheSize is the node cache size of every iavl ledger.
	LedgerCacheSize int `mapstructure:"ledger_cache_size"`

	chainId string
}

func DefaultConfig() *Config {
	return DefaultConfigWith(tmcfg.DefaultConfig())
}

func DefaultConfigWith(cfg *tmcfg.Config) *Config {
	return &Config{
		Config:          cfg,
		LedgerCacheSize: DefaultLedgerCacheSize,
	}
}

func (c *Config) SetRoot(root string) *Config {
	c.Config.SetRoot(root)
	return c
}

func (c *Config) SetChainId(chainId string) {
	c.chainId = chainId
}

func (c *Config) ChainId() string {
	return c.chainId
}

func (c *Config) ValidateBasic() error {
	if c.LedgerCacheSize <= 0 {
		c.LedgerCacheSize = DefaultLedgerCacheSize
	}
	return c.Config.ValidateBasic()
}
