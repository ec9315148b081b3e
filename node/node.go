package node

import (
	"fmt"

	cfg "github.com/beatoz/taxpool-go/cmd/config"
	"github.com/beatoz/taxpool-go/rpc"
	"github.com/tendermint/tendermint/libs/log"
	tmnode "github.com/tendermint/tendermint/node"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
)

// NewTaxPoolNode returns a tendermint node running TaxPoolApp in-process.
func NewTaxPoolNode(config *cfg.Config, logger log.Logger) (*tmnode.Node, error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load or gen node key %s: %w", config.NodeKeyFile(), err)
	}

	rpc.AddRoutes()

	app, err := NewTaxPoolApp(config, logger.With("module", "taxpool"))
	if err != nil {
		return nil, err
	}

	n, err := tmnode.NewNode(
		config.Config,
		privval.LoadOrGenFilePV(config.PrivValidatorKeyFile(), config.PrivValidatorStateFile()),
		nodeKey,
		NewLocalClientCreator(app),
		tmnode.DefaultGenesisDocProviderFunc(config.Config),
		tmnode.DefaultDBProvider,
		tmnode.DefaultMetricsProvider(config.Instrumentation),
		logger,
	)
	if err != nil {
		_ = app.Stop()
		return nil, err
	}
	return n, nil
}
