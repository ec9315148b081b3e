package node

import (
	"math/big"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// The metrics are registered to the default registry,
// which is served by the consensus engine when `instrumentation.prometheus` is on.
var (
	trxsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxpool",
			Name:      "trxs_total",
			Help:      "Total number of executed transactions",
		},
		[]string{"type", "status", "mode"},
	)

	transferredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxpool",
			Name:      "transferred_total",
			Help:      "Total amount moved by transaction effects, in the smallest unit",
		},
		[]string{"denom"},
	)

	lastHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "taxpool",
			Name:      "last_block_height",
			Help:      "Height of the last committed block",
		},
	)

	commitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "taxpool",
			Name:      "commit_duration_seconds",
			Help:      "Duration of committing every ledger",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)
)

func execMode(exec bool) string {
	if exec {
		return "deliver"
	}
	return "check"
}

func observeTrx(ctx *ctrlertypes.TrxContext, status string) {
	trxsTotal.WithLabelValues(ctx.Tx.TypeString(), status, execMode(ctx.Exec)).Inc()
	if !ctx.Exec || status != "ok" {
		return
	}
	for _, eff := range ctx.Effects {
		transferredTotal.WithLabelValues(eff.Denom).Add(toFloat(eff.Amount))
	}
}

func toFloat(amt *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(amt.ToBig()).Float64()
	return f
}
