// Package metrics exposes the ledger state to prometheus.
package metrics

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/prometheus/client_golang/prometheus"
)

// Ledger is the behavior the collector needs from the node state.
type Ledger interface {
	RetrieveChainLength() int
	RetrievePendingCount() int
	RetrieveKnownPeersCount() int
	RetrieveStats() state.Stats
}

// LedgerCollector reads the ledger on every scrape.
type LedgerCollector struct {
	ledger Ledger

	chainLength        *prometheus.Desc
	pending            *prometheus.Desc
	knownPeers         *prometheus.Desc
	blocksMined        *prometheus.Desc
	chainReplacements  *prometheus.Desc
	peerFetchFailures  *prometheus.Desc
	rejectedPeerChains *prometheus.Desc
}

// NewLedgerCollector constructs a collector for the specified ledger.
func NewLedgerCollector(ledger Ledger) *LedgerCollector {
	desc := func(name string, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("ledger", "", name), help, nil, nil)
	}

	return &LedgerCollector{
		ledger:             ledger,
		chainLength:        desc("chain_length", "Number of blocks in the local chain."),
		pending:            desc("pending_transactions", "Number of transactions waiting for the next block."),
		knownPeers:         desc("known_peers", "Number of registered peer nodes."),
		blocksMined:        desc("blocks_mined_total", "Number of blocks mined by this node."),
		chainReplacements:  desc("chain_replacements_total", "Number of times the local chain was replaced by a peer chain."),
		peerFetchFailures:  desc("peer_fetch_failures_total", "Number of failed peer chain fetches."),
		rejectedPeerChains: desc("rejected_peer_chains_total", "Number of longer peer chains rejected as invalid."),
	}
}

// Describe implements the prometheus.Collector interface.
func (lc *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- lc.chainLength
	ch <- lc.pending
	ch <- lc.knownPeers
	ch <- lc.blocksMined
	ch <- lc.chainReplacements
	ch <- lc.peerFetchFailures
	ch <- lc.rejectedPeerChains
}

// Collect implements the prometheus.Collector interface.
func (lc *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	stats := lc.ledger.RetrieveStats()

	ch <- prometheus.MustNewConstMetric(lc.chainLength, prometheus.GaugeValue, float64(lc.ledger.RetrieveChainLength()))
	ch <- prometheus.MustNewConstMetric(lc.pending, prometheus.GaugeValue, float64(lc.ledger.RetrievePendingCount()))
	ch <- prometheus.MustNewConstMetric(lc.knownPeers, prometheus.GaugeValue, float64(lc.ledger.RetrieveKnownPeersCount()))
	ch <- prometheus.MustNewConstMetric(lc.blocksMined, prometheus.CounterValue, float64(stats.BlocksMined))
	ch <- prometheus.MustNewConstMetric(lc.chainReplacements, prometheus.CounterValue, float64(stats.ChainReplacements))
	ch <- prometheus.MustNewConstMetric(lc.peerFetchFailures, prometheus.CounterValue, float64(stats.PeerFetchFailures))
	ch <- prometheus.MustNewConstMetric(lc.rejectedPeerChains, prometheus.CounterValue, float64(stats.RejectedPeerChains))
}
