// Package state is the core API for the ledger and implements all the
// business rules for blocks, pending transactions and chain replacement.
package state

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Set of error variables for the ledger.
var (
	ErrEmptyChain         = errors.New("chain has no blocks")
	ErrNoNodes            = errors.New("no nodes provided")
	ErrPeerUnreachable    = errors.New("peer unreachable")
	ErrInvalidChainResult = errors.New("peer chain length doesn't match its blocks")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start
// the ledger node.
type Config struct {
	NodeID     string
	Genesis    genesis.Genesis
	KnownPeers *peer.PeerSet
	Fetcher    ChainFetcher
	EvHandler  EventHandler
}

// Stats represents counters maintained while the node runs.
type Stats struct {
	BlocksMined        uint64
	ChainReplacements  uint64
	PeerFetchFailures  uint64
	RejectedPeerChains uint64
}

// State owns the chain and the pending transactions. Every mutation of
// either happens while holding mu.
type State struct {
	nodeID    string
	genesis   genesis.Genesis
	evHandler EventHandler

	knownPeers *peer.PeerSet
	fetcher    ChainFetcher
	mempool    *mempool.Mempool

	mu    sync.Mutex
	chain []database.Block

	// Mining requests are serialized so only one search runs at a time.
	miningMu sync.Mutex

	blocksMined        atomic.Uint64
	chainReplacements  atomic.Uint64
	peerFetchFailures  atomic.Uint64
	rejectedPeerChains atomic.Uint64
}

// New constructs a new ledger with a genesis block and an empty pool of
// pending transactions.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.NodeID == "" {
		return nil, errors.New("node id is required")
	}

	gen := cfg.Genesis
	if gen == (genesis.Genesis{}) {
		gen = genesis.Default()
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(DefaultChainURL)
	}

	state := State{
		nodeID:     cfg.NodeID,
		genesis:    gen,
		evHandler:  ev,
		knownPeers: knownPeers,
		fetcher:    fetcher,
		mempool:    mempool.New(),
	}

	// The genesis block is the only block a node creates without a proof
	// of work.
	state.mu.Lock()
	genesisBlock := state.createBlock(database.GenesisProof, database.GenesisPreviousHash)
	state.mu.Unlock()

	ev("state: New: genesis block created: hash[%s]", genesisBlock.Hash())

	return &state, nil
}

// RetrieveStats returns a snapshot of the node counters.
func (s *State) RetrieveStats() Stats {
	return Stats{
		BlocksMined:        s.blocksMined.Load(),
		ChainReplacements:  s.chainReplacements.Load(),
		PeerFetchFailures:  s.peerFetchFailures.Load(),
		RejectedPeerChains: s.rejectedPeerChains.Load(),
	}
}

// =============================================================================

// createBlock drains the pending transactions into a new block at the end of
// the chain. The caller must hold mu.
func (s *State) createBlock(proof int64, previousHash string) database.Block {
	trans := s.mempool.Drain()
	block := database.NewBlock(len(s.chain)+1, proof, previousHash, trans, time.Now())
	s.chain = append(s.chain, block)

	return block.Clone()
}
