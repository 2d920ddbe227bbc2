package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// PreviousBlock returns a copy of the latest block of the chain.
func (s *State) PreviousBlock() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chain) == 0 {
		return database.Block{}, ErrEmptyChain
	}

	return s.chain[len(s.chain)-1].Clone(), nil
}

// RetrieveChain returns a copy of the current chain.
func (s *State) RetrieveChain() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return database.CloneChain(s.chain)
}

// RetrieveChainLength returns the number of blocks in the chain.
func (s *State) RetrieveChainLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.chain)
}

// IsChainValid validates the current chain.
func (s *State) IsChainValid() bool {
	chain := s.RetrieveChain()

	if err := database.ValidateChain(chain, s.genesis.Difficulty); err != nil {
		s.evHandler("state: IsChainValid: WARNING: %s", err)
		return false
	}

	return true
}

// RetrievePending returns a copy of the pending transactions.
func (s *State) RetrievePending() []database.Tx {
	return s.mempool.Copy()
}

// RetrievePendingCount returns the number of pending transactions.
func (s *State) RetrievePendingCount() int {
	return s.mempool.Count()
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveNodeID returns the identity of this node.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy("")
}

// RetrieveKnownPeersCount returns the number of known peers.
func (s *State) RetrieveKnownPeersCount() int {
	return s.knownPeers.Len()
}
