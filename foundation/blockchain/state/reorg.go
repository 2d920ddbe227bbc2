package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the number of peers queried at the same time.
const maxConcurrentFetches = 16

// fetchResult is the outcome of retrieving the chain of one peer.
type fetchResult struct {
	peer     peer.Peer
	response ChainResponse
	err      error
}

// ReplaceChain asks every known peer for its chain and replaces the local
// chain with the longest valid chain that is strictly longer than it. It
// reports if the chain was replaced.
//
// Peers are queried concurrently but their chains are considered in the
// order the peers were registered. A peer chain becomes the candidate when
// its length is greater than the running maximum, so with two chains of the
// same length the one from the peer registered first wins. Peers that fail
// are skipped. An error is only returned if the context is cancelled.
func (s *State) ReplaceChain(ctx context.Context) (bool, error) {
	s.evHandler("state: ReplaceChain: started")
	defer s.evHandler("state: ReplaceChain: completed")

	maxLength := s.RetrieveChainLength()
	results := s.fetchPeerChains(ctx, s.knownPeers.Copy(""))

	if err := ctx.Err(); err != nil {
		return false, err
	}

	var candidate []database.Block
	for _, res := range results {
		if res.err != nil {
			s.peerFetchFailures.Add(1)
			s.evHandler("state: ReplaceChain: peer[%s]: WARNING: %s", res.peer, res.err)
			continue
		}

		length := res.response.Length
		if length != len(res.response.Chain) {
			s.peerFetchFailures.Add(1)
			s.evHandler("state: ReplaceChain: peer[%s]: WARNING: %s: length[%d]: blocks[%d]", res.peer, ErrInvalidChainResult, length, len(res.response.Chain))
			continue
		}

		if length <= maxLength {
			s.evHandler("state: ReplaceChain: peer[%s]: length[%d]: not longer than [%d]", res.peer, length, maxLength)
			continue
		}

		if err := database.ValidateChain(res.response.Chain, s.genesis.Difficulty); err != nil {
			s.rejectedPeerChains.Add(1)
			s.evHandler("state: ReplaceChain: peer[%s]: length[%d]: WARNING: invalid chain: %s", res.peer, length, err)
			continue
		}

		s.evHandler("state: ReplaceChain: peer[%s]: length[%d]: new candidate", res.peer, length)
		maxLength = length
		candidate = res.response.Chain
	}

	if candidate == nil {
		return false, nil
	}

	return s.adoptChain(candidate), nil
}

// =============================================================================

// fetchPeerChains retrieves the chains of the specified peers in parallel.
// The results are returned in the order of the peers.
func (s *State) fetchPeerChains(ctx context.Context, peers []peer.Peer) []fetchResult {
	results := make([]fetchResult, len(peers))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for i, pr := range peers {
		g.Go(func() error {
			s.evHandler("state: ReplaceChain: fetch: peer[%s]", pr)

			resp, err := s.fetcher.FetchChain(ctx, pr)
			results[i] = fetchResult{
				peer:     pr,
				response: resp,
				err:      err,
			}

			// Failures are recorded in the result so every peer is scanned.
			return nil
		})
	}

	g.Wait()

	return results
}

// adoptChain replaces the chain if the candidate is still longer than the
// current chain. Mining or another replacement may have extended the chain
// while peers were being queried.
func (s *State) adoptChain(candidate []database.Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(candidate) <= len(s.chain) {
		s.evHandler("state: ReplaceChain: candidate length[%d] no longer longer than chain[%d]", len(candidate), len(s.chain))
		return false
	}

	s.chain = database.CloneChain(candidate)
	s.chainReplacements.Add(1)

	s.evHandler("state: ReplaceChain: chain replaced: length[%d]", len(s.chain))

	return true
}
