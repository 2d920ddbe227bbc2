package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// ConnectNodes registers the peers found in the specified addresses and
// returns the full set of known peers. Every address is parsed before any
// peer is added.
func (s *State) ConnectNodes(addresses []string) ([]peer.Peer, error) {
	if len(addresses) == 0 {
		return nil, ErrNoNodes
	}

	peers := make([]peer.Peer, len(addresses))
	for i, address := range addresses {
		pr, err := peer.ParseAddress(address)
		if err != nil {
			return nil, fmt.Errorf("connect node: %w", err)
		}
		peers[i] = pr
	}

	for _, pr := range peers {
		if s.knownPeers.Add(pr) {
			s.evHandler("state: ConnectNodes: add peer[%s]", pr)
		}
	}

	return s.knownPeers.Copy(""), nil
}
