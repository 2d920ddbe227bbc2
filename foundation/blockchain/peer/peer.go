// Package peer maintains the set of known peers in the network.
package peer

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// ErrInvalidAddress is returned when a host can't be extracted from an address.
var ErrInvalidAddress = errors.New("invalid peer address")

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New constructs a new peer value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// ParseAddress extracts the host:port from a URL shaped address. An address
// without a scheme is treated as if it had one, so "127.0.0.1:5001" and
// "http://127.0.0.1:5001/" both produce "127.0.0.1:5001".
func ParseAddress(address string) (Peer, error) {
	address = strings.TrimSpace(address)
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return Peer{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	if u.Hostname() == "" {
		return Peer{}, fmt.Errorf("%w: %q has no host", ErrInvalidAddress, address)
	}

	return New(u.Host), nil
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known
// peers. Peers are kept in the order they were first added and every copy
// returns them in that order.
type PeerSet struct {
	mu    sync.RWMutex
	set   map[Peer]struct{}
	order []Peer
}

// NewPeerSet constructs a new set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set. It reports false if the peer was
// already known.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.set[peer]; exists {
		return false
	}

	ps.set[peer] = struct{}{}
	ps.order = append(ps.order, peer)

	return true
}

// AddNode parses the address and adds the resulting peer to the set.
func (ps *PeerSet) AddNode(address string) (bool, error) {
	peer, err := ParseAddress(address)
	if err != nil {
		return false, err
	}

	return ps.Add(peer), nil
}

// Len returns the number of known peers.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.order)
}

// Copy returns the known peers in insertion order, leaving out the
// specified host. Pass an empty host to get every peer.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.order))
	for _, peer := range ps.order {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	return peers
}
