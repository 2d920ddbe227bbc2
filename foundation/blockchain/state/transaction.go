package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// AddTransaction adds a new transaction to the pending pool and returns the
// index of the block that will contain it.
func (s *State) AddTransaction(sender string, receiver string, amount float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := database.NewTx(sender, receiver, amount)
	n := s.mempool.Add(tx)
	index := len(s.chain) + 1

	s.evHandler("state: AddTransaction: tx[%s]: pending[%d]: blk[%d]", tx, n, index)

	return index
}
