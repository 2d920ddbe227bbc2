package state

import (
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// CreateBlock constructs the next block of the chain with the specified proof
// and previous hash. The pending transactions are moved into the block and
// the pool is left empty.
func (s *State) CreateBlock(proof int64, previousHash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	block := s.createBlock(proof, previousHash)
	s.evHandler("state: CreateBlock: blk[%d]: trans[%d]", block.Index, len(block.Transactions))

	return block
}

// MineBlock solves the proof of work relative to the latest block and
// appends a new block holding the pending transactions plus the mining
// reward for this node.
//
// The search runs outside the state lock and is never interrupted. If the
// latest block changed while solving, because of a chain replacement, the
// search is performed again against the new latest block.
func (s *State) MineBlock() (database.Block, error) {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	s.evHandler("state: MineBlock: MINING: started")
	defer s.evHandler("state: MineBlock: MINING: completed")

	for {
		prevBlock, err := s.PreviousBlock()
		if err != nil {
			return database.Block{}, err
		}

		s.evHandler("state: MineBlock: MINING: perform POW: prevBlk[%d]: prevProof[%d]", prevBlock.Index, prevBlock.Proof)

		t := time.Now()
		proof := pow.Solve(prevBlock.Proof, s.genesis.Difficulty)
		prevHash := prevBlock.Hash()

		s.evHandler("state: MineBlock: MINING: SOLVED: proof[%d]: duration[%v]", proof, time.Since(t))

		block, ok := s.commitMinedBlock(prevBlock, prevHash, proof)
		if ok {
			s.blocksMined.Add(1)
			s.evHandler("state: MineBlock: MINING: blk[%d]: trans[%d]", block.Index, len(block.Transactions))
			return block, nil
		}

		s.evHandler("state: MineBlock: MINING: latest block changed while solving, solving again")
	}
}

// commitMinedBlock appends the reward transaction and creates the block if
// the latest block is still the one the proof was solved against.
func (s *State) commitMinedBlock(prevBlock database.Block, prevHash string, proof int64) (database.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chain) == 0 {
		return database.Block{}, false
	}

	latest := s.chain[len(s.chain)-1]
	if latest.Index != prevBlock.Index || latest.Hash() != prevHash {
		return database.Block{}, false
	}

	s.mempool.Add(database.NewTx(s.nodeID, s.genesis.RewardReceiver, s.genesis.MiningReward))

	return s.createBlock(proof, prevHash), true
}
