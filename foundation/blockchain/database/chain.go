package database

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// ValidationError is returned when a chain fails the hash linkage or the
// proof of work linkage between two adjacent blocks.
type ValidationError struct {
	Index  int
	Reason string
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("block at position %d: %s", ve.Index, ve.Reason)
}

// =============================================================================

// ValidateChain walks the adjacent pairs of blocks in order and returns an
// error for the first pair that doesn't link. An empty chain or a chain with
// a single block is structurally valid. The chain is not modified.
func ValidateChain(chain []Block, difficulty int) error {
	for i := 1; i < len(chain); i++ {
		previous := chain[i-1]
		block := chain[i]

		if hash := Hash(previous); block.PreviousHash != hash {
			return &ValidationError{
				Index:  i,
				Reason: fmt.Sprintf("previous hash doesn't match parent, got %s, exp %s", block.PreviousHash, hash),
			}
		}

		if !pow.Verify(block.Proof, previous.Proof, difficulty) {
			return &ValidationError{
				Index:  i,
				Reason: fmt.Sprintf("proof %d doesn't solve the puzzle for parent proof %d", block.Proof, previous.Proof),
			}
		}
	}

	return nil
}

// IsChainValid reports if the chain passes ValidateChain.
func IsChainValid(chain []Block, difficulty int) bool {
	return ValidateChain(chain, difficulty) == nil
}
