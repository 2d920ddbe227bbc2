// Package pow implements the proof of work puzzle used to rate limit the
// creation of new blocks.
//
// A proof solves the puzzle relative to the proof of the previous block when
// the sha256 hex digest of the decimal value (proof² - previousProof²) starts
// with difficulty number of 0's.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
)

// DefaultDifficulty is the number of leading 0's required when nothing
// else is configured.
const DefaultDifficulty = 4

// maxSafeOperand is the largest absolute value that can be squared without
// overflowing an int64.
const maxSafeOperand = 3_037_000_499

// checkInterval is how often SolveContext looks at the context.
const checkInterval = 10_000

// Solve searches for the first proof, starting at 1, that solves the puzzle
// relative to the previous proof. The search can't be cancelled and runs
// until a solution is found.
func Solve(previousProof int64, difficulty int) int64 {
	proof := int64(1)
	for !Verify(proof, previousProof, difficulty) {
		proof++
	}

	return proof
}

// SolveContext performs the same search as Solve but returns the context
// error if the context is cancelled before a solution is found.
func SolveContext(ctx context.Context, previousProof int64, difficulty int) (int64, error) {
	var attempts uint64
	for proof := int64(1); ; proof++ {
		attempts++
		if attempts%checkInterval == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if Verify(proof, previousProof, difficulty) {
			return proof, nil
		}
	}
}

// Verify checks if the proof solves the puzzle relative to the previous proof
// without performing a search.
func Verify(proof int64, previousProof int64, difficulty int) bool {
	return IsHashSolved(Digest(proof, previousProof), difficulty)
}

// Digest returns the hex encoded sha256 of the puzzle operand for the
// specified proofs.
func Digest(proof int64, previousProof int64) string {
	hash := sha256.Sum256([]byte(operand(proof, previousProof)))
	return hex.EncodeToString(hash[:])
}

// IsHashSolved checks the hash starts with difficulty number of 0's.
func IsHashSolved(hash string, difficulty int) bool {
	if difficulty < 0 || difficulty > len(hash) {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// =============================================================================

// operand produces the decimal form of proof² - previousProof². Negative
// values are valid operands. Big integers are used once the squares no longer
// fit in an int64 so every node computes the same digest.
func operand(proof int64, previousProof int64) string {
	if abs(proof) <= maxSafeOperand && abs(previousProof) <= maxSafeOperand {
		return strconv.FormatInt(proof*proof-previousProof*previousProof, 10)
	}

	p := big.NewInt(proof)
	pp := big.NewInt(previousProof)
	p.Mul(p, p)
	pp.Mul(pp, pp)

	return p.Sub(p, pp).String()
}

func abs(v int64) int64 {
	if v < 0 {
		// math.MinInt64 stays negative and is handled by the big path.
		if v == -v {
			return maxSafeOperand + 1
		}
		return -v
	}
	return v
}
