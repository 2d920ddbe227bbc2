// Package database holds the block and transaction types of the ledger and
// the rules for hashing and validating a chain of blocks.
package database

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// GenesisPreviousHash is the previous hash recorded in the genesis block.
const GenesisPreviousHash = "0"

// GenesisProof is the proof recorded in the genesis block.
const GenesisProof = 1

// TimestampLayout is the textual form used for block timestamps. The
// timestamp is hashed as the string it is, so it's never reparsed.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// =============================================================================

// Block represents a group of transactions batched together.
//
// CORE NOTE: Every node recomputes the hash of blocks it didn't create, so the
// encoded form must be identical everywhere. The fields are declared in
// lexicographic order of their keys, which is the order encoding/json writes
// them in.
type Block struct {
	Index        int    `json:"index"`
	PreviousHash string `json:"previous_hash"`
	Proof        int64  `json:"proof"`
	Timestamp    string `json:"timestamp"`
	Transactions []Tx   `json:"transactions"`
}

// NewBlock constructs a block for the specified position in the chain. The
// transactions are owned by the block from this point on.
func NewBlock(index int, proof int64, previousHash string, trans []Tx, now time.Time) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        index,
		PreviousHash: previousHash,
		Proof:        proof,
		Timestamp:    now.Format(TimestampLayout),
		Transactions: trans,
	}
}

// NewGenesisBlock constructs the first block of a chain.
func NewGenesisBlock(now time.Time) Block {
	return NewBlock(1, GenesisProof, GenesisPreviousHash, nil, now)
}

// IsGenesis reports if the block carries the genesis values.
func (b Block) IsGenesis() bool {
	return b.PreviousHash == GenesisPreviousHash && b.Proof == GenesisProof && len(b.Transactions) == 0
}

// Hash returns the hex encoded sha256 of the canonical form of the block.
func (b Block) Hash() string {
	return Hash(b)
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	trans := make([]Tx, len(b.Transactions))
	copy(trans, b.Transactions)
	b.Transactions = trans

	return b
}

// =============================================================================

// Hash returns the hex encoded sha256 of the canonical form of the block.
func Hash(block Block) string {
	hash := sha256.Sum256(Canonical(block))
	return hex.EncodeToString(hash[:])
}

// Canonical returns the byte form of the block that is hashed.
func Canonical(block Block) []byte {
	trans := make([]Tx, len(block.Transactions))
	for i, tx := range block.Transactions {
		trans[i] = NewTx(tx.Sender, tx.Receiver, tx.Amount)
	}
	block.Transactions = trans
	block.PreviousHash = validUTF8(block.PreviousHash)
	block.Timestamp = validUTF8(block.Timestamp)

	// Marshal only fails for NaN or infinite amounts, which JSON input
	// can't carry.
	data, _ := json.Marshal(block)

	return data
}

// CloneChain returns a deep copy of the chain.
func CloneChain(chain []Block) []Block {
	cpy := make([]Block, len(chain))
	for i, block := range chain {
		cpy[i] = block.Clone()
	}

	return cpy
}
