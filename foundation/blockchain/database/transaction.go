package database

import (
	"fmt"
	"strings"
)

// Tx represents a transfer of value between two identities. There is no
// validation of the identities or the funds available to the sender.
//
// The fields are declared in lexicographic order of their keys since the
// encoded form of a block is what gets hashed.
type Tx struct {
	Amount   float64 `json:"amount"`
	Receiver string  `json:"receiver"`
	Sender   string  `json:"sender"`
}

// NewTx constructs a new transaction. Invalid UTF-8 in the identities is
// replaced with U+FFFD so the transaction decodes from JSON unchanged.
func NewTx(sender string, receiver string, amount float64) Tx {
	return Tx{
		Amount:   amount,
		Receiver: validUTF8(receiver),
		Sender:   validUTF8(sender),
	}
}

// validUTF8 replaces each run of invalid bytes with U+FFFD.
func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Receiver, tx.Amount)
}
