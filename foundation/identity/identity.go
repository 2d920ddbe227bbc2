// Package identity produces the identifier a node signs its mining rewards
// with.
package identity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// New returns the node identity. With no key path the identity is a random
// uuid without dashes, so it changes on every start. With a key path it is
// the address of the ECDSA private key stored in the file.
func New(keyPath string) (string, error) {
	if keyPath == "" {
		return strings.ReplaceAll(uuid.NewString(), "-", ""), nil
	}

	privateKey, err := crypto.LoadECDSA(keyPath)
	if err != nil {
		return "", fmt.Errorf("unable to load private key for node: %w", err)
	}

	return crypto.PubkeyToAddress(privateKey.PublicKey).Hex(), nil
}
