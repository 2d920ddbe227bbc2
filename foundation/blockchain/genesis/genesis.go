// Package genesis maintains access to the settings every node of a network
// must agree on.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// Defaults used when no genesis file is provided.
const (
	DefaultMiningReward   = 1
	DefaultRewardReceiver = "Jason"
)

// MaxDifficulty bounds the number of leading zeros. Each extra zero
// multiplies the expected search by 16 and mining runs on the request, so
// higher values keep a mine request from ever completing.
const MaxDifficulty = 8

// Genesis represents the genesis file.
type Genesis struct {
	Difficulty     int     `json:"difficulty"`      // How difficult it needs to be to solve the work problem.
	MiningReward   float64 `json:"mining_reward"`   // Reward for mining a block.
	RewardReceiver string  `json:"reward_receiver"` // Identity credited with every mining reward.
}

// Default returns the genesis settings used when no file is provided.
func Default() Genesis {
	return Genesis{
		Difficulty:     pow.DefaultDifficulty,
		MiningReward:   DefaultMiningReward,
		RewardReceiver: DefaultRewardReceiver,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file are
// taken from Default. An empty path returns Default.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis: %w", err)
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the settings can be used to run a node.
func (g Genesis) Validate() error {
	switch {
	case g.Difficulty < 0 || g.Difficulty > MaxDifficulty:
		return fmt.Errorf("difficulty %d must be between 0 and %d", g.Difficulty, MaxDifficulty)
	case g.RewardReceiver == "":
		return errors.New("reward receiver is required")
	}

	return nil
}
