package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

func Test_Load(t *testing.T) {
	gen, err := genesis.Load("")
	if err != nil {
		t.Fatalf("Should get the default genesis: %v", err)
	}
	if gen != genesis.Default() {
		t.Fatalf("Should get the default genesis, got %+v.", gen)
	}

	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := os.WriteFile(path, []byte(`{"difficulty": 2}`), 0600); err != nil {
		t.Fatal(err)
	}

	gen, err = genesis.Load(path)
	if err != nil {
		t.Fatalf("Should load the genesis file: %v", err)
	}
	if gen.Difficulty != 2 || gen.MiningReward != genesis.DefaultMiningReward || gen.RewardReceiver != genesis.DefaultRewardReceiver {
		t.Fatalf("Should fill missing values with defaults, got %+v.", gen)
	}

	if err := os.WriteFile(path, []byte(`{"difficulty": 9}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := genesis.Load(path); err == nil {
		t.Fatalf("Should reject a difficulty mining can't complete.")
	}

	maxed := genesis.Default()
	maxed.Difficulty = genesis.MaxDifficulty
	if err := maxed.Validate(); err != nil {
		t.Fatalf("Should accept the maximum difficulty: %v", err)
	}

	if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("Should fail for a missing file.")
	}
}
