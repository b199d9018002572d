package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Dump file names under the dataset directory. The preprocess stage writes
// them, trainers read them; a missing dump is a fatal prerequisite error for
// the dependent trainer.
const (
	SequenceTrainFile  = "sequence_train.gob"
	SequenceTestFile   = "sequence_test.gob"
	RootCauseTrainFile = "rootcause_train.gob"
	RootCauseTestFile  = "rootcause_test.gob"
	LifetimeTrainFile  = "lifetime_train.gob"
	LifetimeTestFile   = "lifetime_test.gob"
)

// Save gob-encodes v to dir/name, creating dir if needed.
func Save(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset dump %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("encode dataset dump %s: %w", path, err)
	}
	return nil
}

// Load gob-decodes dir/name into v. Missing files are reported with the
// stage that produces them so the operator knows what to run first.
func Load(dir, name string, v any) error {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("dataset dump %s is missing: run the preprocess stage first", path)
		}
		return fmt.Errorf("open dataset dump %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode dataset dump %s: %w", path, err)
	}
	return nil
}
