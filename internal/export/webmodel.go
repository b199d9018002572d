// Package export converts the trained sequence model into the bundle
// consumed by the web front end, alongside a JSON metadata sidecar.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"satellite-health-monitor/internal/model/rnn"
)

// BundleFormat tags the web bundle layout version.
const BundleFormat = "shm-web/1"

// ModelJSONFile is the bundle file name inside the bundle directory.
const ModelJSONFile = "model.json"

// webBundle is the JSON topology+weights layout the front end loads.
type webBundle struct {
	Format     string      `json:"format"`
	InputShape []int       `json:"input_shape"`
	Hidden     int         `json:"hidden_size"`
	Wxh        [][]float64 `json:"wxh"`
	Whh        [][]float64 `json:"whh"`
	Bh         []float64   `json:"bh"`
	Why        []float64   `json:"why"`
	By         float64     `json:"by"`
}

// WriteWebBundle converts the trained classifier into the web-deployable
// bundle directory. The caller falls back to manual instructions on error
// instead of aborting the whole export.
func WriteWebBundle(m *rnn.Classifier, dir string) error {
	if m == nil || !m.Trained {
		return fmt.Errorf("export: model is not trained")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bundle dir %s: %w", dir, err)
	}

	bundle := webBundle{
		Format:     BundleFormat,
		InputShape: []int{m.SeqLen, m.InputSize},
		Hidden:     m.Cfg.HiddenSize,
		Wxh:        m.Wxh,
		Whh:        m.Whh,
		Bh:         m.Bh,
		Why:        m.Why,
		By:         m.By,
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode web bundle: %w", err)
	}

	path := filepath.Join(dir, ModelJSONFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write web bundle %s: %w", path, err)
	}
	return nil
}

// ManualInstructions returns the recovery steps printed when automatic
// conversion fails.
func ManualInstructions(artifactPath, dir string) string {
	return fmt.Sprintf(`Automatic web conversion failed. To convert manually:
  1. Verify the model artifact exists: %s
  2. Re-run the export stage: go run ./cmd/export -model %s -out %s
  3. If conversion keeps failing, retrain the anomaly model and export again.
The metadata sidecar is still written so the front end can detect the missing bundle.`,
		artifactPath, artifactPath, dir)
}
