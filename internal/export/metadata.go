package export

import (
	"encoding/json"
	"fmt"
	"os"

	"satellite-health-monitor/internal/domain"
)

// MetadataVersion is the sidecar schema version.
const MetadataVersion = "1.0"

// MetadataFile is the sidecar file name.
const MetadataFile = "model_metadata.json"

// ModelMeta describes one exported model for the web client.
type ModelMeta struct {
	Type       string  `json:"type"`
	InputShape []int   `json:"input_shape"`
	Threshold  float64 `json:"threshold"`
}

// RootCauseMeta carries the closed root cause label set.
type RootCauseMeta struct {
	Causes []string `json:"causes"`
}

// Metadata is the JSON sidecar recorded next to the web bundle.
type Metadata struct {
	AnomalyDetection ModelMeta     `json:"anomaly_detection"`
	RootCause        RootCauseMeta `json:"root_cause"`
	Version          string        `json:"version"`
}

// NewMetadata builds the sidecar for a sequence model of the given input
// shape at the fixed decision threshold.
func NewMetadata(seqLen, features int, threshold float64) Metadata {
	causes := make([]string, 0, domain.NumRootCauses)
	for _, c := range domain.RootCauses() {
		causes = append(causes, string(c))
	}
	return Metadata{
		AnomalyDetection: ModelMeta{
			Type:       "recurrent",
			InputShape: []int{seqLen, features},
			Threshold:  threshold,
		},
		RootCause: RootCauseMeta{Causes: causes},
		Version:   MetadataVersion,
	}
}

// WriteMetadata writes the sidecar to path.
func WriteMetadata(md Metadata, path string) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model metadata %s: %w", path, err)
	}
	return nil
}

// ReadMetadata parses a sidecar from path.
func ReadMetadata(path string) (Metadata, error) {
	var md Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return md, fmt.Errorf("read model metadata %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parse model metadata %s: %w", path, err)
	}
	return md, nil
}
