package domain

import "time"

// ArtifactKind identifies the type of a persisted model artifact.
type ArtifactKind string

const (
	ArtifactAnomalyDetection   ArtifactKind = "anomaly_detection"
	ArtifactLifetimePrediction ArtifactKind = "lifetime_prediction"
	ArtifactRootCauseAnalysis  ArtifactKind = "root_cause_analysis"
	ArtifactWebBundle          ArtifactKind = "web_bundle"
)

// ModelArtifact is the index entry for a trained model persisted on disk.
// Artifacts are immutable once created; retraining writes a new entry and a
// new file, it never mutates an existing one.
type ModelArtifact struct {
	ID        string // uuid
	Kind      ArtifactKind
	Path      string // location of the serialized model on disk
	TrainedAt time.Time
	Notes     string // free-form evaluation summary
}
