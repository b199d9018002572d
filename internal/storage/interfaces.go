package storage

import (
	"context"
	"time"

	"satellite-health-monitor/internal/domain"
)

// TelemetryStore provides access to telemetry storage.
type TelemetryStore interface {
	// InsertBulk adds multiple records. Fails the entire batch with
	// ErrDuplicateKey on a duplicate (satellite_id, timestamp).
	InsertBulk(ctx context.Context, records []*domain.TelemetryRecord) error

	// GetBySatelliteID retrieves all records for a satellite, ordered by
	// timestamp ASC.
	GetBySatelliteID(ctx context.Context, satelliteID string) ([]*domain.TelemetryRecord, error)

	// GetByTimeRange retrieves records for a satellite within [start, end]
	// (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, satelliteID string, start, end time.Time) ([]*domain.TelemetryRecord, error)
}

// AnomalyEventStore provides access to anomaly event storage.
type AnomalyEventStore interface {
	// InsertBulk adds multiple events. Fails the entire batch with
	// ErrDuplicateKey on a duplicate (satellite_id, timestamp, parameter).
	InsertBulk(ctx context.Context, events []*domain.AnomalyEvent) error

	// GetBySatelliteID retrieves all events for a satellite, ordered by
	// timestamp ASC.
	GetBySatelliteID(ctx context.Context, satelliteID string) ([]*domain.AnomalyEvent, error)

	// GetByRootCause retrieves all events carrying the given root cause,
	// ordered by timestamp ASC.
	GetByRootCause(ctx context.Context, cause domain.RootCause) ([]*domain.AnomalyEvent, error)
}

// FeatureStore provides access to engineered feature row storage.
type FeatureStore interface {
	// InsertBulk adds multiple rows. Fails the entire batch with
	// ErrDuplicateKey on a duplicate (satellite_id, timestamp).
	InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error

	// GetBySatelliteID retrieves all rows for a satellite, ordered by
	// timestamp ASC.
	GetBySatelliteID(ctx context.Context, satelliteID string) ([]*domain.FeatureRow, error)

	// GetByTimeRange retrieves rows for a satellite within [start, end]
	// (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, satelliteID string, start, end time.Time) ([]*domain.FeatureRow, error)
}

// ArtifactStore indexes trained model artifacts on disk.
type ArtifactStore interface {
	// Insert adds a new artifact entry. Returns ErrDuplicateKey if the ID
	// exists; artifacts are immutable.
	Insert(ctx context.Context, a *domain.ModelArtifact) error

	// GetByID retrieves an artifact by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.ModelArtifact, error)

	// GetLatestByKind retrieves the most recently trained artifact of the
	// given kind. Returns ErrNotFound when none exists.
	GetLatestByKind(ctx context.Context, kind domain.ArtifactKind) (*domain.ModelArtifact, error)
}
