package postgres

import (
	"context"
	"fmt"

	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/observability"
	"satellite-health-monitor/internal/storage"
)

// ArtifactStore implements storage.ArtifactStore using PostgreSQL.
type ArtifactStore struct {
	pool *Pool
}

// NewArtifactStore creates a new ArtifactStore.
func NewArtifactStore(pool *Pool) *ArtifactStore {
	return &ArtifactStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ArtifactStore = (*ArtifactStore)(nil)

const insertArtifactQuery = `
	INSERT INTO model_artifacts (
		id, kind, path, trained_at, notes
	) VALUES ($1, $2, $3, $4, $5)
`

// Insert records a single trained-model artifact.
func (s *ArtifactStore) Insert(ctx context.Context, artifact *domain.ModelArtifact) (err error) {
	done := observability.ObserveDBQuery("postgres", "artifact_insert")
	defer func() { done(err) }()

	_, err = s.pool.Exec(ctx, insertArtifactQuery,
		artifact.ID, string(artifact.Kind), artifact.Path, artifact.TrainedAt, artifact.Notes,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert model artifact: %w", err)
	}
	return nil
}

const selectArtifactColumns = `
	SELECT id, kind, path, trained_at, notes
	FROM model_artifacts
`

// GetByID retrieves a single artifact. Returns storage.ErrNotFound when the
// id is unknown.
func (s *ArtifactStore) GetByID(ctx context.Context, id string) (_ *domain.ModelArtifact, err error) {
	done := observability.ObserveDBQuery("postgres", "artifact_get_by_id")
	defer func() { done(err) }()

	row := s.pool.QueryRow(ctx, selectArtifactColumns+`
		WHERE id = $1
	`, id)

	a, err := scanArtifact(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get model artifact: %w", err)
	}
	return a, nil
}

// GetLatestByKind retrieves the most recently trained artifact of a kind.
// Returns storage.ErrNotFound when none exists.
func (s *ArtifactStore) GetLatestByKind(ctx context.Context, kind domain.ArtifactKind) (_ *domain.ModelArtifact, err error) {
	done := observability.ObserveDBQuery("postgres", "artifact_get_latest_by_kind")
	defer func() { done(err) }()

	row := s.pool.QueryRow(ctx, selectArtifactColumns+`
		WHERE kind = $1
		ORDER BY trained_at DESC
		LIMIT 1
	`, string(kind))

	a, err := scanArtifact(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest model artifact: %w", err)
	}
	return a, nil
}

type singleRowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row singleRowScanner) (*domain.ModelArtifact, error) {
	a := &domain.ModelArtifact{}
	var kind string
	if err := row.Scan(&a.ID, &kind, &a.Path, &a.TrainedAt, &a.Notes); err != nil {
		return nil, err
	}
	a.Kind = domain.ArtifactKind(kind)
	a.TrainedAt = a.TrainedAt.UTC()
	return a, nil
}
