package memory

import (
	"context"
	"sync"

	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/storage"
)

// ArtifactStore is an in-memory implementation of storage.ArtifactStore.
type ArtifactStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ModelArtifact // keyed by ID
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{data: make(map[string]*domain.ModelArtifact)}
}

var _ storage.ArtifactStore = (*ArtifactStore)(nil)

// Insert adds a new artifact entry. Artifacts are immutable.
func (s *ArtifactStore) Insert(_ context.Context, a *domain.ModelArtifact) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.ID]; exists {
		return storage.ErrDuplicateKey
	}
	artifactCopy := *a
	s.data[a.ID] = &artifactCopy
	return nil
}

// GetByID retrieves an artifact by ID.
func (s *ArtifactStore) GetByID(_ context.Context, id string) (*domain.ModelArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	artifactCopy := *a
	return &artifactCopy, nil
}

// GetLatestByKind retrieves the most recently trained artifact of the kind.
func (s *ArtifactStore) GetLatestByKind(_ context.Context, kind domain.ArtifactKind) (*domain.ModelArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.ModelArtifact
	for _, a := range s.data {
		if a.Kind != kind {
			continue
		}
		if latest == nil || a.TrainedAt.After(latest.TrainedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	artifactCopy := *latest
	return &artifactCopy, nil
}
