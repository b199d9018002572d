package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/storage"
)

func testEvent(satelliteID string, ts time.Time, parameter string, cause domain.RootCause) *domain.AnomalyEvent {
	return &domain.AnomalyEvent{
		Timestamp:   ts,
		SatelliteID: satelliteID,
		Parameter:   parameter,
		Value:       42.0,
		RootCause:   cause,
		Severity:    domain.SeverityHigh,
	}
}

func TestAnomalyEventStore_InsertAndGet(t *testing.T) {
	store := NewAnomalyEventStore()
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []*domain.AnomalyEvent{
		testEvent("SAT-001", ts, "power", domain.CauseSolarPanelDegradation),
		testEvent("SAT-001", ts, "temperature", domain.CauseCoolingSystemFailure),
	}
	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetBySatelliteID(ctx, "SAT-001")
	if err != nil {
		t.Fatalf("GetBySatelliteID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}

func TestAnomalyEventStore_SameTimestampDifferentParameter(t *testing.T) {
	store := NewAnomalyEventStore()
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Same (satellite, timestamp) but different parameter is not a duplicate
	err := store.InsertBulk(ctx, []*domain.AnomalyEvent{
		testEvent("SAT-001", ts, "power", domain.CauseSolarPanelDegradation),
	})
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err = store.InsertBulk(ctx, []*domain.AnomalyEvent{
		testEvent("SAT-001", ts, "temperature", domain.CauseCoolingSystemFailure),
	})
	if err != nil {
		t.Fatalf("second insert failed: %v", err)
	}

	err = store.InsertBulk(ctx, []*domain.AnomalyEvent{
		testEvent("SAT-001", ts, "power", domain.CauseSolarPanelDegradation),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestAnomalyEventStore_InvalidRootCause(t *testing.T) {
	store := NewAnomalyEventStore()
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	e := testEvent("SAT-001", ts, "power", domain.RootCause("cosmic_rays"))
	err := store.InsertBulk(ctx, []*domain.AnomalyEvent{e})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown root cause, got %v", err)
	}
}

func TestAnomalyEventStore_GetByRootCause(t *testing.T) {
	store := NewAnomalyEventStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []*domain.AnomalyEvent{
		testEvent("SAT-001", base, "power", domain.CauseSolarPanelDegradation),
		testEvent("SAT-001", base.Add(10*time.Minute), "signal_strength", domain.CauseAntennaMisalignment),
		testEvent("SAT-002", base.Add(20*time.Minute), "power", domain.CauseSolarPanelDegradation),
	}
	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRootCause(ctx, domain.CauseSolarPanelDegradation)
	if err != nil {
		t.Fatalf("GetByRootCause failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	for _, e := range got {
		if e.RootCause != domain.CauseSolarPanelDegradation {
			t.Errorf("unexpected cause %s", e.RootCause)
		}
	}
}
