package generator

import (
	"testing"
	"time"

	"satellite-health-monitor/internal/domain"
)

func testConfig() Config {
	return Config{
		Days:           10,
		SampleInterval: 10 * time.Minute,
		SatelliteID:    "SAT-TEST",
		Seed:           7,
		Start:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := testConfig()

	recsA, evsA, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recsB, evsB, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recsA) != len(recsB) {
		t.Fatalf("record counts differ: %d vs %d", len(recsA), len(recsB))
	}
	for i := range recsA {
		if *recsA[i] != *recsB[i] {
			t.Fatalf("record %d differs between runs: %+v vs %+v", i, recsA[i], recsB[i])
		}
	}

	if len(evsA) != len(evsB) {
		t.Fatalf("event counts differ: %d vs %d", len(evsA), len(evsB))
	}
	for i := range evsA {
		if *evsA[i] != *evsB[i] {
			t.Fatalf("event %d differs between runs", i)
		}
	}
}

func TestGenerate_SampleCountAndOrdering(t *testing.T) {
	cfg := testConfig()

	recs, _, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := cfg.Samples(); len(recs) != want {
		t.Fatalf("expected %d records, got %d", want, len(recs))
	}
	if want := 10 * 24 * 6; cfg.Samples() != want {
		t.Fatalf("Samples(): expected %d, got %d", want, cfg.Samples())
	}

	for i := 1; i < len(recs); i++ {
		if !recs[i].Timestamp.After(recs[i-1].Timestamp) {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
		if got := recs[i].Timestamp.Sub(recs[i-1].Timestamp); got != cfg.SampleInterval {
			t.Fatalf("sample %d: expected interval %v, got %v", i, cfg.SampleInterval, got)
		}
	}
	if got := recs[0].Timestamp; !got.Equal(cfg.Start) {
		t.Errorf("expected series start %v, got %v", cfg.Start, got)
	}
}

func TestGenerate_ValuesWithinClipRanges(t *testing.T) {
	recs, _, err := Generate(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, rec := range recs {
		for _, ch := range domain.Channels() {
			v := rec.Value(ch)
			r := ch.ClipRange()
			if v < r.Min || v > r.Max {
				t.Fatalf("record %d channel %s: value %v outside [%v, %v]",
					i, ch.Name(), v, r.Min, r.Max)
			}
		}
		if rec.OrbitPosition < 0 || rec.OrbitPosition >= 1 {
			t.Fatalf("record %d: orbit position %v outside [0, 1)", i, rec.OrbitPosition)
		}
	}
}

func TestGenerate_EclipseMatchesOrbitBand(t *testing.T) {
	recs, _, err := Generate(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, rec := range recs {
		want := rec.OrbitPosition > 0.3 && rec.OrbitPosition < 0.7
		if rec.InEclipse != want {
			t.Fatalf("record %d: orbit %v, expected eclipse=%v", i, rec.OrbitPosition, want)
		}
	}
}

func TestGenerate_PowerFaultWindow(t *testing.T) {
	cfg := testConfig()
	base, err := baseline(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs, _, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := len(recs)
	start := int(float64(n) * 0.20)
	dur := int(float64(n) * 0.03)
	for i := start; i <= start+dur && i < n; i++ {
		want := domain.ChannelPower.Clip(base[i].Power * 0.7)
		if got := recs[i].Power; got != want {
			t.Fatalf("sample %d: expected faulted power %v, got %v", i, want, got)
		}
	}
	// Outside the windows the series is untouched.
	if recs[0].Power != base[0].Power {
		t.Errorf("sample 0: power mutated outside fault window")
	}
}

func TestGenerate_AnomalyLabels(t *testing.T) {
	// The battery and memory faults only label samples past their value
	// gates, which a short series never reaches. Use the full-length
	// config with a pinned start so every cause shows up.
	cfg := DefaultConfig()
	cfg.Start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	recs, evs, err := Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(evs) == 0 {
		t.Fatal("expected anomaly events")
	}

	byTime := make(map[int64]*domain.TelemetryRecord, len(recs))
	for _, rec := range recs {
		byTime[rec.Timestamp.UnixNano()] = rec
	}

	seen := make(map[domain.RootCause]int)
	for _, ev := range evs {
		if !ev.RootCause.Valid() {
			t.Fatalf("invalid root cause %q", ev.RootCause)
		}
		seen[ev.RootCause]++

		rec, ok := byTime[ev.Timestamp.UnixNano()]
		if !ok {
			t.Fatalf("event at %v has no telemetry record", ev.Timestamp)
		}
		if ev.SatelliteID != rec.SatelliteID {
			t.Fatalf("event satellite %q != record %q", ev.SatelliteID, rec.SatelliteID)
		}
	}

	for _, cause := range domain.RootCauses() {
		if seen[cause] == 0 {
			t.Errorf("no events labeled %s", cause)
		}
	}
}

func TestBaseline_InvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"zero days", func(c *Config) { c.Days = 0 }},
		{"zero interval", func(c *Config) { c.SampleInterval = 0 }},
		{"empty satellite id", func(c *Config) { c.SatelliteID = "" }},
	}
	for _, tc := range cases {
		cfg := testConfig()
		tc.mut(&cfg)
		if _, _, err := Generate(cfg); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
