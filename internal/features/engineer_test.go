package features

import (
	"math"
	"testing"
	"time"

	"satellite-health-monitor/internal/domain"
)

func makeRecords(n int) []*domain.TelemetryRecord {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // a Monday
	records := make([]*domain.TelemetryRecord, n)
	for i := range records {
		records[i] = &domain.TelemetryRecord{
			Timestamp:      start.Add(time.Duration(i) * 10 * time.Minute),
			SatelliteID:    "SAT-TEST",
			OrbitPosition:  float64(i%10) / 10,
			InEclipse:      i%10 >= 4 && i%10 <= 6,
			Power:          80 + float64(i%5),
			Temperature:    20 + float64(i%3),
			BatteryHealth:  95,
			SignalStrength: 85,
			MemoryUsage:    60,
		}
	}
	return records
}

func TestEngineer_DropsIncompleteWindows(t *testing.T) {
	records := makeRecords(20)
	rows := Engineer(records, nil)

	if want := 20 - (domain.RollingWindow - 1); len(rows) != want {
		t.Fatalf("expected %d rows, got %d", want, len(rows))
	}
	// The first surviving row corresponds to the first full window.
	if !rows[0].Timestamp.Equal(records[domain.RollingWindow-1].Timestamp) {
		t.Errorf("expected first row at %v, got %v",
			records[domain.RollingWindow-1].Timestamp, rows[0].Timestamp)
	}
}

func TestEngineer_TooFewRecords(t *testing.T) {
	if rows := Engineer(makeRecords(domain.RollingWindow-1), nil); rows != nil {
		t.Errorf("expected nil for short input, got %d rows", len(rows))
	}
	if rows := Engineer(nil, nil); rows != nil {
		t.Errorf("expected nil for empty input")
	}
}

func TestEngineer_Statistics(t *testing.T) {
	records := makeRecords(20)
	rows := Engineer(records, nil)

	// rows[0] is records[RollingWindow-1].
	i := domain.RollingWindow - 1
	row := rows[0]

	powerDelta := records[i].Power - records[i-1].Power
	if got := row.Stats[domain.ChannelPower].Delta; got != powerDelta {
		t.Errorf("power delta: expected %v, got %v", powerDelta, got)
	}

	var sum float64
	for j := i - domain.RollingWindow + 1; j <= i; j++ {
		sum += records[j].Power
	}
	mean := sum / domain.RollingWindow
	if got := row.Stats[domain.ChannelPower].RollingMean; math.Abs(got-mean) > 1e-12 {
		t.Errorf("power rolling mean: expected %v, got %v", mean, got)
	}
	if got := row.Stats[domain.ChannelPower].Deviation; math.Abs(got-(records[i].Power-mean)) > 1e-12 {
		t.Errorf("power deviation: expected %v, got %v", records[i].Power-mean, got)
	}

	if got := row.PowerTempRatio; got != records[i].Power/records[i].Temperature {
		t.Errorf("power_temp_ratio: expected %v, got %v", records[i].Power/records[i].Temperature, got)
	}
	if got := row.Hour; got != records[i].Timestamp.Hour() {
		t.Errorf("hour: expected %d, got %d", records[i].Timestamp.Hour(), got)
	}
	if got := row.DayOfWeek; got != 0 { // series starts on a Monday
		t.Errorf("day_of_week: expected 0 for Monday, got %d", got)
	}
}

func TestEngineer_ZeroDenominatorRatio(t *testing.T) {
	records := makeRecords(domain.RollingWindow)
	last := records[len(records)-1]
	last.Temperature = 0
	last.Power = 0
	last.BatteryHealth = 50

	rows := Engineer(records, nil)
	row := rows[len(rows)-1]

	if got := row.PowerTempRatio; got != 0 { // 0 / 0.1
		t.Errorf("power_temp_ratio with zero temperature: expected 0, got %v", got)
	}
	if got := row.BatteryPowerRatio; math.Abs(got-500) > 1e-9 { // 50 / 0.1
		t.Errorf("battery_power_ratio with zero power: expected 500, got %v", got)
	}
}

func TestEngineer_AnomalyMerge(t *testing.T) {
	records := makeRecords(20)
	target := records[10]
	events := []*domain.AnomalyEvent{
		{
			Timestamp:   target.Timestamp,
			SatelliteID: target.SatelliteID,
			Parameter:   "power",
			Value:       target.Power,
			RootCause:   domain.CauseSolarPanelDegradation,
			Severity:    domain.SeverityHigh,
		},
		{
			// Different satellite, same timestamp: must not merge.
			Timestamp:   target.Timestamp,
			SatelliteID: "SAT-OTHER",
			Parameter:   "power",
			Value:       1,
			RootCause:   domain.CauseMemoryLeak,
			Severity:    domain.SeverityLow,
		},
	}

	rows := Engineer(records, events)

	var labeled int
	for _, row := range rows {
		if !row.Anomaly {
			continue
		}
		labeled++
		if !row.Timestamp.Equal(target.Timestamp) {
			t.Errorf("unexpected anomaly at %v", row.Timestamp)
		}
		if row.Causes[domain.CauseSolarPanelDegradation.Index()] != 1 {
			t.Errorf("expected solar panel cause set, got %v", row.Causes)
		}
		if row.Causes[domain.CauseMemoryLeak.Index()] != 0 {
			t.Errorf("cause from another satellite leaked into the row")
		}
	}
	if labeled != 1 {
		t.Errorf("expected exactly 1 labeled row, got %d", labeled)
	}
}

func TestEngineer_DoesNotMutateInput(t *testing.T) {
	records := makeRecords(20)
	before := make([]domain.TelemetryRecord, len(records))
	for i, r := range records {
		before[i] = *r
	}

	Engineer(records, nil)

	for i, r := range records {
		if *r != before[i] {
			t.Fatalf("record %d mutated by Engineer", i)
		}
	}
}
