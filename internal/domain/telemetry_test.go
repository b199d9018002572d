package domain

import "testing"

func TestChannels_CanonicalOrder(t *testing.T) {
	want := []string{"power", "temperature", "battery_health", "signal_strength", "memory_usage"}
	chs := Channels()
	if len(chs) != NumChannels {
		t.Fatalf("expected %d channels, got %d", NumChannels, len(chs))
	}
	for i, ch := range chs {
		if ch.Name() != want[i] {
			t.Errorf("channel %d: expected %q, got %q", i, want[i], ch.Name())
		}
	}
}

func TestChannel_Clip(t *testing.T) {
	cases := []struct {
		channel Channel
		in      float64
		want    float64
	}{
		{ChannelPower, -5, 0},
		{ChannelPower, 50, 50},
		{ChannelPower, 120, 100},
		{ChannelTemperature, -30, -10},
		{ChannelTemperature, 20, 20},
		{ChannelTemperature, 75, 50},
		{ChannelBatteryHealth, 101, 100},
		{ChannelSignalStrength, -0.1, 0},
		{ChannelMemoryUsage, 100, 100},
	}
	for _, tc := range cases {
		if got := tc.channel.Clip(tc.in); got != tc.want {
			t.Errorf("%s.Clip(%v): expected %v, got %v", tc.channel.Name(), tc.in, tc.want, got)
		}
	}
}

func TestChannel_ClipRange(t *testing.T) {
	r := ChannelTemperature.ClipRange()
	if r.Min != -10 || r.Max != 50 {
		t.Errorf("temperature range: expected [-10, 50], got [%v, %v]", r.Min, r.Max)
	}
	r = ChannelPower.ClipRange()
	if r.Min != 0 || r.Max != 100 {
		t.Errorf("power range: expected [0, 100], got [%v, %v]", r.Min, r.Max)
	}
}

func TestTelemetryRecord_ValueSetValue(t *testing.T) {
	var rec TelemetryRecord
	for i, ch := range Channels() {
		want := float64(i+1) * 11
		rec.SetValue(ch, want)
		if got := rec.Value(ch); got != want {
			t.Errorf("%s: expected %v, got %v", ch.Name(), want, got)
		}
	}
	if rec.Power != 11 || rec.Temperature != 22 || rec.BatteryHealth != 33 ||
		rec.SignalStrength != 44 || rec.MemoryUsage != 55 {
		t.Errorf("fields not set in canonical order: %+v", rec)
	}
}
