package domain

import "time"

// Channel identifies one of the five continuous sensor channels.
type Channel int

const (
	ChannelPower Channel = iota
	ChannelTemperature
	ChannelBatteryHealth
	ChannelSignalStrength
	ChannelMemoryUsage

	NumChannels = 5
)

var channelNames = [NumChannels]string{
	"power",
	"temperature",
	"battery_health",
	"signal_strength",
	"memory_usage",
}

// Name returns the canonical column name for the channel.
func (c Channel) Name() string {
	if c < 0 || int(c) >= NumChannels {
		return "unknown"
	}
	return channelNames[c]
}

// Channels returns all sensor channels in canonical order.
func Channels() [NumChannels]Channel {
	return [NumChannels]Channel{
		ChannelPower,
		ChannelTemperature,
		ChannelBatteryHealth,
		ChannelSignalStrength,
		ChannelMemoryUsage,
	}
}

// ClipRange is the physical range a channel value is clipped to.
type ClipRange struct {
	Min float64
	Max float64
}

var clipRanges = [NumChannels]ClipRange{
	{0, 100},   // power
	{-10, 50},  // temperature
	{0, 100},   // battery_health
	{0, 100},   // signal_strength
	{0, 100},   // memory_usage
}

// ClipRange returns the physical range for the channel.
func (c Channel) ClipRange() ClipRange {
	return clipRanges[c]
}

// Clip clamps v to the channel's physical range.
func (c Channel) Clip(v float64) float64 {
	r := clipRanges[c]
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// TelemetryRecord is one telemetry sample for a satellite.
// Corresponds to the telemetry table in PostgreSQL.
// Invariant: one record per (satellite_id, timestamp); timestamps strictly
// increasing within a satellite's series.
type TelemetryRecord struct {
	Timestamp      time.Time // UTC, fixed sampling interval
	SatelliteID    string
	OrbitPosition  float64 // orbit phase fraction in [0,1)
	InEclipse      bool    // orbit phase strictly inside the eclipse band
	Power          float64
	Temperature    float64
	BatteryHealth  float64
	SignalStrength float64
	MemoryUsage    float64
}

// Value returns the reading for the given channel.
func (r *TelemetryRecord) Value(c Channel) float64 {
	switch c {
	case ChannelPower:
		return r.Power
	case ChannelTemperature:
		return r.Temperature
	case ChannelBatteryHealth:
		return r.BatteryHealth
	case ChannelSignalStrength:
		return r.SignalStrength
	case ChannelMemoryUsage:
		return r.MemoryUsage
	}
	return 0
}

// SetValue overwrites the reading for the given channel.
func (r *TelemetryRecord) SetValue(c Channel, v float64) {
	switch c {
	case ChannelPower:
		r.Power = v
	case ChannelTemperature:
		r.Temperature = v
	case ChannelBatteryHealth:
		r.BatteryHealth = v
	case ChannelSignalStrength:
		r.SignalStrength = v
	case ChannelMemoryUsage:
		r.MemoryUsage = v
	}
}
