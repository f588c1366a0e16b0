package domain

import (
	"math/rand"
	"time"
)

// DateLayout is the storage layout for maintenance dates.
const DateLayout = "2006-01-02"

// NextMaintenanceDate schedules the follow-up three calendar months after
// the given date. Unparseable dates pass through unchanged.
func NextMaintenanceDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 3, 0).Format(DateLayout)
}

// TelemetryBand is the normal operating range for one equipment type.
type TelemetryBand struct {
	TempMin, TempMax       float64
	CurrentMin, CurrentMax float64
	LoadMin, LoadMax       float64
}

var normalBands = map[EquipmentType]TelemetryBand{
	TypeTransformer:           {35, 50, 40, 60, 50, 70},
	TypeBreaker:               {30, 40, 35, 50, 45, 60},
	TypeDisconnector:          {25, 35, 30, 50, 40, 60},
	TypeInstrumentTransformer: {30, 45, 35, 60, 45, 70},
	TypeArrester:              {30, 40, 25, 35, 35, 50},
}

var fallbackBand = TelemetryBand{30, 45, 30, 50, 40, 60}

// NormalBand returns the normal telemetry range for the given type.
// Unknown types get a generic band.
func NormalBand(t EquipmentType) TelemetryBand {
	if b, ok := normalBands[t]; ok {
		return b
	}
	return fallbackBand
}

// Contains reports whether the readings lie inside the band.
func (b TelemetryBand) Contains(temperature, current, load float64) bool {
	return temperature >= b.TempMin && temperature <= b.TempMax &&
		current >= b.CurrentMin && current <= b.CurrentMax &&
		load >= b.LoadMin && load <= b.LoadMax
}

// Sample draws readings inside the band.
func (b TelemetryBand) Sample(rng *rand.Rand) (temperature, current, load float64) {
	temperature = b.TempMin + rng.Float64()*(b.TempMax-b.TempMin)
	current = b.CurrentMin + rng.Float64()*(b.CurrentMax-b.CurrentMin)
	load = b.LoadMin + rng.Float64()*(b.LoadMax-b.LoadMin)
	return
}
