package diagnosis_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/substation-monitor/internal/diagnosis"
	"github.com/gridops/substation-monitor/internal/domain"
)

var testClock = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func transformerFault(sensor *diagnosis.SensorData) diagnosis.FaultData {
	return diagnosis.FaultData{
		EquipmentID:   "EQ-2023-001",
		EquipmentName: "Main Transformer T1",
		EquipmentType: domain.TypeTransformer,
		FaultTime:     "2025-06-01 09:30",
		Symptoms:      "Oil temperature climbing under steady load",
		Sensor:        sensor,
	}
}

func TestGenerateTemperatureClause(t *testing.T) {
	sol := diagnosis.Generate(transformerFault(&diagnosis.SensorData{
		Temperature: 80, Current: 100, Voltage: 10.5,
	}), testClock)

	assert.Contains(t, sol.Diagnosis, "temperature abnormally high (80 degC)")
	assert.NotContains(t, sol.Diagnosis, "Current abnormal")
	assert.NotContains(t, sol.Diagnosis, "Voltage abnormal")
	assert.NotEmpty(t, sol.Solution)
}

func TestGenerateMultipleClausesConcatenate(t *testing.T) {
	sol := diagnosis.Generate(transformerFault(&diagnosis.SensorData{
		Temperature: 90, Current: 200, Voltage: 8.0, Vibration: 4.2, HasVisualAnomaly: true,
	}), testClock)

	assert.Contains(t, sol.Diagnosis, "temperature abnormally high")
	assert.Contains(t, sol.Diagnosis, "Current abnormal (200 A)")
	assert.Contains(t, sol.Diagnosis, "Voltage abnormal (8.0 kV)")
	assert.Contains(t, sol.Diagnosis, "Vibration abnormal (4.2 mm/s)")
	assert.Contains(t, sol.Diagnosis, "visual anomaly")

	// One checklist per fired clause, blank-line separated.
	assert.Len(t, strings.Split(sol.Solution, "\n\n"), 5)
}

func TestGenerateThresholdBoundaries(t *testing.T) {
	// Readings exactly at the limits do not fire.
	sol := diagnosis.Generate(transformerFault(&diagnosis.SensorData{
		Temperature: 75, Current: 150, Voltage: 11.5, Vibration: 3.5,
	}), testClock)
	assert.Empty(t, sol.Diagnosis)

	sol = diagnosis.Generate(transformerFault(&diagnosis.SensorData{
		Temperature: 75.1, Current: 150, Voltage: 9.5, Vibration: 3.5,
	}), testClock)
	assert.Contains(t, sol.Diagnosis, "temperature abnormally high")
}

func TestGenerateVoltageWindow(t *testing.T) {
	low := diagnosis.Generate(transformerFault(&diagnosis.SensorData{Voltage: 9.4, Temperature: 40, Current: 50}), testClock)
	assert.Contains(t, low.Diagnosis, "Voltage abnormal (9.4 kV)")

	high := diagnosis.Generate(transformerFault(&diagnosis.SensorData{Voltage: 11.6, Temperature: 40, Current: 50}), testClock)
	assert.Contains(t, high.Diagnosis, "Voltage abnormal (11.6 kV)")

	inside := diagnosis.Generate(transformerFault(&diagnosis.SensorData{Voltage: 10.5, Temperature: 40, Current: 50}), testClock)
	assert.NotContains(t, inside.Diagnosis, "Voltage abnormal")
}

func TestGenerateWithoutSensorUsesTypeDiagnosis(t *testing.T) {
	for _, tt := range []domain.EquipmentType{
		domain.TypeTransformer, domain.TypeBreaker, domain.TypeDisconnector,
		domain.TypeInstrumentTransformer, domain.TypeArrester,
	} {
		fault := transformerFault(nil)
		fault.EquipmentType = tt
		sol := diagnosis.Generate(fault, testClock)
		assert.NotEmpty(t, sol.Diagnosis, "type %s", tt)
		assert.NotEmpty(t, sol.Solution, "type %s", tt)
	}
}

func TestGenerateUnknownTypeFallsBack(t *testing.T) {
	fault := transformerFault(nil)
	fault.EquipmentType = domain.EquipmentType("capacitor_bank")
	sol := diagnosis.Generate(fault, testClock)
	assert.NotEmpty(t, sol.Diagnosis)
	assert.NotEmpty(t, sol.Solution)
}

func TestGenerateQuietSensorStillYieldsChecklist(t *testing.T) {
	sol := diagnosis.Generate(transformerFault(&diagnosis.SensorData{
		Temperature: 40, Current: 50, Voltage: 10.5,
	}), testClock)
	assert.Empty(t, sol.Diagnosis)
	assert.NotEmpty(t, sol.Solution, "an in-band snapshot still gets the generic checklist")
}

func TestGenerateAlwaysCarriesThreeCommands(t *testing.T) {
	for _, sensor := range []*diagnosis.SensorData{
		nil,
		{Temperature: 90},
		{Temperature: 40, Current: 50, Voltage: 10.5},
	} {
		sol := diagnosis.Generate(transformerFault(sensor), testClock)
		require.Len(t, sol.Commands, 3)
		assert.Contains(t, sol.Commands[0].Content, "OPERATION=TRIP")
		assert.Contains(t, sol.Commands[1].Content, "LEVEL=DETAILED")
		assert.Contains(t, sol.Commands[2].Content, "SYSTEM_RESET")
		for _, cmd := range sol.Commands {
			assert.Equal(t, diagnosis.CommandPending, cmd.Status)
			assert.True(t, strings.HasPrefix(cmd.ID, "CMD-"))
		}
	}
}

func TestCommandTemplatesStampedFromClock(t *testing.T) {
	for _, cmd := range diagnosis.CommandTemplates(testClock) {
		assert.Equal(t, "09:30:00", cmd.Time)
	}
}

func TestCommandTemplateIDsAreUnique(t *testing.T) {
	a := diagnosis.CommandTemplates(testClock)
	b := diagnosis.CommandTemplates(testClock)
	seen := map[string]bool{}
	for _, cmd := range append(a, b...) {
		assert.False(t, seen[cmd.ID], "duplicate id %s", cmd.ID)
		seen[cmd.ID] = true
	}
}

func TestStepDetailMentionsEquipment(t *testing.T) {
	fault := transformerFault(&diagnosis.SensorData{Temperature: 80})
	for id := 1; id <= 5; id++ {
		started := diagnosis.StepDetail(id, fault, false)
		assert.NotEmpty(t, started, "step %d in progress", id)
		done := diagnosis.StepDetail(id, fault, true)
		assert.NotEmpty(t, done, "step %d completed", id)
	}
	assert.Contains(t, diagnosis.StepDetail(1, fault, true), fault.EquipmentName)
}
