// Package diagnosis generates fault diagnoses and remediation plans from a
// fixed decision table keyed by equipment type and sensor thresholds. There
// is no model behind it: matching clauses concatenate, and the command set
// is always the same three templates.
package diagnosis

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gridops/substation-monitor/internal/domain"
)

// CommandStatus tracks one remediation command through dispatch.
type CommandStatus string

const (
	CommandPending    CommandStatus = "pending"
	CommandSent       CommandStatus = "sent"
	CommandProcessing CommandStatus = "processing"
	CommandCompleted  CommandStatus = "completed"
	CommandFailed     CommandStatus = "failed"
)

// Command is one dispatchable remediation instruction.
type Command struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Status  CommandStatus `json:"status"`
	Time    string        `json:"time"`
	Content string        `json:"content"`
}

// Solution is the generated diagnosis plus its remediation plan.
type Solution struct {
	Diagnosis string    `json:"diagnosis"`
	Solution  string    `json:"solution"`
	Commands  []Command `json:"commands"`
}

// SensorData is the telemetry snapshot the clauses evaluate.
type SensorData struct {
	Temperature      float64 `json:"temperature"`
	Current          float64 `json:"current"`
	Voltage          float64 `json:"voltage"`
	Vibration        float64 `json:"vibration"`
	HasVisualAnomaly bool    `json:"hasVisualAnomaly"`
}

// FaultData describes one equipment fault under analysis.
type FaultData struct {
	EquipmentID   string               `json:"equipmentId"`
	EquipmentName string               `json:"equipmentName"`
	EquipmentType domain.EquipmentType `json:"equipmentType"`
	FaultTime     string               `json:"faultTime"`
	Symptoms      string               `json:"symptoms"`
	Sensor        *SensorData          `json:"sensorData,omitempty"`
}

// Anomaly thresholds. A clause fires when its reading crosses the bound.
const (
	TemperatureLimit = 75.0  // degC
	CurrentLimit     = 150.0 // A
	VoltageLow       = 9.5   // kV
	VoltageHigh      = 11.5  // kV
	VibrationLimit   = 3.5   // mm/s
)

// Generate runs the decision table over the fault data. Each fired clause
// contributes a diagnosis fragment and a type-specific checklist; absent
// sensor data falls back to a per-type generic diagnosis. The output always
// carries exactly three command templates, all pending, stamped with now.
func Generate(fault FaultData, now time.Time) Solution {
	var diagnosis, solution []string

	if s := fault.Sensor; s != nil {
		if s.Temperature > TemperatureLimit {
			diagnosis = append(diagnosis, fmt.Sprintf(
				"Equipment temperature abnormally high (%.0f degC), above the safe threshold.", s.Temperature))
			solution = append(solution, checklist(temperatureChecklists, fault.EquipmentType))
		}
		if s.Current > CurrentLimit {
			diagnosis = append(diagnosis, fmt.Sprintf(
				"Current abnormal (%.0f A), above the rated value.", s.Current))
			solution = append(solution, checklist(currentChecklists, fault.EquipmentType))
		}
		if s.Voltage < VoltageLow || s.Voltage > VoltageHigh {
			diagnosis = append(diagnosis, fmt.Sprintf(
				"Voltage abnormal (%.1f kV), outside the normal range.", s.Voltage))
			solution = append(solution, checklist(voltageChecklists, fault.EquipmentType))
		}
		if s.Vibration > VibrationLimit {
			diagnosis = append(diagnosis, fmt.Sprintf(
				"Vibration abnormal (%.1f mm/s), possible mechanical fault.", s.Vibration))
			solution = append(solution, checklist(vibrationChecklists, fault.EquipmentType))
		}
		if s.HasVisualAnomaly {
			diagnosis = append(diagnosis, "Camera inspection detected a visual anomaly on the equipment.")
			solution = append(solution, checklist(visualChecklists, fault.EquipmentType))
		}
	} else {
		generic := genericDiagnoses[fault.EquipmentType]
		if generic.diagnosis == "" {
			generic = genericFallback
		}
		diagnosis = append(diagnosis, generic.diagnosis)
		solution = append(solution, generic.checklist)
	}

	if len(solution) == 0 || strings.TrimSpace(strings.Join(solution, "")) == "" {
		solution = []string{genericFallback.checklist}
	}

	return Solution{
		Diagnosis: strings.Join(diagnosis, " "),
		Solution:  strings.Join(solution, "\n\n"),
		Commands:  CommandTemplates(now),
	}
}

// CommandTemplates returns the fixed three-command remediation set:
// emergency trip, detailed diagnosis and system reset, each pending.
func CommandTemplates(now time.Time) []Command {
	stamp := now.Format("15:04:05")
	return []Command{
		{
			ID:      "CMD-" + uuid.NewString()[:8] + "-1",
			Name:    "Emergency trip command",
			Status:  CommandPending,
			Time:    stamp,
			Content: "DEVICE_CONTROL;OPERATION=TRIP;PRIORITY=EMERGENCY",
		},
		{
			ID:      "CMD-" + uuid.NewString()[:8] + "-2",
			Name:    "Detailed diagnosis command",
			Status:  CommandPending,
			Time:    stamp,
			Content: "DEVICE_DIAGNOSIS;LEVEL=DETAILED;PARAMS=TEMP,PRESSURE,CURRENT",
		},
		{
			ID:      "CMD-" + uuid.NewString()[:8] + "-3",
			Name:    "System reset command",
			Status:  CommandPending,
			Time:    stamp,
			Content: "SYSTEM_RESET;DELAY=10;AUTO_RECOVER=TRUE",
		},
	}
}

func checklist(table map[domain.EquipmentType]string, t domain.EquipmentType) string {
	if steps, ok := table[t]; ok {
		return steps
	}
	return table[typeDefault]
}
