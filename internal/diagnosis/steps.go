package diagnosis

import "fmt"

// StepDetail renders the progressive detail text for one of the five
// workflow stages. Completed stages report results; running stages report
// what is being done.
func StepDetail(stepID int, fault FaultData, completed bool) string {
	switch stepID {
	case 1:
		if s := fault.Sensor; s != nil {
			detail := fmt.Sprintf(
				"Collected live sensor data for %s: temperature %.0f degC, current %.0f A, voltage %.1f kV, vibration %.1f mm/s.",
				fault.EquipmentName, s.Temperature, s.Current, s.Voltage, s.Vibration)
			if s.HasVisualAnomaly {
				detail += " Camera inspection detected a visual anomaly."
			}
			return detail
		}
		return fmt.Sprintf("Collected fault data for %s (%s), fault time %s.",
			fault.EquipmentName, fault.EquipmentID, fault.FaultTime)
	case 2:
		if completed {
			return "Fault analysis complete: identified the primary cause from the sensor signature."
		}
		return "Analyzing sensor signatures, matching anomaly patterns against historical fault cases."
	case 3:
		if completed {
			return "Solution generated: remediation checklist and command plan are ready."
		}
		return "Generating a remediation plan from the analysis results, assessing feasibility and risk."
	case 4:
		if completed {
			return "Control commands dispatched; the equipment has entered a safe state."
		}
		return "Preparing control commands for staged dispatch per the remediation plan."
	case 5:
		if completed {
			return "Fault resolved; equipment readings are back inside the normal range."
		}
		return "Verifying equipment state to confirm the fault is resolved."
	default:
		return ""
	}
}
