package diagnosis

import "github.com/gridops/substation-monitor/internal/domain"

// typeDefault keys the fallback checklist used when a clause has no entry
// for the equipment type.
const typeDefault domain.EquipmentType = ""

var temperatureChecklists = map[domain.EquipmentType]string{
	domain.TypeTransformer: "Check transformer contacts for oxidation or burn marks\n" +
		"Clear the cooling ducts and verify airflow\n" +
		"Measure contact resistance, confirm below 20 uOhm\n" +
		"Inspect operating mechanism lubricant, replace if aged\n" +
		"Request outage for overhaul immediately if temperature exceeds 90 degC",
	domain.TypeDisconnector: "Check contact seating and look for overheating marks\n" +
		"Clean insulator surfaces and inspect for cracks\n" +
		"Measure loop resistance against acceptance limits\n" +
		"Verify the operating mechanism moves freely without binding\n" +
		"Lubricate rotating parts and re-test open/close synchronism",
	domain.TypeInstrumentTransformer: "Inspect the body for oil seepage\n" +
		"Measure winding insulation resistance and dielectric loss\n" +
		"Verify secondary circuit earthing is sound\n" +
		"Run an accuracy test against the rated class\n" +
		"Clean bushing surfaces and check for damage",
	domain.TypeArrester: "Inspect the arrester body for damage or leakage\n" +
		"Measure leakage current against the normal range\n" +
		"Verify the surge counter operates\n" +
		"Clean the porcelain housing and inspect for cracks\n" +
		"Check base insulation resistance and lead connections",
	typeDefault: "Verify the cooling system is operating\n" +
		"Clear dust and debris from heat sinks, confirm ventilation\n" +
		"Check temperature sensors and their wiring\n" +
		"Trend the temperature hourly and record it\n" +
		"Run electrical and mechanical performance tests as needed",
}

var currentChecklists = map[domain.EquipmentType]string{
	domain.TypeTransformer: "Check three-phase load balance\n" +
		"Run a winding DC resistance test\n" +
		"Inspect tap changer contact condition\n" +
		"Identify the overcurrent source and shed load\n" +
		"Run a short-circuit impedance test if needed",
	domain.TypeBreaker: "Send a remote trip command to interrupt the fault current\n" +
		"Inspect the interrupter chamber for damage\n" +
		"Analyze the fault current waveform to classify the fault\n" +
		"Check operating mechanism spring charge\n" +
		"Test trip coil operating characteristics",
	domain.TypeInstrumentTransformer: "Check the primary side for overload\n" +
		"Test the secondary circuit for short circuits\n" +
		"Check the core for overheating\n" +
		"Identify the overcurrent source and act accordingly\n" +
		"Re-verify dynamic and thermal withstand ratings if needed",
	typeDefault: "Check for an overload condition\n" +
		"Identify the overcurrent source and act accordingly\n" +
		"Review protection relay operations\n" +
		"Test the accuracy of the associated current transformers\n" +
		"Re-verify equipment ratings if needed",
}

var voltageChecklists = map[domain.EquipmentType]string{
	domain.TypeTransformer: "Verify the tap changer position\n" +
		"Test on-load tap changer operation\n" +
		"Check the voltage regulation equipment\n" +
		"Coordinate with dispatch on the voltage deviation\n" +
		"Run ratio and vector group tests if needed",
	domain.TypeInstrumentTransformer: "Check the primary fuses\n" +
		"Test the secondary circuit for open or short circuits\n" +
		"Verify instrument voltage circuits\n" +
		"Confirm the earthing arrangement is correct\n" +
		"Run a voltage ratio test to confirm accuracy",
	typeDefault: "Verify the voltage regulation equipment operates\n" +
		"Measure three-phase voltage balance against allowed deviation\n" +
		"Inspect the neutral earthing system\n" +
		"Determine whether the deviation is system-side or equipment-side\n" +
		"Coordinate with dispatch to adjust system voltage if needed",
}

var vibrationChecklists = map[domain.EquipmentType]string{
	domain.TypeTransformer: "Run a vibration spectrum analysis to locate fault frequencies\n" +
		"Check the core for looseness or multi-point earthing\n" +
		"Check winding clamping pressure\n" +
		"Verify cooling fans and oil pumps run true\n" +
		"Test the tap changer for poor contact",
	domain.TypeBreaker: "Inspect the operating mechanism for loose parts\n" +
		"Test closing spring charge\n" +
		"Check opening damper performance\n" +
		"Tighten base and mounting bolts\n" +
		"Inspect the interrupter chamber mounting",
	typeDefault: "Run a vibration spectrum analysis to locate fault frequencies\n" +
		"Check bearings and rotating parts for wear\n" +
		"Tighten loose bolts and fittings\n" +
		"Inspect the foundation for settlement or damage\n" +
		"Rebalance or replace worn parts if needed",
}

var visualChecklists = map[domain.EquipmentType]string{
	domain.TypeTransformer: "Check the oil level and look for leaks\n" +
		"Inspect bushings for damage or cracks\n" +
		"Check radiators for deformation or blockage\n" +
		"Check the Buchholz relay for accumulated gas\n" +
		"Verify the earthing connections are intact",
	domain.TypeBreaker: "Inspect porcelain or enclosure for damage\n" +
		"Verify the SF6 pressure gauge reading\n" +
		"Check the operating mechanism for oil leaks\n" +
		"Look for discoloration on terminal connections\n" +
		"Confirm the operation counter reading",
	typeDefault: "Dispatch a technician to inspect the reported anomaly on site\n" +
		"Focus on insulator cracks and contamination\n" +
		"Look for overheating discoloration at connections\n" +
		"Confirm labels and safety signage are intact\n" +
		"Clean, tighten or replace parts per findings",
}

type genericEntry struct {
	diagnosis string
	checklist string
}

var genericDiagnoses = map[domain.EquipmentType]genericEntry{
	domain.TypeTransformer: {
		diagnosis: "Transformer composite fault signature suggests an internal abnormality; urgent handling required.",
		checklist: "Reduce transformer load to 30% of rated capacity immediately\n" +
			"Watch temperature and the Buchholz relay closely\n" +
			"Run all cooling stages to maximize heat removal\n" +
			"Take an oil sample for dissolved gas analysis\n" +
			"Measure winding DC resistance and ratio\n" +
			"Request outage for overhaul if an internal fault is confirmed",
	},
	domain.TypeBreaker: {
		diagnosis: "Breaker operating mechanism fault, likely worn linkages or insufficient hydraulic pressure causing a failed opening operation.",
		checklist: "Send a remote trip command as an emergency measure\n" +
			"Check hydraulic system pressure against the normal range\n" +
			"Test operating mechanism response time\n" +
			"Dispatch a technician to inspect mechanical parts on failure\n" +
			"Replace worn linkages and bearings, then re-run the timing test",
	},
	domain.TypeDisconnector: {
		diagnosis: "Disconnector operation fault, likely a binding mechanism or poor contact seating.",
		checklist: "Check the operating mechanism for foreign objects\n" +
			"Lubricate the drive train\n" +
			"Verify the operating supply and motor limit switches\n" +
			"Try manual operation if remote operation fails\n" +
			"Adjust contact pressure and engagement depth, then re-test",
	},
	domain.TypeInstrumentTransformer: {
		diagnosis: "Instrument transformer secondary circuit abnormality; protection and metering may be compromised.",
		checklist: "Test the secondary circuit for open or short circuits\n" +
			"Measure secondary winding insulation resistance\n" +
			"Tighten terminal block connections\n" +
			"Check fuses or miniature circuit breakers\n" +
			"Run a ratio test; replace the unit if it fails",
	},
	domain.TypeArrester: {
		diagnosis: "Arrester leakage current abnormality; overvoltage protection may be compromised.",
		checklist: "Measure leakage current and its resistive component\n" +
			"Check surge counter operations\n" +
			"Test disconnector device characteristics\n" +
			"Inspect the housing for damage or contamination\n" +
			"Compare with historical readings and request replacement if out of limits",
	},
}

var genericFallback = genericEntry{
	diagnosis: "Fault signature analysis suggests a possible internal component failure; further inspection required.",
	checklist: "Perform a full equipment inspection\n" +
		"Check sensor connections and calibration\n" +
		"Review historical operating data for the anomaly trend\n" +
		"Run the necessary electrical and mechanical tests\n" +
		"Plan the repair from the test results and verify afterwards",
}
