package store

import (
	"fmt"
	"time"

	"github.com/gridops/substation-monitor/internal/domain"
)

// AlertTimeLayout is the display layout for alert timestamps. It sorts
// lexically in chronological order.
const AlertTimeLayout = "2006-01-02 15:04"

var seedSubstations = []domain.Substation{
	{
		ID:       "SUB-001",
		Name:     "North City Substation",
		Location: "Northern industrial district",
		Capacity: "110kV",
		Status:   domain.StatusNormal,
		ImageURL: "/images/substations/sub-001.jpg",
	},
	{
		ID:       "SUB-002",
		Name:     "South City Substation",
		Location: "Southern residential district",
		Capacity: "220kV",
		Status:   domain.StatusNormal,
		ImageURL: "/images/substations/sub-002.jpg",
	},
	{
		ID:       "SUB-003",
		Name:     "East City Substation",
		Location: "Eastern technology park",
		Capacity: "110kV",
		Status:   domain.StatusNormal,
		ImageURL: "/images/substations/sub-003.jpg",
	},
}

var seedEquipment = []domain.Equipment{
	{
		ID:              "EQ-2023-001",
		Name:            "Main Transformer T1",
		Type:            domain.TypeTransformer,
		SubstationID:    "SUB-001",
		Location:        "Bay 1",
		Status:          domain.StatusNormal,
		Temperature:     45,
		Voltage:         10.5,
		Current:         42,
		Load:            65,
		LastMaintenance: "2025-05-12",
		NextMaintenance: "2025-08-12",
		ImageURL:        "/images/equipment/eq-2023-001.jpg",
		Specifications: map[string]string{
			"Rated capacity":    "1000 kVA",
			"Primary voltage":   "10 kV",
			"Secondary voltage": "0.4 kV",
			"Vector group":      "Dyn11",
			"Cooling":           "ONAN",
			"Impedance voltage": "4%",
		},
	},
	{
		ID:              "EQ-2023-003",
		Name:            "Disconnector DS-18",
		Type:            domain.TypeDisconnector,
		SubstationID:    "SUB-001",
		Location:        "Bay 5",
		Status:          domain.StatusNormal,
		Temperature:     32,
		Voltage:         10.2,
		Current:         38,
		Load:            45,
		LastMaintenance: "2025-05-20",
		NextMaintenance: "2025-08-20",
		ImageURL:        "/images/equipment/eq-2023-003.jpg",
		Specifications: map[string]string{
			"Rated voltage":              "12 kV",
			"Rated current":              "630 A",
			"Short-time withstand":       "20 kA",
			"Operation":                  "manual/motor",
			"Insulation withstand level": "30 kV",
		},
	},
	{
		ID:              "EQ-2023-002",
		Name:            "Circuit Breaker CB-24",
		Type:            domain.TypeBreaker,
		SubstationID:    "SUB-002",
		Location:        "Bay 3",
		Status:          domain.StatusError,
		Temperature:     78,
		Voltage:         10.1,
		Current:         0,
		Load:            0,
		LastMaintenance: "2025-04-28",
		NextMaintenance: "2025-07-28",
		ImageURL:        "/images/equipment/eq-2023-002.jpg",
		Specifications: map[string]string{
			"Rated voltage":              "12 kV",
			"Rated current":              "630 A",
			"Rated breaking current":     "20 kA",
			"Operating mechanism":        "spring",
			"Insulation withstand level": "30 kV",
		},
	},
	{
		ID:              "EQ-2023-005",
		Name:            "Surge Arrester LA-12",
		Type:            domain.TypeArrester,
		SubstationID:    "SUB-002",
		Location:        "Bay 7",
		Status:          domain.StatusNormal,
		Temperature:     41,
		Voltage:         10.3,
		Current:         32,
		Load:            58,
		LastMaintenance: "2025-06-02",
		NextMaintenance: "2025-09-02",
		ImageURL:        "/images/equipment/eq-2023-005.jpg",
		Specifications: map[string]string{
			"Rated voltage":                "10 kV",
			"Continuous operating voltage": "8.6 kV",
			"Residual voltage":             "26 kV",
			"Response time":                "<100ns",
			"Temperature range":            "-40C to 70C",
		},
	},
	{
		ID:              "EQ-2023-004",
		Name:            "Current Transformer CT-09",
		Type:            domain.TypeInstrumentTransformer,
		SubstationID:    "SUB-003",
		Location:        "Bay 2",
		Status:          domain.StatusWarning,
		Temperature:     65,
		Voltage:         10.4,
		Current:         78,
		Load:            78,
		LastMaintenance: "2025-05-05",
		NextMaintenance: "2025-08-05",
		ImageURL:        "/images/equipment/eq-2023-004.jpg",
		Specifications: map[string]string{
			"Rated voltage":       "10 kV",
			"Rated current ratio": "600/5 A",
			"Accuracy class":      "0.5",
			"Rated burden":        "10 VA",
			"Temperature range":   "-40C to 70C",
		},
	},
}

var seedMaintenance = []domain.Maintenance{
	{
		ID:            "M-2023-001",
		EquipmentID:   "EQ-2023-001",
		EquipmentName: "Main Transformer T1",
		Type:          domain.MaintenancePreventive,
		Date:          "2025-05-12",
		Technician:    "Zhang Wei",
		Content:       "Routine inspection and oil sample analysis, equipment operating normally",
		Duration:      "2h 30m",
	},
	{
		ID:            "M-2023-002",
		EquipmentID:   "EQ-2023-003",
		EquipmentName: "Disconnector DS-18",
		Type:          domain.MaintenanceInspection,
		Date:          "2025-05-20",
		Technician:    "Li Na",
		Content:       "Operating mechanism check and lubrication, mechanical characteristics test",
		Duration:      "1h 45m",
	},
}

// Seed builds the fixed initial document: three substations, five equipment
// units distributed across them, one alert per equipment whose seed status
// is warning or error, and two maintenance records. Substation statuses are
// derived from their equipment so the stored field honors the aggregation
// invariant from the start.
func Seed() *Document {
	doc := &Document{
		Substations: make(map[string]domain.Substation, len(seedSubstations)),
		Equipment:   make(map[string]domain.Equipment, len(seedEquipment)),
		Alerts:      []domain.Alert{},
		Maintenance: append([]domain.Maintenance{}, seedMaintenance...),
	}

	for _, sub := range seedSubstations {
		sub.EquipmentIDs = []string{}
		doc.Substations[sub.ID] = sub
	}

	alertIndex := 0
	now := time.Now()
	for _, eq := range seedEquipment {
		doc.Equipment[eq.ID] = eq

		sub, ok := doc.Substations[eq.SubstationID]
		if !ok {
			continue
		}
		sub.EquipmentIDs = append(sub.EquipmentIDs, eq.ID)
		doc.Substations[eq.SubstationID] = sub

		if eq.Status == domain.StatusNormal {
			continue
		}
		level := domain.LevelWarning
		message := "Abnormal operating condition detected"
		if eq.Status == domain.StatusError {
			level = domain.LevelError
			message = "Equipment fault detected"
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), 10-alertIndex, 30, 0, 0, now.Location())
		doc.Alerts = append(doc.Alerts, domain.Alert{
			ID:             fmt.Sprintf("A-SEED-%03d", alertIndex+1),
			EquipmentID:    eq.ID,
			EquipmentName:  eq.Name,
			EquipmentType:  eq.Type,
			SubstationID:   eq.SubstationID,
			SubstationName: sub.Name,
			Message:        message,
			Level:          level,
			Time:           at.Format(AlertTimeLayout),
			Status:         domain.AlertPending,
		})
		alertIndex++
	}

	for id, sub := range doc.Substations {
		members := make([]domain.Equipment, 0, len(sub.EquipmentIDs))
		for _, eqID := range sub.EquipmentIDs {
			if eq, ok := doc.Equipment[eqID]; ok {
				members = append(members, eq)
			}
		}
		sub.Status = domain.DeriveStatus(members)
		doc.Substations[id] = sub
	}

	return doc
}
