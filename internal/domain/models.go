package domain

// Status is the operational state of a substation or equipment unit.
type Status string

const (
	StatusNormal  Status = "normal"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Severity orders statuses for aggregation: error > warning > normal.
func (s Status) Severity() int {
	switch s {
	case StatusError:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// EquipmentType is the kind of monitored device.
type EquipmentType string

const (
	TypeTransformer           EquipmentType = "transformer"
	TypeBreaker               EquipmentType = "breaker"
	TypeDisconnector          EquipmentType = "disconnector"
	TypeInstrumentTransformer EquipmentType = "instrument_transformer"
	TypeArrester              EquipmentType = "arrester"
)

// AlertLevel is the severity of a recorded anomaly.
type AlertLevel string

const (
	LevelWarning AlertLevel = "warning"
	LevelError   AlertLevel = "error"
)

// AlertStatus tracks the resolution lifecycle of an alert.
type AlertStatus string

const (
	AlertPending    AlertStatus = "pending"
	AlertProcessing AlertStatus = "processing"
	AlertCompleted  AlertStatus = "completed"
)

// MaintenanceType classifies a logged service action.
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "preventive"
	MaintenanceInspection MaintenanceType = "inspection"
	MaintenanceRepair     MaintenanceType = "repair"
)

// Substation is a site aggregating equipment units. Status is always the
// max severity of its equipment statuses and is stored, not computed on read.
type Substation struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Capacity     string   `json:"capacity"`
	Status       Status   `json:"status"`
	ImageURL     string   `json:"imageUrl"`
	EquipmentIDs []string `json:"equipmentIds"`
}

// Equipment is a monitored device owned by exactly one substation.
// Maintenance dates use the YYYY-MM-DD layout.
type Equipment struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Type            EquipmentType     `json:"type"`
	SubstationID    string            `json:"substationId"`
	Location        string            `json:"location"`
	Status          Status            `json:"status"`
	Temperature     float64           `json:"temperature"`
	Voltage         float64           `json:"voltage"`
	Current         float64           `json:"current"`
	Load            float64           `json:"load"`
	LastMaintenance string            `json:"lastMaintenance"`
	NextMaintenance string            `json:"nextMaintenance"`
	ImageURL        string            `json:"imageUrl"`
	Specifications  map[string]string `json:"specifications"`
}

// Alert records an anomaly against one equipment unit. Equipment and
// substation names are denormalized at creation so the record stays
// displayable after the referenced entities are deleted.
type Alert struct {
	ID             string        `json:"id"`
	EquipmentID    string        `json:"equipmentId"`
	EquipmentName  string        `json:"equipmentName"`
	EquipmentType  EquipmentType `json:"equipmentType"`
	SubstationID   string        `json:"substationId"`
	SubstationName string        `json:"substationName"`
	Message        string        `json:"message"`
	Level          AlertLevel    `json:"level"`
	Time           string        `json:"time"`
	Status         AlertStatus   `json:"status"`
}

// Maintenance is a logged service action against one equipment unit.
type Maintenance struct {
	ID            string          `json:"id"`
	EquipmentID   string          `json:"equipmentId"`
	EquipmentName string          `json:"equipmentName"`
	Type          MaintenanceType `json:"type"`
	Date          string          `json:"date"`
	Technician    string          `json:"technician"`
	Content       string          `json:"content"`
	Duration      string          `json:"duration"`
}

// DeriveStatus maps an equipment collection to the aggregate substation
// status: error if any member is error, else warning if any member is
// warning, else normal. An empty collection derives to normal.
func DeriveStatus(equipment []Equipment) Status {
	derived := StatusNormal
	for _, eq := range equipment {
		if eq.Status.Severity() > derived.Severity() {
			derived = eq.Status
		}
	}
	return derived
}
