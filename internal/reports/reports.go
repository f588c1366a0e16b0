// Package reports shapes the data behind the chart-driven report views.
// Everything is a pure read over the repository.
package reports

import (
	"github.com/gridops/substation-monitor/internal/domain"
	"github.com/gridops/substation-monitor/internal/repository"
)

// SubstationLoad is the per-substation aggregate behind the load chart.
type SubstationLoad struct {
	SubstationID   string        `json:"substationId"`
	Name           string        `json:"name"`
	Status         domain.Status `json:"status"`
	EquipmentCount int           `json:"equipmentCount"`
	AvgLoad        float64       `json:"avgLoad"`
	AvgTemperature float64       `json:"avgTemperature"`
}

// Overview is the aggregate snapshot the report charts render from.
type Overview struct {
	EquipmentTotal    int                            `json:"equipmentTotal"`
	StatusCounts      map[domain.Status]int          `json:"statusCounts"`
	TypeCounts        map[domain.EquipmentType]int   `json:"typeCounts"`
	ActiveAlerts      int                            `json:"activeAlerts"`
	AlertsByLevel     map[domain.AlertLevel]int      `json:"alertsByLevel"`
	MaintenanceByType map[domain.MaintenanceType]int `json:"maintenanceByType"`
	Substations       []SubstationLoad               `json:"substations"`
}

// Build computes the overview from fresh repository reads.
func Build(repos *repository.Repos) Overview {
	ov := Overview{
		StatusCounts:      map[domain.Status]int{},
		TypeCounts:        map[domain.EquipmentType]int{},
		AlertsByLevel:     map[domain.AlertLevel]int{},
		MaintenanceByType: map[domain.MaintenanceType]int{},
	}

	equipment := repos.ListEquipment()
	ov.EquipmentTotal = len(equipment)
	for _, eq := range equipment {
		ov.StatusCounts[eq.Status]++
		ov.TypeCounts[eq.Type]++
	}

	alerts := repos.ListActiveAlerts()
	ov.ActiveAlerts = len(alerts)
	for _, a := range alerts {
		ov.AlertsByLevel[a.Level]++
	}

	for _, m := range repos.ListMaintenance() {
		ov.MaintenanceByType[m.Type]++
	}

	for _, sub := range repos.ListSubstations() {
		load := SubstationLoad{
			SubstationID: sub.ID,
			Name:         sub.Name,
			Status:       sub.Status,
		}
		var sumLoad, sumTemp float64
		for _, eq := range equipment {
			if eq.SubstationID != sub.ID {
				continue
			}
			load.EquipmentCount++
			sumLoad += eq.Load
			sumTemp += eq.Temperature
		}
		if load.EquipmentCount > 0 {
			load.AvgLoad = sumLoad / float64(load.EquipmentCount)
			load.AvgTemperature = sumTemp / float64(load.EquipmentCount)
		}
		ov.Substations = append(ov.Substations, load)
	}

	return ov
}
