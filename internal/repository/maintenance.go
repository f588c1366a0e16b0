package repository

import (
	"sort"

	"github.com/gridops/substation-monitor/internal/domain"
)

// ListMaintenance returns all service records, newest date first.
func (r *Repos) ListMaintenance() []domain.Maintenance {
	doc, ok := r.load()
	if !ok {
		return nil
	}
	out := append([]domain.Maintenance{}, doc.Maintenance...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func (r *Repos) ListMaintenanceByEquipment(equipmentID string) []domain.Maintenance {
	doc, ok := r.load()
	if !ok {
		return nil
	}
	var out []domain.Maintenance
	for _, m := range doc.Maintenance {
		if m.EquipmentID == equipmentID {
			out = append(out, m)
		}
	}
	return out
}

// AddMaintenance appends a service record, stamps the equipment's last
// maintenance with the record date and schedules the next one three months
// later.
func (r *Repos) AddMaintenance(m domain.Maintenance) (domain.Maintenance, error) {
	doc, ok := r.load()
	if !ok {
		return domain.Maintenance{}, errStoreUnavailable
	}
	eq, ok := doc.Equipment[m.EquipmentID]
	if !ok {
		return domain.Maintenance{}, ErrNotFound
	}
	m.ID = newID("M-")
	if m.EquipmentName == "" {
		m.EquipmentName = eq.Name
	}
	doc.Maintenance = append(doc.Maintenance, m)

	eq.LastMaintenance = m.Date
	eq.NextMaintenance = domain.NextMaintenanceDate(m.Date)
	doc.Equipment[eq.ID] = eq

	if !r.commit(doc) {
		return domain.Maintenance{}, errStoreUnavailable
	}
	r.log.Info().Str("record", m.ID).Str("equipment", eq.ID).
		Str("type", string(m.Type)).Msg("maintenance recorded")
	return m, nil
}

// MaintenancePatch carries the fields of a shallow-merge update. Changing
// the date of an existing record does not touch the equipment's schedule.
type MaintenancePatch struct {
	Type       *domain.MaintenanceType `json:"type"`
	Date       *string                 `json:"date"`
	Technician *string                 `json:"technician"`
	Content    *string                 `json:"content"`
	Duration   *string                 `json:"duration"`
}

func (r *Repos) UpdateMaintenance(id string, patch MaintenancePatch) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	idx := -1
	for i := range doc.Maintenance {
		if doc.Maintenance[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	m := doc.Maintenance[idx]
	if patch.Type != nil {
		m.Type = *patch.Type
	}
	if patch.Date != nil {
		m.Date = *patch.Date
	}
	if patch.Technician != nil {
		m.Technician = *patch.Technician
	}
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.Duration != nil {
		m.Duration = *patch.Duration
	}
	doc.Maintenance[idx] = m
	return r.commit(doc)
}

func (r *Repos) DeleteMaintenance(id string) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	kept := doc.Maintenance[:0]
	for _, m := range doc.Maintenance {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(doc.Maintenance) {
		return false
	}
	doc.Maintenance = kept
	return r.commit(doc)
}
