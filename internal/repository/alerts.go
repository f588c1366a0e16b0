package repository

import (
	"sort"

	"github.com/gridops/substation-monitor/internal/domain"
	"github.com/gridops/substation-monitor/internal/store"
)

// ListActiveAlerts returns alerts not yet completed, newest first.
// Completed alerts are excluded from the view but retained in storage.
func (r *Repos) ListActiveAlerts() []domain.Alert {
	doc, ok := r.load()
	if !ok {
		return nil
	}
	var out []domain.Alert
	for _, a := range doc.Alerts {
		if a.Status != domain.AlertCompleted {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	return out
}

func (r *Repos) ListAlertsByEquipment(equipmentID string) []domain.Alert {
	doc, ok := r.load()
	if !ok {
		return nil
	}
	var out []domain.Alert
	for _, a := range doc.Alerts {
		if a.EquipmentID == equipmentID {
			out = append(out, a)
		}
	}
	return out
}

// AddAlert records an anomaly against the equipment. Substation linkage and
// display names are resolved and denormalized at creation time; the
// referenced equipment is marked error or warning to match the alert level
// and the owning substation status is re-derived.
func (r *Repos) AddAlert(equipmentID, message string, level domain.AlertLevel) (domain.Alert, error) {
	doc, ok := r.load()
	if !ok {
		return domain.Alert{}, errStoreUnavailable
	}
	eq, ok := doc.Equipment[equipmentID]
	if !ok {
		return domain.Alert{}, ErrNotFound
	}
	sub := doc.Substations[eq.SubstationID]

	alert := domain.Alert{
		ID:             newID("A-"),
		EquipmentID:    eq.ID,
		EquipmentName:  eq.Name,
		EquipmentType:  eq.Type,
		SubstationID:   eq.SubstationID,
		SubstationName: sub.Name,
		Message:        message,
		Level:          level,
		Time:           r.now().Format(store.AlertTimeLayout),
		Status:         domain.AlertPending,
	}
	doc.Alerts = append(doc.Alerts, alert)

	if level == domain.LevelError {
		eq.Status = domain.StatusError
	} else {
		eq.Status = domain.StatusWarning
	}
	doc.Equipment[eq.ID] = eq
	deriveInto(doc, eq.SubstationID)

	if !r.commit(doc) {
		return domain.Alert{}, errStoreUnavailable
	}
	r.log.Info().Str("alert", alert.ID).Str("equipment", eq.ID).
		Str("level", string(level)).Msg("alert raised")
	return alert, nil
}

// UpdateAlertStatus moves an alert through its lifecycle. The transition to
// completed restores the referenced equipment to its normal telemetry band
// and re-derives the substation status, all within the same mutation, so a
// completion emits exactly one change notification.
func (r *Repos) UpdateAlertStatus(id string, status domain.AlertStatus) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	idx := -1
	for i := range doc.Alerts {
		if doc.Alerts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	doc.Alerts[idx].Status = status
	if status == domain.AlertCompleted {
		r.restoreInto(doc, doc.Alerts[idx].EquipmentID)
	}
	return r.commit(doc)
}

func (r *Repos) DeleteAlert(id string) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	kept := doc.Alerts[:0]
	for _, a := range doc.Alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(doc.Alerts) {
		return false
	}
	doc.Alerts = kept
	return r.commit(doc)
}

func (r *Repos) ClearAlerts() bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	doc.Alerts = []domain.Alert{}
	return r.commit(doc)
}
