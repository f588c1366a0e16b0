package repository

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gridops/substation-monitor/internal/domain"
	"github.com/gridops/substation-monitor/internal/store"
)

// ErrNotFound is returned by add operations whose referenced entity does
// not exist. Update and delete operations signal the same condition with
// an ok=false return instead, matching the caller-checked contract.
var ErrNotFound = errors.New("referenced entity not found")

var errStoreUnavailable = errors.New("store unavailable")

// Repos exposes the collection operations over the stored document.
// Every mutation is read-modify-write on the whole document followed by
// persist-then-notify as one logical step.
type Repos struct {
	store *store.Store
	bus   *store.Bus
	log   zerolog.Logger
	now   func() time.Time

	// rand.Rand is not goroutine-safe; concurrent restores share it.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(st *store.Store, bus *store.Bus, log zerolog.Logger) *Repos {
	return &Repos{
		store: st,
		bus:   bus,
		log:   log,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// Bus returns the change notification bus mutations publish on.
func (r *Repos) Bus() *store.Bus { return r.bus }

func (r *Repos) load() (*store.Document, bool) {
	doc, err := r.store.Load()
	if err != nil {
		r.log.Error().Err(err).Msg("document load failed")
		return nil, false
	}
	return doc, true
}

func (r *Repos) commit(doc *store.Document) bool {
	if err := r.store.Save(doc); err != nil {
		r.log.Error().Err(err).Msg("document save failed")
		return false
	}
	r.bus.Notify()
	return true
}

func newID(prefix string) string {
	return prefix + strings.ToUpper(uuid.NewString()[:8])
}

// deriveInto recomputes and stores the substation's aggregate status from
// its current equipment members.
func deriveInto(doc *store.Document, substationID string) {
	sub, ok := doc.Substations[substationID]
	if !ok {
		return
	}
	members := make([]domain.Equipment, 0, len(sub.EquipmentIDs))
	for _, id := range sub.EquipmentIDs {
		if eq, ok := doc.Equipment[id]; ok {
			members = append(members, eq)
		}
	}
	sub.Status = domain.DeriveStatus(members)
	doc.Substations[substationID] = sub
}

// ---- Substations ----

func (r *Repos) ListSubstations() []domain.Substation {
	doc, ok := r.load()
	if !ok {
		return nil
	}
	out := make([]domain.Substation, 0, len(doc.Substations))
	for _, sub := range doc.Substations {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repos) GetSubstation(id string) (domain.Substation, bool) {
	doc, ok := r.load()
	if !ok {
		return domain.Substation{}, false
	}
	sub, ok := doc.Substations[id]
	return sub, ok
}

func (r *Repos) AddSubstation(sub domain.Substation) (domain.Substation, error) {
	doc, ok := r.load()
	if !ok {
		return domain.Substation{}, errStoreUnavailable
	}
	sub.ID = newID("SUB-")
	sub.EquipmentIDs = []string{}
	if sub.Status == "" {
		sub.Status = domain.StatusNormal
	}
	doc.Substations[sub.ID] = sub
	if !r.commit(doc) {
		return domain.Substation{}, errStoreUnavailable
	}
	r.log.Info().Str("substation", sub.ID).Str("name", sub.Name).Msg("substation added")
	return sub, nil
}

// SubstationPatch carries the fields of a shallow-merge update. Nil fields
// are left untouched.
type SubstationPatch struct {
	Name     *string        `json:"name"`
	Location *string        `json:"location"`
	Capacity *string        `json:"capacity"`
	Status   *domain.Status `json:"status"`
	ImageURL *string        `json:"imageUrl"`
}

func (r *Repos) UpdateSubstation(id string, patch SubstationPatch) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	sub, ok := doc.Substations[id]
	if !ok {
		return false
	}
	if patch.Name != nil {
		sub.Name = *patch.Name
	}
	if patch.Location != nil {
		sub.Location = *patch.Location
	}
	if patch.Capacity != nil {
		sub.Capacity = *patch.Capacity
	}
	if patch.Status != nil {
		sub.Status = *patch.Status
	}
	if patch.ImageURL != nil {
		sub.ImageURL = *patch.ImageURL
	}
	doc.Substations[id] = sub
	return r.commit(doc)
}

// DeleteSubstation removes the substation and every equipment unit it owns.
// Alerts referencing the removed equipment are left in place: they carry
// their own denormalized names and stay displayable.
func (r *Repos) DeleteSubstation(id string) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	sub, ok := doc.Substations[id]
	if !ok {
		return false
	}
	for _, eqID := range sub.EquipmentIDs {
		delete(doc.Equipment, eqID)
	}
	delete(doc.Substations, id)
	if !r.commit(doc) {
		return false
	}
	r.log.Info().Str("substation", id).Int("equipment_removed", len(sub.EquipmentIDs)).Msg("substation deleted")
	return true
}

// ---- Equipment ----

func (r *Repos) ListEquipment() []domain.Equipment {
	doc, ok := r.load()
	if !ok {
		return nil
	}
	out := make([]domain.Equipment, 0, len(doc.Equipment))
	for _, eq := range doc.Equipment {
		out = append(out, eq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repos) GetEquipment(id string) (domain.Equipment, bool) {
	doc, ok := r.load()
	if !ok {
		return domain.Equipment{}, false
	}
	eq, ok := doc.Equipment[id]
	return eq, ok
}

func (r *Repos) ListEquipmentBySubstation(substationID string) []domain.Equipment {
	doc, ok := r.load()
	if !ok {
		return nil
	}
	var out []domain.Equipment
	for _, eq := range doc.Equipment {
		if eq.SubstationID == substationID {
			out = append(out, eq)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repos) AddEquipment(eq domain.Equipment) (domain.Equipment, error) {
	doc, ok := r.load()
	if !ok {
		return domain.Equipment{}, errStoreUnavailable
	}
	sub, ok := doc.Substations[eq.SubstationID]
	if !ok {
		return domain.Equipment{}, ErrNotFound
	}
	eq.ID = newID("EQ-")
	if eq.Status == "" {
		eq.Status = domain.StatusNormal
	}
	if eq.Specifications == nil {
		eq.Specifications = map[string]string{}
	}
	doc.Equipment[eq.ID] = eq
	sub.EquipmentIDs = append(sub.EquipmentIDs, eq.ID)
	doc.Substations[eq.SubstationID] = sub
	deriveInto(doc, eq.SubstationID)
	if !r.commit(doc) {
		return domain.Equipment{}, errStoreUnavailable
	}
	r.log.Info().Str("equipment", eq.ID).Str("substation", eq.SubstationID).Msg("equipment added")
	return eq, nil
}

// EquipmentPatch carries the fields of a shallow-merge update. The owning
// substation cannot be changed through a patch.
type EquipmentPatch struct {
	Name            *string               `json:"name"`
	Type            *domain.EquipmentType `json:"type"`
	Location        *string               `json:"location"`
	Status          *domain.Status        `json:"status"`
	Temperature     *float64              `json:"temperature"`
	Voltage         *float64              `json:"voltage"`
	Current         *float64              `json:"current"`
	Load            *float64              `json:"load"`
	LastMaintenance *string               `json:"lastMaintenance"`
	NextMaintenance *string               `json:"nextMaintenance"`
	ImageURL        *string               `json:"imageUrl"`
	Specifications  map[string]string     `json:"specifications"`
}

func (r *Repos) UpdateEquipment(id string, patch EquipmentPatch) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	eq, ok := doc.Equipment[id]
	if !ok {
		return false
	}
	statusChanged := false
	if patch.Name != nil {
		eq.Name = *patch.Name
	}
	if patch.Type != nil {
		eq.Type = *patch.Type
	}
	if patch.Location != nil {
		eq.Location = *patch.Location
	}
	if patch.Status != nil && *patch.Status != eq.Status {
		eq.Status = *patch.Status
		statusChanged = true
	}
	if patch.Temperature != nil {
		eq.Temperature = *patch.Temperature
	}
	if patch.Voltage != nil {
		eq.Voltage = *patch.Voltage
	}
	if patch.Current != nil {
		eq.Current = *patch.Current
	}
	if patch.Load != nil {
		eq.Load = *patch.Load
	}
	if patch.LastMaintenance != nil {
		eq.LastMaintenance = *patch.LastMaintenance
	}
	if patch.NextMaintenance != nil {
		eq.NextMaintenance = *patch.NextMaintenance
	}
	if patch.ImageURL != nil {
		eq.ImageURL = *patch.ImageURL
	}
	if patch.Specifications != nil {
		eq.Specifications = patch.Specifications
	}
	doc.Equipment[id] = eq
	if statusChanged {
		deriveInto(doc, eq.SubstationID)
	}
	return r.commit(doc)
}

// DeleteEquipment removes the unit, unlinks it from its substation,
// re-derives the substation status and drops every alert referencing it.
func (r *Repos) DeleteEquipment(id string) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	eq, ok := doc.Equipment[id]
	if !ok {
		return false
	}
	if sub, ok := doc.Substations[eq.SubstationID]; ok {
		kept := sub.EquipmentIDs[:0]
		for _, eqID := range sub.EquipmentIDs {
			if eqID != id {
				kept = append(kept, eqID)
			}
		}
		sub.EquipmentIDs = kept
		doc.Substations[eq.SubstationID] = sub
	}
	delete(doc.Equipment, id)
	deriveInto(doc, eq.SubstationID)

	keptAlerts := doc.Alerts[:0]
	for _, a := range doc.Alerts {
		if a.EquipmentID != id {
			keptAlerts = append(keptAlerts, a)
		}
	}
	doc.Alerts = keptAlerts
	if !r.commit(doc) {
		return false
	}
	r.log.Info().Str("equipment", id).Msg("equipment deleted")
	return true
}

// restoreInto puts the equipment back into its type's normal telemetry band
// with status normal and re-derives the owning substation.
func (r *Repos) restoreInto(doc *store.Document, equipmentID string) bool {
	eq, ok := doc.Equipment[equipmentID]
	if !ok {
		return false
	}
	band := domain.NormalBand(eq.Type)
	r.rngMu.Lock()
	eq.Temperature, eq.Current, eq.Load = band.Sample(r.rng)
	r.rngMu.Unlock()
	eq.Status = domain.StatusNormal
	doc.Equipment[equipmentID] = eq
	deriveInto(doc, eq.SubstationID)
	return true
}

// RestoreEquipment resets the unit to normal status with telemetry inside
// its type's normal band.
func (r *Repos) RestoreEquipment(id string) bool {
	doc, ok := r.load()
	if !ok {
		return false
	}
	if !r.restoreInto(doc, id) {
		return false
	}
	return r.commit(doc)
}
