package repository_test

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/substation-monitor/internal/domain"
	"github.com/gridops/substation-monitor/internal/repository"
	"github.com/gridops/substation-monitor/internal/store"
)

func newTestRepos(t *testing.T) (*repository.Repos, *store.Bus) {
	t.Helper()
	fs := afero.NewMemMapFs()
	st := store.New(fs, "data/grid.json", zerolog.Nop())
	bus := store.NewBus()
	return repository.New(st, bus, zerolog.Nop()), bus
}

func countNotifications(bus *store.Bus) *int {
	n := new(int)
	bus.Subscribe(func() { *n++ })
	return n
}

func TestListSubstationsFromSeed(t *testing.T) {
	repos, _ := newTestRepos(t)
	subs := repos.ListSubstations()
	require.Len(t, subs, 3)
	assert.Equal(t, "SUB-001", subs[0].ID)
	assert.Len(t, subs[0].EquipmentIDs, 2)
}

func TestAddEquipmentLinksAndDerives(t *testing.T) {
	repos, bus := newTestRepos(t)
	n := countNotifications(bus)

	eq, err := repos.AddEquipment(domain.Equipment{
		Name:         "Station Transformer T2",
		Type:         domain.TypeTransformer,
		SubstationID: "SUB-001",
		Status:       domain.StatusWarning,
	})
	require.NoError(t, err)
	require.NotEmpty(t, eq.ID)

	sub, ok := repos.GetSubstation("SUB-001")
	require.True(t, ok)
	assert.Contains(t, sub.EquipmentIDs, eq.ID)
	assert.Equal(t, domain.StatusWarning, sub.Status, "add must re-derive the substation")
	assert.Equal(t, 1, *n, "one mutation, one notification")
}

func TestAddEquipmentUnknownSubstation(t *testing.T) {
	repos, _ := newTestRepos(t)
	_, err := repos.AddEquipment(domain.Equipment{Name: "orphan", SubstationID: "SUB-404"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateEquipmentStatusReDerives(t *testing.T) {
	repos, _ := newTestRepos(t)

	status := domain.StatusError
	require.True(t, repos.UpdateEquipment("EQ-2023-001", repository.EquipmentPatch{Status: &status}))

	sub, _ := repos.GetSubstation("SUB-001")
	assert.Equal(t, domain.StatusError, sub.Status)

	normal := domain.StatusNormal
	require.True(t, repos.UpdateEquipment("EQ-2023-001", repository.EquipmentPatch{Status: &normal}))
	sub, _ = repos.GetSubstation("SUB-001")
	assert.Equal(t, domain.StatusNormal, sub.Status)
}

func TestDeleteEquipmentCascades(t *testing.T) {
	repos, _ := newTestRepos(t)

	// EQ-2023-004 is SUB-003's only unit and carries a seed alert.
	require.True(t, repos.DeleteEquipment("EQ-2023-004"))

	sub, ok := repos.GetSubstation("SUB-003")
	require.True(t, ok)
	assert.NotContains(t, sub.EquipmentIDs, "EQ-2023-004")
	assert.Equal(t, domain.StatusNormal, sub.Status, "empty equipment set derives normal")

	for _, a := range repos.ListActiveAlerts() {
		assert.NotEqual(t, "EQ-2023-004", a.EquipmentID, "no alert may survive its equipment")
	}
	assert.Empty(t, repos.ListAlertsByEquipment("EQ-2023-004"))
}

func TestDeleteSubstationCascadesEquipmentKeepsAlerts(t *testing.T) {
	repos, _ := newTestRepos(t)

	require.True(t, repos.DeleteSubstation("SUB-002"))

	_, ok := repos.GetSubstation("SUB-002")
	assert.False(t, ok)
	_, ok = repos.GetEquipment("EQ-2023-002")
	assert.False(t, ok)
	_, ok = repos.GetEquipment("EQ-2023-005")
	assert.False(t, ok)

	// Orphaned alerts survive on their denormalized names.
	alerts := repos.ListAlertsByEquipment("EQ-2023-002")
	require.Len(t, alerts, 1)
	assert.Equal(t, "Circuit Breaker CB-24", alerts[0].EquipmentName)
}

func TestNotFoundReturnsFalse(t *testing.T) {
	repos, bus := newTestRepos(t)
	n := countNotifications(bus)

	assert.False(t, repos.UpdateSubstation("SUB-404", repository.SubstationPatch{}))
	assert.False(t, repos.DeleteSubstation("SUB-404"))
	assert.False(t, repos.UpdateEquipment("EQ-404", repository.EquipmentPatch{}))
	assert.False(t, repos.DeleteEquipment("EQ-404"))
	assert.False(t, repos.UpdateAlertStatus("A-404", domain.AlertCompleted))
	assert.False(t, repos.DeleteAlert("A-404"))
	assert.False(t, repos.UpdateMaintenance("M-404", repository.MaintenancePatch{}))
	assert.False(t, repos.DeleteMaintenance("M-404"))
	assert.Equal(t, 0, *n, "failed operations must not notify")
}

func TestAddAlertDenormalizesAndBumpsStatus(t *testing.T) {
	repos, _ := newTestRepos(t)

	alert, err := repos.AddAlert("EQ-2023-001", "Oil temperature rising", domain.LevelWarning)
	require.NoError(t, err)
	assert.Equal(t, "Main Transformer T1", alert.EquipmentName)
	assert.Equal(t, domain.TypeTransformer, alert.EquipmentType)
	assert.Equal(t, "SUB-001", alert.SubstationID)
	assert.Equal(t, "North City Substation", alert.SubstationName)
	assert.Equal(t, domain.AlertPending, alert.Status)

	eq, _ := repos.GetEquipment("EQ-2023-001")
	assert.Equal(t, domain.StatusWarning, eq.Status)
	sub, _ := repos.GetSubstation("SUB-001")
	assert.Equal(t, domain.StatusWarning, sub.Status)
}

func TestErrorAlertOnAlreadyFailedEquipment(t *testing.T) {
	repos, _ := newTestRepos(t)

	// Seed: EQ-2023-002 is error with temperature 78.
	_, err := repos.AddAlert("EQ-2023-002", "Breaker tripped", domain.LevelError)
	require.NoError(t, err)

	eq, _ := repos.GetEquipment("EQ-2023-002")
	assert.Equal(t, domain.StatusError, eq.Status)
	sub, _ := repos.GetSubstation("SUB-002")
	assert.Equal(t, domain.StatusError, sub.Status)
}

func TestCompletingAlertRestoresEquipment(t *testing.T) {
	repos, bus := newTestRepos(t)

	alert, err := repos.AddAlert("EQ-2023-002", "Breaker tripped", domain.LevelError)
	require.NoError(t, err)

	n := countNotifications(bus)
	require.True(t, repos.UpdateAlertStatus(alert.ID, domain.AlertCompleted))
	assert.Equal(t, 1, *n, "alert completion must emit exactly one notification")

	for _, a := range repos.ListActiveAlerts() {
		assert.NotEqual(t, alert.ID, a.ID, "completed alerts leave the active view")
	}

	eq, _ := repos.GetEquipment("EQ-2023-002")
	assert.Equal(t, domain.StatusNormal, eq.Status)
	band := domain.NormalBand(domain.TypeBreaker)
	assert.True(t, band.Contains(eq.Temperature, eq.Current, eq.Load),
		"telemetry must land inside the breaker band, got %.1f/%.1f/%.1f",
		eq.Temperature, eq.Current, eq.Load)

	// EQ-2023-005 is SUB-002's only other unit and is normal.
	sub, _ := repos.GetSubstation("SUB-002")
	assert.Equal(t, domain.StatusNormal, sub.Status)
}

func TestRestoreEquipment(t *testing.T) {
	repos, _ := newTestRepos(t)

	require.True(t, repos.RestoreEquipment("EQ-2023-002"))

	eq, _ := repos.GetEquipment("EQ-2023-002")
	assert.Equal(t, domain.StatusNormal, eq.Status)
	band := domain.NormalBand(domain.TypeBreaker)
	assert.True(t, band.Contains(eq.Temperature, eq.Current, eq.Load))

	sub, _ := repos.GetSubstation("SUB-002")
	assert.Equal(t, domain.StatusNormal, sub.Status)

	assert.False(t, repos.RestoreEquipment("EQ-404"))
}

func TestRestoreEquipmentConcurrent(t *testing.T) {
	repos, _ := newTestRepos(t)

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				repos.RestoreEquipment("EQ-2023-002")
			}
		}()
	}
	wg.Wait()

	eq, ok := repos.GetEquipment("EQ-2023-002")
	require.True(t, ok)
	assert.Equal(t, domain.StatusNormal, eq.Status)
	band := domain.NormalBand(domain.TypeBreaker)
	assert.True(t, band.Contains(eq.Temperature, eq.Current, eq.Load))
}

func TestActiveAlertsSortedNewestFirst(t *testing.T) {
	repos, _ := newTestRepos(t)
	alerts := repos.ListActiveAlerts()
	require.NotEmpty(t, alerts)
	for i := 1; i < len(alerts); i++ {
		assert.GreaterOrEqual(t, alerts[i-1].Time, alerts[i].Time)
	}
}

func TestClearAlerts(t *testing.T) {
	repos, _ := newTestRepos(t)
	require.True(t, repos.ClearAlerts())
	assert.Empty(t, repos.ListActiveAlerts())
}

func TestAddMaintenanceSchedulesNextDate(t *testing.T) {
	repos, _ := newTestRepos(t)

	_, err := repos.AddMaintenance(domain.Maintenance{
		EquipmentID: "EQ-2023-001",
		Type:        domain.MaintenanceInspection,
		Date:        "2025-06-01",
		Technician:  "Zhang Wei",
		Content:     "Thermal imaging survey",
		Duration:    "1h",
	})
	require.NoError(t, err)

	eq, _ := repos.GetEquipment("EQ-2023-001")
	assert.Equal(t, "2025-06-01", eq.LastMaintenance)
	assert.Equal(t, "2025-09-01", eq.NextMaintenance)
}

func TestAddMaintenanceUnknownEquipment(t *testing.T) {
	repos, _ := newTestRepos(t)
	_, err := repos.AddMaintenance(domain.Maintenance{EquipmentID: "EQ-404", Date: "2025-06-01"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMaintenanceListSortedByDateDesc(t *testing.T) {
	repos, _ := newTestRepos(t)

	_, err := repos.AddMaintenance(domain.Maintenance{
		EquipmentID: "EQ-2023-005", Type: domain.MaintenanceRepair, Date: "2025-07-01",
	})
	require.NoError(t, err)

	records := repos.ListMaintenance()
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i-1].Date, records[i].Date)
	}
}

func TestUpdateMaintenanceDoesNotTouchSchedule(t *testing.T) {
	repos, _ := newTestRepos(t)

	eqBefore, _ := repos.GetEquipment("EQ-2023-001")
	date := "2024-01-01"
	require.True(t, repos.UpdateMaintenance("M-2023-001", repository.MaintenancePatch{Date: &date}))

	eqAfter, _ := repos.GetEquipment("EQ-2023-001")
	assert.Equal(t, eqBefore.LastMaintenance, eqAfter.LastMaintenance)
	assert.Equal(t, eqBefore.NextMaintenance, eqAfter.NextMaintenance)
}

func TestOneNotificationPerMutation(t *testing.T) {
	repos, bus := newTestRepos(t)
	repos.ListSubstations() // prime the seed before counting
	n := countNotifications(bus)

	status := domain.StatusWarning
	repos.UpdateEquipment("EQ-2023-001", repository.EquipmentPatch{Status: &status})
	repos.UpdateEquipment("EQ-2023-003", repository.EquipmentPatch{Status: &status})
	repos.DeleteAlert("A-SEED-001")

	assert.Equal(t, 3, *n)
}
