package reports_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/substation-monitor/internal/domain"
	"github.com/gridops/substation-monitor/internal/reports"
	"github.com/gridops/substation-monitor/internal/repository"
	"github.com/gridops/substation-monitor/internal/store"
)

func newTestRepos(t *testing.T) *repository.Repos {
	t.Helper()
	st := store.New(afero.NewMemMapFs(), "data/grid.json", zerolog.Nop())
	return repository.New(st, store.NewBus(), zerolog.Nop())
}

func TestBuildOverviewFromSeed(t *testing.T) {
	repos := newTestRepos(t)
	ov := reports.Build(repos)

	assert.Equal(t, 5, ov.EquipmentTotal)
	assert.Equal(t, 3, ov.StatusCounts[domain.StatusNormal])
	assert.Equal(t, 1, ov.StatusCounts[domain.StatusWarning])
	assert.Equal(t, 1, ov.StatusCounts[domain.StatusError])

	assert.Equal(t, 1, ov.TypeCounts[domain.TypeTransformer])
	assert.Equal(t, 1, ov.TypeCounts[domain.TypeBreaker])
	assert.Equal(t, 1, ov.TypeCounts[domain.TypeInstrumentTransformer])

	assert.Equal(t, 2, ov.ActiveAlerts)
	assert.Equal(t, 1, ov.AlertsByLevel[domain.LevelError])
	assert.Equal(t, 1, ov.AlertsByLevel[domain.LevelWarning])

	assert.Equal(t, 1, ov.MaintenanceByType[domain.MaintenancePreventive])
	assert.Equal(t, 1, ov.MaintenanceByType[domain.MaintenanceInspection])

	require.Len(t, ov.Substations, 3)
	assert.Equal(t, "SUB-001", ov.Substations[0].SubstationID)
	assert.Equal(t, 2, ov.Substations[0].EquipmentCount)
	assert.Equal(t, domain.StatusError, ov.Substations[1].Status)
}

func TestBuildAveragesPerSubstation(t *testing.T) {
	repos := newTestRepos(t)

	var sumLoad, sumTemp float64
	members := repos.ListEquipmentBySubstation("SUB-001")
	require.NotEmpty(t, members)
	for _, eq := range members {
		sumLoad += eq.Load
		sumTemp += eq.Temperature
	}

	ov := reports.Build(repos)
	got := ov.Substations[0]
	assert.InDelta(t, sumLoad/float64(len(members)), got.AvgLoad, 0.001)
	assert.InDelta(t, sumTemp/float64(len(members)), got.AvgTemperature, 0.001)
}

func TestBuildTracksMutations(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.AddAlert("EQ-2023-001", "Oil level low", domain.LevelWarning)
	require.NoError(t, err)
	require.True(t, repos.DeleteEquipment("EQ-2023-004"))

	ov := reports.Build(repos)
	assert.Equal(t, 4, ov.EquipmentTotal)
	assert.Equal(t, 1, ov.AlertsByLevel[domain.LevelWarning], "new alert counted, seed one dropped with its equipment")
}

func TestBuildEmptySubstationHasZeroAverages(t *testing.T) {
	repos := newTestRepos(t)
	sub, err := repos.AddSubstation(domain.Substation{Name: "West City Substation", Location: "West district"})
	require.NoError(t, err)

	ov := reports.Build(repos)
	for _, load := range ov.Substations {
		if load.SubstationID != sub.ID {
			continue
		}
		assert.Zero(t, load.EquipmentCount)
		assert.Zero(t, load.AvgLoad)
		assert.Zero(t, load.AvgTemperature)
		return
	}
	t.Fatalf("substation %s missing from overview", sub.ID)
}
