package store

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/substation-monitor/internal/domain"
)

func newTestStore() (*Store, afero.Fs) {
	fs := afero.NewMemMapFs()
	return New(fs, "data/grid.json", zerolog.Nop()), fs
}

func TestLoadSeedsOnFirstUse(t *testing.T) {
	st, fs := newTestStore()

	doc, err := st.Load()
	require.NoError(t, err)

	assert.Len(t, doc.Substations, 3)
	assert.Len(t, doc.Equipment, 5)
	assert.Len(t, doc.Maintenance, 2)

	// One alert per equipment whose seed status is warning or error.
	assert.Len(t, doc.Alerts, 2)
	byEq := map[string]domain.Alert{}
	for _, a := range doc.Alerts {
		byEq[a.EquipmentID] = a
	}
	require.Contains(t, byEq, "EQ-2023-002")
	require.Contains(t, byEq, "EQ-2023-004")
	assert.Equal(t, domain.LevelError, byEq["EQ-2023-002"].Level)
	assert.Equal(t, domain.LevelWarning, byEq["EQ-2023-004"].Level)
	assert.Equal(t, "South City Substation", byEq["EQ-2023-002"].SubstationName)

	// Seeding persisted the document.
	exists, err := afero.Exists(fs, "data/grid.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSeedHonorsStatusInvariant(t *testing.T) {
	st, _ := newTestStore()
	doc, err := st.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNormal, doc.Substations["SUB-001"].Status)
	assert.Equal(t, domain.StatusError, doc.Substations["SUB-002"].Status)
	assert.Equal(t, domain.StatusWarning, doc.Substations["SUB-003"].Status)

	for _, sub := range doc.Substations {
		var members []domain.Equipment
		for _, id := range sub.EquipmentIDs {
			members = append(members, doc.Equipment[id])
		}
		assert.Equal(t, domain.DeriveStatus(members), sub.Status, "substation %s", sub.ID)
	}
}

func TestCorruptedDocumentReseeds(t *testing.T) {
	st, fs := newTestStore()
	require.NoError(t, afero.WriteFile(fs, "data/grid.json", []byte("{not json"), 0o644))

	doc, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, doc.Substations, 3)

	// The corrupted payload was replaced by the persisted seed.
	data, err := afero.ReadFile(fs, "data/grid.json")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "{not json")
}

func TestSaveLoadRoundTripIsStable(t *testing.T) {
	st, fs := newTestStore()
	doc, err := st.Load()
	require.NoError(t, err)

	before, err := afero.ReadFile(fs, "data/grid.json")
	require.NoError(t, err)

	require.NoError(t, st.Save(doc))

	after, err := afero.ReadFile(fs, "data/grid.json")
	require.NoError(t, err)
	assert.Equal(t, before, after, "save(load()) must not change the stored bytes")
}

func TestSessionBlobs(t *testing.T) {
	st, _ := newTestStore()

	_, ok, err := st.LoadSession("EQ-2023-002")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.SaveSession("EQ-2023-002", []byte(`{"showSolution":true}`)))

	data, ok, err := st.LoadSession("EQ-2023-002")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"showSolution":true}`, string(data))

	// Blobs are keyed per equipment.
	_, ok, _ = st.LoadSession("EQ-2023-001")
	assert.False(t, ok)
}

func TestBusDeliveryOrderAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var calls []string

	subA := bus.Subscribe(func() { calls = append(calls, "a") })
	bus.Subscribe(func() { calls = append(calls, "b") })

	bus.Notify()
	assert.Equal(t, []string{"a", "b"}, calls, "synchronous delivery in registration order")

	bus.Unsubscribe(subA)
	bus.Notify()
	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

func TestBusOneNotificationPerNotify(t *testing.T) {
	bus := NewBus()
	n := 0
	bus.Subscribe(func() { n++ })

	for i := 0; i < 5; i++ {
		bus.Notify()
	}
	assert.Equal(t, 5, n, "no coalescing")
}
