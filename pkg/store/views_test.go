package store

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astromechza/tld-buddy/pkg/model"
)

func TestCurrentMapMarkersMatchesFilter(t *testing.T) {
	s := newLocalStore(t)
	r1, err := s.AddRun("one", model.DifficultyStalker)
	require.NoError(t, err)
	r2, err := s.AddRun("two", model.DifficultyStalker)
	require.NoError(t, err)
	runs := []string{r1.ID, r2.ID}
	maps := []string{"mystery-lake", "coastal-highway"}

	rnd := rand.New(rand.NewSource(42))
	var live []string
	for i := 0; i < 200; i++ {
		if len(live) > 0 && rnd.Intn(3) == 0 {
			idx := rnd.Intn(len(live))
			s.DeleteMarker(live[idx])
			live = append(live[:idx], live[idx+1:]...)
		} else {
			m := s.AddMarker(model.Marker{RunID: runs[rnd.Intn(2)], MapID: maps[rnd.Intn(2)], ItemID: "hatchet", Quantity: 1})
			live = append(live, m.ID)
		}
		if rnd.Intn(10) == 0 {
			s.SetCurrentMap(maps[rnd.Intn(2)])
		}
		if rnd.Intn(10) == 0 {
			s.SetCurrentRun(runs[rnd.Intn(2)])
		}

		d := s.Snapshot()
		var want []model.Marker
		for _, m := range d.Markers {
			if m.MapID == d.CurrentMapID && m.RunID == d.CurrentRunID {
				want = append(want, m)
			}
		}
		got := s.CurrentMapMarkers()
		if len(want) == 0 {
			require.Empty(t, got)
		} else {
			require.Equal(t, want, got)
		}
		seen := map[string]bool{}
		for _, m := range got {
			require.False(t, seen[m.ID])
			seen[m.ID] = true
		}
	}
}

func TestCurrentMapAndVariant(t *testing.T) {
	s := New(Options{})
	t.Cleanup(s.Close)
	assert.Nil(t, s.CurrentMap())
	assert.Nil(t, s.CurrentMapVariant())

	s = newLocalStore(t)
	require.NotNil(t, s.CurrentMap())
	assert.Equal(t, "mystery-lake", s.CurrentMap().ID)
	assert.Equal(t, "/maps/mystery-lake.png", s.CurrentMapVariant().ImageURL)

	_, err := s.AddRun("hard", model.DifficultyMisery)
	require.NoError(t, err)
	assert.Equal(t, "/maps/mystery-lake-interloper.png", s.CurrentMapVariant().ImageURL)

	s.SetCurrentMap("unknown-map")
	assert.Nil(t, s.CurrentMap())
	assert.Nil(t, s.CurrentMapVariant())
}

func TestCurrentMapPOIs(t *testing.T) {
	s := newLocalStore(t)
	all := s.CurrentMapAllPOIs()
	require.Len(t, all, 2)
	assert.Empty(t, s.CurrentMapPOIs())

	s.EnablePOIs([]string{"camp-office", "quonset"})
	got := s.CurrentMapPOIs()
	require.Len(t, got, 1)
	assert.Equal(t, "camp-office", got[0].ID)

	s.SetCurrentMap("coastal-highway")
	got = s.CurrentMapPOIs()
	require.Len(t, got, 1)
	assert.Equal(t, "quonset", got[0].ID)
}

func TestCurrentMapPOIPins(t *testing.T) {
	s := newLocalStore(t)
	s.PinPOI("camp-office", 1, 1)
	s.PinPOI("trappers-cabin", 2, 2)
	s.PinPOI("quonset", 3, 3)
	s.EnablePOIs([]string{"camp-office", "quonset"})

	// no current run
	assert.Empty(t, s.CurrentMapPOIPins())

	_, err := s.AddRun("run", model.DifficultyStalker)
	require.NoError(t, err)
	assert.Equal(t, []model.POIPin{{POIID: "camp-office", X: 1, Y: 1}}, s.CurrentMapPOIPins())

	s.EnablePOIs([]string{"trappers-cabin"})
	assert.Len(t, s.CurrentMapPOIPins(), 2)
}

func TestCurrentRunStashedItems(t *testing.T) {
	s := newLocalStore(t)
	assert.Empty(t, s.CurrentRunStashedItems())
	r1, err := s.AddRun("one", model.DifficultyStalker)
	require.NoError(t, err)
	a := s.AddStashedItem(model.StashedItem{RunID: r1.ID, POIID: "camp-office", ItemID: "rifle", Quantity: 1})
	r2, err := s.AddRun("two", model.DifficultyStalker)
	require.NoError(t, err)
	b := s.AddStashedItem(model.StashedItem{RunID: r2.ID, POIID: "camp-office", ItemID: "rifle", Quantity: 1})

	assert.Equal(t, []model.StashedItem{b}, s.CurrentRunStashedItems())
	s.SetCurrentRun(r1.ID)
	assert.Equal(t, []model.StashedItem{a}, s.CurrentRunStashedItems())
}

func TestRecentMapsDropsUnknown(t *testing.T) {
	s := newLocalStore(t)
	s.SetCurrentMap("coastal-highway")
	s.SetCurrentMap("deleted-map")
	s.SetCurrentMap("mystery-lake")

	var ids []string
	for _, m := range s.RecentMaps() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"coastal-highway", "mystery-lake"}, ids)
}

func TestLookups(t *testing.T) {
	s := newLocalStore(t)
	item, ok := s.ItemByID("rifle")
	require.True(t, ok)
	assert.Equal(t, "Hunting Rifle", item.Name)
	_, ok = s.ItemByID("nope")
	assert.False(t, ok)

	poi, ok := s.POIByID("quonset")
	require.True(t, ok)
	assert.True(t, poi.HasWorkbench)

	m, ok := s.MapByID("coastal-highway")
	require.True(t, ok)
	assert.Equal(t, "Coastal Highway", m.Name)

	assert.Len(t, s.Items(), 2)
	assert.Len(t, s.Maps(), 2)
	assert.Len(t, s.POIs(), 3)
}

func TestViewsReturnCopies(t *testing.T) {
	s := newLocalStore(t)
	maps := s.Maps()
	maps[0].Name = "changed"
	assert.Equal(t, "Mystery Lake", s.Maps()[0].Name)

	_, err := s.AddRun("run", model.DifficultyStalker)
	require.NoError(t, err)
	run := s.CurrentRun()
	run.Name = "changed"
	assert.Equal(t, "run", s.CurrentRun().Name)
}
