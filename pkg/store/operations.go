package store

import (
	"fmt"
	"slices"

	"github.com/astromechza/tld-buddy/pkg/model"
)

// AddRun creates a run and makes it current.
func (s *Store) AddRun(name string, difficulty model.Difficulty) (model.Run, error) {
	if !difficulty.Valid() {
		return model.Run{}, fmt.Errorf("%w: %q", model.ErrInvalidDifficulty, difficulty)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	run := model.Run{
		ID:         s.newID("run"),
		Name:       name,
		Difficulty: difficulty,
		CreatedAt:  s.now().UnixMilli(),
	}
	s.data.Runs = append(s.data.Runs, run)
	s.data.CurrentRunID = run.ID
	s.saveLocked()
	return run, nil
}

// DeleteRun removes the run together with its markers and stashed items. If it was current, the first remaining run
// becomes current. Unknown ids are tolerated.
func (s *Store) DeleteRun(runID string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data.Runs = slices.DeleteFunc(s.data.Runs, func(r model.Run) bool { return r.ID == runID })
	s.data.Markers = slices.DeleteFunc(s.data.Markers, func(m model.Marker) bool { return m.RunID == runID })
	s.data.StashedItems = slices.DeleteFunc(s.data.StashedItems, func(i model.StashedItem) bool { return i.RunID == runID })
	if s.data.CurrentRunID == runID {
		s.data.CurrentRunID = ""
		if len(s.data.Runs) > 0 {
			s.data.CurrentRunID = s.data.Runs[0].ID
		}
	}
	s.saveLocked()
}

// SetCurrentRun does not check that the run exists.
func (s *Store) SetCurrentRun(runID string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data.CurrentRunID = runID
	s.saveLocked()
}

func (s *Store) SetCurrentMap(mapID string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data.CurrentMapID = mapID
	s.data.RecentMapIDs = trackRecentMap(s.data.RecentMapIDs, mapID)
	s.saveLocked()
}

// trackRecentMap appends id unless it is already present. Existing entries never move; the oldest entry is evicted
// once the list exceeds model.MaxRecentMaps.
func trackRecentMap(ids []string, id string) []string {
	if id == "" || slices.Contains(ids, id) {
		return ids
	}
	ids = append(ids, id)
	if len(ids) > model.MaxRecentMaps {
		ids = slices.Clone(ids[len(ids)-model.MaxRecentMaps:])
	}
	return ids
}

// AddMarker stores a copy of marker under a freshly generated id. Any id on the input is ignored.
func (s *Store) AddMarker(marker model.Marker) model.Marker {
	s.lock.Lock()
	defer s.lock.Unlock()
	marker.ID = s.newID("marker")
	s.data.Markers = append(s.data.Markers, marker)
	s.saveLocked()
	return marker
}

func (s *Store) DeleteMarker(markerID string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data.Markers = slices.DeleteFunc(s.data.Markers, func(m model.Marker) bool { return m.ID == markerID })
	s.saveLocked()
}

func (s *Store) TogglePOI(poiID string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if slices.Contains(s.data.EnabledPOIs, poiID) {
		s.data.EnabledPOIs = slices.DeleteFunc(s.data.EnabledPOIs, func(id string) bool { return id == poiID })
	} else {
		s.data.EnabledPOIs = append(s.data.EnabledPOIs, poiID)
	}
	s.saveLocked()
}

func (s *Store) EnablePOIs(poiIDs []string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, id := range poiIDs {
		if !slices.Contains(s.data.EnabledPOIs, id) {
			s.data.EnabledPOIs = append(s.data.EnabledPOIs, id)
		}
	}
	s.saveLocked()
}

func (s *Store) DisablePOIs(poiIDs []string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data.EnabledPOIs = slices.DeleteFunc(s.data.EnabledPOIs, func(id string) bool { return slices.Contains(poiIDs, id) })
	s.saveLocked()
}

// PinPOI places the pin for poiID, replacing any pin it already had.
func (s *Store) PinPOI(poiID string, x, y float64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data.POIPins = slices.DeleteFunc(s.data.POIPins, func(p model.POIPin) bool { return p.POIID == poiID })
	s.data.POIPins = append(s.data.POIPins, model.POIPin{POIID: poiID, X: x, Y: y})
	s.saveLocked()
}

func (s *Store) UnpinPOI(poiID string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data.POIPins = slices.DeleteFunc(s.data.POIPins, func(p model.POIPin) bool { return p.POIID == poiID })
	s.saveLocked()
}

// AddStashedItem stores a copy of item under a freshly generated id. Any id on the input is ignored.
func (s *Store) AddStashedItem(item model.StashedItem) model.StashedItem {
	s.lock.Lock()
	defer s.lock.Unlock()
	item.ID = s.newID("stash")
	s.data.StashedItems = append(s.data.StashedItems, item)
	s.saveLocked()
	return item
}

func (s *Store) RemoveStashedItem(stashID string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data.StashedItems = slices.DeleteFunc(s.data.StashedItems, func(i model.StashedItem) bool { return i.ID == stashID })
	s.saveLocked()
}

// MapThumbnail returns the image url of the variant matching the current run's difficulty.
func (s *Store) MapThumbnail(m model.GameMap) string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return m.VariantFor(s.currentRunLocked()).ImageURL
}
