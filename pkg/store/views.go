package store

import (
	"slices"

	"github.com/astromechza/tld-buddy/pkg/model"
)

// The projections below are recomputed from the current state on every call and return copies that callers may
// keep or modify freely.

func (s *Store) Snapshot() model.AppData {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.data.Clone()
}

func (s *Store) Runs() []model.Run {
	s.lock.Lock()
	defer s.lock.Unlock()
	return slices.Clone(s.data.Runs)
}

func (s *Store) Items() []model.Item {
	s.lock.Lock()
	defer s.lock.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Maps() []model.GameMap {
	s.lock.Lock()
	defer s.lock.Unlock()
	return slices.Clone(s.maps)
}

func (s *Store) POIs() []model.POI {
	s.lock.Lock()
	defer s.lock.Unlock()
	return slices.Clone(s.pois)
}

func (s *Store) EnabledPOIs() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return slices.Clone(s.data.EnabledPOIs)
}

func (s *Store) ItemByID(id string) (model.Item, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return findByID(s.items, id, func(i model.Item) string { return i.ID })
}

func (s *Store) MapByID(id string) (model.GameMap, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return findByID(s.maps, id, func(m model.GameMap) string { return m.ID })
}

func (s *Store) POIByID(id string) (model.POI, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return findByID(s.pois, id, func(p model.POI) string { return p.ID })
}

func (s *Store) CurrentRun() *model.Run {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.currentRunLocked()
}

func (s *Store) currentRunLocked() *model.Run {
	if s.data.CurrentRunID == "" {
		return nil
	}
	run, ok := findByID(s.data.Runs, s.data.CurrentRunID, func(r model.Run) string { return r.ID })
	if !ok {
		return nil
	}
	return &run
}

func (s *Store) CurrentMap() *model.GameMap {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.currentMapLocked()
}

func (s *Store) currentMapLocked() *model.GameMap {
	if s.data.CurrentMapID == "" {
		return nil
	}
	m, ok := findByID(s.maps, s.data.CurrentMapID, func(m model.GameMap) string { return m.ID })
	if !ok {
		return nil
	}
	return &m
}

// CurrentMapVariant is nil when no map is selected or the selection does not resolve.
func (s *Store) CurrentMapVariant() *model.MapVariant {
	s.lock.Lock()
	defer s.lock.Unlock()
	m := s.currentMapLocked()
	if m == nil {
		return nil
	}
	v := m.VariantFor(s.currentRunLocked())
	return &v
}

// CurrentMapMarkers returns the markers on the current map that belong to the current run, in insertion order.
func (s *Store) CurrentMapMarkers() []model.Marker {
	s.lock.Lock()
	defer s.lock.Unlock()
	return filter(s.data.Markers, func(m model.Marker) bool {
		return m.MapID == s.data.CurrentMapID && m.RunID == s.data.CurrentRunID
	})
}

func (s *Store) CurrentMapAllPOIs() []model.POI {
	s.lock.Lock()
	defer s.lock.Unlock()
	return filter(s.pois, func(p model.POI) bool { return p.MapID == s.data.CurrentMapID })
}

func (s *Store) CurrentMapPOIs() []model.POI {
	s.lock.Lock()
	defer s.lock.Unlock()
	return filter(s.pois, func(p model.POI) bool {
		return p.MapID == s.data.CurrentMapID && slices.Contains(s.data.EnabledPOIs, p.ID)
	})
}

// CurrentMapPOIPins returns pins of enabled points of interest on the current map. Pins are only shown while a run
// is active, so this is empty when there is no current run.
func (s *Store) CurrentMapPOIPins() []model.POIPin {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.currentRunLocked() == nil {
		return []model.POIPin{}
	}
	onMap := make(map[string]bool)
	for _, p := range s.pois {
		if p.MapID == s.data.CurrentMapID && slices.Contains(s.data.EnabledPOIs, p.ID) {
			onMap[p.ID] = true
		}
	}
	return filter(s.data.POIPins, func(p model.POIPin) bool { return onMap[p.POIID] })
}

func (s *Store) CurrentRunStashedItems() []model.StashedItem {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.data.CurrentRunID == "" {
		return []model.StashedItem{}
	}
	return filter(s.data.StashedItems, func(i model.StashedItem) bool { return i.RunID == s.data.CurrentRunID })
}

// RecentMaps resolves the recent map ids against the catalog, silently skipping ids that no longer resolve.
func (s *Store) RecentMaps() []model.GameMap {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]model.GameMap, 0, len(s.data.RecentMapIDs))
	for _, id := range s.data.RecentMapIDs {
		if m, ok := findByID(s.maps, id, func(m model.GameMap) string { return m.ID }); ok {
			out = append(out, m)
		}
	}
	return out
}

func findByID[T any](in []T, id string, key func(T) string) (T, bool) {
	for _, v := range in {
		if key(v) == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
