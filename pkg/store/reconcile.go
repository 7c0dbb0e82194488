package store

import (
	"context"
	"encoding/json"

	"github.com/astromechza/tld-buddy/pkg/catalog"
	"github.com/astromechza/tld-buddy/pkg/model"
)

func (s *Store) adoptLocalLocked() {
	raw, ok, err := s.cache.Get(s.cacheKey)
	if err != nil {
		s.logger.Warn("failed to read local cache", "err", err)
		return
	}
	if !ok {
		return
	}
	data, err := model.ParseAppData([]byte(raw))
	if err != nil {
		s.logger.Error("discarding unreadable local cache", "key", s.cacheKey, "err", err)
		return
	}
	s.data = data
	s.logger.Debug("adopted local cache", "runs", len(data.Runs), "markers", len(data.Markers))
}

func (s *Store) loadRemote(ctx context.Context) {
	raw, err := s.remote.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load remote state, keeping local state", "err", err)
		return
	}
	data, err := model.ParseAppData(raw)
	if err != nil {
		s.logger.Warn("remote state is not an object, keeping local state", "err", err)
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data = data
	s.writeLocalLocked()
	s.logger.Debug("adopted remote state", "runs", len(data.Runs), "markers", len(data.Markers))
}

func (s *Store) applyCatalog(c catalog.Catalog) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(c.Items) > 0 {
		s.items = c.Items
	}
	if len(c.POIs) > 0 {
		s.pois = c.POIs
	}
	if len(c.Maps) > 0 {
		s.maps = c.Maps
	}
}

// selectDefaultMap points an unset current map at the first catalog map. The choice is only persisted by the next
// mutation.
func (s *Store) selectDefaultMap() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.data.CurrentMapID == "" && len(s.maps) > 0 {
		s.data.CurrentMapID = s.maps[0].ID
	}
}

// saveLocked writes the local cache and schedules a remote write. It must be called with s.lock held.
func (s *Store) saveLocked() {
	s.writeLocalLocked()
	if s.writer != nil {
		s.writer.schedule()
	}
}

func (s *Store) writeLocalLocked() {
	raw, err := json.Marshal(s.data)
	if err != nil {
		s.logger.Error("failed to encode app data", "err", err)
		return
	}
	if err := s.cache.Set(s.cacheKey, string(raw)); err != nil {
		s.logger.Warn("failed to write local cache", "err", err)
	}
}
