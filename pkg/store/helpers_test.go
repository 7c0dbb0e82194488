package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/astromechza/tld-buddy/pkg/catalog"
	"github.com/astromechza/tld-buddy/pkg/localcache"
	"github.com/astromechza/tld-buddy/pkg/model"
)

type fakeRemote struct {
	lock    sync.Mutex
	raw     json.RawMessage
	loadErr error
	saveErr error
	release chan struct{}
	saves   []model.AppData
	// saveGate, when set, blocks Save until a value is received.
	saveGate chan struct{}
	saving   chan struct{}
}

func (f *fakeRemote) Load(ctx context.Context) (json.RawMessage, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.raw, f.loadErr
}

func (f *fakeRemote) Save(ctx context.Context, data model.AppData) error {
	if f.saving != nil {
		f.saving <- struct{}{}
	}
	if f.saveGate != nil {
		<-f.saveGate
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.saves = append(f.saves, data)
	return f.saveErr
}

func (f *fakeRemote) saveCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.saves)
}

func (f *fakeRemote) lastSave() model.AppData {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.saves[len(f.saves)-1]
}

type fakeCatalog struct {
	c catalog.Catalog
}

func (f fakeCatalog) Load(context.Context) catalog.Catalog { return f.c }

type failingCache struct{}

func (failingCache) Get(string) (string, bool, error) { return "", false, errors.New("storage unavailable") }
func (failingCache) Set(string, string) error         { return errors.New("quota exceeded") }

func testMaps() []model.GameMap {
	return []model.GameMap{
		{
			ID: "mystery-lake", Name: "Mystery Lake", Type: model.MapTypeRegion,
			Default:    model.MapVariant{ImageURL: "/maps/mystery-lake.png", ImageWidth: 100, ImageHeight: 80},
			Interloper: model.MapVariant{ImageURL: "/maps/mystery-lake-interloper.png", ImageWidth: 100, ImageHeight: 80},
		},
		{
			ID: "coastal-highway", Name: "Coastal Highway", Type: model.MapTypeRegion,
			Default:    model.MapVariant{ImageURL: "/maps/coastal-highway.png"},
			Interloper: model.MapVariant{ImageURL: "/maps/coastal-highway-interloper.png"},
		},
	}
}

func testPOIs() []model.POI {
	return []model.POI{
		{ID: "camp-office", Name: "Camp Office", MapID: "mystery-lake", HasBed: true},
		{ID: "trappers-cabin", Name: "Trapper's Cabin", MapID: "mystery-lake", HasForge: false},
		{ID: "quonset", Name: "Quonset Garage", MapID: "coastal-highway", HasWorkbench: true},
	}
}

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		Items: []model.Item{{ID: "hatchet", Name: "Hatchet"}, {ID: "rifle", Name: "Hunting Rifle"}},
		Maps:  testMaps(),
		POIs:  testPOIs(),
	}
}

// newLocalStore builds a ready store with the test catalog and no remote.
func newLocalStore(t *testing.T) *Store {
	s := New(Options{Catalog: fakeCatalog{c: testCatalog()}})
	t.Cleanup(s.Close)
	require.NoError(t, waitReady(s))
	return s
}

func waitReady(s *Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Wait(ctx)
}

func cachedAppData(t *testing.T, c localcache.Cache, key string) model.AppData {
	raw, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	d, err := model.ParseAppData([]byte(raw))
	require.NoError(t, err)
	return d
}
