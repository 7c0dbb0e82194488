// Package store owns the application data: runs, markers, enabled points of interest, pins and stashed items. Every
// mutation is applied in memory, written synchronously to the local cache and then written to the remote store
// after a debounce window. On startup the local cache is adopted immediately and the remote copy, once it arrives,
// replaces it wholesale.
//
// Remote wins unconditionally: a mutation made after Initialize adopts the local cache but before the remote load
// resolves is overwritten by the remote document. There is no merge and no versioning.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/astromechza/tld-buddy/pkg/catalog"
	"github.com/astromechza/tld-buddy/pkg/localcache"
	"github.com/astromechza/tld-buddy/pkg/model"
)

const (
	DefaultCacheKey = "tld-buddy-v7"
	DefaultDebounce = 500 * time.Millisecond
)

// Remote is the asynchronous, possibly unavailable copy of the app data.
type Remote interface {
	Load(ctx context.Context) (json.RawMessage, error)
	Save(ctx context.Context, data model.AppData) error
}

type CatalogLoader interface {
	Load(ctx context.Context) catalog.Catalog
}

type Options struct {
	// Cache defaults to an in-memory cache.
	Cache    localcache.Cache
	CacheKey string
	// Remote may be nil for a local-only store.
	Remote Remote
	// Catalog may be nil, in which case no reference data is loaded.
	Catalog  CatalogLoader
	Debounce time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

type initState int

const (
	stateUninitialized initState = iota
	stateLoading
	stateReady
)

type Store struct {
	lock sync.Mutex
	data model.AppData

	items []model.Item
	maps  []model.GameMap
	pois  []model.POI

	cache    localcache.Cache
	cacheKey string
	remote   Remote
	catalog  CatalogLoader
	writer   *remoteWriter
	logger   *slog.Logger
	now      func() time.Time

	state initState
	ready chan struct{}
}

func New(opts Options) *Store {
	s := &Store{
		data:     model.Default(),
		items:    []model.Item{},
		maps:     []model.GameMap{},
		pois:     []model.POI{},
		cache:    opts.Cache,
		cacheKey: opts.CacheKey,
		remote:   opts.Remote,
		catalog:  opts.Catalog,
		logger:   opts.Logger,
		now:      opts.Now,
		ready:    make(chan struct{}),
	}
	if s.cache == nil {
		s.cache = localcache.NewMemory()
	}
	if s.cacheKey == "" {
		s.cacheKey = DefaultCacheKey
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.remote != nil {
		debounce := opts.Debounce
		if debounce <= 0 {
			debounce = DefaultDebounce
		}
		s.writer = newRemoteWriter(debounce, s.Snapshot, s.remote.Save, s.logger)
	}
	return s
}

// Initialize adopts the local cache synchronously and then loads the remote document and the catalog in the
// background. It is idempotent: every call returns the same channel, which is closed once both background loads have
// been applied.
func (s *Store) Initialize(ctx context.Context) <-chan struct{} {
	s.lock.Lock()
	if s.state != stateUninitialized {
		s.lock.Unlock()
		return s.ready
	}
	s.state = stateLoading
	s.adoptLocalLocked()
	s.lock.Unlock()

	go func() {
		defer func() {
			s.lock.Lock()
			s.state = stateReady
			s.lock.Unlock()
			close(s.ready)
		}()

		remoteDone := make(chan struct{})
		go func() {
			defer close(remoteDone)
			if s.remote != nil {
				s.loadRemote(ctx)
			}
		}()

		if s.catalog != nil {
			s.applyCatalog(s.catalog.Load(ctx))
		}
		<-remoteDone
		// the remote document decides the current map, so the default selection waits for it
		s.selectDefaultMap()
	}()
	return s.ready
}

// Wait blocks until Initialize has finished both background loads.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.Initialize(ctx):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether initialization has completed.
func (s *Store) Ready() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state == stateReady
}

// Flush performs any pending remote write immediately instead of waiting for the debounce window.
func (s *Store) Flush(ctx context.Context) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.flush(ctx)
}

// Close stops the debounce timer. Pending remote writes that were not flushed are dropped.
func (s *Store) Close() {
	if s.writer != nil {
		s.writer.close()
	}
}
