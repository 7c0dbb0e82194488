// Package catalog fetches the read-only reference data (items, maps and points of interest) published as static JSON
// next to the app.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/astromechza/tld-buddy/pkg/model"
)

const (
	ItemsPath = "data/items.json"
	MapsPath  = "data/maps.json"
	POIsPath  = "data/pois.json"
)

type Catalog struct {
	Items []model.Item
	Maps  []model.GameMap
	POIs  []model.POI
}

type Loader struct {
	baseUrl *url.URL
	client  *http.Client
	logger  *slog.Logger
}

func NewLoader(baseUrl *url.URL, client *http.Client, logger *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{baseUrl: baseUrl, client: client, logger: logger}
}

// Load fetches the three catalogs in parallel. A catalog that cannot be fetched or decoded comes back empty; Load
// itself never fails.
func (l *Loader) Load(ctx context.Context) Catalog {
	var out Catalog
	wg := new(sync.WaitGroup)
	wg.Add(3)
	go func() {
		defer wg.Done()
		out.Items = fetchList[model.Item](ctx, l, ItemsPath)
	}()
	go func() {
		defer wg.Done()
		out.Maps = fetchList[model.GameMap](ctx, l, MapsPath)
		for i := range out.Maps {
			if out.Maps[i].Type == "" {
				out.Maps[i].Type = model.MapTypeRegion
			}
		}
	}()
	go func() {
		defer wg.Done()
		out.POIs = fetchList[model.POI](ctx, l, POIsPath)
	}()
	wg.Wait()
	l.logger.Info("loaded catalog", "items", len(out.Items), "maps", len(out.Maps), "pois", len(out.POIs))
	return out
}

func fetchList[T any](ctx context.Context, l *Loader, path string) []T {
	out, err := fetchListInner[T](ctx, l, path)
	if err != nil {
		l.logger.Warn("could not load catalog", "path", path, "err", err)
		return []T{}
	}
	return out
}

func fetchListInner[T any](ctx context.Context, l *Loader, path string) ([]T, error) {
	u := l.baseUrl.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var out []T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("body is not a list")
	}
	return out, nil
}
