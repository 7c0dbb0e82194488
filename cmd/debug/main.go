package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/astromechza/tld-buddy/pkg/api"
	"github.com/astromechza/tld-buddy/pkg/config"
	"github.com/astromechza/tld-buddy/pkg/kv"
	"github.com/astromechza/tld-buddy/pkg/localcache"
	"github.com/astromechza/tld-buddy/pkg/model"
	"github.com/astromechza/tld-buddy/pkg/store"
)

func main() {
	if err := mainInner(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func mainInner() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})))

	cacheVar := flag.String("cache", "", "read the document from this local cache database instead of a file")
	kvVar := flag.Bool("kv", false, "read the document from the server kv store configured by the environment")
	flag.Parse()

	var raw []byte
	var err error
	switch {
	case *cacheVar != "":
		raw, err = readCache(*cacheVar)
	case *kvVar:
		raw, err = readKV(context.Background())
	case flag.NArg() == 1:
		raw, err = os.ReadFile(flag.Arg(0))
	default:
		return fmt.Errorf("expected one position argument: the file to read, or -cache, or -kv")
	}
	if err != nil {
		return err
	}

	doc, err := model.ParseAppData(raw)
	if err != nil {
		return fmt.Errorf("failed to load doc: %w", err)
	}
	slog.Info("loaded doc", "bytes", len(raw), "runs", len(doc.Runs), "markers", len(doc.Markers))
	return summarize(os.Stdout, doc)
}

func readCache(path string) ([]byte, error) {
	c, err := localcache.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	value, ok, err := c.Get(store.DefaultCacheKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("cache has no %s entry", store.DefaultCacheKey)
	}
	return []byte(value), nil
}

func readKV(ctx context.Context) ([]byte, error) {
	cfg, err := config.ParseServerEnv()
	if err != nil {
		return nil, err
	}
	s, err := kv.Open(ctx, cfg.KV)
	if err != nil {
		return nil, fmt.Errorf("failed to open kv store: %w", err)
	}
	defer s.Close()
	raw, err := s.Get(ctx, api.DataKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("kv store has no %s entry", api.DataKey)
	}
	return raw, err
}

// summarize writes one block per run with its markers grouped by map, then the dangling references.
func summarize(w io.Writer, doc model.AppData) error {
	runs := make(map[string]bool, len(doc.Runs))
	for _, r := range doc.Runs {
		runs[r.ID] = true
		current := ""
		if r.ID == doc.CurrentRunID {
			current = " (current)"
		}
		if _, err := fmt.Fprintf(w, "run %s %q %s%s\n", r.ID, r.Name, r.Difficulty, current); err != nil {
			return err
		}
		perMap := make(map[string]int)
		for _, m := range doc.Markers {
			if m.RunID == r.ID {
				perMap[m.MapID]++
			}
		}
		mapIDs := make([]string, 0, len(perMap))
		for id := range perMap {
			mapIDs = append(mapIDs, id)
		}
		sort.Strings(mapIDs)
		for _, id := range mapIDs {
			_, _ = fmt.Fprintf(w, "    map %s: %d markers\n", id, perMap[id])
		}
		stashed := 0
		for _, i := range doc.StashedItems {
			if i.RunID == r.ID {
				stashed++
			}
		}
		_, _ = fmt.Fprintf(w, "    stashed: %d\n", stashed)
	}

	orphans := 0
	for _, m := range doc.Markers {
		if !runs[m.RunID] {
			orphans++
		}
	}
	for _, i := range doc.StashedItems {
		if !runs[i.RunID] {
			orphans++
		}
	}
	_, _ = fmt.Fprintf(w, "current map: %s\nrecent maps: %v\nenabled pois: %d\npins: %d\norphans: %d\n",
		orDash(doc.CurrentMapID), doc.RecentMapIDs, len(doc.EnabledPOIs), len(doc.POIPins), orphans)
	if doc.CurrentRunID != "" && !runs[doc.CurrentRunID] {
		_, _ = fmt.Fprintf(w, "current run %s does not exist\n", doc.CurrentRunID)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
