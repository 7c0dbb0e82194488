package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/astromechza/tld-buddy/pkg/catalog"
	"github.com/astromechza/tld-buddy/pkg/config"
	"github.com/astromechza/tld-buddy/pkg/localcache"
	"github.com/astromechza/tld-buddy/pkg/remote"
	"github.com/astromechza/tld-buddy/pkg/store"
)

// sessionKey is the local cache entry holding the session cookie between invocations.
const sessionKey = "tld-buddy-session"

type session struct {
	cfg    config.Client
	cache  *localcache.SQLite
	remote *remote.Client
	store  *store.Store
}

func loadConfig(opts *RootOptions) (config.Client, *url.URL, error) {
	cfg, err := config.LoadClient(opts.ConfigPath)
	if err != nil {
		return config.Client{}, nil, err
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}
	baseUrl, err := url.Parse(cfg.Server)
	if err != nil {
		return config.Client{}, nil, fmt.Errorf("failed to parse server url: %w", err)
	}
	return cfg, baseUrl, nil
}

// openRemote opens the local cache and a remote client primed with the last session token.
func openRemote(opts *RootOptions) (*session, *url.URL, error) {
	cfg, baseUrl, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	cache, err := localcache.OpenSQLite(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	client, err := remote.New(baseUrl, nil)
	if err != nil {
		_ = cache.Close()
		return nil, nil, err
	}
	if token, ok, err := cache.Get(sessionKey); err != nil {
		slog.Warn("failed to read session token", "err", err)
	} else if ok {
		client.SetSessionToken(token)
	}
	return &session{cfg: cfg, cache: cache, remote: client}, baseUrl, nil
}

func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	s, baseUrl, err := openRemote(opts)
	if err != nil {
		return nil, err
	}
	s.store = store.New(store.Options{
		Cache:    s.cache,
		Remote:   s.remote,
		Catalog:  catalog.NewLoader(baseUrl, nil, nil),
		Debounce: s.cfg.Debounce,
	})
	if err := s.store.Wait(ctx); err != nil {
		// the local cache has already been adopted, so carry on with it
		slog.Warn("server did not respond in time, using local data", "err", err)
	}
	return s, nil
}

func (s *session) saveToken() {
	if token := s.remote.SessionToken(); token != "" {
		if err := s.cache.Set(sessionKey, token); err != nil {
			slog.Warn("failed to persist session token", "err", err)
		}
	}
}

func (s *session) close(ctx context.Context) {
	if s.store != nil {
		if err := s.store.Flush(ctx); err != nil {
			if errors.Is(err, remote.ErrUnauthorized) {
				slog.Warn("changes kept locally, run login to sync them")
			} else {
				slog.Warn("changes kept locally, remote save failed", "err", err)
			}
		}
		s.store.Close()
	}
	if err := s.cache.Close(); err != nil {
		slog.Warn("failed to close local cache", "err", err)
	}
}

// withSession runs fn against an initialized session and flushes pending remote writes afterwards.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, sess *session) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()
	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), opts.Timeout)
		defer closeCancel()
		sess.close(closeCtx)
	}()
	return fn(ctx, sess)
}

func withStore(opts *RootOptions, cmd *cobra.Command, fn func(s *store.Store) error) error {
	return withSession(opts, cmd, func(_ context.Context, sess *session) error {
		return fn(sess.store)
	})
}
