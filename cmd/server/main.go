package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/astromechza/tld-buddy/pkg/api"
	"github.com/astromechza/tld-buddy/pkg/config"
	"github.com/astromechza/tld-buddy/pkg/kv"
)

func main() {
	if err := mainInner(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func mainInner() error {
	cfg, err := config.ParseServerEnv()
	if err != nil {
		return err
	}
	addrVar := flag.String("addr", cfg.Addr, "the address to listen on")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.Info("Opening kv store", "driver", cfg.KV.Driver)
	store, err := kv.Open(ctx, cfg.KV)
	if err != nil {
		return fmt.Errorf("failed to open kv store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close kv store", "err", err)
		}
	}()
	if cfg.Password == "" {
		slog.Warn("APP_PASSWORD is not set, logins will be refused")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpServer := &http.Server{
		Addr: *addrVar,
		Handler: api.NewHandler(api.Options{
			Password:     cfg.Password,
			SecureCookie: cfg.SecureCookie,
			DataDir:      cfg.DataDir,
			Store:        store,
			Registry:     registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("Listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server listen failed", "err", err)
			cancel()
		}
	}()

	exit := make(chan os.Signal, 1) // we need to reserve to buffer size 1, so the notifier are not blocked
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-exit:
		slog.Info("Signal caught", "sig", sig)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down cleanly", "err", err)
		_ = httpServer.Close()
	}
	wg.Wait()
	return nil
}
