package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	pingInterval    = 200 * time.Millisecond
	pingTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := run(); err != nil {
		log.Println("error running app", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := getEnvConfig()
	if err != nil {
		return err
	}

	d, err := dialectFor(config.driver)
	if err != nil {
		return err
	}

	db, err := d.open(config.dsn)
	if err != nil {
		return err
	}

	defer func() {
		log.Println("main: closing database")
		db.Close()
	}()

	ctx := context.Background()

	if err := waitForDB(ctx, db); err != nil {
		return err
	}

	if err := Migrate(ctx, db, d); err != nil {
		return err
	}

	store, err := NewSQLStore(ctx, db, d)
	if err != nil {
		return fmt.Errorf("error initializing store: %w", err)
	}

	defer func() {
		log.Println("main: closing store")
		store.Close()
	}()

	if config.seedFile != "" {
		if err := seedFromFile(ctx, store, config.seedFile); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	router := newRouter(&handler{store: store}, newMetrics(registry), registry)

	server := &http.Server{
		Addr:    config.httpAddr,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("web service listening on %s (%s)", config.httpAddr, d.name)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		log.Println("main: received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	return nil
}

// waitForDB pings until the database answers or pingTimeout passes.
func waitForDB(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("database unreachable after %s: %w", pingTimeout, err)
		case <-ticker.C:
		}
	}
}

func newRouter(h *handler, m *metrics, gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()
	router.Use(logRequests, m.instrument)

	router.HandleFunc("/", h.ReportHealth).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/addresses/", h.CreateAddress).Methods("POST")
	router.HandleFunc("/addresses", h.CreateAddress).Methods("POST")
	router.HandleFunc("/addresses/nearby", h.GetNearbyAddresses).Methods("GET")
	router.HandleFunc("/addresses/{id}", h.UpdateAddress).Methods("PUT")
	router.HandleFunc("/addresses/{id}", h.DeleteAddress).Methods("DELETE")

	return router
}
