package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gardeners.ai/internal/persistence/episodedb"
	persistlog "gardeners.ai/internal/persistence/log"
	"gardeners.ai/internal/sim/catalogs"
	"gardeners.ai/internal/sim/garden"
	"gardeners.ai/internal/sim/tuning"
	"gardeners.ai/internal/transport/ws"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "http listen address")
		configDir   = flag.String("configs", "./configs", "config directory")
		schemasDir  = flag.String("schemas", "./schemas", "request schema directory")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		seed        = flag.Int64("seed", 0, "fixed session seed (0 = per-session)")
		gridFile    = flag.String("grid", "", "textual grid file; overrides the tuned init method")
		disableDB   = flag.Bool("disable_db", false, "disable the episode index database")
		disableLogs = flag.Bool("disable_step_logs", false, "disable compressed per-step logs")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	if *gridFile != "" {
		tune.Init.Method = "text"
		tune.Init.GridFile = *gridFile
	}

	// The textual init method carries its own flower definitions; every
	// other method needs the shared catalog.
	var cats *catalogs.FlowerCatalog
	if tune.Init.Method != "text" {
		cats, err = catalogs.Load(filepath.Join(*configDir, "flowers.json"))
		if err != nil {
			logger.Fatalf("load flowers: %v", err)
		}
		logger.Printf("flower catalog: %d types digest=%s", cats.NumTypes(), cats.Digest[:12])
	}

	_ = os.MkdirAll(*dataDir, 0o755)

	server, err := ws.NewServer(tune, cats, *schemasDir, logger)
	if err != nil {
		logger.Fatalf("ws server: %v", err)
	}
	if *seed != 0 {
		server.SetSessionSeed(*seed)
	}

	var store *episodedb.Store
	if !*disableDB {
		store, err = episodedb.Open(filepath.Join(*dataDir, "episodes.db"))
		if err != nil {
			logger.Fatalf("open episode db: %v", err)
		}
		defer store.Close()
		server.SetEpisodeSink(episodeSink{store: store})
	}

	if !*disableLogs {
		server.SetStepLoggers(func(sessionID string) garden.StepLogger {
			return persistlog.NewStepLogger(*dataDir, sessionID)
		})
	}

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/episodes", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		if store == nil {
			_ = json.NewEncoder(rw).Encode([]episodedb.Episode{})
			return
		}
		eps, err := store.Episodes(r.Context(), 100)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(rw).Encode(eps)
	})
	mux.HandleFunc("/v1/ws", server.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// episodeSink bridges finished sessions into the episode database.
type episodeSink struct {
	store *episodedb.Store
}

func (s episodeSink) RecordEpisode(rec ws.EpisodeRecord) error {
	return s.store.Record(episodedb.Episode{
		SessionID:        rec.SessionID,
		Episode:          rec.Episode,
		Seed:             rec.Seed,
		Steps:            rec.Steps,
		AveragePollution: rec.AveragePollution,
		TotalMoney:       rec.TotalMoney,
		FlowersHarvested: rec.FlowersHarvested,
		EndedAt:          rec.EndedAt,
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
