package linktree

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linktree/internal/api/handlers"
	apiserver "linktree/internal/api/server"
	"linktree/internal/config"
	database "linktree/internal/db"
	"linktree/internal/display"
	"linktree/internal/provider"
	"linktree/internal/scheduler"
	"linktree/internal/storage"
)

// RegisterMetrics registers every collector of the service.
func RegisterMetrics(reg prometheus.Registerer) {
	scheduler.RegisterMetrics(reg)
	display.RegisterMetrics(reg)
	handlers.RegisterMetrics(reg)
}

// Engine wires the scheduler to its sinks and the HTTP surfaces.
type Engine struct {
	cfg       *config.Config
	runID     string
	board     *display.Board
	publisher *display.Publisher
	recorder  *display.Recorder
	scheduler *scheduler.Scheduler
	server    *apiserver.Server
}

// New builds the engine. store and db are optional (nil when disabled).
func New(cfg *config.Config, store *storage.Client, db *database.Client) (*Engine, error) {
	set, err := provider.New(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		runID: uuid.NewString(),
		board: display.NewBoard(cfg.Streamer.Name),
	}

	sinks := display.Fanout{e.board}
	if store != nil {
		e.publisher = display.NewPublisher(store, cfg.Streamer.Name)
		sinks = append(sinks, e.publisher)
	}
	if db != nil {
		e.recorder = display.NewRecorder(db, e.runID)
		sinks = append(sinks, e.recorder)
	}

	e.scheduler = scheduler.New(scheduler.Options{
		Provider:       set.Provider,
		Sink:           sinks,
		Clock:          scheduler.RealClock{},
		LiveSource:     LiveEmbedURL(cfg.Streamer.TwitchChannel, cfg.Server.ParentHost),
		Fallbacks:      FallbackEmbedURLs(cfg.FallbackVideos),
		CheckInterval:  cfg.CheckInterval(),
		RotateInterval: cfg.RotateInterval(),
		ProbeTimeout:   cfg.ProbeTimeout(),
	})

	deps := apiserver.Deps{Board: e.board, Live: e.scheduler, DB: db, Store: store}
	if set.Manual != nil {
		deps.Manual = set.Manual
	}
	e.server = apiserver.New(cfg, deps)

	return e, nil
}

// Run serves the page and drives the scheduler until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	log.Printf("🆔 Engine Run ID: %s", e.runID)

	// 1. Scheduler
	e.scheduler.Start(ctx)
	defer func() {
		e.scheduler.Stop()
		if e.publisher != nil {
			e.publisher.Close()
		}
		if e.recorder != nil {
			e.recorder.Close()
		}
		log.Println("👋 Scheduler stopped")
	}()

	// 2. Metrics
	mux := http.NewServeMux()
	mux.Handle("/_metrics", promhttp.Handler())
	metrics := &http.Server{Addr: e.cfg.Server.MetricsPort, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", e.cfg.Server.MetricsPort)
		if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 3. Page + API (Blocking until ctx is done)
	srv := e.server.HTTPServer(e.cfg.Server.Addr)
	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Linktree for %s on %s", e.cfg.Streamer.Name, e.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	metrics.Shutdown(shutdownCtx)

	return runErr
}

// LiveEmbedURL is the Twitch player for the channel. Twitch refuses to load
// the embed unless parent matches the host serving the page.
func LiveEmbedURL(channel, parent string) string {
	q := url.Values{}
	q.Set("channel", channel)
	q.Set("parent", parent)
	q.Set("autoplay", "true")
	q.Set("muted", "false")
	return "https://player.twitch.tv/?" + q.Encode()
}

// FallbackEmbedURLs adds autoplay and mute to every highlight clip.
func FallbackEmbedURLs(clips []string) []string {
	out := make([]string, 0, len(clips))
	for _, c := range clips {
		sep := "?"
		if strings.Contains(c, "?") {
			sep = "&"
		}
		out = append(out, c+sep+"autoplay=1&mute=1")
	}
	return out
}
