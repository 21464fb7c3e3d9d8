package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/HouseGram-code/HouseGram-sub000/internal/news"
	"github.com/HouseGram-code/HouseGram-sub000/internal/scheduler"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/api"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/api/handlers"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/banlist"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/banner"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/blob"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/compose"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/config"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/live"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/presence"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/security"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/state"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/stats"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

func main() {
	// build metadata - set via ldflags during build/release
	var (
		version   = "dev"
		commit    = "none"
		buildDate = "unknown"
	)
	_ = godotenv.Load(".env")
	addrVal, dbVal, cfgVal, setFlags := config.ParseCommandFlags()

	// Resolve config path (file flag wins over env)
	cfgPath := config.ResolveConfigPath(cfgVal, setFlags["config"])

	// Load effective config (file + env)
	cfg, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.Logging.Level)

	// Flags explicitly set win over env/config for addr and dbPath.
	var addr string
	var dbPath string
	if !setFlags["addr"] && cfg.Addr() != "" {
		addr = cfg.Addr()
	} else {
		addr = addrVal
	}
	if !setFlags["db"] && cfg.Storage.DBPath != "" {
		dbPath = cfg.Storage.DBPath
	} else {
		dbPath = dbVal
	}

	if err := state.EnsureStateDirs(dbPath); err != nil {
		log.Fatalf("failed to prepare state dirs: %v", err)
	}
	if err := store.Open(state.PathsVar.Store); err != nil {
		log.Fatalf("failed to open pebble at %s: %v", state.PathsVar.Store, err)
	}

	blobDir := cfg.Storage.BlobDir
	if blobDir == "" {
		blobDir = state.PathsVar.Blobs
	}
	blobs, err := blob.Open(blobDir)
	if err != nil {
		log.Fatalf("failed to open blob store: %v", err)
	}
	usage, err := stats.Open(state.PathsVar.Stats)
	if err != nil {
		log.Fatalf("failed to open stats store: %v", err)
	}
	bans, err := banlist.Open(state.PathsVar.State)
	if err != nil {
		log.Fatalf("failed to open ban list: %v", err)
	}

	// Service graph
	hub := live.NewHubSize(cfg.SubscriberBuffer())
	newsSvc := news.NewService(hub)
	chatList := live.NewChatList(hub, func(userID string) *models.Chat { return newsSvc.Placeholder(userID) })
	feed := live.NewMessageFeed(hub)
	composer := compose.New(hub, blobs, usage, cfg.MaxImageEdge(), cfg.JPEGQuality())
	typing := presence.NewTracker(hub,
		time.Duration(cfg.TypingWriteInterval())*time.Second,
		time.Duration(cfg.TypingStaleAfter())*time.Second)

	deps := handlers.Deps{
		Hub:            hub,
		Chats:          chatList,
		Feed:           feed,
		News:           newsSvc,
		Composer:       composer,
		Typing:         typing,
		Blobs:          blobs,
		Usage:          usage,
		Bans:           bans,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		Flags: handlers.Flags{
			SchedulerEnabled: cfg.Scheduler.Enabled,
			SchedulerCron:    cfg.Scheduler.Cron,
			SignalListener:   cfg.Server.SignalAddr != "",
			TLS:              cfg.Server.TLS.CertFile != "" && cfg.Server.TLS.KeyFile != "",
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopSweeper, err := scheduler.Start(ctx, composer, cfg.Scheduler.Enabled, cfg.Scheduler.Cron)
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	// Shutdown on SIGINT/SIGTERM
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigc
		logger.Info("shutdown_signal", "signal", s.String())
		stopSweeper()
		cancel()
		if err := store.Close(); err != nil {
			logger.Error("store_close_failed", "error", err)
		}
		os.Exit(0)
	}()

	// Determine config sources summary (flags/env/config)
	srcs := []string{}
	if len(setFlags) > 0 {
		srcs = append(srcs, "flags")
	}
	if envUsed {
		srcs = append(srcs, "env")
	}
	if _, err := config.Load(cfgPath); err == nil {
		srcs = append(srcs, "config")
	}
	verStr := version
	if commit != "none" {
		verStr = verStr + " (" + commit + ")"
	}
	if buildDate != "unknown" {
		verStr = verStr + " @ " + buildDate
	}
	banner.Print(cfg, addr, dbPath, strings.Join(srcs, ", "), verStr)

	mux := http.NewServeMux()

	// Liveness probe used by deployment systems and CI
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{\"status\":\"ok\"}"))
	})

	// API handler (catch-all under /)
	mux.Handle("/", api.Handler(deps))

	// Uploaded blobs, read-only
	mux.Handle("/blobs/", blobs.Handler())

	// Serve Swagger UI at /docs and the OpenAPI spec at /openapi.yaml
	mux.Handle("/docs/", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))
	mux.Handle("/openapi.yaml", http.FileServer(http.Dir("./docs")))
	mux.Handle("/metrics", promhttp.Handler())

	// Build security middleware from config/env
	secCfg := security.SecConfig{
		FrontendKeys: map[string]struct{}{},
		BackendKeys:  map[string]struct{}{},
		AdminKeys:    map[string]struct{}{},
		Bans:         bans,
	}
	secCfg.AllowedOrigins = append(secCfg.AllowedOrigins, cfg.Security.CORS.AllowedOrigins...)
	if cfg.Security.RateLimit.RPS > 0 {
		secCfg.RPS = cfg.Security.RateLimit.RPS
	}
	if cfg.Security.RateLimit.Burst > 0 {
		secCfg.Burst = cfg.Security.RateLimit.Burst
	}
	for _, k := range cfg.Security.APIKeys.Frontend {
		secCfg.FrontendKeys[k] = struct{}{}
	}
	for _, k := range cfg.Security.APIKeys.Backend {
		secCfg.BackendKeys[k] = struct{}{}
	}
	for _, k := range cfg.Security.APIKeys.Admin {
		secCfg.AdminKeys[k] = struct{}{}
	}

	wrapped := security.AuthenticateRequestMiddleware(secCfg)(mux)

	// Optional lean typing-signal listener
	if cfg.Server.SignalAddr != "" {
		go func() {
			if err := api.ServeSignals(cfg.Server.SignalAddr, deps); err != nil {
				logger.Error("signal_listener_failed", "error", err)
			}
		}()
	}

	// TLS support: use values from effective cfg
	cert := cfg.Server.TLS.CertFile
	key := cfg.Server.TLS.KeyFile
	var errServe error
	if cert != "" && key != "" {
		errServe = http.ListenAndServeTLS(addr, cert, key, wrapped)
	} else {
		errServe = http.ListenAndServe(addr, wrapped)
	}
	if errServe != nil {
		log.Fatal(errServe)
	}
}
