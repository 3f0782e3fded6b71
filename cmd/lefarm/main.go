// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/cache"
	"github.com/olegiv/lefarm/internal/config"
	"github.com/olegiv/lefarm/internal/geoip"
	"github.com/olegiv/lefarm/internal/handler"
	"github.com/olegiv/lefarm/internal/handler/api"
	"github.com/olegiv/lefarm/internal/i18n"
	"github.com/olegiv/lefarm/internal/imaging"
	"github.com/olegiv/lefarm/internal/logging"
	"github.com/olegiv/lefarm/internal/mailer"
	"github.com/olegiv/lefarm/internal/media"
	"github.com/olegiv/lefarm/internal/middleware"
	"github.com/olegiv/lefarm/internal/render"
	"github.com/olegiv/lefarm/internal/scheduler"
	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/session"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/version"
	"github.com/olegiv/lefarm/web"
)

const (
	// Public API rate limiters tracked before the table is reset.
	maxTrackedLimiters = 10000
	visitsPerMinute    = 120
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "LeFarm - marketplace content server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_JWT_SECRET           Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_DB_PATH              SQLite database path (default: ./data/lefarm.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_CORS_ORIGINS         Storefront origins, comma separated\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_SMTP_HOST            SMTP relay for lead emails (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_CLOUDINARY_*         Image hosting credentials (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_REDIS_URL            Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEFARM_GEOIP_DB_PATH        GeoLite2-Country.mmdb for visit countries (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Println(version.Get().String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	info := version.Get()

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	ctx := context.Background()
	applied, err := store.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if len(applied) > 0 {
		slog.Info("applied migrations", "versions", applied)
	}

	// WARN and ERROR records also land in the admin event log.
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	if err := store.Seed(ctx, db, store.SeedOptions{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
		Reseed:   cfg.Reseed,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if cfg.AdminPassword == "" {
		slog.Warn("LEFARM_ADMIN_PASSWORD not set, the admin account uses the default password")
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("GeoIP disabled", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	cacher := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTL,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() { _ = cacher.Close() }()

	sender, err := newSender(cfg, logger)
	if err != nil {
		return err
	}
	templates, err := mailer.NewTemplates()
	if err != nil {
		return fmt.Errorf("loading email templates: %w", err)
	}
	notifier := mailer.NewNotifier(sender, templates, cfg.AdminNotifyAddress(), logger)
	defer notifier.Wait()

	var host media.Host
	if cfg.CloudinaryEnabled() {
		ch, err := media.NewCloudinaryHost(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return fmt.Errorf("configuring cloudinary: %w", err)
		}
		host = ch
	} else {
		slog.Warn("image hosting not configured, uploads are disabled")
	}
	mediaService := media.NewService(host, imaging.NewProcessor(cfg.UploadMaxDimension, 0), cfg.UploadMaxBytes)

	events := service.NewEventService(db)
	visits := service.NewVisitTracker(db, geo)
	leads := service.NewLeadService(db, notifier, sender, templates, cfg.AdminNotifyAddress())

	sched := scheduler.New(logger)
	if err := registerJobs(sched, cfg, visits, events, geo, logger); err != nil {
		return err
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()
	publicLimiter := middleware.NewPublicRateLimiter(cfg.PublicRateLimit, cfg.PublicRateBurst)
	if err := sched.Register("prune-rate-limiters", "Reset public rate limiters", "*/10 * * * *",
		func(context.Context) error {
			publicLimiter.Prune(maxTrackedLimiters)
			return nil
		}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	secureCookie := !cfg.IsDevelopment()
	sessionManager := session.New(db, cfg.IsDevelopment())
	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplateFS(),
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	apiHandler := api.NewHandler(api.Deps{
		DB:           db,
		Cache:        cacher,
		Media:        mediaService,
		Tokens:       tokens,
		Login:        loginProtection,
		Leads:        leads,
		Visits:       visits,
		Events:       events,
		Jobs:         sched,
		Logger:       logger,
		SecureCookie: secureCookie,
		CacheTTL:     cfg.CacheTTL,
	})
	pages := handler.AdminPages{
		SessionManager: sessionManager,
		Tokens:         tokens,
		SecureCookie:   secureCookie,
		Auth:           handler.NewAuthHandler(db, renderer, sessionManager, tokens, loginProtection, secureCookie, logger),
		Admin:          handler.NewAdminHandler(db, renderer, logger),
		LoginLimit:     loginProtection.Middleware(),
	}
	health := handler.NewHealthHandler(db, handler.HealthConfig{
		Cache:        cacher,
		Tokens:       tokens,
		Version:      info,
		SMTPEnabled:  cfg.SMTPEnabled(),
		MediaEnabled: mediaService.Enabled(),
	})

	// filippo.io/csrf ignores the key; derive one so it is stable per secret.
	csrfKey := sha256.Sum256([]byte("csrf:" + cfg.JWTSecret))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(30*time.Second, "/api/cloudinary/", "/api/upload/"))

	handler.HealthRoutes(r, health)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS()))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.SkipCSRF("/api/leads", "/api/analytics/visits", "/api/auth/login"))
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(csrfKey[:], cfg.CORSOrigins, cfg.IsDevelopment())))

		r.Mount(handler.RouteAdmin, pages.Routes())

		apiRoutes := apiHandler.Routes(api.RouteOptions{
			RequireAdmin: middleware.RequireAdminAPI(tokens, events),
			LeadLimit:    middleware.LeadRateLimit(cfg.LeadRateLimit),
			VisitLimit:   httprate.LimitByIP(visitsPerMinute, time.Minute),
			LoginLimit:   loginProtection.Middleware(),
		})
		r.Mount("/api", chi.Chain(middleware.CORS(cfg.CORSOrigins), publicLimiter.Middleware()).Handler(apiRoutes))
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newSender returns the SMTP sender, or a sender that only logs when SMTP
// is not configured.
func newSender(cfg *config.Config, logger *slog.Logger) (mailer.Sender, error) {
	if !cfg.SMTPEnabled() {
		slog.Warn("SMTP not configured, outgoing email is logged only")
		return mailer.NewLogSender(logger), nil
	}
	s, err := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring SMTP: %w", err)
	}
	return s, nil
}

func registerJobs(s *scheduler.Scheduler, cfg *config.Config, visits *service.VisitTracker,
	events *service.EventService, geo *geoip.Lookup, logger *slog.Logger) error {
	jobs := []struct {
		name, description, schedule string
		fn                          scheduler.JobFunc
	}{
		{"purge-visits", "Delete page visits past the retention window", "15 3 * * *",
			scheduler.VisitPurgeJob(visits, cfg.VisitRetentionDays, logger)},
		{"purge-events", "Delete old event log entries", "30 3 * * *",
			scheduler.EventPurgeJob(events, cfg.EventRetention, logger)},
	}
	if cfg.GeoIPEnabled() {
		jobs = append(jobs, struct {
			name, description, schedule string
			fn                          scheduler.JobFunc
		}{"reload-geoip", "Reopen the GeoIP database", "0 4 * * 3", scheduler.ReloadJob(geo)})
	}

	for _, j := range jobs {
		if err := s.Register(j.name, j.description, j.schedule, j.fn); err != nil {
			return fmt.Errorf("registering job %s: %w", j.name, err)
		}
	}
	return nil
}
