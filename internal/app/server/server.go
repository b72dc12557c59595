package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrdash/internal/domain/alerts"
	"hrdash/internal/domain/announcements"
	"hrdash/internal/domain/appstate"
	"hrdash/internal/domain/attendance"
	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/bank"
	"hrdash/internal/domain/core"
	"hrdash/internal/domain/importer"
	"hrdash/internal/domain/integrity"
	"hrdash/internal/domain/leave"
	"hrdash/internal/domain/loans"
	"hrdash/internal/domain/notifications"
	"hrdash/internal/domain/payroll"
	"hrdash/internal/domain/reports"
	"hrdash/internal/domain/tasks"
	"hrdash/internal/platform/config"
	cryptoutil "hrdash/internal/platform/crypto"
	"hrdash/internal/platform/db"
	"hrdash/internal/platform/email"
	"hrdash/internal/platform/jobs"
	"hrdash/internal/platform/metrics"
	"hrdash/internal/transport/http/api"
	alertshandler "hrdash/internal/transport/http/handlers/alerts"
	announcementshandler "hrdash/internal/transport/http/handlers/announcements"
	appstatehandler "hrdash/internal/transport/http/handlers/appstate"
	attendancehandler "hrdash/internal/transport/http/handlers/attendance"
	audithandler "hrdash/internal/transport/http/handlers/audit"
	authhandler "hrdash/internal/transport/http/handlers/auth"
	bankhandler "hrdash/internal/transport/http/handlers/bank"
	corehandler "hrdash/internal/transport/http/handlers/core"
	importshandler "hrdash/internal/transport/http/handlers/imports"
	integrityhandler "hrdash/internal/transport/http/handlers/integrity"
	leavehandler "hrdash/internal/transport/http/handlers/leave"
	loanshandler "hrdash/internal/transport/http/handlers/loans"
	notificationshandler "hrdash/internal/transport/http/handlers/notifications"
	payrollhandler "hrdash/internal/transport/http/handlers/payroll"
	reportshandler "hrdash/internal/transport/http/handlers/reports"
	taskshandler "hrdash/internal/transport/http/handlers/tasks"
	"hrdash/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	State   *appstate.Service
	Router  http.Handler
}

// New connects to the database, prepares the schema and wires every
// service behind the router. base bounds background work such as imports.
func New(base context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := db.Connect(base, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(base, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(base, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	sealer, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	collector := metrics.New()
	jobsSvc := jobs.New(pool)
	perms := auth.StaticPermissions{}
	auditSvc := audit.New(pool)
	idem := middleware.NewIdempotencyStore(pool)

	coreSvc := core.NewService(core.NewStore(pool))
	alertsSvc := alerts.NewService(alerts.NewStore(pool))
	stateSvc := appstate.NewService(coreSvc, alertsSvc)
	notifySvc := notifications.New(notifications.NewStore(pool), email.New(cfg))
	bankSvc := bank.NewService(bank.NewStore(pool, sealer))
	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.FailedLoginThreshold, cfg.FailedLoginWindow)

	attendanceStore := attendance.NewStore(pool)
	recorder := attendance.NewRecorder(attendanceStore, coreSvc, collector)
	fence := attendance.Geofence{Latitude: cfg.GeofenceLat, Longitude: cfg.GeofenceLng, RadiusMeters: cfg.GeofenceRadiusMeters}
	attendanceSvc := attendance.NewService(attendanceStore, recorder, fence, cfg.OfficeWifiSSIDs)

	payrollStore := payroll.NewStore(pool)
	payrollSvc := payroll.NewService(
		payrollStore,
		payroll.NewBuilder(payrollStore, coreSvc, bankSvc, cfg.PayrollChunkSize),
		payroll.NewReconciler(payrollStore, cfg.TransferListLimit),
		notifySvc,
	)

	integritySvc := integrity.NewService(integrity.NewStore(pool))
	importSvc := importer.NewService(coreSvc, jobsSvc, base)

	jobsSvc.Every(jobs.JobSnapshotRefresh, cfg.SnapshotRefreshInterval, stateSvc.RefreshJob)
	jobsSvc.Every(jobs.JobIntegritySweep, cfg.IntegritySweepInterval, func(ctx context.Context) (any, error) {
		res, err := integritySvc.Recalculate(ctx)
		return map[string]int{"updated": res.Updated}, err
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.MaxUploadBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.With(middleware.RequirePermission(auth.PermAuditRead, perms)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authHandler := authhandler.NewHandler(authSvc)
		authHandler.RegisterPublic(r)
		authHandler.RegisterRoutes(r)

		corehandler.NewHandler(coreSvc, perms, auditSvc).RegisterRoutes(r)
		appstatehandler.NewHandler(stateSvc, perms).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, perms, alertsSvc, stateSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, stateSvc, perms, auditSvc, idem).RegisterRoutes(r)
		bankhandler.NewHandler(bankSvc, perms, auditSvc).RegisterRoutes(r)
		integrityhandler.NewHandler(integritySvc, perms).RegisterRoutes(r)
		alertshandler.NewHandler(alertsSvc, perms).RegisterRoutes(r)
		announcementshandler.NewHandler(announcements.NewService(announcements.NewStore(pool)), perms).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		taskshandler.NewHandler(tasks.NewService(tasks.NewStore(pool)), perms).RegisterRoutes(r)
		leavehandler.NewHandler(leave.NewService(leave.NewStore(pool)), perms, notifySvc, auditSvc, stateSvc).RegisterRoutes(r)
		loanshandler.NewHandler(loans.NewService(loans.NewStore(pool)), perms, auditSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reports.NewService(reports.NewStore(pool)), perms).RegisterRoutes(r)
		importshandler.NewHandler(importSvc, perms, auditSvc, cfg.MaxUploadBytes).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, perms).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Jobs: jobsSvc, Metrics: collector, State: stateSvc, Router: router}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, config.Load())
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.State.Refresh(ctx); err != nil {
		slog.Warn("initial snapshot load failed", "err", err)
	}
	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              app.Config.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("hrdash listening", "addr", app.Config.Addr, "env", app.Config.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
