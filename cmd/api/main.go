package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alturath/hr-audit/internal/config"
	appHTTP "github.com/alturath/hr-audit/internal/handler/http"
	"github.com/alturath/hr-audit/internal/pkg/cron"
	"github.com/alturath/hr-audit/internal/pkg/database"
	"github.com/alturath/hr-audit/internal/pkg/export"
	"github.com/alturath/hr-audit/internal/pkg/storage"
	"github.com/alturath/hr-audit/internal/repository/postgresql"
	auditService "github.com/alturath/hr-audit/internal/service/audit"
	"github.com/alturath/hr-audit/internal/service/file"
	leaveService "github.com/alturath/hr-audit/internal/service/leave"
	"github.com/alturath/hr-audit/migrations"
)

const (
	appName    = "hr-audit"
	appVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}
	opts, err := cfg.AuditOptions()
	if err != nil {
		log.Fatal("Invalid audit config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", appName),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		log.Fatal("Error migrating database: ", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}

	leaveRepo := postgresql.NewLeaveRecordRepository(db)

	fileSvc := file.NewFileService(fileStorage)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, opts)
	auditSvc := auditService.NewAuditService(leaveRepo, opts)

	auditHandler := appHTTP.NewAuditHandler(auditSvc, fileSvc, export.PDFOptions{FontPath: cfg.Export.PDFFontPath})
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        appName,
		Version:        appVersion,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	}, auditHandler, leaveHandler)

	if cfg.Schedule.Enabled {
		scheduler := cron.NewScheduler(ctx)
		cron.NewAuditJobs(auditSvc, fileSvc).RegisterJobs(scheduler, cfg.Schedule.Interval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
