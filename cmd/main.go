package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/user-service/internal/api/http/router"
	"github.com/mpetrov/user-service/internal/config"
	"github.com/mpetrov/user-service/internal/logger"
	"github.com/mpetrov/user-service/internal/model"
	"github.com/mpetrov/user-service/internal/repository/memory"
	"github.com/mpetrov/user-service/internal/repository/postgres"
	"github.com/mpetrov/user-service/internal/server"
	"github.com/mpetrov/user-service/internal/service"
	"github.com/mpetrov/user-service/internal/telemetry"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	tel, err := telemetry.New(cfg.Telemetry.ConnectionString)
	if err != nil {
		logger.Fatal("failed to initialize telemetry", "error", err)
	}
	logger.Info("starting up",
		"storage_backend", cfg.StorageBackend,
		"telemetry_configured", tel.Enabled())

	store, health, cleanup := buildStore(ctx, cfg, logger)
	defer cleanup()

	userService := service.NewUser(store, health, logger, cfg.Environment, tel.Enabled())

	r := router.New(userService, tel, logger, health != nil)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// buildStore selects the storage backend. A postgres connection failure does
// not abort startup: the service comes up degraded and reports the database
// as unavailable until restart.
func buildStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.UserStore, model.DatabaseHealth, func()) {
	if cfg.StorageBackend == config.BackendMemory {
		logger.Info("using in-memory store; data is lost on restart")
		return memory.NewUserRepository(), nil, func() {}
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to initialize database, continuing degraded",
			"error", err,
			"host", cfg.Database.Host)
		db = &postgres.Connection{}
	} else {
		logger.Info("database connection pool created",
			"host", cfg.Database.Host,
			"database", cfg.Database.Name)
	}

	repo := postgres.NewUserRepository(db)
	return repo, repo, func() { _ = db.Close() }
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
