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

	httpctx "github.com/dtroode/alumni-portal-server/internal/api/http/context"
	"github.com/dtroode/alumni-portal-server/internal/api/http/router"
	httpServer "github.com/dtroode/alumni-portal-server/internal/api/http/server"
	"github.com/dtroode/alumni-portal-server/internal/config"
	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
	"github.com/dtroode/alumni-portal-server/internal/password"
	"github.com/dtroode/alumni-portal-server/internal/repository/postgres"
	"github.com/dtroode/alumni-portal-server/internal/server"
	"github.com/dtroode/alumni-portal-server/internal/service"
	storage "github.com/dtroode/alumni-portal-server/internal/storage/minio"
	"github.com/dtroode/alumni-portal-server/internal/token"
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
	logger := logger.New(cfg.LogLevel, cfg.DevMode)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	storageClient, err := storage.Dial(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	accountRepo := postgres.NewAccountRepository(db)
	hasher := password.NewBcrypt(cfg.Password.Cost)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	authService := service.NewAuth(accountRepo, hasher, tokenManager, logger, cfg.Profile.PhoneRegion)
	profileService := service.NewProfile(accountRepo, storageClient, logger, cfg.Profile.PhoneRegion, cfg.Upload.MaxImageSize)
	moderationService := service.NewModeration(accountRepo, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(authService, profileService, moderationService, tokenManager, db, ctxMgr, logger, router.Options{
		DevMode:   cfg.DevMode,
		BodyLimit: cfg.HTTP.BodyLimit,
	})
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

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
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
