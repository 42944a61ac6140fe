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

	"github.com/redis/go-redis/v9"

	httpctx "github.com/dtroode/tooodo-server/internal/api/http/context"
	"github.com/dtroode/tooodo-server/internal/api/http/middleware"
	"github.com/dtroode/tooodo-server/internal/api/http/router"
	httpServer "github.com/dtroode/tooodo-server/internal/api/http/server"
	"github.com/dtroode/tooodo-server/internal/config"
	"github.com/dtroode/tooodo-server/internal/hasher"
	"github.com/dtroode/tooodo-server/internal/logger"
	"github.com/dtroode/tooodo-server/internal/mail"
	"github.com/dtroode/tooodo-server/internal/model"
	"github.com/dtroode/tooodo-server/internal/repository/postgres"
	"github.com/dtroode/tooodo-server/internal/service"
	"github.com/dtroode/tooodo-server/internal/token"
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

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	tokenManager, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Algorithm)
	if err != nil {
		logger.Fatal("failed to initialize token manager", "error", err)
	}

	var mailer model.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	} else {
		mailer = mail.NewLogMailer(logger)
	}

	var limiter middleware.Limiter
	if cfg.Redis.Addr != "" {
		limiter = middleware.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr}))
	} else {
		limiter = middleware.NewLocalLimiter()
	}

	uow := postgres.NewUnitOfWork(db)
	windows := service.Windows{
		Access:  cfg.TTL.Access.Std(),
		Refresh: cfg.TTL.Refresh.Std(),
		Email:   cfg.TTL.Email.Std(),
	}

	authService := service.NewAuth(uow, tokenManager, hasher.New(cfg.Hasher.Salt), mailer, windows, cfg.HTTP.BaseURL, logger)
	userService := service.NewUser(uow, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(authService, userService, authService, ctxMgr, limiter, windows.Refresh, logger)
	server := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", server.Address())
		if err := server.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", server.Address())
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
