package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	httpctx "github.com/dtroode/convo-server/internal/api/http/context"
	"github.com/dtroode/convo-server/internal/api/http/router"
	httpServer "github.com/dtroode/convo-server/internal/api/http/server"
	"github.com/dtroode/convo-server/internal/config"
	"github.com/dtroode/convo-server/internal/engine/openai"
	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
	"github.com/dtroode/convo-server/internal/password"
	"github.com/dtroode/convo-server/internal/repository/postgres"
	"github.com/dtroode/convo-server/internal/server"
	"github.com/dtroode/convo-server/internal/service"
	storage "github.com/dtroode/convo-server/internal/storage/minio"
	"github.com/dtroode/convo-server/internal/token"
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
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	conversationRepo := postgres.NewConversationRepository(db)

	// A nil interface, not a nil *Archive, keeps archiving off.
	var archive model.Storage
	if cfg.Archive.Enabled {
		a, err := storage.NewArchive(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to initialize transcript archive", "error", err)
		}
		archive = a
	}

	answerer := openai.NewAnswerer(cfg.Engine)
	conversationService := service.NewConversation(conversationRepo, userRepo, answerer, archive, cfg.Engine.Timeout, logger)
	identityService := service.NewIdentity(userRepo, password.NewBcrypt(cfg.Password.Cost), conversationService, logger)
	authService := service.NewAuth(identityService, token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL), logger)

	gin.SetMode(gin.ReleaseMode)
	r := router.New(router.Services{
		Identity:     identityService,
		Auth:         authService,
		Conversation: conversationService,
	}, httpctx.NewManager(), logger)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	sl := server.NewSecurityLayer(cfg.HTTP)

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
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
