package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"neo4j-explorer-backend/internal/config"
	"neo4j-explorer-backend/internal/handler"
	"neo4j-explorer-backend/internal/pkg/events"
	"neo4j-explorer-backend/internal/pkg/gateway"
	"neo4j-explorer-backend/internal/pkg/inflight"
	"neo4j-explorer-backend/internal/pkg/logger"
	"neo4j-explorer-backend/internal/router"
	"neo4j-explorer-backend/internal/service"
	"neo4j-explorer-backend/internal/store"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	cfg := config.LoadConfig()

	// 初始化日志
	appLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer appLogger.Sync()
	zap.ReplaceGlobals(appLogger.Logger)

	if envErr != nil {
		appLogger.Warn("Failed to load .env file, using environment only")
	}
	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	sessionBackend, err := store.NewSessionBackend(cfg.Session)
	if err != nil {
		appLogger.Fatal("Failed to create session store", zap.Error(err))
	}

	// 初始化服务
	gw := gateway.NewNeo4j(cfg.Neo4j.Database, time.Duration(cfg.Neo4j.ConnectTimeout)*time.Second)
	guard := inflight.NewGuard()
	hub := events.NewHub()
	connectionService := service.NewConnectionService(gw, guard, hub, appLogger)
	mutationService := service.NewMutationService(gw, guard, hub, appLogger)
	labelService := service.NewLabelService(appLogger)

	// 初始化处理器
	handlers := router.Handlers{
		Connection: handler.NewConnectionHandler(connectionService),
		Label:      handler.NewLabelHandler(connectionService, labelService),
		Mutation:   handler.NewMutationHandler(connectionService, mutationService),
		Events:     handler.NewEventsHandler(hub, cfg.Server.AllowOrigins, appLogger),
	}

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(handler.RequestLogger(appLogger))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.RegisterRoutes(r, handler.SessionMiddleware(sessionBackend, cfg.Session, appLogger), handlers)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		appLogger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Fatal("Server stopped with error", zap.Error(err))
	}
}
