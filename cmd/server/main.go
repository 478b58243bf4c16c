package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"govtrack/internal/app"
	"govtrack/internal/config"
	"govtrack/internal/logging"
	"govtrack/internal/transport/rest"
	"govtrack/internal/transport/ws"

	"go.uber.org/zap"
)

//	@title						GovTrack API
//	@version					1.0
//	@description				Policies, representatives and the political alignment quiz.
//	@BasePath					/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "govtrack:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.UsingDefaultSecret() {
		logger.Warn("JWT_SECRET not set, using the development default")
	}

	ctx := context.Background()

	mongoClient, db, err := app.ConnectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDB))

	rdb, err := app.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()
	logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	wsHub := ws.NewHub(logger.Named("ws"))
	defer wsHub.Close()

	a := app.New(db, rdb, cfg, logger)
	// wsHub implements service.Broadcaster
	a.QuizService.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:           a.AuthService,
		PolicyService:         a.PolicyService,
		RepresentativeService: a.RepresentativeService,
		QuizService:           a.QuizService,
		ProfileService:        a.ProfileService,
		WSHub:                 wsHub,
		Logger:                logger.Named("http"),
		CORSOrigins:           cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

