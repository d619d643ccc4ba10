package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/sahara-community/pulse/internal/config"
	"github.com/sahara-community/pulse/internal/infra/database"
	"github.com/sahara-community/pulse/internal/infra/repository"
	"github.com/sahara-community/pulse/internal/present/rest"
	"github.com/sahara-community/pulse/internal/present/rest/middleware"
	"github.com/sahara-community/pulse/internal/realtime"
	"github.com/sahara-community/pulse/internal/service"
	"github.com/sahara-community/pulse/internal/usecase"
)

func migrate(conf config.Config) error {
	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		return err
	}
	if err := database.MigratePostgres(db); err != nil {
		return err
	}
	slog.Info("Migration finished", slog.String("module", "main"))
	return nil
}

func serve(ctx context.Context, conf config.Config) error {
	if conf.Server.EnableTrace {
		shutdown, err := setupTraceProvider(ctx, conf.Server.TraceEndpoint, "pulse", version)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		return err
	}
	if err := database.MigratePostgres(db); err != nil {
		return err
	}

	var mc *memcache.Client
	if conf.Server.MemcachedAddr != "" {
		mc = database.NewMemcached(conf.Server.MemcachedAddr)
	}

	registry := realtime.NewRegistry()
	publisher := realtime.NewPublisher(registry)

	if conf.Server.RedisAddr != "" {
		rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
		if err := database.PingRedis(ctx, rdb); err != nil {
			return err
		}
		defer rdb.Close()

		relay := service.NewSignalService(rdb, conf.Realtime.RelayChannel, conf.Server.NodeID)
		publisher.WithRelay(relay)
		go func() {
			if err := relay.Run(ctx, publisher); err != nil {
				slog.Error(
					"Relay stopped",
					slog.String("error", err.Error()),
					slog.String("module", "main"),
				)
			}
		}()
	}

	dispatcher := usecase.NewDispatcher(conf.Notifications.Workers, conf.Notifications.QueueSize)
	dispatcher.Start(ctx)

	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db, mc, conf.Notifications.ActiveUserCacheTTL)
	helpRequestRepo := repository.NewHelpRequestRepository(db)
	chatRepo := repository.NewChatRepository(db)
	roomAccess := repository.NewRoomAccess(db)
	campaignRepo := repository.NewCampaignRepository(db)

	notificationUC := usecase.NewNotificationUsecase(notificationRepo, publisher)
	helpRequestUC := usecase.NewHelpRequestUsecase(notificationUC, publisher, userRepo, helpRequestRepo, dispatcher, conf.Proximity.RadiusKm)
	feedUC := usecase.NewFeedUsecase(campaignRepo, publisher)
	chatUC := usecase.NewChatUsecase(chatRepo, roomAccess, publisher, conf.Chat.AllowAnonymous, conf.Chat.HistoryLimit)

	handler := rest.NewHandler(ctx, notificationUC, helpRequestUC, feedUC, chatUC, registry, realtime.Options{
		SendBuffer:     conf.Realtime.SendBuffer,
		PingInterval:   conf.Realtime.PingInterval,
		PongWait:       conf.Realtime.PongWait,
		WriteWait:      conf.Realtime.WriteWait,
		MaxMessageSize: conf.Realtime.MaxMessageSize,
		InboundRate:    conf.Realtime.InboundRate,
		InboundBurst:   conf.Realtime.InboundBurst,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("pulse"))
	}
	e.Use(middleware.IdentifyPrincipal)
	handler.RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", slog.String("addr", conf.Server.Listen), slog.String("module", "main"))
		if err := e.Start(conf.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	slog.Info("Shutting down", slog.String("module", "main"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutdownErr := e.Shutdown(shutdownCtx)

	// queued emergency fan-outs were already accepted; finish them
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelDrain()
	if err := dispatcher.Stop(drainCtx); err != nil {
		slog.Error(
			"Dispatcher did not drain",
			slog.String("error", err.Error()),
			slog.String("module", "main"),
		)
	}
	return shutdownErr
}
