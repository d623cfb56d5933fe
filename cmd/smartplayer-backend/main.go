package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/luisf/smartplayer-backend/internal/config"
	"github.com/luisf/smartplayer-backend/internal/database"
	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/handlers"
	"github.com/luisf/smartplayer-backend/internal/services"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{log.FieldKeyMsg: "message"},
	})
	log.SetLevel(log.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.FirebaseProjectID, cfg.DatabaseURL, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("initializing firebase clients: %v", err)
	}
	defer db.Close()

	store := database.NewRTDBStore(db.RTDB)
	directory := database.NewAuthDirectory(db.Auth)
	messenger := database.NewFCMMessenger(db.Messaging)
	mailStore := database.NewFirestoreMail(db.Firestore)

	bus := events.NewBus()

	tokenService := services.NewTokenService(store)
	metadataService := services.NewMetadataService(store)
	fanoutService := services.NewFanoutService(store, directory, bus)
	pushService := services.NewPushService(store, tokenService, messenger, directory)
	cleanupService := services.NewCleanupService(store, bus,
		cfg.NotificationRetention, cfg.CancelledMatchRetention, cfg.PastMatchRetention)
	fieldReportService := services.NewFieldReportService(mailStore, cfg.FieldReportsEmail)
	ingestService := services.NewIngestService(store)

	bus.Subscribe(events.TypeMatchWritten, metadataService.HandleMatchWritten)
	bus.Subscribe(events.TypeMatchDeleted, fanoutService.HandleMatchDeleted)
	bus.Subscribe(events.TypeUserDeleted, fanoutService.HandleUserDeleted)
	bus.Subscribe(events.TypeMailNotificationQueued, fanoutService.HandleMailNotificationQueued)
	bus.Subscribe(events.TypeNotificationRequested, fanoutService.HandleNotificationRequested)
	bus.Subscribe(events.TypeNotificationCreated, pushService.HandleNotificationCreated)
	bus.Subscribe(events.TypeInviteCreated, pushService.HandleInviteCreated)
	bus.Subscribe(events.TypeInviteStatusChanged, pushService.HandleInviteStatusChanged)
	bus.Subscribe(events.TypeFieldReportCreated, fieldReportService.HandleFieldReportCreated)

	triggerHandler := handlers.NewTriggerHandler(bus)
	reportHandler := handlers.NewReportHandler(fieldReportService)
	ingestHandler := handlers.NewIngestHandler(ingestService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	triggers := app.Group("/triggers")
	triggers.Post("/matches/:matchId/written", triggerHandler.MatchWritten)
	triggers.Post("/matches/:matchId/deleted", triggerHandler.MatchDeleted)
	triggers.Post("/matches/:matchId/invites/:inviteeUid/created", triggerHandler.InviteCreated)
	triggers.Post("/matches/:matchId/invites/:inviteeUid/status", triggerHandler.InviteStatusChanged)
	triggers.Post("/users/:uid/deleted", triggerHandler.UserDeleted)
	triggers.Post("/users/:uid/notifications/:notificationId/created", triggerHandler.NotificationCreated)
	triggers.Post("/mail-notifications/:notificationId/created", triggerHandler.MailNotificationQueued)
	triggers.Post("/notification-requests/:requestId/created", triggerHandler.NotificationRequested)
	triggers.Post("/field-reports/:reportId/created", triggerHandler.FieldReportCreated)

	api := app.Group("/api/v1")
	api.Post("/reports/:reportId/process", reportHandler.Reprocess)
	api.Post("/ingest/listings", ingestHandler.StoreListings)
	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	scheduleDaily(ctx, cfg.NotificationCleanupAt, "notification-cleanup", cleanupService.CleanupNotifications)
	scheduleDaily(ctx, cfg.MatchCleanupAt, "match-cleanup", cleanupService.CleanupMatches)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.WithField("addr", addr).Info("server starting")
		if err := app.Run(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
}

func scheduleDaily(ctx context.Context, at, name string, job func(context.Context) error) {
	hour, minute, err := config.ParseClock(at)
	if err != nil {
		log.Fatalf("invalid schedule for %s: %v", name, err)
	}
	go services.RunDaily(ctx, name, hour, minute, job)
}
