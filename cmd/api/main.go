package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/config"
	"github.com/noah-isme/campus-go-api/internal/database"
	"github.com/noah-isme/campus-go-api/internal/handler"
	"github.com/noah-isme/campus-go-api/internal/middleware"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
	"github.com/noah-isme/campus-go-api/internal/router"
	"github.com/noah-isme/campus-go-api/internal/service"
	cloud "github.com/noah-isme/campus-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Batch{},
		&models.RosterEntry{},
		&models.ScheduleEntry{},
		&models.AttendanceMark{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Book{},
		&models.BookRequest{},
		&models.IssuedBook{},
		&models.Drive{},
		&models.DriveApplication{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NatsURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	eventRepo := repository.NewEventRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	placementRepo := repository.NewPlacementRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	attendanceService := service.NewAttendanceService(rosterRepo, scheduleRepo, attendanceRepo, userRepo, redisClient, cfg.SummaryCacheTTL, validate, logger)
	eventService := service.NewEventService(eventRepo, userRepo, validate, uploader, logger)
	libraryService := service.NewLibraryService(libraryRepo, cfg.LoanPeriod, validate, logger)
	placementService := service.NewPlacementService(placementRepo, validate, logger)
	batchService := service.NewBatchService(batchRepo, rosterRepo, validate, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, validate, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)

	rootCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()
	notificationService.Start(rootCtx)

	attendanceHandler := handler.NewAttendanceHandler(attendanceService, logger)
	eventHandler := handler.NewEventHandler(eventService, logger)
	libraryHandler := handler.NewLibraryHandler(libraryService, logger)
	placementHandler := handler.NewPlacementHandler(placementService, logger)
	batchHandler := handler.NewBatchHandler(batchService, logger)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.SSEKeepAlive)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AttendanceHandler:   attendanceHandler,
		EventHandler:        eventHandler,
		LibraryHandler:      libraryHandler,
		PlacementHandler:    placementHandler,
		BatchHandler:        batchHandler,
		ScheduleHandler:     scheduleHandler,
		NotificationHandler: notificationHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
