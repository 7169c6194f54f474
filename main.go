package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groundbook/config"
	"groundbook/cron"
	"groundbook/database"
	"groundbook/database/repository"
	"groundbook/handlers"
	"groundbook/routes"
	"groundbook/services/booking"
	"groundbook/services/events"
	"groundbook/services/ground"
	"groundbook/services/notification"
	"groundbook/services/review"
	"groundbook/services/storage"
	"groundbook/services/tasks"
	"groundbook/services/user"
	"groundbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	cld, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	rootCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(rootCtx, 30*time.Second,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// repositories.
	bookingRepo := repository.NewMongoBookingRepo()
	groundRepo := repository.NewMongoGroundRepo()
	notificationRepo := repository.NewMongoNotificationRepo()
	paymentRepo := repository.NewMongoPaymentRepo()
	reviewRepo := repository.NewMongoReviewRepo()
	userRepo := repository.NewMongoUserRepository()

	// change feed.
	bus := events.NewRedisBus(utils.GetCacheClient())
	var publisher events.Publisher = bus
	var amqpPublisher *events.AMQPPublisher
	if config.AppConfig.AMQPURL != "" {
		amqpPublisher, err = events.NewAMQPPublisher(config.AppConfig.AMQPURL, config.AppConfig.EventExchange)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to connect to AMQP broker: %v", err)
		}
		publisher = events.MultiPublisher{bus, amqpPublisher}
	}

	// reminders.
	queue := asynq.NewClient(cron.RedisOpt())
	reminders := tasks.NewReminderScheduler(queue, config.ReminderLead(), config.BookingLocation())

	// services.
	userService := &user.DefaultUserService{
		Repo:     userRepo,
		Sessions: user.NewRedisSessionStore(utils.GetAuthCacheClient()),
	}

	notificationService, err := notification.NewDefaultNotificationService(notificationRepo, userRepo, notification.NewFCMPusher(utils.FCMClient))
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	bookingService := &booking.DefaultBookingService{
		Bookings:  bookingRepo,
		Payments:  paymentRepo,
		Grounds:   groundRepo,
		Users:     userRepo,
		Notifier:  notificationService,
		Events:    publisher,
		Reminders: reminders,
		Logger:    logger,
	}

	groundService := &ground.DefaultGroundService{
		Repo:        groundRepo,
		Cache:       ground.NewRedisGroundCache(utils.GetCacheClient(), time.Duration(config.AppConfig.GroundCacheTTLSeconds)*time.Second),
		Images:      storage.NewCloudinaryStore(cld),
		Holder:      bookingService,
		ImageFolder: config.AppConfig.CloudinaryFolder,
	}

	reviewService := &review.DefaultReviewService{
		Repo:    reviewRepo,
		Users:   userRepo,
		Grounds: groundRepo,
	}

	worker := cron.InitReminderWorker(bookingRepo, notificationService)

	handlerBundle := &handlers.HandlerBundle{
		Users:         userService,
		Grounds:       groundService,
		Bookings:      bookingService,
		Notifications: notificationService,
		Reviews:       reviewService,
		Feed:          bus,
	}

	router := gin.New()
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	worker.Shutdown()
	if err := queue.Close(); err != nil {
		logger.Warn("main: closing reminder queue client", zap.Error(err))
	}
	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			logger.Warn("main: closing AMQP publisher", zap.Error(err))
		}
	}
	utils.CloseRedis()
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: disconnecting MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
