package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"groundbook/config"
	"groundbook/models"
	"groundbook/services/tasks"
	"groundbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingLoader reloads the booking a reminder refers to.
type BookingLoader interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// ReminderSender writes and pushes the reminder notification.
type ReminderSender interface {
	SendReminder(ctx context.Context, b *models.Booking) error
}

// RedisOpt is the asynq connection for the reminder queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async worker in background and returns it for shutdown.
func InitReminderWorker(bookings BookingLoader, sender ReminderSender) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReminder, HandleReminderTask(bookings, sender))

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Reminder worker failed to start",
					zap.Int("attempt", attempts),
					zap.Int("maxAttempts", maxAttempts),
					zap.Error(err))

				if attempts == maxAttempts {
					logger.Error("Reminder worker gave up; reminders are disabled")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
	return srv
}

// HandleReminderTask sends the reminder if the booking is still confirmed.
func HandleReminderTask(bookings BookingLoader, sender ReminderSender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		b, err := bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			if utils.IsNotFound(err) {
				logger.Info("Reminder dropped: booking no longer exists", zap.String("bookingID", p.BookingID))
				return nil
			}
			return err
		}
		if b.Status != models.BookingConfirmed {
			logger.Info("Reminder skipped",
				zap.String("bookingID", b.ID),
				zap.String("status", b.Status.String()))
			return nil
		}

		if err := sender.SendReminder(ctx, b); err != nil {
			logger.Error("Failed to send booking reminder", zap.String("bookingID", b.ID), zap.Error(err))
			return err
		}
		logger.Info("Booking reminder sent", zap.String("bookingID", b.ID), zap.String("userID", b.UserID))
		return nil
	}
}
