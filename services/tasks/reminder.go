package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"groundbook/models"

	"github.com/hibiken/asynq"
)

const TypeBookingReminder = "reminder:booking"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// ReminderFireTime is the instant a reminder for b should go out: lead before it starts.
func ReminderFireTime(b *models.Booking, lead time.Duration, loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04:05", b.BookingDate+" "+b.StartTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking %s has no usable start time: %w", b.ID, err)
	}
	return start.Add(-lead), nil
}

// Enqueuer is the part of *asynq.Client the scheduler uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues booking reminders on the asynq reminder queue.
type ReminderScheduler struct {
	client Enqueuer
	lead   time.Duration
	loc    *time.Location
	now    func() time.Time
}

func NewReminderScheduler(client Enqueuer, lead time.Duration, loc *time.Location) *ReminderScheduler {
	return &ReminderScheduler{client: client, lead: lead, loc: loc, now: time.Now}
}

// ScheduleReminder enqueues the reminder unless its fire time has already passed.
// Re-scheduling the same booking is a no-op.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, b *models.Booking) error {
	fireAt, err := ReminderFireTime(b, s.lead, s.loc)
	if err != nil {
		return err
	}
	if !fireAt.After(s.now()) {
		return nil
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		FireAt:    fireAt.UTC().Format(time.RFC3339),
	}, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue reminder for booking %s: %w", b.ID, err)
	}
	return nil
}
