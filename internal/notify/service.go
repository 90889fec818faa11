package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hallbook/internal/logger"
	"hallbook/internal/metrics"
	"hallbook/internal/user"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
	popTimeout     = 2 * time.Second
	retryDelay     = 5 * time.Second
	popBackoff     = 500 * time.Millisecond
	maxPopBackoff  = 30 * time.Second

	KindBookingConfirmation = "booking_confirmation"
	KindBookingCancellation = "booking_cancellation"
)

type Job struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// BookingNotice carries what a booking email needs to say.
type BookingNotice struct {
	UserID    int
	BookingID int64
	HallName  string
	Start     time.Time
	End       time.Time
	Purpose   string
}

type UserLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(job Job) error
}

// Service queues emails in Redis and, when started, delivers them with a
// Sender. Enqueueing never talks to the mail server.
type Service struct {
	redis      *redis.Client
	users      UserLookup
	sender     Sender
	loc        *time.Location
	retryDelay time.Duration
	popBackoff time.Duration
}

func New(rdb *redis.Client, users UserLookup, sender Sender, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		redis:      rdb,
		users:      users,
		sender:     sender,
		loc:        loc,
		retryDelay: retryDelay,
		popBackoff: popBackoff,
	}
}

func (s *Service) Enqueue(ctx context.Context, job Job) error {
	job.Tries = 0
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordEmail(job.Kind, "enqueue_failed")
		return fmt.Errorf("queue email to %s: %w", job.To, err)
	}

	logger.Info("email queued", "kind", job.Kind, "to", job.To)
	return nil
}

func (s *Service) BookingConfirmed(ctx context.Context, n BookingNotice) error {
	u, err := s.users.FindByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("look up recipient: %w", err)
	}

	body := fmt.Sprintf(`Hi %s,

Your booking is confirmed!

Hall: %s
Purpose: %s
Time: %s

Booking reference: #%d

- Hallbook`, u.Username, n.HallName, n.Purpose, s.formatSpan(n.Start, n.End), n.BookingID)

	return s.Enqueue(ctx, Job{
		Kind:    KindBookingConfirmation,
		To:      u.Email,
		Name:    u.Username,
		Subject: "Booking Confirmed - " + n.HallName,
		Body:    body,
	})
}

func (s *Service) BookingCancelled(ctx context.Context, n BookingNotice) error {
	u, err := s.users.FindByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("look up recipient: %w", err)
	}

	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled:

Hall: %s
Time: %s

Booking reference: #%d

- Hallbook`, u.Username, n.HallName, s.formatSpan(n.Start, n.End), n.BookingID)

	return s.Enqueue(ctx, Job{
		Kind:    KindBookingCancellation,
		To:      u.Email,
		Name:    u.Username,
		Subject: "Booking Cancelled - " + n.HallName,
		Body:    body,
	})
}

func (s *Service) formatSpan(start, end time.Time) string {
	start, end = start.In(s.loc), end.In(s.loc)
	return fmt.Sprintf("%s - %s (%s)", start.Format("Jan 2, 2006 at 15:04"), end.Format("15:04"), s.loc)
}

// Start runs the delivery loop until ctx is cancelled. While the queue
// cannot be read it waits between attempts, doubling the wait up to
// maxPopBackoff.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	var wait time.Duration
	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
		}

		if err := s.processNext(ctx); err != nil {
			wait = nextPopWait(wait, s.popBackoff)
			logger.Warn("email queue pop failed", "error", err, "retry_in", wait)

			select {
			case <-ctx.Done():
				logger.Info("email worker stopped")
				return
			case <-time.After(wait):
			}
			continue
		}

		wait = 0
		s.QueueLength(ctx)
	}
}

func nextPopWait(prev, base time.Duration) time.Duration {
	if prev <= 0 {
		return base
	}
	return min(prev*2, maxPopBackoff)
}

// processNext delivers at most one job. It only returns an error when the
// queue itself could not be read; delivery failures are handled here.
func (s *Service) processNext(ctx context.Context) error {
	result, err := s.redis.BRPop(ctx, popTimeout, queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("pop email job: %w", err)
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email job", "error", err)
		return nil
	}

	job.Tries++
	if err := s.sender.Send(job); err != nil {
		logger.Error("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)
		metrics.RecordEmail(job.Kind, "failed")

		if job.Tries < maxTries {
			s.requeue(ctx, job)
		} else {
			s.saveFailed(ctx, job, err)
		}
		return nil
	}

	metrics.RecordEmail(job.Kind, "sent")
	logger.Info("email sent", "to", job.To, "kind", job.Kind)
	return nil
}

func (s *Service) requeue(ctx context.Context, job Job) {
	select {
	case <-ctx.Done():
	case <-time.After(s.retryDelay):
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Error("encode email job for retry", "error", err)
		return
	}
	// Detached from ctx so a shutdown mid-retry does not lose the job.
	if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data)).Err(); err != nil {
		logger.Error("requeue email", "to", job.To, "error", err)
	}
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	data, err := json.Marshal(map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	})
	if err != nil {
		return
	}
	if err := s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, string(data)).Err(); err != nil {
		logger.Error("store failed email", "to", job.To, "error", err)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To, "tries", job.Tries)
}

// QueueLength reports the pending jobs and mirrors the value into the
// queue length gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
