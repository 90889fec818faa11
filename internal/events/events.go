package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

var (
	ErrPublisherClosed = errors.New("event publisher is closed")
	ErrEmptyKey        = errors.New("event key cannot be empty")
)

// Event is a domain fact announced after the transaction producing it has
// committed. Key decides partitioning; events of one hall share a key.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func New(eventType, key string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// BookingPayload is the body of booking.created and booking.cancelled.
type BookingPayload struct {
	BookingID   int64     `json:"booking_id"`
	IntervalID  int64     `json:"interval_id"`
	HallID      string    `json:"hall_id"`
	UserID      int       `json:"user_id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	CancelledBy int       `json:"cancelled_by,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
