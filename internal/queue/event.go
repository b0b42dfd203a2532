// Package queue defines the messages published to the broker when
// bookings are confirmed, plus the AMQP publisher itself.
package queue

import "context"

// BookingConfirmedEvent carries enough context for downstream consumers
// (notifications, analytics) to act without querying the primary database.
type BookingConfirmedEvent struct {
	BookingIDs  []int    `json:"booking_ids"`
	UserID      int      `json:"user_id"`
	ShowtimeID  int      `json:"showtime_id"`
	Theater     string   `json:"theater"`
	StartsAt    string   `json:"starts_at"`
	SeatLabels  []string `json:"seats"`
	TotalAmount float64  `json:"total_amount"`
	ConfirmedAt string   `json:"confirmed_at"`
}

type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	return nil
}
