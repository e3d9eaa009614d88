package services

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/metrics"
	"github.com/joshua-takyi/devevent/internal/models"
)

type EventLookup interface {
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
}

// BookingService accepts sign-ups for an event. Nothing is stored; the
// confirmation is a fixed delay that stops early if ctx is done.
type BookingService struct {
	events EventLookup
	delay  time.Duration
	now    func() time.Time
}

func NewBookingService(events EventLookup, delay time.Duration) *BookingService {
	return &BookingService{
		events: events,
		delay:  delay,
		now:    time.Now,
	}
}

func (bs *BookingService) BookEvent(ctx context.Context, slug, email string) (*models.Booking, error) {
	req := models.BookingRequest{Email: helpers.StringTrim(email)}
	if err := models.Validate.Struct(req); err != nil {
		return nil, models.NewAppError(models.KindInvalidInput, "a valid email address is required", err)
	}

	event, err := bs.events.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := bs.confirm(ctx); err != nil {
		return nil, err
	}

	metrics.BookingsConfirmed.Inc()
	return &models.Booking{
		EventSlug: event.Slug,
		Email:     req.Email,
		Status:    models.BookingStatusConfirmed,
		BookedAt:  bs.now().UTC(),
	}, nil
}

func (bs *BookingService) confirm(ctx context.Context) error {
	if bs.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(bs.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("booking confirmation interrupted: %w", ctx.Err())
	}
}
