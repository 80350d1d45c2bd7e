package events

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=./mocks/publisher_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tutorhub/config"
	"tutorhub/infras/kafka"
	"tutorhub/infras/otel"
	"tutorhub/shared/constant"
	"tutorhub/shared/timezone"
)

const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

// BookingEvent is the payload published to the booking topic whenever a
// booking changes state. Consumers key on BookingID.
type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	TutorID   string    `json:"tutor_id"`
	StudentID string    `json:"student_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	EmittedAt time.Time `json:"emitted_at"`
}

type Publisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) PublishBookingEvent(ctx context.Context, event BookingEvent) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishBookingEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	if event.EmittedAt.IsZero() {
		event.EmittedAt = timezone.Now()
	}

	message := kafka.Message{
		Key:   event.BookingID,
		Value: event,
	}

	if err = p.client.SendMessages(ctx, p.cfg.Kafka.BookingTopic, message); err != nil {
		log.Error().Err(err).Str("type", event.Type).Str("bookingID", event.BookingID).Msg("failed to publish booking event")

		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	return nil
}
