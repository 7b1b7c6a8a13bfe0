package events

import (
	"shareit/internal/metrics"

	"github.com/rs/zerolog"
)

// RegisterObservers subscribes the logging and metrics observers to every
// event type.
func RegisterObservers(bus *EventBus, logger *zerolog.Logger) {
	for _, eventType := range AllTypes {
		bus.Subscribe(eventType, observe(logger))
	}
}

func observe(logger *zerolog.Logger) EventHandler {
	return func(event *Event) error {
		metrics.IncDomainEvent(event.Type)

		entry := logger.Info().Str("event_type", event.Type)
		switch event.Type {
		case EventBookingCreated, EventBookingApproved, EventBookingRejected, EventBookingCanceled:
			var payload BookingEventPayload
			if err := event.Decode(&payload); err != nil {
				logger.Warn().Err(err).Str("event_type", event.Type).Msg("undecodable booking event")
				return err
			}
			metrics.IncBookingTransition(payload.Status)
			entry = entry.
				Int64("booking_id", payload.BookingID).
				Int64("item_id", payload.ItemID).
				Str("status", payload.Status)
		case EventCommentAdded:
			var payload CommentEventPayload
			if err := event.Decode(&payload); err == nil {
				entry = entry.Int64("comment_id", payload.CommentID).Int64("item_id", payload.ItemID)
			}
		case EventRequestCreated:
			var payload RequestEventPayload
			if err := event.Decode(&payload); err == nil {
				entry = entry.Int64("request_id", payload.RequestID)
			}
		}
		entry.Msg("Domain event")
		return nil
	}
}
