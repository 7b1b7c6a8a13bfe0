package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	bookings domain.BookingRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(
	bookings domain.BookingRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	eventBus domain.EventPublisher,
	clock domain.Clock,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.BookingView, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: booking start must be before end", domain.ErrValidation)
	}

	booker, err := s.users.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == bookerID {
		return nil, fmt.Errorf("%w: owner cannot book own item %d", domain.ErrValidation, itemID)
	}
	if !item.Available {
		return nil, fmt.Errorf("%w: item %d is not available", domain.ErrValidation, itemID)
	}

	booking := &models.Booking{
		ItemID:    itemID,
		BookerID:  bookerID,
		Start:     start.UTC(),
		End:       end.UTC(),
		Status:    models.StatusWaiting,
		CreatedAt: s.clock.Now(),
	}
	if err := s.bookings.CreateBookingWithOverlapCheck(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", itemID).
		Int64("booker_id", bookerID).
		Msg("Booking created")
	s.publishEvent(events.EventBookingCreated, booking, item, bookerID)

	view := models.NewBookingView(booking, booker, item)
	return &view, nil
}

// SetApproval moves a WAITING booking to APPROVED or REJECTED on behalf of
// the item owner.
func (s *BookingService) SetApproval(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: user %d does not own item %d", domain.ErrForbidden, ownerID, item.ID)
	}

	next := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		next = models.StatusApproved
		eventType = events.EventBookingApproved
	}
	if err := s.transition(ctx, booking, next); err != nil {
		return nil, err
	}

	s.publishEvent(eventType, booking, item, ownerID)
	return s.bookingView(ctx, newUserResolver(s.users), booking, item)
}

// CancelBooking lets the booker withdraw a request that is still WAITING.
func (s *BookingService) CancelBooking(ctx context.Context, bookerID, bookingID int64) (*models.BookingView, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != bookerID {
		return nil, fmt.Errorf("%w: user %d did not make booking %d", domain.ErrForbidden, bookerID, bookingID)
	}
	item, err := s.items.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, booking, models.StatusCanceled); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCanceled, booking, item, bookerID)
	return s.bookingView(ctx, newUserResolver(s.users), booking, item)
}

func (s *BookingService) transition(ctx context.Context, booking *models.Booking, next models.Status) error {
	if !booking.Status.CanTransition(next) {
		return fmt.Errorf("%w: booking %d is already %s", domain.ErrConflict, booking.ID, booking.Status)
	}
	if err := s.bookings.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, next); err != nil {
		return err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("from", string(booking.Status)).
		Str("to", string(next)).
		Msg("Booking status changed")
	booking.Status = next
	booking.Version++
	return nil
}

// GetBooking is visible to the booker and the item owner only; anyone else
// gets not found.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.BookingView, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if userID != booking.BookerID && userID != item.OwnerID {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, bookingID)
	}
	return s.bookingView(ctx, newUserResolver(s.users), booking, item)
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64, state models.State, page models.Page) ([]models.BookingView, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.GetBookingsByBooker(ctx, userID, state, s.clock.Now(), page)
	if err != nil {
		return nil, err
	}
	return s.bookingViews(ctx, bookings)
}

func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state models.State, page models.Page) ([]models.BookingView, error) {
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.GetBookingsByOwner(ctx, ownerID, state, s.clock.Now(), page)
	if err != nil {
		return nil, err
	}
	return s.bookingViews(ctx, bookings)
}

func (s *BookingService) bookingViews(ctx context.Context, bookings []*models.Booking) ([]models.BookingView, error) {
	resolver := newUserResolver(s.users)
	items := make(map[int64]*models.Item)
	views := make([]models.BookingView, 0, len(bookings))

	for _, b := range bookings {
		item, ok := items[b.ItemID]
		if !ok {
			var err error
			item, err = s.items.GetItemByID(ctx, b.ItemID)
			if err != nil {
				return nil, err
			}
			items[b.ItemID] = item
		}
		view, err := s.bookingView(ctx, resolver, b, item)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *BookingService) bookingView(ctx context.Context, resolver *userResolver, b *models.Booking, item *models.Item) (*models.BookingView, error) {
	booker, err := resolver.resolve(ctx, b.BookerID)
	if err != nil {
		return nil, err
	}
	view := models.NewBookingView(b, booker, item)
	return &view, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, item *models.Item, changedByID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		ItemID:      booking.ItemID,
		BookerID:    booking.BookerID,
		OwnerID:     item.OwnerID,
		Status:      string(booking.Status),
		Start:       booking.Start,
		End:         booking.End,
		ChangedByID: changedByID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
