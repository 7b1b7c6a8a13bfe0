package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	items    domain.ItemRepository
	bookings domain.BookingRepository
	comments domain.CommentRepository
	requests domain.RequestRepository
	users    domain.UserRepository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewItemService(
	items domain.ItemRepository,
	bookings domain.BookingRepository,
	comments domain.CommentRepository,
	requests domain.RequestRepository,
	users domain.UserRepository,
	eventBus domain.EventPublisher,
	clock domain.Clock,
	logger *zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		bookings: bookings,
		comments: comments,
		requests: requests,
		users:    users,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ItemService) viewer() itemViewer {
	return itemViewer{bookings: s.bookings, comments: s.comments, users: s.users}
}

// CreateItem lists a new item for ownerID. The caller supplies name,
// description, availability and an optional request id.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.ItemView, error) {
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	if item.Name == "" {
		return nil, fmt.Errorf("%w: name must not be blank", domain.ErrValidation)
	}
	if item.Description == "" {
		return nil, fmt.Errorf("%w: description must not be blank", domain.ErrValidation)
	}
	if item.RequestID != nil {
		if _, err := s.requests.GetRequestByID(ctx, *item.RequestID); err != nil {
			return nil, err
		}
	}

	item.OwnerID = ownerID
	item.CreatedAt = s.clock.Now()
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("Item created")
	view := models.NewItemView(item, nil, nil, nil)
	return &view, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.ItemView, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: user %d does not own item %d", domain.ErrForbidden, ownerID, itemID)
	}

	if name := trimmed(patch.Name); name != "" {
		item.Name = name
	}
	if description := trimmed(patch.Description); description != "" {
		item.Description = description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return s.viewer().view(ctx, item, ownerID, s.clock.Now())
}

func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*models.ItemView, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.viewer().view(ctx, item, userID, s.clock.Now())
}

func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]models.ItemView, error) {
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.items.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return s.viewer().views(ctx, items, ownerID, s.clock.Now())
}

// Search returns available items whose name or description contains text.
// Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string, page models.Page) ([]models.ItemView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []models.ItemView{}, nil
	}
	items, err := s.items.SearchItems(ctx, text, page)
	if err != nil {
		return nil, err
	}
	return s.viewer().views(ctx, items, 0, s.clock.Now())
}

// AddComment is allowed only after the author finished an approved booking
// of the item.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text must not be blank", domain.ErrValidation)
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	eligible, err := s.bookings.HasFinishedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, fmt.Errorf("%w: user %d has no finished booking of item %d", domain.ErrConflict, authorID, itemID)
	}

	comment := &models.Comment{Text: text, ItemID: itemID, AuthorID: authorID, Created: now}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.publish(events.EventCommentAdded, events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    itemID,
		AuthorID:  authorID,
	})

	view := models.NewCommentView(comment, author)
	return &view, nil
}

func (s *ItemService) publish(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
