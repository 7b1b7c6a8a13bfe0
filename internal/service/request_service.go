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

type RequestService struct {
	requests domain.RequestRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewRequestService(
	requests domain.RequestRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	eventBus domain.EventPublisher,
	clock domain.Clock,
	logger *zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, description string) (*models.RequestView, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description must not be blank", domain.ErrValidation)
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	request := &models.Request{Description: description, RequestorID: userID, Created: s.clock.Now()}
	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.RequestEventPayload{RequestID: request.ID, RequestorID: userID}
		if err := s.eventBus.PublishJSON(events.EventRequestCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("request_id", request.ID).Msg("publish event error")
		}
	}

	view := models.NewRequestView(request, nil)
	return &view, nil
}

// ListOwn returns the caller's requests, newest first, with the items listed
// in answer to each.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]models.RequestView, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.GetRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, requests)
}

func (s *RequestService) ListOthers(ctx context.Context, userID int64, page models.Page) ([]models.RequestView, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.GetRequestsExcept(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, requests)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.RequestView, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []*models.Request{request})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RequestService) views(ctx context.Context, requests []*models.Request) ([]models.RequestView, error) {
	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	items, err := s.items.GetItemsByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]models.Item, len(requests))
	for _, item := range items {
		if item.RequestID != nil {
			byRequest[*item.RequestID] = append(byRequest[*item.RequestID], *item)
		}
	}

	views := make([]models.RequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, models.NewRequestView(r, byRequest[r.ID]))
	}
	return views, nil
}
