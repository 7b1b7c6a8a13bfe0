package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// userResolver looks users up once per call. Users removed from the registry
// resolve to an id-only placeholder so history stays readable.
type userResolver struct {
	users domain.UserRepository
	cache map[int64]*models.User
}

func newUserResolver(users domain.UserRepository) *userResolver {
	return &userResolver{users: users, cache: make(map[int64]*models.User)}
}

func (r *userResolver) resolve(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := r.cache[id]; ok {
		return u, nil
	}
	u, err := r.users.GetUserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = &models.User{ID: id}, nil
	}
	if err != nil {
		return nil, err
	}
	r.cache[id] = u
	return u, nil
}

// itemViewer assembles item views with their comments and, for the owner,
// the last and next approved bookings.
type itemViewer struct {
	bookings domain.BookingRepository
	comments domain.CommentRepository
	users    domain.UserRepository
}

func (v itemViewer) views(ctx context.Context, items []*models.Item, viewerID int64, now time.Time) ([]models.ItemView, error) {
	views := make([]models.ItemView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(items))
	var owned []int64
	for _, item := range items {
		ids = append(ids, item.ID)
		if item.OwnerID == viewerID {
			owned = append(owned, item.ID)
		}
	}

	comments, err := v.comments.GetCommentsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	resolver := newUserResolver(v.users)
	commentsByItem := make(map[int64][]models.CommentView, len(items))
	for _, c := range comments {
		author, err := resolver.resolve(ctx, c.AuthorID)
		if err != nil {
			return nil, err
		}
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], models.NewCommentView(c, author))
	}

	bookingsByItem := make(map[int64][]models.Booking, len(owned))
	if len(owned) > 0 {
		approved, err := v.bookings.GetApprovedBookingsForItems(ctx, owned)
		if err != nil {
			return nil, err
		}
		for _, b := range approved {
			bookingsByItem[b.ItemID] = append(bookingsByItem[b.ItemID], *b)
		}
	}

	for _, item := range items {
		last, next := models.LastAndNext(bookingsByItem[item.ID], now)
		views = append(views, models.NewItemView(item, last, next, commentsByItem[item.ID]))
	}
	return views, nil
}

func (v itemViewer) view(ctx context.Context, item *models.Item, viewerID int64, now time.Time) (*models.ItemView, error) {
	views, err := v.views(ctx, []*models.Item{item}, viewerID, now)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
