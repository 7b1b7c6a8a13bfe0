package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
}

type BookingRepository interface {
	// CreateBookingWithOverlapCheck inserts the booking unless an APPROVED
	// booking of the same item overlaps it.
	CreateBookingWithOverlapCheck(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusWithVersion(ctx context.Context, id, version int64, status models.Status) error
	GetBookingsByBooker(ctx context.Context, bookerID int64, state models.State, now time.Time, page models.Page) ([]*models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64, state models.State, now time.Time, page models.Page) ([]*models.Booking, error)
	GetApprovedBookingsForItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequestByID(ctx context.Context, id int64) (*models.Request, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.Request, error)
	GetRequestsExcept(ctx context.Context, requestorID int64, page models.Page) ([]*models.Request, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UserService interface {
	CreateUser(ctx context.Context, name, email string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.ItemView, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.ItemView, error)
	GetItem(ctx context.Context, userID, itemID int64) (*models.ItemView, error)
	ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]models.ItemView, error)
	Search(ctx context.Context, text string, page models.Page) ([]models.ItemView, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.CommentView, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.BookingView, error)
	SetApproval(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error)
	CancelBooking(ctx context.Context, bookerID, bookingID int64) (*models.BookingView, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*models.BookingView, error)
	ListForUser(ctx context.Context, userID int64, state models.State, page models.Page) ([]models.BookingView, error)
	ListForOwner(ctx context.Context, ownerID int64, state models.State, page models.Page) ([]models.BookingView, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, userID int64, description string) (*models.RequestView, error)
	ListOwn(ctx context.Context, userID int64) ([]models.RequestView, error)
	ListOthers(ctx context.Context, userID int64, page models.Page) ([]models.RequestView, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.RequestView, error)
}
