package models

import (
	"sort"
	"time"
)

// The view types below are the response shapes. Each entity has one
// canonical struct; views are built from it only through the New* functions.

type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   Status    `json:"status"`
}

type CommentView struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
}

type ItemView struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Available   bool          `json:"available"`
	RequestID   *int64        `json:"requestId,omitempty"`
	LastBooking *BookingShort `json:"lastBooking"`
	NextBooking *BookingShort `json:"nextBooking"`
	Comments    []CommentView `json:"comments"`
}

type BookingView struct {
	ID     int64     `json:"id"`
	Booker User      `json:"booker"`
	Item   ItemView  `json:"item"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
}

type RequestView struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Created     time.Time  `json:"created"`
	Items       []ItemView `json:"items"`
}

func NewBookingShort(b *Booking) *BookingShort {
	if b == nil {
		return nil
	}
	return &BookingShort{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
		Status:   b.Status,
	}
}

func NewCommentView(c *Comment, author *User) CommentView {
	v := CommentView{
		ID:       c.ID,
		AuthorID: c.AuthorID,
		Text:     c.Text,
		Created:  c.Created,
	}
	if author != nil {
		v.AuthorName = author.Name
	}
	return v
}

// NewItemView never returns a nil Comments slice so it encodes as [].
func NewItemView(item *Item, last, next *Booking, comments []CommentView) ItemView {
	if comments == nil {
		comments = []CommentView{}
	}
	return ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		LastBooking: NewBookingShort(last),
		NextBooking: NewBookingShort(next),
		Comments:    comments,
	}
}

func NewBookingView(b *Booking, booker *User, item *Item) BookingView {
	return BookingView{
		ID:     b.ID,
		Booker: *booker,
		Item:   NewItemView(item, nil, nil, nil),
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
	}
}

func NewRequestView(r *Request, items []Item) RequestView {
	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, NewItemView(&items[i], nil, nil, nil))
	}
	return RequestView{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       views,
	}
}

// LastAndNext picks, among approved bookings, the latest one that has already
// started and the earliest one that starts after now.
func LastAndNext(bookings []Booking, now time.Time) (last, next *Booking) {
	approved := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == StatusApproved {
			approved = append(approved, b)
		}
	}
	sort.Slice(approved, func(i, j int) bool { return approved[i].Start.Before(approved[j].Start) })

	for i := range approved {
		b := approved[i]
		if b.Start.After(now) {
			if next == nil {
				next = &b
			}
			continue
		}
		last = &b
	}
	return last, next
}
