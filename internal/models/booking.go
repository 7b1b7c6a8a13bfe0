package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// CanTransition reports whether a booking may move from s to next.
// Only WAITING has outgoing edges.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusWaiting:
		return next == StatusApproved || next == StatusRejected || next == StatusCanceled
	case StatusApproved, StatusRejected, StatusCanceled:
		return false
	default:
		return false
	}
}

// State is a list filter over bookings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState maps the query value to a State; empty means ALL.
func ParseState(raw string) (State, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StateAll, nil
	}
	switch s := State(strings.ToUpper(raw)); s {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return s, nil
	default:
		return "", fmt.Errorf("Unknown state: %s", raw)
	}
}

// Matches evaluates the filter against a single booking at instant now.
func (s State) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}

type Booking struct {
	ID        int64     `db:"id" json:"id"`
	ItemID    int64     `db:"item_id" json:"itemId"`
	BookerID  int64     `db:"booker_id" json:"bookerId"`
	Start     time.Time `db:"start_date" json:"start"`
	End       time.Time `db:"end_date" json:"end"`
	Status    Status    `db:"status" json:"status"`
	Version   int64     `db:"version" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Overlaps reports whether [start, end) intersects the booking interval.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}
