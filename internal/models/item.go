package models

import "time"

type Item struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Available   bool      `db:"available" json:"available"`
	OwnerID     int64     `db:"owner_id" json:"ownerId"`
	RequestID   *int64    `db:"request_id" json:"requestId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

// ItemPatch carries the whitelisted editable fields; nil leaves a field as is.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}
