package models

import "time"

// Request is an entry on the "wanted" board.
type Request struct {
	ID          int64     `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	RequestorID int64     `db:"requestor_id" json:"requestorId"`
	Created     time.Time `db:"created_at" json:"created"`
}
