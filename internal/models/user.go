package models

type User struct {
	ID    int64  `db:"id" json:"id" redis:"id"`
	Name  string `db:"name" json:"name" redis:"name"`
	Email string `db:"email" json:"email" redis:"email"`
}

// UserPatch carries optional user updates. Blank values are ignored.
type UserPatch struct {
	Name  *string
	Email *string
}
