package entity

// User is a registered account. Bookings reference it opportunistically by
// email; guests book without one.
type User struct {
	UserID string `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`
	Email  string `json:"email" db:"email"`
}
