package user

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a known identity. Accounts are provisioned outside this service;
// bookings reference them and notifications are addressed to them.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
