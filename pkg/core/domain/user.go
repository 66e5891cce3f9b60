package domain

import "time"

// User is a signed-in account known to the identity directory
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
