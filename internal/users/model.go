package users

import "time"

// User is an authenticated account. Role is one of the closed set
// {candidate, employer, administrator}; capability checks dispatch on it at
// each operation boundary.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}
