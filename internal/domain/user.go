package domain

import (
	"context"
	"time"
)

// User is the customer identity consumed from the external account system.
// The core only needs it for booking ownership and admin checks.
type User struct {
	ID        int
	Username  string
	Email     string
	FullName  string
	IsAdmin   bool
	CreatedAt time.Time
}

type UserRepository interface {
	GetById(ctx context.Context, id int) (*User, error)
}
