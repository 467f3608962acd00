package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the public view of a user with engagement totals.
type Profile struct {
	ID         string
	Name       string
	Email      string
	PostCount  int64
	LikedCount int64
	CreatedAt  time.Time
}

// NormalizeEmail is applied on every write and lookup so that uniqueness
// and login are case and whitespace insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
