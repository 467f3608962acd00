package domain

import "time"

type Kind string

const (
	KindOpaque Kind = "opaque"
	KindSigned Kind = "signed"
)

// Credential is what a successful login hands back. Opaque credentials
// never expire on their own; signed ones carry ExpiresAt.
type Credential struct {
	Kind      Kind
	Value     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c Credential) HasExpiry() bool {
	return !c.ExpiresAt.IsZero()
}
