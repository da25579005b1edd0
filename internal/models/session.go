package models

import (
	"time"
)

// Session is a server-side login record. ID is the token id carried by the
// client cookie.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Username string `gorm:"not null" json:"username"`
}

// Expired reports whether the session is past its expiry at now
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
