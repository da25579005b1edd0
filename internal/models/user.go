package models

import (
	"time"
)

// User is an account that owns tasks. Rows are never updated or deleted.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:200;not null" json:"-"`

	Tasks []Task `gorm:"foreignKey:UserID" json:"-"`
}
