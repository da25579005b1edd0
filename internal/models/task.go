package models

import (
	"time"
)

// Task represents a to-do item owned by a single user
type Task struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Text        string     `gorm:"size:255;not null" json:"text"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Important   bool       `gorm:"not null;default:false" json:"important"`
	CompletedAt *time.Time `json:"completed_at"`

	// Owner
	UserID uint `gorm:"not null;index" json:"user_id"`
}

// Filter narrows a task listing
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
	FilterImportant Filter = "important"
)

// Filters lists the filters in display order
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted, FilterImportant}

// ParseFilter maps a query value to a Filter. Unknown values mean no narrowing.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterCompleted, FilterPending, FilterImportant:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Next returns the filter after f in display order, wrapping around
func (f Filter) Next() Filter {
	for i, v := range Filters {
		if v == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}
