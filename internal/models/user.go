package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User represents an account in the system. The live messaging core only
// reads display attributes and the block status; profile management happens
// through the REST layer.
type User struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string         `json:"display_name"`
	AvatarURL   string         `json:"avatar_url"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`

	// IsBlocked and BlockEndTime mirror the redis ban key for offline
	// inspection; the gateway consults redis, not these fields.
	IsBlocked    bool  `json:"-"`
	BlockEndTime int64 `json:"-"`
}

// BeforeCreate is a GORM hook that assigns a UUID when no ID is set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
