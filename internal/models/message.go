package models

import (
	"time"

	"github.com/lib/pq"
)

// Message represents a single direct message in a conversation.
// Soft deletion keeps the row: Deleted is set, Content is replaced with a
// tombstone and media fields are cleared. Rows only disappear when the
// whole conversation is deleted.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// ConversationID ties the message to its thread; sender and recipient
	// are always that conversation's two participants.
	ConversationID string `gorm:"type:uuid;not null;index:idx_conv_msg" json:"conversation_id"`
	SenderID       string `gorm:"type:text;not null;index:idx_conv_msg" json:"sender_id"`
	RecipientID    string `gorm:"type:text;not null;index" json:"recipient_id"`

	Content     string         `gorm:"type:text" json:"content"`
	ImageURL    string         `gorm:"type:text" json:"image_url,omitempty"`
	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments,omitempty"`

	// Reactions is a set keyed by (UserID, Emoji), stored as jsonb.
	Reactions ReactionList `gorm:"type:jsonb;serializer:json" json:"reactions"`

	Read bool `gorm:"default:false" json:"read"`

	Edited   bool       `gorm:"default:false" json:"edited"`
	EditedAt *time.Time `json:"edited_at,omitempty"`

	// Deleted is the application-level tombstone flag; DeletedAt stays a
	// plain *time.Time on purpose so GORM never filters these rows out.
	Deleted   bool       `gorm:"default:false" json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reaction is one user's emoji on a message. At most one Reaction exists
// per (UserID, Emoji) pair.
type Reaction struct {
	UserID    string    `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionList is the reaction set of a message, serialized to jsonb.
type ReactionList []Reaction

// Contains reports whether the (userID, emoji) pair is present.
func (l ReactionList) Contains(userID, emoji string) bool {
	for _, r := range l {
		if r.UserID == userID && r.Emoji == emoji {
			return true
		}
	}
	return false
}

// Toggle removes the (userID, emoji) reaction when present, otherwise
// appends a new one stamped with now. It returns the updated list.
func (l ReactionList) Toggle(userID, emoji string, now time.Time) ReactionList {
	for i, r := range l {
		if r.UserID == userID && r.Emoji == emoji {
			return append(l[:i:i], l[i+1:]...)
		}
	}
	return append(l, Reaction{UserID: userID, Emoji: emoji, CreatedAt: now})
}
