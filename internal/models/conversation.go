package models

import "time"

// Conversation represents a direct-message thread between exactly two users.
// The unread counters and the last-message pointer are the shared state the
// chathub serializes per conversation; both participants always have a
// counter because they are fixed columns.
type Conversation struct {
	// ID is the unique identifier for the conversation (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// User1ID and User2ID are the two participants. User1ID is always the
	// lexicographically smaller of the pair so find-or-create is stable.
	User1ID string `gorm:"index:idx_conversation_pair;not null" json:"user1_id"`
	User2ID string `gorm:"index:idx_conversation_pair;not null" json:"user2_id"`
	// User1Unread / User2Unread count messages addressed to that user
	// with Read still false.
	User1Unread int `json:"user1_unread"`
	User2Unread int `json:"user2_unread"`
	// LastMessageID points at the most recently created message in the
	// conversation, deleted or not. Nil until the first send.
	LastMessageID *uint     `json:"last_message_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParticipant returns the participant that is not userID. It returns
// an empty string when userID is not in the conversation.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.User1ID:
		return c.User2ID
	case c.User2ID:
		return c.User1ID
	}
	return ""
}

// UnreadFor returns the unread counter of the given participant.
func (c *Conversation) UnreadFor(userID string) int {
	switch userID {
	case c.User1ID:
		return c.User1Unread
	case c.User2ID:
		return c.User2Unread
	}
	return 0
}

// IncrementUnread bumps the unread counter of the given participant.
func (c *Conversation) IncrementUnread(userID string) {
	switch userID {
	case c.User1ID:
		c.User1Unread++
	case c.User2ID:
		c.User2Unread++
	}
}

// ResetUnread zeroes the unread counter of the given participant.
func (c *Conversation) ResetUnread(userID string) {
	switch userID {
	case c.User1ID:
		c.User1Unread = 0
	case c.User2ID:
		c.User2Unread = 0
	}
}

// ParticipantPair normalizes two user IDs into the stored column order.
func ParticipantPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
