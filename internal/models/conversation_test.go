package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pingdm/backend/internal/models"
)

func TestParticipantPairIsOrderStable(t *testing.T) {
	a1, a2 := models.ParticipantPair("alice", "bob")
	b1, b2 := models.ParticipantPair("bob", "alice")
	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)
}

func TestConversationParticipantHelpers(t *testing.T) {
	conv := models.Conversation{ID: "c1", User1ID: "alice", User2ID: "bob"}

	assert.True(t, conv.HasParticipant("alice"))
	assert.True(t, conv.HasParticipant("bob"))
	assert.False(t, conv.HasParticipant("mallory"))

	assert.Equal(t, "bob", conv.OtherParticipant("alice"))
	assert.Equal(t, "alice", conv.OtherParticipant("bob"))
	assert.Empty(t, conv.OtherParticipant("mallory"))
}

func TestConversationUnreadCounters(t *testing.T) {
	conv := models.Conversation{ID: "c1", User1ID: "alice", User2ID: "bob"}

	conv.IncrementUnread("bob")
	conv.IncrementUnread("bob")
	conv.IncrementUnread("alice")
	assert.Equal(t, 2, conv.UnreadFor("bob"))
	assert.Equal(t, 1, conv.UnreadFor("alice"))

	conv.ResetUnread("bob")
	assert.Equal(t, 0, conv.UnreadFor("bob"))
	assert.Equal(t, 1, conv.UnreadFor("alice"), "reset only touches the reader's side")

	// Non-participants are ignored rather than miscounted.
	conv.IncrementUnread("mallory")
	conv.ResetUnread("mallory")
	assert.Equal(t, 0, conv.UnreadFor("mallory"))
	assert.Equal(t, 1, conv.UnreadFor("alice"))
}
