package chathub

import (
	"errors"
	"fmt"

	"pingdm/backend/internal/models"
	"pingdm/backend/internal/storage"
)

// ConversationSync serializes every mutation of a conversation's shared
// state (unread counters, last-message pointer) behind a per-conversation
// lock. Two sends into the same conversation, or a send racing a
// read-receipt, apply as sequential operations; nothing merges a stale
// snapshot back in.
type ConversationSync struct {
	storage storage.Storage
	locks   *KeyedMutex
}

func NewConversationSync(s storage.Storage) *ConversationSync {
	return &ConversationSync{
		storage: s,
		locks:   NewKeyedMutex(),
	}
}

// RecordNewMessage persists the message and applies the conversation-side
// update (lastMessage pointer, recipient unread +1) in one critical
// section. The sender and recipient must be the conversation's two
// participants; nothing is persisted otherwise. When the conversation row
// is missing it is created with the two participants and the recipient's
// counter already at one. Any store failure aborts with no conversation
// mutation saved.
func (cs *ConversationSync) RecordNewMessage(msg *models.Message) (*models.Conversation, error) {
	unlock := cs.locks.Lock(msg.ConversationID)
	defer unlock()

	conv, err := cs.storage.GetConversationByID(msg.ConversationID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Defensive path: normally the conversation exists via
		// find-or-create before the first send.
		u1, u2 := models.ParticipantPair(msg.SenderID, msg.RecipientID)
		conv = &models.Conversation{ID: msg.ConversationID, User1ID: u1, User2ID: u2}
	case err != nil:
		return nil, err
	default:
		if !conv.HasParticipant(msg.SenderID) {
			return nil, fmt.Errorf("%w: not a participant of this conversation", ErrPermission)
		}
		if conv.OtherParticipant(msg.SenderID) != msg.RecipientID {
			return nil, fmt.Errorf("%w: recipient is not the other participant", ErrValidation)
		}
	}

	if err := cs.storage.CreateMessage(msg); err != nil {
		return nil, err
	}

	conv.LastMessageID = &msg.ID
	conv.IncrementUnread(msg.RecipientID)
	if err := cs.storage.SaveConversation(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// MarkRead flags the listed messages read for userID and zeroes that
// user's unread counter, serialized against concurrent sends on the same
// conversation.
func (cs *ConversationSync) MarkRead(conversationID, userID string, messageIDs []uint) (*models.Conversation, error) {
	unlock := cs.locks.Lock(conversationID)
	defer unlock()

	conv, err := cs.storage.GetConversationByID(conversationID)
	if err != nil {
		return nil, err
	}

	if err := cs.storage.MarkMessagesRead(conversationID, userID, messageIDs); err != nil {
		return nil, err
	}

	conv.ResetUnread(userID)
	if err := cs.storage.SaveConversation(conv); err != nil {
		return nil, err
	}
	return conv, nil
}
