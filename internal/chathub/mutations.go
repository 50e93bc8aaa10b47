package chathub

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pingdm/backend/internal/config"
	"pingdm/backend/internal/models"
)

// Message mutations (react, edit, delete) serialize per message id: each
// handler holds the message lock across its load-mutate-save cycle so a
// concurrent edit, delete or reaction on the same message never loses an
// interleaved write.

func messageKey(id uint) string {
	return "msg:" + strconv.FormatUint(uint64(id), 10)
}

// React toggles the (user, emoji) reaction on a message. Any participant
// may react; an existing pair is removed, a missing one added.
func (h *Hub) React(c Client, ev models.ClientEvent) {
	if ev.Emoji == "" {
		h.sendError(c, fmt.Errorf("%w: emoji is required", ErrValidation))
		return
	}

	unlock := h.msgLocks.Lock(messageKey(ev.MessageID))
	msg, err := h.Storage.GetMessageByID(ev.MessageID)
	if err != nil {
		unlock()
		h.sendError(c, fmt.Errorf("failed to react: %w", err))
		return
	}
	msg.Reactions = msg.Reactions.Toggle(c.GetUserID(), ev.Emoji, time.Now())
	err = h.Storage.UpdateMessage(msg)
	unlock()
	if err != nil {
		h.sendError(c, fmt.Errorf("failed to react: %w", err))
		return
	}

	h.broadcastRoom(msg.ConversationID, "", models.ServerEvent{
		Type: models.EventReactionUpdate,
		Payload: models.ReactionUpdatePayload{
			MessageID: msg.ID,
			Reactions: msg.Reactions,
		},
	}, true)
}

// Edit replaces the content of the caller's own message.
func (h *Hub) Edit(c Client, ev models.ClientEvent) {
	content := strings.TrimSpace(ev.Content)
	if content == "" {
		h.sendError(c, fmt.Errorf("%w: edited content is empty", ErrValidation))
		return
	}
	if len(content) > config.MaxContentLength {
		h.sendError(c, fmt.Errorf("%w: message content too long", ErrValidation))
		return
	}

	unlock := h.msgLocks.Lock(messageKey(ev.MessageID))
	msg, err := h.Storage.GetMessageByID(ev.MessageID)
	if err != nil {
		unlock()
		h.sendError(c, fmt.Errorf("failed to edit: %w", err))
		return
	}
	if msg.SenderID != c.GetUserID() {
		unlock()
		h.sendError(c, fmt.Errorf("%w: only the sender can edit this message", ErrPermission))
		return
	}
	now := time.Now()
	msg.Content = content
	msg.Edited = true
	msg.EditedAt = &now
	err = h.Storage.UpdateMessage(msg)
	unlock()
	if err != nil {
		h.sendError(c, fmt.Errorf("failed to edit: %w", err))
		return
	}

	h.broadcastRoom(msg.ConversationID, "", models.ServerEvent{
		Type:    models.EventMessageEdited,
		Payload: models.NewMessagePayload{Message: msg},
	}, true)
}

// Delete tombstones the caller's own message: the row survives with its
// conversation linkage, but content is replaced and media cleared. The
// room gets only the id and the deleting user, the record being tombstoned.
func (h *Hub) Delete(c Client, ev models.ClientEvent) {
	unlock := h.msgLocks.Lock(messageKey(ev.MessageID))
	msg, err := h.Storage.GetMessageByID(ev.MessageID)
	if err != nil {
		unlock()
		h.sendError(c, fmt.Errorf("failed to delete: %w", err))
		return
	}
	if msg.SenderID != c.GetUserID() {
		unlock()
		h.sendError(c, fmt.Errorf("%w: only the sender can delete this message", ErrPermission))
		return
	}
	now := time.Now()
	msg.Deleted = true
	msg.DeletedAt = &now
	msg.Content = config.DeletedMessageText
	msg.ImageURL = ""
	msg.Attachments = nil
	err = h.Storage.UpdateMessage(msg)
	unlock()
	if err != nil {
		h.sendError(c, fmt.Errorf("failed to delete: %w", err))
		return
	}

	h.broadcastRoom(msg.ConversationID, "", models.ServerEvent{
		Type: models.EventMessageDeleted,
		Payload: models.MessageDeletedPayload{
			MessageID: msg.ID,
			DeletedBy: c.GetUserID(),
		},
	}, true)
}
