package chathub

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"pingdm/backend/internal/config"
	"pingdm/backend/internal/models"
	"pingdm/backend/internal/storage"
)

// Hub coordinates the live side of the system: it owns the presence and
// room registries, fans messages out, and funnels every inbound client
// event to its handler. Events from different connections are handled
// concurrently on their read pumps; the only serialization points are the
// registries' map operations and the per-conversation/per-message locks.
type Hub struct {
	Storage  storage.Storage
	Presence *PresenceRegistry
	Rooms    *RoomRegistry
	Syncer   *ConversationSync

	msgLocks   *KeyedMutex
	instanceID string
}

func NewHub(s storage.Storage) *Hub {
	return &Hub{
		Storage:    s,
		Presence:   NewPresenceRegistry(),
		Rooms:      NewRoomRegistry(),
		Syncer:     NewConversationSync(s),
		msgLocks:   NewKeyedMutex(),
		instanceID: uuid.New().String(),
	}
}

// Register binds an authenticated connection into the presence registry
// and announces the user's online transition to all connected peers.
func (h *Hub) Register(c Client) {
	first := h.Presence.Add(c)
	if !first {
		return
	}

	// Bookkeeping failures never block a connect.
	if err := h.Storage.AddOnlineUser(c.GetUserID()); err != nil {
		log.Printf("WARN: failed to mirror online status for %s: %v", c.GetUserID(), err)
	}
	h.broadcastAll(models.ServerEvent{
		Type:    models.EventPresence,
		Payload: models.PresencePayload{UserID: c.GetUserID(), Status: "online"},
	})
}

// Unregister tears a connection down: it leaves every room, drops out of
// the presence registry, and announces offline only when no other
// connection of the same user survives. Cleanup failures are logged and
// swallowed so disconnect always completes.
func (h *Hub) Unregister(c Client) {
	h.Rooms.LeaveAll(c)
	last := h.Presence.Remove(c)
	c.Close()
	if !last {
		return
	}

	if err := h.Storage.RemoveOnlineUser(c.GetUserID()); err != nil {
		log.Printf("WARN: failed to clear online status for %s: %v", c.GetUserID(), err)
	}
	h.broadcastAll(models.ServerEvent{
		Type:    models.EventPresence,
		Payload: models.PresencePayload{UserID: c.GetUserID(), Status: "offline"},
	})
}

// HandleEvent routes one inbound event. Handler errors surface only to
// the originating connection.
func (h *Hub) HandleEvent(c Client, ev models.ClientEvent) {
	switch ev.Type {
	case models.EventJoin:
		h.Rooms.Join(ev.ConversationID, c)
	case models.EventLeave:
		h.Rooms.Leave(ev.ConversationID, c)
	case models.EventSend:
		h.SendMessage(c, ev)
	case models.EventMarkRead:
		h.MarkRead(c, ev)
	case models.EventTyping:
		h.Typing(c, ev)
	case models.EventReact:
		h.React(c, ev)
	case models.EventEdit:
		h.Edit(c, ev)
	case models.EventDelete:
		h.Delete(c, ev)
	default:
		h.sendError(c, fmt.Errorf("%w: unknown event type %q", ErrValidation, ev.Type))
	}
}

// SendMessage validates, persists and fans out a new message. The room
// gets the materialized message; recipient connections outside the room
// get a lighter notification so badges update without joining.
func (h *Hub) SendMessage(c Client, ev models.ClientEvent) {
	content := strings.TrimSpace(ev.Content)
	if content == "" && ev.ImageURL == "" {
		h.sendError(c, fmt.Errorf("%w: message needs content or an image", ErrValidation))
		return
	}
	if len(content) > config.MaxContentLength {
		h.sendError(c, fmt.Errorf("%w: message content too long", ErrValidation))
		return
	}
	if ev.ConversationID == "" || ev.RecipientID == "" {
		h.sendError(c, fmt.Errorf("%w: conversation and recipient are required", ErrValidation))
		return
	}

	msg := &models.Message{
		ConversationID: ev.ConversationID,
		SenderID:       c.GetUserID(),
		RecipientID:    ev.RecipientID,
		Content:        content,
		ImageURL:       ev.ImageURL,
		Attachments:    ev.Attachments,
		Reactions:      models.ReactionList{},
		Read:           false,
	}

	conv, err := h.Syncer.RecordNewMessage(msg)
	if err != nil {
		h.sendError(c, fmt.Errorf("failed to send message: %w", err))
		return
	}

	sender, err := h.Storage.GetUserByID(c.GetUserID())
	if err != nil {
		// Broadcast still goes out; clients fall back to the sender id.
		log.Printf("WARN: failed to resolve sender %s: %v", c.GetUserID(), err)
		sender = nil
	}

	h.broadcastRoom(conv.ID, "", models.ServerEvent{
		Type:    models.EventNewMessage,
		Payload: models.NewMessagePayload{Message: msg, Sender: sender},
	}, true)

	h.notifyOutsideRoom(conv.ID, ev.RecipientID, models.ServerEvent{
		Type: models.EventNotification,
		Payload: models.NotificationPayload{
			Message:        msg,
			ConversationID: conv.ID,
			UnreadCount:    conv.UnreadFor(ev.RecipientID),
		},
	}, true)
}

// MarkRead applies a read receipt and tells the room who read what.
func (h *Hub) MarkRead(c Client, ev models.ClientEvent) {
	if ev.ConversationID == "" || len(ev.MessageIDs) == 0 {
		h.sendError(c, fmt.Errorf("%w: conversation and message ids are required", ErrValidation))
		return
	}

	conv, err := h.Syncer.MarkRead(ev.ConversationID, c.GetUserID(), ev.MessageIDs)
	if err != nil {
		h.sendError(c, fmt.Errorf("failed to mark messages read: %w", err))
		return
	}

	h.broadcastRoom(conv.ID, "", models.ServerEvent{
		Type: models.EventMessagesRead,
		Payload: models.MessagesReadPayload{
			ConversationID: conv.ID,
			ReaderID:       c.GetUserID(),
			MessageIDs:     ev.MessageIDs,
		},
	}, true)
}

// Typing relays an ephemeral typing flag to the room, minus the
// originator. Nothing is persisted or acknowledged.
func (h *Hub) Typing(c Client, ev models.ClientEvent) {
	h.broadcastRoom(ev.ConversationID, c.GetConnID(), models.ServerEvent{
		Type: models.EventUserTyping,
		Payload: models.TypingPayload{
			ConversationID: ev.ConversationID,
			UserID:         c.GetUserID(),
			IsTyping:       ev.IsTyping,
		},
	}, true)
}

// broadcastRoom delivers an event to the room's membership snapshot.
// Delivery is fire-and-forget per connection; one dead connection never
// aborts the rest. With relay set the event is also published for sibling
// instances.
func (h *Hub) broadcastRoom(conversationID, excludeConnID string, ev models.ServerEvent, relay bool) {
	for _, member := range h.Rooms.Members(conversationID) {
		if member.GetConnID() == excludeConnID {
			continue
		}
		h.trySend(member, ev)
	}
	if relay {
		h.publishRelay(relayEnvelope{
			Origin:         h.instanceID,
			ConversationID: conversationID,
			ExcludeConnID:  excludeConnID,
			Event:          ev,
		})
	}
}

// broadcastAll delivers an event to every local connection and relays it.
func (h *Hub) broadcastAll(ev models.ServerEvent) {
	for _, c := range h.Presence.All() {
		h.trySend(c, ev)
	}
	h.publishRelay(relayEnvelope{Origin: h.instanceID, Event: ev})
}

// notifyOutsideRoom sends an event to each of the user's connections that
// is not subscribed to the conversation's room.
func (h *Hub) notifyOutsideRoom(conversationID, userID string, ev models.ServerEvent, relay bool) {
	for _, c := range h.Presence.ClientsOf(userID) {
		if h.Rooms.InRoom(conversationID, c.GetConnID()) {
			continue
		}
		h.trySend(c, ev)
	}
	if relay {
		h.publishRelay(relayEnvelope{
			Origin:       h.instanceID,
			TargetUserID: userID,
			SkipRoomID:   conversationID,
			Event:        ev,
		})
	}
}

// trySend queues the event for one connection. A full buffer or a closed
// connection counts as dead: the client is dropped, the broadcast goes on.
func (h *Hub) trySend(c Client, ev models.ServerEvent) {
	if c.Deliver(ev) {
		return
	}
	log.Printf("WARN: dropping unresponsive connection %s (user %s)", c.GetConnID(), c.GetUserID())
	go h.Unregister(c)
}

func (h *Hub) sendError(c Client, err error) {
	log.Printf("operation error for user %s: %v", c.GetUserID(), err)
	c.Deliver(models.ServerEvent{
		Type:    models.EventError,
		Payload: models.ErrorPayload{Message: err.Error()},
	})
}
