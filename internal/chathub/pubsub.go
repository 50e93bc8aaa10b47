package chathub

import (
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"pingdm/backend/internal/models"
)

// EventsChannel is the redis pub/sub channel carrying broadcasts between
// instances.
const EventsChannel = "chat:events"

// relayEnvelope wraps a server event for cross-instance delivery. Scope:
// ConversationID set means the room, TargetUserID set means that user's
// connections outside SkipRoomID, neither means every connection. Origin
// filters the publisher's own echo.
type relayEnvelope struct {
	Origin         string             `json:"origin"`
	ConversationID string             `json:"conversation_id,omitempty"`
	TargetUserID   string             `json:"target_user_id,omitempty"`
	SkipRoomID     string             `json:"skip_room_id,omitempty"`
	ExcludeConnID  string             `json:"exclude_conn_id,omitempty"`
	Event          models.ServerEvent `json:"event"`
}

// publishRelay ships the envelope to sibling instances, best-effort.
func (h *Hub) publishRelay(env relayEnvelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		log.Printf("ERROR: failed to encode relay envelope: %v", err)
		return
	}
	if err := h.Storage.PublishEvent(EventsChannel, payload); err != nil {
		log.Printf("WARN: failed to publish relay event: %v", err)
	}
}

// StartRelayListener consumes the events channel and replays foreign
// broadcasts to local connections. Runs until the subscription closes.
func (h *Hub) StartRelayListener(sub *redis.PubSub) {
	go func() {
		for m := range sub.Channel() {
			var env relayEnvelope
			if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
				log.Printf("ERROR: failed to decode relay envelope: %v", err)
				continue
			}
			if env.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(env)
		}
	}()
}

func (h *Hub) deliverLocal(env relayEnvelope) {
	switch {
	case env.ConversationID != "":
		h.broadcastRoom(env.ConversationID, env.ExcludeConnID, env.Event, false)
	case env.TargetUserID != "":
		for _, c := range h.Presence.ClientsOf(env.TargetUserID) {
			if env.SkipRoomID != "" && h.Rooms.InRoom(env.SkipRoomID, c.GetConnID()) {
				continue
			}
			h.trySend(c, env.Event)
		}
	default:
		for _, c := range h.Presence.All() {
			h.trySend(c, env.Event)
		}
	}
}
