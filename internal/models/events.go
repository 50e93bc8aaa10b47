package models

// Inbound event types, sent by clients over the websocket.
const (
	EventJoin     = "join"
	EventLeave    = "leave"
	EventSend     = "send_message"
	EventMarkRead = "mark_read"
	EventTyping   = "typing"
	EventReact    = "react"
	EventEdit     = "edit_message"
	EventDelete   = "delete_message"
)

// Outbound event types, pushed by the server.
const (
	EventPresence       = "presence"
	EventNewMessage     = "new_message"
	EventNotification   = "message_notification"
	EventMessagesRead   = "messages_read"
	EventUserTyping     = "user_typing"
	EventReactionUpdate = "reaction_update"
	EventMessageEdited  = "message_edited"
	EventMessageDeleted = "message_deleted"
	EventError          = "error"
)

// ClientEvent is the inbound websocket envelope. Type selects the handler;
// the remaining fields are read per event type.
type ClientEvent struct {
	Type           string   `json:"type"`
	ConversationID string   `json:"conversation_id,omitempty"`
	RecipientID    string   `json:"recipient_id,omitempty"`
	Content        string   `json:"content,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	Attachments    []string `json:"attachments,omitempty"`
	MessageID      uint     `json:"message_id,omitempty"`
	MessageIDs     []uint   `json:"message_ids,omitempty"`
	Emoji          string   `json:"emoji,omitempty"`
	IsTyping       bool     `json:"is_typing,omitempty"`
}

// ServerEvent is the outbound websocket envelope.
type ServerEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Outbound payload shapes.

type PresencePayload struct {
	UserID string `json:"user_id"`
	Status string `json:"status"` // "online" or "offline"
}

// NewMessagePayload carries the full message plus the sender's display
// attributes so clients can render without a profile lookup.
type NewMessagePayload struct {
	Message *Message `json:"message"`
	Sender  *User    `json:"sender,omitempty"`
}

// NotificationPayload goes to recipient connections that are not in the
// conversation room, so badges update without joining.
type NotificationPayload struct {
	Message        *Message `json:"message"`
	ConversationID string   `json:"conversation_id"`
	UnreadCount    int      `json:"unread_count"`
}

type MessagesReadPayload struct {
	ConversationID string `json:"conversation_id"`
	ReaderID       string `json:"reader_id"`
	MessageIDs     []uint `json:"message_ids"`
}

type TypingPayload struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	IsTyping       bool   `json:"is_typing"`
}

type ReactionUpdatePayload struct {
	MessageID uint         `json:"message_id"`
	Reactions ReactionList `json:"reactions"`
}

type MessageDeletedPayload struct {
	MessageID uint   `json:"message_id"`
	DeletedBy string `json:"deleted_by"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
