package chathub_test

import (
	"strings"
	"sync"
	"time"

	"pingdm/backend/internal/models"
	"pingdm/backend/internal/storage"
)

// memStorage is an in-memory Storage used by the behavioral tests. It
// clones records on the way in and out so tests exercise the same
// read-then-write discipline the real store forces on the hub.
type memStorage struct {
	mu        sync.Mutex
	users     map[string]*models.User
	convs     map[string]*models.Conversation
	msgs      map[uint]*models.Message
	nextMsgID uint
	online    map[string]bool
	published [][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{
		users:  make(map[string]*models.User),
		convs:  make(map[string]*models.Conversation),
		msgs:   make(map[uint]*models.Message),
		online: make(map[string]bool),
	}
}

func (m *memStorage) addUser(id, username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: id, Username: username, DisplayName: username}
	m.users[id] = u
	return u
}

func (m *memStorage) addConversation(id, user1, user2 string) *models.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	u1, u2 := models.ParticipantPair(user1, user2)
	c := &models.Conversation{ID: id, User1ID: u1, User2ID: u2}
	m.convs[id] = c
	return c
}

func (m *memStorage) conversation(id string) *models.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneConv(m.convs[id])
}

func (m *memStorage) message(id uint) *models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneMsg(m.msgs[id])
}

func (m *memStorage) messageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

func cloneConv(c *models.Conversation) *models.Conversation {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

func cloneMsg(msg *models.Message) *models.Message {
	if msg == nil {
		return nil
	}
	v := *msg
	v.Reactions = append(models.ReactionList{}, msg.Reactions...)
	v.Attachments = append([]string{}, msg.Attachments...)
	return &v
}

func (m *memStorage) FindOrCreateUser(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			v := *u
			return &v, nil
		}
	}
	u := &models.User{ID: "user-" + username, Username: username, DisplayName: username}
	m.users[u.ID] = u
	v := *u
	return &v, nil
}

func (m *memStorage) GetUserByID(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	v := *u
	return &v, nil
}

func (m *memStorage) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := *user
	m.users[user.ID] = &v
	return nil
}

func (m *memStorage) IsUserBanned(string) (bool, error)      { return false, nil }
func (m *memStorage) SetUserBan(string, time.Duration) error { return nil }
func (m *memStorage) ClearUserBan(string) error              { return nil }

func (m *memStorage) GetConversationByID(id string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.convs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneConv(c), nil
}

func (m *memStorage) FindOrCreateConversation(userA, userB string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u1, u2 := models.ParticipantPair(userA, userB)
	for _, c := range m.convs {
		if c.User1ID == u1 && c.User2ID == u2 {
			return cloneConv(c), nil
		}
	}
	c := &models.Conversation{ID: "conv-" + u1 + "-" + u2, User1ID: u1, User2ID: u2}
	m.convs[c.ID] = c
	return cloneConv(c), nil
}

func (m *memStorage) SaveConversation(conv *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs[conv.ID] = cloneConv(conv)
	return nil
}

func (m *memStorage) ListConversationsForUser(userID string) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Conversation
	for _, c := range m.convs {
		if c.HasParticipant(userID) {
			out = append(out, *cloneConv(c))
		}
	}
	return out, nil
}

func (m *memStorage) DeleteConversation(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.convs, id)
	for msgID, msg := range m.msgs {
		if msg.ConversationID == id {
			delete(m.msgs, msgID)
		}
	}
	return nil
}

func (m *memStorage) CreateMessage(msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextMsgID++
	msg.ID = m.nextMsgID
	msg.CreatedAt = time.Now()
	m.msgs[msg.ID] = cloneMsg(msg)
	return nil
}

func (m *memStorage) GetMessageByID(id uint) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.msgs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneMsg(msg), nil
}

func (m *memStorage) UpdateMessage(msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs[msg.ID] = cloneMsg(msg)
	return nil
}

func (m *memStorage) MarkMessagesRead(conversationID, recipientID string, ids []uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		msg, ok := m.msgs[id]
		if ok && msg.ConversationID == conversationID && msg.RecipientID == recipientID {
			msg.Read = true
		}
	}
	return nil
}

func (m *memStorage) GetMessagesPage(conversationID string, beforeID uint, limit int) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.msgs {
		if msg.ConversationID != conversationID {
			continue
		}
		if beforeID > 0 && msg.ID >= beforeID {
			continue
		}
		out = append(out, *cloneMsg(msg))
	}
	return out, nil
}

func (m *memStorage) SearchMessages(userID, query string, limit int) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.msgs {
		if msg.Deleted {
			continue
		}
		if msg.SenderID != userID && msg.RecipientID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(msg.Content), strings.ToLower(query)) {
			out = append(out, *cloneMsg(msg))
		}
	}
	return out, nil
}

func (m *memStorage) SaveReport(report *models.Report) error { return nil }

func (m *memStorage) PublishEvent(channel string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, payload)
	return nil
}

func (m *memStorage) AddOnlineUser(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online[userID] = true
	return nil
}

func (m *memStorage) RemoveOnlineUser(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.online, userID)
	return nil
}
