package chathub_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"pingdm/backend/internal/models"
)

// MockStorage is a testify mock of the storage.Storage interface, used
// where tests assert interactions or inject failures.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) FindOrCreateUser(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) IsUserBanned(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetUserBan(userID string, duration time.Duration) error {
	args := m.Called(userID, duration)
	return args.Error(0)
}

func (m *MockStorage) ClearUserBan(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) GetConversationByID(id string) (*models.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockStorage) FindOrCreateConversation(userA, userB string) (*models.Conversation, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockStorage) SaveConversation(conv *models.Conversation) error {
	args := m.Called(conv)
	return args.Error(0)
}

func (m *MockStorage) ListConversationsForUser(userID string) ([]models.Conversation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *MockStorage) DeleteConversation(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) CreateMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetMessageByID(id uint) (*models.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) UpdateMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) MarkMessagesRead(conversationID, recipientID string, ids []uint) error {
	args := m.Called(conversationID, recipientID, ids)
	return args.Error(0)
}

func (m *MockStorage) GetMessagesPage(conversationID string, beforeID uint, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, beforeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) SearchMessages(userID, query string, limit int) ([]models.Message, error) {
	args := m.Called(userID, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) SaveReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) PublishEvent(channel string, payload []byte) error {
	args := m.Called(channel, payload)
	return args.Error(0)
}

func (m *MockStorage) AddOnlineUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) RemoveOnlineUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}
