package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pingdm/backend/internal/models"
)

// ErrNotFound is returned when a referenced conversation, message or user
// does not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the persistence surface the live core depends on. Each method
// is atomic per record; cross-record ordering (unread counters vs message
// rows) is the chathub's responsibility.
type Storage interface {
	FindOrCreateUser(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateUser(user *models.User) error
	IsUserBanned(userID string) (bool, error)
	SetUserBan(userID string, duration time.Duration) error
	ClearUserBan(userID string) error

	GetConversationByID(id string) (*models.Conversation, error)
	FindOrCreateConversation(userA, userB string) (*models.Conversation, error)
	SaveConversation(conv *models.Conversation) error
	ListConversationsForUser(userID string) ([]models.Conversation, error)
	DeleteConversation(id string) error

	CreateMessage(msg *models.Message) error
	GetMessageByID(id uint) (*models.Message, error)
	UpdateMessage(msg *models.Message) error
	MarkMessagesRead(conversationID, recipientID string, ids []uint) error
	GetMessagesPage(conversationID string, beforeID uint, limit int) ([]models.Message, error)
	SearchMessages(userID, query string, limit int) ([]models.Message, error)

	SaveReport(report *models.Report) error

	PublishEvent(channel string, payload []byte) error
	AddOnlineUser(userID string) error
	RemoveOnlineUser(userID string) error
}

// Service implements Storage on PostgreSQL (gorm) and redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// --- Users ---

// FindOrCreateUser looks a user up by username, creating the account on
// first contact.
func (s *Service) FindOrCreateUser(username string) (*models.User, error) {
	var user models.User
	result := s.DB.Where("username = ?", username).
		FirstOrCreate(&user, models.User{Username: username, DisplayName: username})
	if result.Error != nil {
		log.Printf("ERROR: Failed to find or create user %s: %v", username, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("INFO: New user %s created (id %s).", username, user.ID)
	}
	return &user, nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// IsUserBanned checks the ban key in redis (fast path for the handshake).
func (s *Service) IsUserBanned(userID string) (bool, error) {
	status, err := s.Redis.Get(s.Ctx, "ban:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// SetUserBan writes the ban key. A zero duration means no expiry.
func (s *Service) SetUserBan(userID string, duration time.Duration) error {
	return s.Redis.Set(s.Ctx, "ban:"+userID, "active", duration).Err()
}

func (s *Service) ClearUserBan(userID string) error {
	return s.Redis.Del(s.Ctx, "ban:"+userID).Err()
}

// --- Conversations ---

func (s *Service) GetConversationByID(id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get conversation %s: %v", id, err)
		return nil, err
	}
	return &conv, nil
}

// FindOrCreateConversation returns the thread between the two users,
// creating it with zeroed counters when absent. The pair is normalized so
// (a,b) and (b,a) hit the same row.
func (s *Service) FindOrCreateConversation(userA, userB string) (*models.Conversation, error) {
	u1, u2 := models.ParticipantPair(userA, userB)

	var conv models.Conversation
	err := s.DB.Where("user1_id = ? AND user2_id = ?", u1, u2).
		Attrs(models.Conversation{ID: uuid.New().String(), User1ID: u1, User2ID: u2}).
		FirstOrCreate(&conv).Error
	if err != nil {
		log.Printf("ERROR: Failed to find or create conversation %s/%s: %v", u1, u2, err)
		return nil, err
	}
	return &conv, nil
}

func (s *Service) SaveConversation(conv *models.Conversation) error {
	return s.DB.Save(conv).Error
}

func (s *Service) ListConversationsForUser(userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.DB.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// DeleteConversation removes the conversation and all of its messages.
// This is the only path that physically deletes message rows.
func (s *Service) DeleteConversation(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Conversation{}).Error
	})
}

// --- Messages ---

func (s *Service) CreateMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for conversation %s: %v", msg.ConversationID, err)
		return err
	}
	return nil
}

func (s *Service) GetMessageByID(id uint) (*models.Message, error) {
	var msg models.Message
	err := s.DB.First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateMessage writes the full record in one save. Callers hold the
// per-message lock, so this is the single write of their critical section.
func (s *Service) UpdateMessage(msg *models.Message) error {
	return s.DB.Save(msg).Error
}

// MarkMessagesRead flags the listed messages read, restricted to rows
// actually addressed to recipientID.
func (s *Service) MarkMessagesRead(conversationID, recipientID string, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND id IN ?", conversationID, recipientID, ids).
		Update("read", true).Error
}

// GetMessagesPage returns up to limit messages older than beforeID,
// newest first. beforeID zero starts from the newest.
func (s *Service) GetMessagesPage(conversationID string, beforeID uint, limit int) ([]models.Message, error) {
	q := s.DB.Where("conversation_id = ?", conversationID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	var msgs []models.Message
	if err := q.Order("id desc").Limit(limit).Find(&msgs).Error; err != nil {
		log.Printf("ERROR: Failed to get messages for conversation %s: %v", conversationID, err)
		return nil, err
	}
	return msgs, nil
}

// SearchMessages matches content of non-deleted messages visible to the
// user.
func (s *Service) SearchMessages(userID, query string, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Where("(sender_id = ? OR recipient_id = ?) AND deleted = ? AND content ILIKE ?",
		userID, userID, false, "%"+query+"%").
		Order("created_at desc").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// --- Reports ---

func (s *Service) SaveReport(report *models.Report) error {
	if report.Status == "" {
		report.Status = "new"
	}
	if err := s.DB.Create(report).Error; err != nil {
		log.Printf("ERROR: Failed to save report from %s: %v", report.ReporterID, err)
		return err
	}
	return nil
}

// --- Events and presence mirror ---

// PublishEvent pushes a serialized event onto a redis pub/sub channel so
// sibling instances can fan it out to their local connections.
func (s *Service) PublishEvent(channel string, payload []byte) error {
	return s.Redis.Publish(s.Ctx, channel, payload).Err()
}

// SubscribeEvents subscribes to an event channel. Concrete on Service
// because the returned subscription is redis-specific.
func (s *Service) SubscribeEvents(channel string) *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, channel)
}

// AddOnlineUser mirrors presence into a shared redis set, best-effort.
// Callers log and swallow errors.
func (s *Service) AddOnlineUser(userID string) error {
	return s.Redis.SAdd(s.Ctx, "online_users", userID).Err()
}

func (s *Service) RemoveOnlineUser(userID string) error {
	return s.Redis.SRem(s.Ctx, "online_users", userID).Err()
}

// GetOnlineUsers returns the cluster-wide online set.
func (s *Service) GetOnlineUsers() ([]string, error) {
	return s.Redis.SMembers(s.Ctx, "online_users").Result()
}
