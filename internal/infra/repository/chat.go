package repository

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/infra/database/models"
	"github.com/sahara-community/pulse/internal/usecase"
)

var (
	_ usecase.ChatRepository = (*ChatRepository)(nil)
	_ usecase.RoomAccess     = (*RoomAccess)(nil)
)

type ChatRepository struct {
	db    *gorm.DB
	rooms *cache.Cache
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db:    db,
		rooms: cache.New(10*time.Minute, 15*time.Minute),
	}
}

// EnsureRoom returns the room called name, creating it on first use.
func (r *ChatRepository) EnsureRoom(ctx context.Context, name string) (domain.Room, error) {
	if cached, found := r.rooms.Get(name); found {
		return cached.(domain.Room), nil
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&models.Room{Name: name}).Error
	if err != nil {
		return domain.Room{}, err
	}

	var room models.Room
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&room).Error; err != nil {
		return domain.Room{}, err
	}

	result := domain.Room{ID: room.ID, Name: room.Name, CreatedAt: room.CDate}
	r.rooms.Set(name, result, cache.DefaultExpiration)
	return result, nil
}

func (r *ChatRepository) CreateMessage(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	room, err := r.EnsureRoom(ctx, msg.Room)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	model := models.Message{
		RoomID:   room.ID,
		SenderID: msg.SenderID,
		Username: msg.Username,
		Content:  msg.Content,
		SentAt:   msg.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.ChatMessage{}, err
	}

	msg.ID = model.ID
	return msg, nil
}

// ListMessages returns the latest limit messages of room, oldest first.
func (r *ChatRepository) ListMessages(ctx context.Context, room string, limit int) ([]domain.ChatMessage, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = messages.room_id").
		Where("rooms.name = ?", room).
		Order("messages.sent_at DESC").
		Order("messages.id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.ChatMessage, len(rows))
	for i, row := range rows {
		result[len(rows)-1-i] = domain.ChatMessage{
			ID:        row.ID,
			Room:      room,
			SenderID:  row.SenderID,
			Username:  row.Username,
			Content:   row.Content,
			Timestamp: row.SentAt,
		}
	}
	return result, nil
}

// RoomAccess checks group and event membership for restricted rooms.
type RoomAccess struct {
	db *gorm.DB
}

func NewRoomAccess(db *gorm.DB) *RoomAccess {
	return &RoomAccess{db: db}
}

func (a *RoomAccess) CanAccess(ctx context.Context, userID string, room string) (bool, error) {
	var (
		model any
		where string
		key   string
	)

	switch {
	case strings.HasPrefix(room, domain.GroupRoomPrefix):
		model = &models.GroupMember{}
		where = "group_id = ? AND user_id = ?"
		key = strings.TrimPrefix(room, domain.GroupRoomPrefix)
	case strings.HasPrefix(room, domain.EventRoomPrefix):
		model = &models.EventParticipant{}
		where = "event_id = ? AND user_id = ?"
		key = strings.TrimPrefix(room, domain.EventRoomPrefix)
	default:
		return true, nil
	}

	if key == "" {
		return false, nil
	}

	var count int64
	err := a.db.WithContext(ctx).Model(model).Where(where, key, userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
