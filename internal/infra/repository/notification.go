package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/infra/database/models"
	"github.com/sahara-community/pulse/internal/usecase"
)

var _ usecase.NotificationRepository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func notificationFromModel(m models.Notification) domain.Notification {
	return domain.Notification{
		ID:              m.ID,
		UserID:          m.UserID,
		Message:         m.Message,
		NotifType:       domain.NotifType(m.NotifType),
		RelatedObjectID: m.RelatedObjectID,
		IsRead:          m.IsRead,
		CreatedAt:       m.CDate,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	model := models.Notification{
		ID:              n.ID,
		UserID:          n.UserID,
		Message:         n.Message,
		NotifType:       string(n.NotifType),
		RelatedObjectID: n.RelatedObjectID,
		IsRead:          n.IsRead,
		CDate:           n.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Notification{}, err
	}

	return notificationFromModel(model), nil
}

func (r *NotificationRepository) Get(ctx context.Context, id string) (domain.Notification, error) {
	var model models.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Notification{}, domain.NotFoundError{Resource: "notification"}
		}
		return domain.Notification{}, err
	}
	return notificationFromModel(model), nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	var rows []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("c_date DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		result = append(result, notificationFromModel(row))
	}
	return result, nil
}

// MarkRead only touches the row when it belongs to userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
