package repositories

import (
	"context"
	"errors"

	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByTuple(ctx context.Context, recipientID, actorID, notifType string, subject models.Subject) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	MarkRead(ctx context.Context, id uint) error
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates the gorm-backed notification store
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return apperrors.Storage("failed to create notification", err)
	}
	return nil
}

// FindByTuple looks up the notification matching the exact
// (recipient, actor, type, subject) tuple; nil when absent.
func (r *postgresNotificationRepository) FindByTuple(ctx context.Context, recipientID, actorID, notifType string, subject models.Subject) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND actor_id = ? AND type = ? AND subject_kind = ? AND subject_id = ?",
			recipientID, actorID, notifType, subject.Kind, subject.ID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Storage("failed to query notifications", err)
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.Storage("failed to list notifications", err)
	}
	return notifications, nil
}

func (r *postgresNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("notification not found")
		}
		return nil, apperrors.Storage("failed to load notification", err)
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
	if err != nil {
		return apperrors.Storage("failed to mark notification read", err)
	}
	return nil
}

func (r *postgresNotificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Storage("failed to count unread notifications", err)
	}
	return count, nil
}
