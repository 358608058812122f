package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id uint) (*model.Message, error)
	// DeleteOwned 仅当消息属于 ownerID 时删除，返回是否删除了记录
	DeleteOwned(ctx context.Context, id, ownerID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]model.Message, error)
	ListByUsers(ctx context.Context, userIDs []uint, limit int) ([]model.Message, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*model.Message, error) {
	var m model.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *messageRepository) DeleteOwned(ctx context.Context, id, ownerID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&model.Message{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.Message, error) {
	return r.ListByUsers(ctx, []uint{userID}, limit)
}

// ListByUsers 时间倒序，附带作者信息
func (r *messageRepository) ListByUsers(ctx context.Context, userIDs []uint, limit int) ([]model.Message, error) {
	if len(userIDs) == 0 {
		return []model.Message{}, nil
	}
	var res []model.Message
	err := page(r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", userIDs).
		Order("timestamp DESC, id DESC"), 0, limit).
		Find(&res).Error
	return res, translate(err)
}

func (r *messageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, translate(err)
}
