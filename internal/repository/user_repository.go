package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID uint) (bool, error)
	Search(ctx context.Context, q string, offset, limit int) ([]model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetByIDs 按传入 ids 的顺序返回，已不存在的 id 被跳过
func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	res := make([]model.User, 0, len(users))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID uint) (bool, error) {
	var cnt int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ? OR email = ?", username, email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, translate(err)
	}
	return cnt > 0, nil
}

func (r *userRepository) Search(ctx context.Context, q string, offset, limit int) ([]model.User, error) {
	var users []model.User
	query := r.db.WithContext(ctx).Order("id")
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where("username LIKE ? ESCAPE '\\'", "%"+escapeLike(q)+"%")
	}
	err := page(query, offset, limit).Find(&users).Error
	return users, translate(err)
}

// Delete 在事务内显式删除关注边与消息，再删除用户；外键 CASCADE 作为第二道保障
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_following_id = ? OR user_being_followed_id = ?", id, id).
			Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// IsNotFound 便于上层判断
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
