package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/warbler/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID uint) error
	Delete(ctx context.Context, followerID, followedID uint) error
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	ListFollowing(ctx context.Context, followerID uint, offset, limit int) ([]model.User, error)
	ListFollowers(ctx context.Context, followedID uint, offset, limit int) ([]model.User, error)
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
	FollowerIDs(ctx context.Context, followedID uint) ([]uint, error)
	CountFollowing(ctx context.Context, followerID uint) (int64, error)
	CountFollowers(ctx context.Context, followedID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followedID uint) error {
	f := &model.Follow{FollowerID: followerID, FollowedID: followedID}
	// 幂等：重复关注不报错
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID uint) error {
	return translate(r.db.WithContext(ctx).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Delete(&model.Follow{}).Error)
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Count(&cnt).Error; err != nil {
		return false, translate(err)
	}
	return cnt > 0, nil
}

// ListFollowing 按关注时间倒序；limit <= 0 表示不分页
func (r *followRepository) ListFollowing(ctx context.Context, followerID uint, offset, limit int) ([]model.User, error) {
	var res []model.User
	err := page(r.db.WithContext(ctx).Select("users.*").
		Joins("JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", followerID).
		Order("follows.created_at DESC, users.id DESC"), offset, limit).
		Find(&res).Error
	return res, translate(err)
}

func (r *followRepository) ListFollowers(ctx context.Context, followedID uint, offset, limit int) ([]model.User, error) {
	var res []model.User
	err := page(r.db.WithContext(ctx).Select("users.*").
		Joins("JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", followedID).
		Order("follows.created_at DESC, users.id DESC"), offset, limit).
		Find(&res).Error
	return res, translate(err)
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("user_following_id = ?", followerID).
		Order("created_at DESC").
		Pluck("user_being_followed_id", &ids).Error
	return ids, translate(err)
}

func (r *followRepository) FollowerIDs(ctx context.Context, followedID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("user_being_followed_id = ?", followedID).
		Order("created_at DESC").
		Pluck("user_following_id", &ids).Error
	return ids, translate(err)
}

func (r *followRepository) CountFollowing(ctx context.Context, followerID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("user_following_id = ?", followerID).Count(&cnt).Error
	return cnt, translate(err)
}

func (r *followRepository) CountFollowers(ctx context.Context, followedID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("user_being_followed_id = ?", followedID).Count(&cnt).Error
	return cnt, translate(err)
}

func page(q *gorm.DB, offset, limit int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}
