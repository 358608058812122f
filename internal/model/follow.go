package model

import "time"

// Follow 关注关系：Follower 关注 Followed
// 复合主键 (user_being_followed_id, user_following_id) 保证同一有向边只存在一条
type Follow struct {
	FollowedID uint      `json:"user_being_followed_id" gorm:"column:user_being_followed_id;primaryKey;autoIncrement:false"`
	FollowerID uint      `json:"user_following_id" gorm:"column:user_following_id;primaryKey;autoIncrement:false;index:idx_follows_follower"`
	CreatedAt  time.Time `json:"created_at"`

	Followed *User `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	Follower *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string { return "follows" }
