package model

import "time"

// MaxMessageLength 单条消息最大字符数（按 rune 计）
const MaxMessageLength = 140

// Message 用户发布的短消息
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:varchar(140);not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_messages_user_ts,priority:2"`
	UserID    uint      `json:"user_id" gorm:"not null;index:idx_messages_user_ts,priority:1"`

	User *User `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (Message) TableName() string { return "messages" }
