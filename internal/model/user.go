package model

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User 用户；Password 只保存 bcrypt 哈希，不参与序列化
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Email          string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Username       string `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	ImageURL       string `json:"image_url" gorm:"type:text"`
	HeaderImageURL string `json:"header_image_url" gorm:"type:text"`
	Bio            string `json:"bio" gorm:"type:text"`
	Location       string `json:"location" gorm:"type:text"`
	Password       string `json:"-" gorm:"type:text;not null"`
}

func (User) TableName() string { return "users" }

// ApplyDefaults 补齐头像等可选字段
func (u *User) ApplyDefaults() {
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}
}
