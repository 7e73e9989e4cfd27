package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Nickname       string `gorm:"type:varchar(100);uniqueIndex;not null" json:"nickname"`
	Email          string `gorm:"type:varchar(50);uniqueIndex;not null" json:"email"`
	Password       string `gorm:"type:varchar(200);not null" json:"-"`
	Role           string `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	TelegramChatID *int64 `gorm:"index" json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Linked reports whether a chat identity is bound to the account.
func (u *User) Linked() bool {
	return u.TelegramChatID != nil
}
