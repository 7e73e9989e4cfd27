package models

import "time"

// LinkCodeTTL is how long an issued code stays redeemable.
const LinkCodeTTL = 600 * time.Second

// LinkCode is a single-use token binding a Telegram chat to an account.
// One code per user; issuing a new one supersedes the old.
type LinkCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Code      string    `gorm:"type:char(8);uniqueIndex;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiredAt reports whether the code is stale at the given instant.
func (lc *LinkCode) ExpiredAt(now time.Time) bool {
	return now.Sub(lc.CreatedAt) > LinkCodeTTL
}
