package models

import "time"

// Review is one user's rating of one menu item. The composite unique index
// keeps the pair unique.
type Review struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     uint     `gorm:"not null;uniqueIndex:idx_review_user_item" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint     `gorm:"not null;uniqueIndex:idx_review_user_item" json:"menu_item_id"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Rating     int      `gorm:"not null" json:"rating"`
	Comment    *string  `gorm:"type:varchar(300)" json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
