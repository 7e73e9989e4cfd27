package models

import "time"

type MenuItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Price       int    `gorm:"not null" json:"price"`
	Weight      int    `gorm:"not null" json:"weight"`
	Ingredients string `gorm:"type:text" json:"ingredients"`
	Description string `gorm:"type:text" json:"description"`
	FileName    string `gorm:"type:varchar(255)" json:"file_name"`
	Active      bool   `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
