package models

import "time"

// Reservation holds a single active booking. The unique indexes on UserID
// and TableID back the one-reservation-per-user and one-occupant-per-table
// invariants at the storage layer, so concurrent bookings that slip past the
// in-transaction checks still fail.
type Reservation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableID   uint      `gorm:"uniqueIndex;not null" json:"table_id"`
	Table     Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
