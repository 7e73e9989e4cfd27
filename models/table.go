package models

// Table is one entry of the fixed floor plan. Rows are seeded once and never
// mutated afterwards; X/Y are layout coordinates for the seating map.
type Table struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Number int    `gorm:"uniqueIndex;not null" json:"number"`
	Type   string `gorm:"type:varchar(10);not null" json:"type"`
	Label  string `gorm:"type:varchar(50);not null" json:"label"`
	X      int    `gorm:"not null" json:"x"`
	Y      int    `gorm:"not null" json:"y"`
}
