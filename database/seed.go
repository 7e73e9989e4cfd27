package database

import (
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

// floorPlan is the fixed seating layout: ten small tables along the left
// wall, eight four-seaters in the middle and four VIP tables on the right.
// X/Y are percentages on the seating map.
var floorPlan = []models.Table{
	{Number: 1, Type: "1-2", Label: "By the window", X: 10, Y: 15},
	{Number: 2, Type: "1-2", Label: "By the window", X: 10, Y: 28},
	{Number: 3, Type: "1-2", Label: "By the window", X: 10, Y: 41},
	{Number: 4, Type: "1-2", Label: "By the window", X: 10, Y: 54},
	{Number: 5, Type: "1-2", Label: "By the window", X: 10, Y: 67},
	{Number: 6, Type: "1-2", Label: "Corner", X: 10, Y: 80},
	{Number: 7, Type: "1-2", Label: "Center", X: 25, Y: 20},
	{Number: 8, Type: "1-2", Label: "Center", X: 25, Y: 40},
	{Number: 9, Type: "1-2", Label: "Center", X: 25, Y: 60},
	{Number: 10, Type: "1-2", Label: "Center", X: 25, Y: 80},
	{Number: 11, Type: "3-4", Label: "Center", X: 45, Y: 20},
	{Number: 12, Type: "3-4", Label: "Center", X: 45, Y: 38},
	{Number: 13, Type: "3-4", Label: "Center", X: 45, Y: 56},
	{Number: 14, Type: "3-4", Label: "Center", X: 45, Y: 74},
	{Number: 15, Type: "3-4", Label: "Center", X: 60, Y: 20},
	{Number: 16, Type: "3-4", Label: "Center", X: 60, Y: 38},
	{Number: 17, Type: "3-4", Label: "Center", X: 60, Y: 56},
	{Number: 18, Type: "3-4", Label: "Center", X: 60, Y: 74},
	{Number: 19, Type: "4+", Label: "VIP", X: 80, Y: 22},
	{Number: 20, Type: "4+", Label: "VIP", X: 80, Y: 45},
	{Number: 21, Type: "4+", Label: "VIP", X: 80, Y: 65},
	{Number: 22, Type: "4+", Label: "VIP corner", X: 80, Y: 83},
}

// SeedTables inserts the floor plan on first boot. An already-populated
// tables relation is left alone.
func SeedTables(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := db.Create(&floorPlan).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("seeded %d tables", len(floorPlan))
	return nil
}
