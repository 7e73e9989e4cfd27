package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

type MenuController struct {
	DB        *gorm.DB
	Reviews   *services.ReviewService
	Notifier  services.Notifier
	UploadDir string
}

func NewMenuController(db *gorm.DB, reviews *services.ReviewService, notifier services.Notifier, uploadDir string) *MenuController {
	return &MenuController{DB: db, Reviews: reviews, Notifier: notifier, UploadDir: uploadDir}
}

// GetMenu -> active positions only.
func (mc *MenuController) GetMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Where("active = ?", true).Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", items)
}

// GetItem -> one active position with its reviews and average rating. When
// the caller is authenticated the response also says whether they reviewed
// it already.
func (mc *MenuController) GetItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	var item models.MenuItem
	if err := mc.DB.Where("id = ? AND active = ?", itemID, true).First(&item).Error; err != nil {
		respondDomainError(c, services.ErrNotFound)
		return
	}

	reviews, avg, err := mc.Reviews.ForItem(item.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	userReviewed := false
	if v, exists := c.Get("user_id"); exists {
		if userID, ok := v.(uint); ok {
			userReviewed, _ = mc.Reviews.HasReviewed(userID, item.ID)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Position detail", gin.H{
		"position":      item,
		"reviews":       reviews,
		"avg_rating":    avg,
		"user_reviewed": userReviewed,
	})
}

// CreateItem adds a dish from a multipart form and notifies every
// registered user about it.
func (mc *MenuController) CreateItem(c *gin.Context) {
	price, err := strconv.Atoi(c.PostForm("price"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must be a number"))
		return
	}
	weight, err := strconv.Atoi(c.PostForm("weight"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("weight must be a number"))
		return
	}
	name := c.PostForm("name")
	if name == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	file, err := c.FormFile("img")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no file selected or upload failed"))
		return
	}
	uniqueName := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(file.Filename))
	if err := os.MkdirAll(mc.UploadDir, 0o755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(mc.UploadDir, uniqueName)); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	item := models.MenuItem{
		Name:        name,
		Price:       price,
		Weight:      weight,
		Ingredients: c.PostForm("ingredients"),
		Description: c.PostForm("description"),
		FileName:    uniqueName,
		Active:      true,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var emails []string
	if err := mc.DB.Model(&models.User{}).Pluck("email", &emails).Error; err == nil {
		mc.Notifier.MenuItemsAdded(emails, []models.MenuItem{item})
	}

	utils.InfoLogger.Printf("Menu item created: %s (%d ₴)", item.Name, item.Price)
	utils.RespondJSON(c, http.StatusCreated, "Position added", item)
}

// ListAllItems -> admin console view, inactive included.
func (mc *MenuController) ListAllItems(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All positions", items)
}

// ToggleItem flips a position's active flag.
func (mc *MenuController) ToggleItem(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, c.Param("item_id")).Error; err != nil {
		respondDomainError(c, services.ErrNotFound)
		return
	}

	if err := mc.DB.Model(&item).Update("active", !item.Active).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	item.Active = !item.Active
	utils.RespondJSON(c, http.StatusOK, "Position status changed", item)
}

// DeleteItem hard-deletes a position unless reviews reference it; a
// reviewed dish is deactivated instead so the reviews keep their subject.
func (mc *MenuController) DeleteItem(c *gin.Context) {
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, c.Param("item_id")).Error; err != nil {
			return services.ErrNotFound
		}

		var reviewCount int64
		if err := tx.Model(&models.Review{}).Where("menu_item_id = ?", item.ID).Count(&reviewCount).Error; err != nil {
			return err
		}
		if reviewCount > 0 {
			return tx.Model(&item).Update("active", false).Error
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Position removed", nil)
}
