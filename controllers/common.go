package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

// currentUser loads the authenticated account set by the auth middleware.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	v, exists := c.Get("user_id")
	if !exists {
		return nil, errors.New("user id not found in context")
	}
	userID, ok := v.(uint)
	if !ok {
		return nil, errors.New("invalid user id type")
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func respondDomainError(c *gin.Context, err error) {
	utils.RespondError(c, services.HTTPStatus(err), err)
}
