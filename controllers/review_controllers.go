package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

type ReviewController struct {
	DB      *gorm.DB
	Reviews *services.ReviewService
}

func NewReviewController(db *gorm.DB, reviews *services.ReviewService) *ReviewController {
	return &ReviewController{DB: db, Reviews: reviews}
}

// AddReview -> one review per user per dish.
func (rc *ReviewController) AddReview(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	var input struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	review, err := rc.Reviews.Add(user.ID, uint(itemID), input.Rating, input.Comment)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Thanks for the review!", review)
}

// DeleteReview -> author or admin only.
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("review_id"))
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	if err := rc.Reviews.Delete(uint(reviewID), user); err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Review deleted", nil)
}
