package services

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
)

// ReviewView is the detached projection shown on a dish page.
type ReviewView struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Author    string    `json:"author"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Add stores a review for an active dish. One review per (user, dish) pair;
// the composite unique index backs the in-transaction check.
func (s *ReviewService) Add(userID, menuItemID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidInput
	}

	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Where("id = ? AND active = ?", menuItemID, true).First(&item).Error; err != nil {
			return asNotFound(err)
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateReview
		}

		review = models.Review{
			UserID:     userID,
			MenuItemID: menuItemID,
			Rating:     rating,
		}
		if comment != "" {
			review.Comment = &comment
		}
		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes a review; permitted for its author or an admin.
func (s *ReviewService) Delete(reviewID uint, actor *models.User) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return asNotFound(err)
	}
	if review.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.db.Delete(&review).Error
}

// ForItem lists a dish's reviews newest-first together with the average
// rating (one decimal, nil when there are none). The average is computed at
// read time, never stored.
func (s *ReviewService) ForItem(menuItemID uint) ([]ReviewView, *float64, error) {
	var reviews []models.Review
	if err := s.db.Preload("User").
		Where("menu_item_id = ?", menuItemID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, nil, err
	}

	views := make([]ReviewView, 0, len(reviews))
	sum := 0
	for _, r := range reviews {
		view := ReviewView{
			ID:        r.ID,
			Rating:    r.Rating,
			Author:    r.User.Nickname,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
		}
		if r.Comment != nil {
			view.Comment = *r.Comment
		}
		views = append(views, view)
		sum += r.Rating
	}

	var avg *float64
	if len(reviews) > 0 {
		rounded := math.Round(float64(sum)/float64(len(reviews))*10) / 10
		avg = &rounded
	}
	return views, avg, nil
}

// HasReviewed reports whether the user already reviewed the dish.
func (s *ReviewService) HasReviewed(userID, menuItemID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Review{}).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Count(&count).Error
	return count > 0, err
}
