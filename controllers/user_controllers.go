package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

type UserController struct {
	DB       *gorm.DB
	Notifier services.Notifier
	BaseURL  string
}

func NewUserController(db *gorm.DB, notifier services.Notifier, baseURL string) *UserController {
	return &UserController{DB: db, Notifier: notifier, BaseURL: baseURL}
}

// Register creates a regular account. Nickname and email must be unused.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Nickname string `json:"nickname" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if len(req.Password) < 8 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("password must be at least 8 characters"))
		return
	}

	var existing int64
	if err := uc.DB.Model(&models.User{}).
		Where("email = ? OR nickname = ?", req.Email, req.Nickname).
		Count(&existing).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("a user with this email or nickname already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Nickname, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s", user.Nickname)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
		"token":   token,
	})
}

// Login authenticates by nickname and returns a JWT carrying the role claim.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Nickname string `json:"nickname" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("nickname = ?", input.Nickname).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid nickname or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid nickname or password"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Nickname, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  user.Role,
	})
}

// GetProfile returns the account plus its order/reservation counters.
func (uc *UserController) GetProfile(c *gin.Context) {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var ordersCount, reservCount int64
	uc.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&ordersCount)
	uc.DB.Model(&models.Reservation{}).Where("user_id = ?", user.ID).Count(&reservCount)

	utils.RespondJSON(c, http.StatusOK, "Profile data", gin.H{
		"id":                 user.ID,
		"nickname":           user.Nickname,
		"email":              user.Email,
		"role":               user.Role,
		"telegram_linked":    user.Linked(),
		"orders_count":       ordersCount,
		"reservations_count": reservCount,
	})
}

// ChangePassword verifies the old password before setting the new one.
func (uc *UserController) ChangePassword(c *gin.Context) {
	var input struct {
		OldPassword     string `json:"old_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.NewPassword != input.ConfirmPassword {
		utils.RespondError(c, http.StatusBadRequest, errors.New("passwords do not match"))
		return
	}
	if len(input.NewPassword) < 8 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("new password must be at least 8 characters"))
		return
	}

	user, err := currentUser(c, uc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		utils.RespondError(c, http.StatusForbidden, errors.New("current password is incorrect"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := uc.DB.Model(user).Update("password", string(hashed)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password changed", nil)
}

// ForgotPassword always answers the same way so the endpoint does not leak
// which emails are registered. A reset link goes out only when the email
// exists.
func (uc *UserController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err == nil {
		token, err := utils.GenerateResetToken(user.Email)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		resetURL := fmt.Sprintf("%s/reset_password/%s", uc.BaseURL, token)
		uc.Notifier.PasswordReset(user.Email, resetURL)
	}

	utils.RespondJSON(c, http.StatusOK, "If this email is registered, a link has been sent", nil)
}

// ResetPassword consumes a 30-minute reset token.
func (uc *UserController) ResetPassword(c *gin.Context) {
	email, err := utils.ParseResetToken(c.Param("token"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var input struct {
		Password string `json:"password" binding:"required"`
		Confirm  string `json:"confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(input.Password) < 8 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("password must be at least 8 characters"))
		return
	}
	if input.Password != input.Confirm {
		utils.RespondError(c, http.StatusBadRequest, errors.New("passwords do not match"))
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", email).First(&user).Error; err != nil {
		respondDomainError(c, services.ErrNotFound)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := uc.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password changed", nil)
}

// GetAllUsers -> admin listing.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Select("id", "nickname", "email", "role").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// DeleteUser removes an account and explicitly cleans up its orders and
// reservations. Admin accounts stay.
func (uc *UserController) DeleteUser(c *gin.Context) {
	userID := c.Param("user_id")

	err := uc.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return services.ErrNotFound
		}
		if user.IsAdmin() {
			return services.ErrForbidden
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("User %s deleted by admin", userID)
	utils.RespondJSON(c, http.StatusOK, "User deleted", nil)
}
