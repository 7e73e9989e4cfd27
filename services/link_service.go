package services

import (
	"crypto/rand"
	"time"

	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type LinkService struct {
	db *gorm.DB
}

func NewLinkService(db *gorm.DB) *LinkService {
	return &LinkService{db: db}
}

// Issue creates a fresh link code for the user, superseding any prior one.
func (s *LinkService) Issue(userID uint) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.LinkCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.LinkCode{UserID: userID, Code: code}).Error
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Redeem binds the chat to the code's owner and consumes the code. A chat
// that is already bound to some account is returned as-is without touching
// the code, so re-sending a code is harmless.
func (s *LinkService) Redeem(code string, chatID int64) (*models.User, error) {
	if bound, err := s.UserByChatID(chatID); err == nil {
		return bound, nil
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lc models.LinkCode
		if err := tx.Where("code = ?", code).First(&lc).Error; err != nil {
			if asNotFound(err) == ErrNotFound {
				return ErrCodeInvalid
			}
			return err
		}

		if lc.ExpiredAt(time.Now()) {
			if err := tx.Delete(&lc).Error; err != nil {
				return err
			}
			return ErrCodeExpired
		}

		if err := tx.First(&user, lc.UserID).Error; err != nil {
			return asNotFound(err)
		}
		if err := tx.Model(&user).Update("telegram_chat_id", chatID).Error; err != nil {
			return err
		}
		user.TelegramChatID = &chatID
		return tx.Delete(&lc).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Chat %d linked to user %s", chatID, user.Nickname)
	return &user, nil
}

// Unlink clears the user's chat binding.
func (s *LinkService) Unlink(userID uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("telegram_chat_id", nil).Error
}

// UserByChatID resolves a bound chat identity to its account.
func (s *LinkService) UserByChatID(chatID int64) (*models.User, error) {
	var user models.User
	if err := s.db.Where("telegram_chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, asNotFound(err)
	}
	return &user, nil
}

func generateCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
