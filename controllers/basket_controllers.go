package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

const basketSessionKey = "basket"

// LoadBasket reads the caller's basket out of the cookie session. An absent
// or corrupt value is an empty basket.
func LoadBasket(c *gin.Context) models.Basket {
	basket := models.Basket{}
	raw, _ := sessions.Default(c).Get(basketSessionKey).(string)
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &basket)
	}
	return basket
}

// SaveBasket writes the basket back into the session.
func SaveBasket(c *gin.Context, basket models.Basket) error {
	data, err := json.Marshal(basket)
	if err != nil {
		return err
	}
	sess := sessions.Default(c)
	sess.Set(basketSessionKey, string(data))
	return sess.Save()
}

// DropBasket discards the session basket entirely.
func DropBasket(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Delete(basketSessionKey)
	return sess.Save()
}

type BasketController struct {
	DB *gorm.DB
}

func NewBasketController(db *gorm.DB) *BasketController {
	return &BasketController{DB: db}
}

// GetBasket returns the basket with its running total from current active
// prices.
func (bc *BasketController) GetBasket(c *gin.Context) {
	basket := LoadBasket(c)

	total := 0
	for name, qty := range basket {
		var item models.MenuItem
		if err := bc.DB.Where("name = ? AND active = ?", name, true).First(&item).Error; err == nil {
			total += item.Price * qty
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Basket", gin.H{
		"items": basket,
		"total": total,
	})
}

// AddItem puts a dish into the basket with the requested quantity.
func (bc *BasketController) AddItem(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	var item models.MenuItem
	if err := bc.DB.Where("name = ? AND active = ?", input.Name, true).First(&item).Error; err != nil {
		respondDomainError(c, services.ErrNotFound)
		return
	}

	basket := LoadBasket(c)
	basket.Set(input.Name, input.Quantity)
	if err := SaveBasket(c, basket); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Position added to basket", basket)
}

// UpdateItem applies plus/minus/delete to one basket entry. Hitting the
// quantity bounds is not an error: the entry stays put and the message says
// why.
func (bc *BasketController) UpdateItem(c *gin.Context) {
	itemName := c.Param("item_name")

	var input struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	basket := LoadBasket(c)
	if _, ok := basket[itemName]; !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not found in basket"))
		return
	}

	message := "Basket updated"
	switch input.Action {
	case "plus":
		if !basket.Increment(itemName) {
			message = "Maximum quantity is 10"
		}
	case "minus":
		if !basket.Decrement(itemName) {
			message = "Minimum quantity is 1"
		}
	case "delete":
		basket.Remove(itemName)
	default:
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	if err := SaveBasket(c, basket); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, basket)
}

// ClearBasket empties the basket.
func (bc *BasketController) ClearBasket(c *gin.Context) {
	if err := DropBasket(c); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Basket cleared", nil)
}
