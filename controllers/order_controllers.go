package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// Checkout converts the session basket into an order and clears the basket.
func (oc *OrderController) Checkout(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	basket := LoadBasket(c)
	order, total, err := oc.Orders.Place(user, basket)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := DropBasket(c); err != nil {
		utils.ErrorLogger.Printf("failed to clear basket after checkout: %v", err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed", gin.H{
		"order": order,
		"total": total,
	})
}

// MyOrders -> the caller's orders, newest first.
func (oc *OrderController) MyOrders(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	orders, err := oc.Orders.MyOrders(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}

// GetOrder -> one order with its total recomputed from the catalog.
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	order, err := oc.Orders.ByID(uint(orderID), user)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	total, err := oc.Orders.Total(order)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{
		"order": order,
		"total": total,
	})
}

// CancelOrder deletes the caller's own order while it is still unfulfilled.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	if err := oc.Orders.Cancel(uint(orderID), user.ID); err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", nil)
}

// ActiveOrders -> admin list of everything not yet delivered.
func (oc *OrderController) ActiveOrders(c *gin.Context) {
	views, err := oc.Orders.ActiveOrders()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders", views)
}

// AdvanceStatus moves an order forward along the status chain.
func (oc *OrderController) AdvanceStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.AdvanceStatus(uint(orderID), input.Status)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
