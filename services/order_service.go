package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

// OrderView joins an order with its owner's nickname for the admin surface.
type OrderView struct {
	ID           uint              `json:"id"`
	Lines        models.OrderLines `json:"lines"`
	Status       string            `json:"status"`
	OrderTime    time.Time         `json:"order_time"`
	UserNickname string            `json:"user_nickname"`
}

type OrderService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewOrderService(db *gorm.DB, notifier Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier}
}

// Place converts the basket into a persisted order with status "new". The
// total is computed from current active menu prices; the order itself stores
// only the name→quantity snapshot, so views recompute the total the same
// way.
func (s *OrderService) Place(user *models.User, basket models.Basket) (*models.Order, int, error) {
	if basket.IsEmpty() {
		return nil, 0, ErrEmptyBasket
	}

	var (
		order models.Order
		total int
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		total, err = basketTotal(tx, basket)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:    user.ID,
			Lines:     models.OrderLines(basket),
			Status:    models.OrderStatusNew,
			OrderTime: time.Now(),
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, 0, err
	}

	utils.InfoLogger.Printf("Order %d placed by %s, total %d", order.ID, user.Nickname, total)
	s.notifier.OrderConfirmed(*user, order, total)
	return &order, total, nil
}

// Total recomputes an order's price from the current catalog. Items no
// longer on the menu contribute nothing, matching placement behavior.
func (s *OrderService) Total(order *models.Order) (int, error) {
	return basketTotal(s.db, models.Basket(order.Lines))
}

func basketTotal(tx *gorm.DB, basket models.Basket) (int, error) {
	total := 0
	for name, qty := range basket {
		var item models.MenuItem
		err := tx.Where("name = ? AND active = ?", name, true).First(&item).Error
		if err != nil {
			if asNotFound(err) == ErrNotFound {
				continue
			}
			return 0, err
		}
		total += item.Price * qty
	}
	return total, nil
}

// AdvanceStatus moves an order forward along new→preparing→ready→delivered.
// Re-requesting the current status is a no-op, as is any request against a
// delivered order; moving backwards is a conflict.
func (s *OrderService) AdvanceStatus(orderID uint, newStatus string) (*models.Order, error) {
	newRank := models.OrderStatusRank(newStatus)
	if newRank < 0 {
		return nil, ErrInvalidInput
	}

	var (
		order   models.Order
		changed bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&order, orderID).Error; err != nil {
			return asNotFound(err)
		}

		currentRank := models.OrderStatusRank(order.Status)
		if order.Status == models.OrderStatusDelivered || newRank == currentRank {
			return nil
		}
		if newRank < currentRank {
			return ErrStatusRegression
		}

		changed = true
		order.Status = newStatus
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	if changed {
		utils.InfoLogger.Printf("Order %d status -> %s", order.ID, order.Status)
		s.notifier.OrderStatusChanged(order.User, order)
	}
	return &order, nil
}

// Cancel deletes an order on behalf of its owner. Orders that reached
// "ready" are already being fulfilled and stay.
func (s *OrderService) Cancel(orderID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return asNotFound(err)
		}
		if order.UserID != userID {
			return ErrForbidden
		}
		if models.OrderStatusRank(order.Status) >= models.OrderStatusRank(models.OrderStatusReady) {
			return ErrOrderFulfilled
		}
		return tx.Delete(&order).Error
	})
}

// MyOrders lists the caller's orders, newest first.
func (s *OrderService) MyOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Where("user_id = ?", userID).
		Order("order_time DESC").
		Find(&orders).Error
	return orders, err
}

// ByID fetches one order; only the owner or an admin may see it.
func (s *OrderService) ByID(orderID uint, actor *models.User) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, asNotFound(err)
	}
	if order.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrNotFound
	}
	return &order, nil
}

// ActiveOrders is the admin projection of everything not yet delivered,
// newest first.
func (s *OrderService) ActiveOrders() ([]OrderView, error) {
	var orders []models.Order
	if err := s.db.Preload("User").
		Where("status <> ?", models.OrderStatusDelivered).
		Order("order_time DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderView{
			ID:           o.ID,
			Lines:        o.Lines,
			Status:       o.Status,
			OrderTime:    o.OrderTime,
			UserNickname: o.User.Nickname,
		})
	}
	return views, nil
}

// LatestForUser is the bot's order tracker: the most recent order, if any.
func (s *OrderService) LatestForUser(userID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Where("user_id = ?", userID).
		Order("order_time DESC").
		First(&order).Error
	if err != nil {
		return nil, asNotFound(err)
	}
	return &order, nil
}
