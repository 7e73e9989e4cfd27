package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/models"
)

func newOrderService(t *testing.T) (*OrderService, *fakeNotifier, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	return NewOrderService(db, notifier), notifier, db
}

func TestPlaceOrderEmptyBasket(t *testing.T) {
	svc, _, db := newOrderService(t)
	user := createUser(t, db, "alice", models.RoleUser)

	_, _, err := svc.Place(user, models.Basket{})
	assert.ErrorIs(t, err, ErrEmptyBasket)
}

func TestPlaceOrderComputesTotal(t *testing.T) {
	svc, notifier, db := newOrderService(t)
	user := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)
	createMenuItem(t, db, "Varenyky", 95, true)

	order, total, err := svc.Place(user, models.Basket{"Borscht": 2, "Varenyky": 1})
	require.NoError(t, err)
	assert.Equal(t, 2*120+95, total)
	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.Equal(t, models.OrderLines{"Borscht": 2, "Varenyky": 1}, order.Lines)
	assert.Contains(t, notifier.Events(), "order_confirmed")
}

func TestPlaceOrderSkipsUnavailableItems(t *testing.T) {
	svc, _, db := newOrderService(t)
	user := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)
	createMenuItem(t, db, "Retired dish", 500, false)

	_, total, err := svc.Place(user, models.Basket{
		"Borscht":      1,
		"Retired dish": 3,
		"Never existed": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, total)
}

func TestAdvanceStatusForward(t *testing.T) {
	svc, notifier, db := newOrderService(t)
	user := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)

	order, _, err := svc.Place(user, models.Basket{"Borscht": 1})
	require.NoError(t, err)

	updated, err := svc.AdvanceStatus(order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, updated.Status)
	assert.Contains(t, notifier.Events(), "order_status_changed")

	// Skipping a step forward is allowed.
	updated, err = svc.AdvanceStatus(order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
}

func TestAdvanceStatusSameIsNoOp(t *testing.T) {
	svc, notifier, db := newOrderService(t)
	user := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)

	order, _, err := svc.Place(user, models.Basket{"Borscht": 1})
	require.NoError(t, err)

	before := len(notifier.Events())
	updated, err := svc.AdvanceStatus(order.ID, models.OrderStatusNew)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusNew, updated.Status)
	assert.Len(t, notifier.Events(), before)
}

func TestAdvanceStatusDeliveredIsTerminal(t *testing.T) {
	svc, notifier, db := newOrderService(t)
	user := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)

	order, _, err := svc.Place(user, models.Basket{"Borscht": 1})
	require.NoError(t, err)
	_, err = svc.AdvanceStatus(order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)

	before := len(notifier.Events())
	updated, err := svc.AdvanceStatus(order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.Len(t, notifier.Events(), before)
}

func TestAdvanceStatusRegression(t *testing.T) {
	svc, _, db := newOrderService(t)
	user := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)

	order, _, err := svc.Place(user, models.Basket{"Borscht": 1})
	require.NoError(t, err)
	_, err = svc.AdvanceStatus(order.ID, models.OrderStatusReady)
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(order.ID, models.OrderStatusPreparing)
	assert.ErrorIs(t, err, ErrStatusRegression)
}

func TestAdvanceStatusUnknown(t *testing.T) {
	svc, _, db := newOrderService(t)
	user := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)

	order, _, err := svc.Place(user, models.Basket{"Borscht": 1})
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(order.ID, "lost")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancelOrder(t *testing.T) {
	svc, _, db := newOrderService(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	bob := createUser(t, db, "bob", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)

	order, _, err := svc.Place(alice, models.Basket{"Borscht": 1})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(order.ID, bob.ID), ErrForbidden)
	require.NoError(t, svc.Cancel(order.ID, alice.ID))

	_, err = svc.LatestForUser(alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOrderOnceFulfilled(t *testing.T) {
	svc, _, db := newOrderService(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)

	order, _, err := svc.Place(alice, models.Basket{"Borscht": 1})
	require.NoError(t, err)
	_, err = svc.AdvanceStatus(order.ID, models.OrderStatusReady)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(order.ID, alice.ID), ErrOrderFulfilled)
}

func TestOrderVisibility(t *testing.T) {
	svc, _, db := newOrderService(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	bob := createUser(t, db, "bob", models.RoleUser)
	admin := createUser(t, db, "boss", models.RoleAdmin)
	createMenuItem(t, db, "Borscht", 120, true)

	order, _, err := svc.Place(alice, models.Basket{"Borscht": 1})
	require.NoError(t, err)

	_, err = svc.ByID(order.ID, alice)
	assert.NoError(t, err)
	_, err = svc.ByID(order.ID, admin)
	assert.NoError(t, err)
	_, err = svc.ByID(order.ID, bob)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveOrdersExcludesDelivered(t *testing.T) {
	svc, _, db := newOrderService(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	createMenuItem(t, db, "Borscht", 120, true)

	first, _, err := svc.Place(alice, models.Basket{"Borscht": 1})
	require.NoError(t, err)
	_, err = svc.AdvanceStatus(first.ID, models.OrderStatusDelivered)
	require.NoError(t, err)

	// A second order for the same user, still open.
	second := models.Order{
		UserID:    alice.ID,
		Lines:     models.OrderLines{"Borscht": 2},
		Status:    models.OrderStatusPreparing,
		OrderTime: time.Now(),
	}
	require.NoError(t, db.Create(&second).Error)

	views, err := svc.ActiveOrders()
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, "alice", views[0].UserNickname)
}

func TestLatestForUser(t *testing.T) {
	svc, _, db := newOrderService(t)
	alice := createUser(t, db, "alice", models.RoleUser)

	older := models.Order{UserID: alice.ID, Lines: models.OrderLines{"A": 1},
		Status: models.OrderStatusNew, OrderTime: time.Now().Add(-time.Hour)}
	newer := models.Order{UserID: alice.ID, Lines: models.OrderLines{"B": 1},
		Status: models.OrderStatusNew, OrderTime: time.Now()}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	latest, err := svc.LatestForUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}
