package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SokolovEgor954/TheLastShelter/config"
	"github.com/SokolovEgor954/TheLastShelter/database"
	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

// nopNotifier drops every notification; the HTTP tests only care about
// status codes and payloads.
type nopNotifier struct{}

func (nopNotifier) ReservationCreated(models.User, models.Table, time.Time)                          {}
func (nopNotifier) ReservationEdited(models.User, services.ReservationSnapshot, services.ReservationSnapshot) {
}
func (nopNotifier) ReservationCancelledByUser(models.User, models.Table, time.Time)  {}
func (nopNotifier) ReservationCancelledByAdmin(models.User, models.Table, time.Time) {}
func (nopNotifier) OrderConfirmed(models.User, models.Order, int)                    {}
func (nopNotifier) OrderStatusChanged(models.User, models.Order)                     {}
func (nopNotifier) MenuItemsAdded([]string, []models.MenuItem)                       {}
func (nopNotifier) PasswordReset(string, string)                                     {}

func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Review{},
		&models.Table{},
		&models.Reservation{},
		&models.Order{},
		&models.LinkCode{},
	))
	require.NoError(t, database.SeedTables(db))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		RestaurantLat:   50.4501,
		RestaurantLon:   30.5234,
		BookingRadiusKM: 20,
		UploadDir:       t.TempDir(),
		BaseURL:         "http://localhost:8080",
	}

	notifier := nopNotifier{}
	reservations := services.NewReservationService(db, notifier, cfg)
	orders := services.NewOrderService(db, notifier)
	reviews := services.NewReviewService(db)
	links := services.NewLinkService(db)

	return SetupRouter(db, cfg, notifier, reservations, orders, reviews, links), db
}

type apiResponse struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string, cookies []*http.Cookie) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func registerUser(t *testing.T, r *gin.Engine, nickname string) string {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/register", gin.H{
		"nickname": nickname,
		"email":    nickname + "@example.com",
		"password": "supersecret",
	}, "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createAdmin(t *testing.T, r *gin.Engine, db *gorm.DB) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("adminpass123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := models.User{
		Nickname: "boss",
		Email:    "boss@example.com",
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	require.NoError(t, db.Create(&admin).Error)

	w, resp := doJSON(t, r, http.MethodPost, "/login", gin.H{
		"nickname": "boss",
		"password": "adminpass123",
	}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := newTestApp(t)

	registerUser(t, r, "alice")

	// Same nickname again is a conflict.
	w, _ := doJSON(t, r, http.MethodPost, "/register", gin.H{
		"nickname": "alice",
		"email":    "other@example.com",
		"password": "supersecret",
	}, "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Short password is rejected up front.
	w, _ = doJSON(t, r, http.MethodPost, "/register", gin.H{
		"nickname": "bob",
		"email":    "bob@example.com",
		"password": "short",
	}, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/login", gin.H{
		"nickname": "alice",
		"password": "supersecret",
	}, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleUser, resp.Data["role"])

	w, _ = doJSON(t, r, http.MethodPost, "/login", gin.H{
		"nickname": "alice",
		"password": "wrongwrong",
	}, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBasketFlowAndCheckout(t *testing.T) {
	r, db := newTestApp(t)
	require.NoError(t, db.Create(&models.MenuItem{
		Name: "Borscht", Price: 120, Weight: 350, Active: true,
	}).Error)

	// The basket rides the session cookie between requests.
	w, _ := doJSON(t, r, http.MethodPost, "/basket/items", gin.H{
		"name": "Borscht", "quantity": 9,
	}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// One bump reaches the cap, the next is refused with the cap message.
	w, _ = doJSON(t, r, http.MethodPatch, "/basket/items/Borscht", gin.H{"action": "plus"}, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		cookies = cs
	}

	w, resp := doJSON(t, r, http.MethodPatch, "/basket/items/Borscht", gin.H{"action": "plus"}, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maximum quantity is 10", resp.Message)

	// Unknown dishes never enter the basket.
	w, _ = doJSON(t, r, http.MethodPost, "/basket/items", gin.H{"name": "Ghost dish"}, "", cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Checkout needs an account.
	w, _ = doJSON(t, r, http.MethodPost, "/orders", nil, "", cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := registerUser(t, r, "alice")
	w, resp = doJSON(t, r, http.MethodPost, "/orders", nil, token, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 10*120, resp.Data["total"])

	// An empty basket cannot be checked out again.
	w, _ = doJSON(t, r, http.MethodPost, "/orders", nil, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationOverHTTP(t *testing.T) {
	r, _ := newTestApp(t)
	token := registerUser(t, r, "alice")
	startTime := time.Now().Add(24 * time.Hour).Format("2006-01-02T15:04")

	// Booking from another city is refused.
	w, _ := doJSON(t, r, http.MethodPost, "/reservations", gin.H{
		"table_id": 1, "time": startTime,
		"latitude": 48.45, "longitude": 35.05,
	}, token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Withholding the location is a bad request.
	w, _ = doJSON(t, r, http.MethodPost, "/reservations", gin.H{
		"table_id": 1, "time": startTime,
	}, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/reservations", gin.H{
		"table_id": 1, "time": startTime,
		"latitude": 50.4520, "longitude": 30.5300,
	}, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// The floor plan now shows table 1 as taken.
	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var plan struct {
		Data []struct {
			Number int  `json:"number"`
			Taken  bool `json:"taken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan.Data, 22)
	assert.True(t, plan.Data[0].Taken)
	assert.False(t, plan.Data[1].Taken)

	// A second booking by the same user conflicts.
	w, _ = doJSON(t, r, http.MethodPost, "/reservations", gin.H{
		"table_id": 2, "time": startTime,
		"latitude": 50.4520, "longitude": 30.5300,
	}, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminGate(t *testing.T) {
	r, db := newTestApp(t)
	userToken := registerUser(t, r, "alice")
	adminToken := createAdmin(t, r, db)

	w, _ := doJSON(t, r, http.MethodGet, "/admin/orders", nil, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/admin/orders", nil, userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/admin/orders", nil, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderStatusOverHTTP(t *testing.T) {
	r, db := newTestApp(t)
	adminToken := createAdmin(t, r, db)
	userToken := registerUser(t, r, "alice")

	require.NoError(t, db.Create(&models.MenuItem{
		Name: "Borscht", Price: 120, Weight: 350, Active: true,
	}).Error)

	w, _ := doJSON(t, r, http.MethodPost, "/basket/items", gin.H{"name": "Borscht"}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()

	w, resp := doJSON(t, r, http.MethodPost, "/orders", nil, userToken, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	order, ok := resp.Data["order"].(map[string]interface{})
	require.True(t, ok)
	orderID := int(order["id"].(float64))

	path := fmt.Sprintf("/admin/orders/%d", orderID)

	w, _ = doJSON(t, r, http.MethodPatch, path, gin.H{"status": "preparing"}, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Backwards is a conflict once the kitchen moved on.
	w, _ = doJSON(t, r, http.MethodPatch, path, gin.H{"status": "ready"}, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPatch, path, gin.H{"status": "preparing"}, adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The owner cannot cancel an order that reached "ready".
	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/orders/%d", orderID), nil, userToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
