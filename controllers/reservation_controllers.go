package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

// bookingTimeLayout matches the datetime-local input the booking form sends.
const bookingTimeLayout = "2006-01-02T15:04"

type ReservationController struct {
	DB           *gorm.DB
	Reservations *services.ReservationService
}

func NewReservationController(db *gorm.DB, reservations *services.ReservationService) *ReservationController {
	return &ReservationController{DB: db, Reservations: reservations}
}

// FloorPlan -> every table with its occupancy flag, for the seating map.
func (rc *ReservationController) FloorPlan(c *gin.Context) {
	exclude := 0
	if v := c.Query("exclude_reservation"); v != "" {
		exclude, _ = strconv.Atoi(v)
	}

	views, err := rc.Reservations.FloorPlan(uint(exclude))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Floor plan", views)
}

// CreateReservation books a table. The caller must share their location;
// booking is refused outside the configured radius.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var input struct {
		TableID   uint     `json:"table_id" binding:"required"`
		Time      string   `json:"time" binding:"required"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	start, err := time.Parse(bookingTimeLayout, input.Time)
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	res, err := rc.Reservations.Create(user.ID, input.TableID, start, input.Latitude, input.Longitude)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table reserved", res)
}

// MyReservations -> the caller's reservations, newest first.
func (rc *ReservationController) MyReservations(c *gin.Context) {
	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	views, err := rc.Reservations.ForUser(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My reservations", views)
}

// EditReservation moves the caller's reservation to a new table/time.
func (rc *ReservationController) EditReservation(c *gin.Context) {
	resID, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	var input struct {
		TableID uint   `json:"table_id" binding:"required"`
		Time    string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	start, err := time.Parse(bookingTimeLayout, input.Time)
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	res, err := rc.Reservations.Edit(uint(resID), user.ID, input.TableID, start)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation changed", res)
}

// CancelReservation cancels the caller's own reservation.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	resID, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	if err := rc.Reservations.Cancel(uint(resID), user); err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", nil)
}

// ListReservations -> admin console, optionally filtered to one date
// (?date=YYYY-MM-DD).
func (rc *ReservationController) ListReservations(c *gin.Context) {
	if dateStr := c.Query("date"); dateStr != "" {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondDomainError(c, services.ErrInvalidInput)
			return
		}
		views, err := rc.Reservations.ListForDate(day)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Reservations for "+dateStr, views)
		return
	}

	views, err := rc.Reservations.ListAll()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All reservations", views)
}

// AdminCancelReservation cancels any reservation; the owner is notified.
func (rc *ReservationController) AdminCancelReservation(c *gin.Context) {
	resID, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		respondDomainError(c, services.ErrInvalidInput)
		return
	}

	admin, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	if err := rc.Reservations.Cancel(uint(resID), admin); err != nil {
		respondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", nil)
}
