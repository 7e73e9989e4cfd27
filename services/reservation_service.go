package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/config"
	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

// OccupancyPolicy decides whether a table counts as taken. The default rule
// treats any reservation row as permanent occupancy; a time-window rule can
// be swapped in without touching the manager.
type OccupancyPolicy interface {
	TableTaken(tx *gorm.DB, tableID uint, excludeReservationID uint) (bool, error)
}

// SingleSlotPolicy: a table with any reservation row is taken, regardless of
// time.
type SingleSlotPolicy struct{}

func (SingleSlotPolicy) TableTaken(tx *gorm.DB, tableID uint, excludeReservationID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Reservation{}).Where("table_id = ?", tableID)
	if excludeReservationID != 0 {
		q = q.Where("id <> ?", excludeReservationID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReservationView is the detached projection handed to clients; it survives
// the transaction that produced it.
type ReservationView struct {
	ID           uint      `json:"id"`
	StartTime    time.Time `json:"start_time"`
	UserNickname string    `json:"user_nickname"`
	TableNumber  int       `json:"table_number"`
	TableLabel   string    `json:"table_label"`
	TableType    string    `json:"table_type"`
}

// TableView is a floor-plan entry plus its occupancy flag.
type TableView struct {
	ID      uint   `json:"id"`
	Number  int    `json:"number"`
	Type    string `json:"type"`
	Label   string `json:"label"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Taken   bool   `json:"taken"`
	Current bool   `json:"current,omitempty"`
}

type ReservationService struct {
	db       *gorm.DB
	notifier Notifier

	// Policy is the occupancy rule; defaults to SingleSlotPolicy.
	Policy OccupancyPolicy

	restaurantLat float64
	restaurantLon float64
	radiusKM      float64
}

func NewReservationService(db *gorm.DB, notifier Notifier, cfg *config.Config) *ReservationService {
	return &ReservationService{
		db:            db,
		notifier:      notifier,
		Policy:        SingleSlotPolicy{},
		restaurantLat: cfg.RestaurantLat,
		restaurantLon: cfg.RestaurantLon,
		radiusKM:      cfg.BookingRadiusKM,
	}
}

// Create books a table for the user. The per-user and per-table checks run
// inside the same transaction as the insert; the unique indexes on the
// reservations table catch whatever two concurrent bookings race past.
func (s *ReservationService) Create(userID, tableID uint, start time.Time, lat, lon *float64) (*models.Reservation, error) {
	if lat == nil || lon == nil {
		return nil, ErrInvalidInput
	}
	distance := utils.DistanceKM(s.restaurantLat, s.restaurantLon, *lat, *lon)
	if distance > s.radiusKM {
		return nil, ErrOutOfRange
	}

	var (
		res   models.Reservation
		user  models.User
		table models.Table
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return asNotFound(err)
		}
		if err := tx.First(&table, tableID).Error; err != nil {
			return asNotFound(err)
		}

		var existing int64
		if err := tx.Model(&models.Reservation{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyReserved
		}

		taken, err := s.Policy.TableTaken(tx, tableID, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrTableTaken
		}

		res = models.Reservation{UserID: userID, TableID: tableID, StartTime: start}
		return tx.Create(&res).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %d created: user=%s table=%d", res.ID, user.Nickname, table.Number)
	s.notifier.ReservationCreated(user, table, start)
	return &res, nil
}

// Edit moves a reservation to a new table and/or time. Only the owner may
// edit; the new table's occupancy is re-validated against all other
// reservations inside the same transaction.
func (s *ReservationService) Edit(reservationID, userID, newTableID uint, newStart time.Time) (*models.Reservation, error) {
	var (
		res      models.Reservation
		user     models.User
		newTable models.Table
		oldState ReservationSnapshot
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Table").Where("id = ? AND user_id = ?", reservationID, userID).
			First(&res).Error; err != nil {
			return asNotFound(err)
		}
		if err := tx.First(&user, userID).Error; err != nil {
			return asNotFound(err)
		}
		oldState = ReservationSnapshot{
			TableNumber: res.Table.Number,
			TableLabel:  res.Table.Label,
			StartTime:   res.StartTime,
		}

		if newTableID != res.TableID {
			taken, err := s.Policy.TableTaken(tx, newTableID, res.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrTableTaken
			}
		}
		if err := tx.First(&newTable, newTableID).Error; err != nil {
			return asNotFound(err)
		}

		return tx.Model(&res).Updates(map[string]interface{}{
			"table_id":   newTableID,
			"start_time": newStart,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	newState := ReservationSnapshot{
		TableNumber: newTable.Number,
		TableLabel:  newTable.Label,
		StartTime:   newStart,
	}
	utils.InfoLogger.Printf("Reservation %d edited: table %d -> %d", res.ID, oldState.TableNumber, newState.TableNumber)
	s.notifier.ReservationEdited(user, oldState, newState)

	res.TableID = newTableID
	res.StartTime = newStart
	return &res, nil
}

// Cancel removes a reservation. The owner may cancel their own; an admin may
// cancel anyone's. The notification goes to the party that did not act.
func (s *ReservationService) Cancel(reservationID uint, actor *models.User) error {
	var res models.Reservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Preload("Table").Preload("User").Where("id = ?", reservationID)
		if !actor.IsAdmin() {
			q = q.Where("user_id = ?", actor.ID)
		}
		if err := q.First(&res).Error; err != nil {
			return asNotFound(err)
		}
		return tx.Delete(&res).Error
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Reservation %d cancelled by %s", res.ID, actor.Nickname)
	if actor.IsAdmin() && actor.ID != res.UserID {
		s.notifier.ReservationCancelledByAdmin(res.User, res.Table, res.StartTime)
	} else {
		s.notifier.ReservationCancelledByUser(res.User, res.Table, res.StartTime)
	}
	return nil
}

// ForUser lists the caller's reservations, newest first.
func (s *ReservationService) ForUser(userID uint) ([]ReservationView, error) {
	var reservations []models.Reservation
	if err := s.db.Preload("User").Preload("Table").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return toViews(reservations), nil
}

// ListAll is the admin projection of every live reservation.
func (s *ReservationService) ListAll() ([]ReservationView, error) {
	var reservations []models.Reservation
	if err := s.db.Preload("User").Preload("Table").
		Order("start_time DESC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return toViews(reservations), nil
}

// ListForDate filters reservations to one calendar day.
func (s *ReservationService) ListForDate(day time.Time) ([]ReservationView, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var reservations []models.Reservation
	if err := s.db.Preload("User").Preload("Table").
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time DESC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return toViews(reservations), nil
}

// FloorPlan returns every table with its occupancy flag. When
// excludeReservationID is non-zero that reservation does not count as
// occupying its table (used by the edit screen).
func (s *ReservationService) FloorPlan(excludeReservationID uint) ([]TableView, error) {
	var tables []models.Table
	if err := s.db.Order("number").Find(&tables).Error; err != nil {
		return nil, err
	}

	var reservations []models.Reservation
	if err := s.db.Find(&reservations).Error; err != nil {
		return nil, err
	}
	takenIDs := make(map[uint]bool, len(reservations))
	var currentTableID uint
	for _, r := range reservations {
		if r.ID == excludeReservationID {
			currentTableID = r.TableID
			continue
		}
		takenIDs[r.TableID] = true
	}

	views := make([]TableView, 0, len(tables))
	for _, t := range tables {
		views = append(views, TableView{
			ID:      t.ID,
			Number:  t.Number,
			Type:    t.Type,
			Label:   t.Label,
			X:       t.X,
			Y:       t.Y,
			Taken:   takenIDs[t.ID],
			Current: t.ID == currentTableID && excludeReservationID != 0,
		})
	}
	return views, nil
}

func toViews(reservations []models.Reservation) []ReservationView {
	views := make([]ReservationView, 0, len(reservations))
	for _, r := range reservations {
		views = append(views, ReservationView{
			ID:           r.ID,
			StartTime:    r.StartTime,
			UserNickname: r.User.Nickname,
			TableNumber:  r.Table.Number,
			TableLabel:   r.Table.Label,
			TableType:    r.Table.Type,
		})
	}
	return views
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
