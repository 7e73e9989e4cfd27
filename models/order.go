package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	OrderStatusNew       = "new"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
)

// OrderStatusChain is the fixed progression an order moves through.
var OrderStatusChain = []string{
	OrderStatusNew,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
}

// OrderStatusRank returns the position of a status in the chain, or -1 for
// an unknown status.
func OrderStatusRank(status string) int {
	for i, s := range OrderStatusChain {
		if s == status {
			return i
		}
	}
	return -1
}

// OrderLines is the snapshot of an order: item name mapped to quantity.
// Names are captured at placement time, not linked to menu rows.
type OrderLines map[string]int

func (l OrderLines) Value() (driver.Value, error) {
	if l == nil {
		l = OrderLines{}
	}
	return json.Marshal(l)
}

func (l *OrderLines) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = OrderLines{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into OrderLines", value)
	}
}

type Order struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Lines     OrderLines `gorm:"type:jsonb;not null" json:"lines"`
	Status    string     `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	OrderTime time.Time  `gorm:"not null" json:"order_time"`
}
