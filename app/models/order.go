package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus tracks an order through the kitchen.
type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusPrepared  OrderStatus = "prepared"
	StatusDelivered OrderStatus = "delivered"
)

// ParseOrderStatus validates a wire value against the closed status set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusReceived, StatusPrepared, StatusDelivered:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("status must be one of [%s %s %s], got %q",
			StatusReceived, StatusPrepared, StatusDelivered, s)
	}
}

// OrderItem is one priced line of an order. Name and prices are snapshots
// taken at order time — later product edits never change a placed order.
type OrderItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// OrderItems is stored as a single JSON column.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		*o = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into OrderItems", value)
	}
}

// Order is a placed customer order. Total is an integer FCFA amount.
type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CustomerName string      `gorm:"size:100;not null" json:"customer_name"`
	Mobile       string      `gorm:"size:20;not null" json:"mobile"`
	Address      string      `gorm:"type:text;not null" json:"address"`
	Details      string      `gorm:"type:text" json:"details"`
	Items        OrderItems  `gorm:"type:text;not null" json:"items"`
	Total        int64       `gorm:"not null;check:total >= 0" json:"total"`
	Status       OrderStatus `gorm:"size:20;not null;default:received;index" json:"status"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }
