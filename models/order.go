package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Order lifecycle states
const (
	StatusPlaced   = "placed"
	StatusShipped  = "shipped"
	StatusReturned = "returned"
	StatusCanceled = "canceled"
)

// DefaultStatus is assigned when a payload carries no status
const DefaultStatus = StatusPlaced

// AllowedStatus is the fixed set of legal order statuses
var AllowedStatus = map[string]bool{
	StatusPlaced:   true,
	StatusShipped:  true,
	StatusReturned: true,
	StatusCanceled: true,
}

// Order represents a customer order in the system
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CustomerID int         `gorm:"not null;index" json:"customer_id"`
	Status     string      `gorm:"size:16;not null;default:'placed'" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	ShippedAt  *time.Time  `json:"shipped_at"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`

	// set by Deserialize when the payload carries an order_items key,
	// telling Update to replace the whole collection
	replaceItems bool
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// touchShippedAt stamps ShippedAt the first time the order reaches the
// shipped status; once set it is never overwritten
func (o *Order) touchShippedAt() {
	if o.Status == StatusShipped && o.ShippedAt == nil {
		now := time.Now().UTC()
		o.ShippedAt = &now
	}
}

// Create persists a new order, together with any attached items
func (o *Order) Create(db *gorm.DB) error {
	o.ID = 0
	o.touchShippedAt()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
	if err != nil {
		return NewValidationError("error creating order: %v", err)
	}
	o.replaceItems = false
	return nil
}

// Update persists changes to an existing order. When the deserialized
// payload replaced the items collection, the old rows are removed and the
// new ones created inside the same transaction.
func (o *Order) Update(db *gorm.DB) error {
	o.touchShippedAt()
	err := db.Transaction(func(tx *gorm.DB) error {
		if o.replaceItems {
			if err := tx.Where("order_id = ?", o.ID).Delete(&OrderItem{}).Error; err != nil {
				return err
			}
			for i := range o.OrderItems {
				o.OrderItems[i].ID = 0
				o.OrderItems[i].OrderID = o.ID
			}
		}
		if err := tx.Omit("OrderItems").Save(o).Error; err != nil {
			return err
		}
		if o.replaceItems && len(o.OrderItems) > 0 {
			if err := tx.Create(&o.OrderItems).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return NewValidationError("error updating order: %v", err)
	}
	o.replaceItems = false
	return nil
}

// Delete removes an order and all of its items. The cascade is an explicit
// transactional step: children first, then the parent.
func (o *Order) Delete(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", o.ID).Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(o).Error
	})
	if err != nil {
		return NewValidationError("error deleting order: %v", err)
	}
	return nil
}

// FindOrder looks an order up by id, returning (nil, nil) when no row
// matches so callers can distinguish absence from failure
func FindOrder(db *gorm.DB, id uint) (*Order, error) {
	var order Order
	err := db.Preload("OrderItems").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AllOrders returns every order with its items
func AllOrders(db *gorm.DB) ([]Order, error) {
	var orders []Order
	if err := db.Preload("OrderItems").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOrdersBy returns the orders matching the given filters; nil filters
// are ignored
func FindOrdersBy(db *gorm.DB, customerID *int, status *string) ([]Order, error) {
	q := db.Preload("OrderItems")
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var orders []Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// DeleteAllOrders removes every order and every item
func DeleteAllOrders(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&Order{}).Error
	})
	if err != nil {
		return NewValidationError("error deleting orders: %v", err)
	}
	return nil
}

// Serialize converts an order into a field mapping. Timestamps render as
// RFC 3339 strings or null. When withItems is false the order_items key is
// left out entirely, not set to an empty list.
func (o *Order) Serialize(withItems bool) map[string]any {
	data := map[string]any{
		"id":          o.ID,
		"customer_id": o.CustomerID,
		"status":      o.Status,
		"created_at":  formatTime(&o.CreatedAt),
		"shipped_at":  formatTime(o.ShippedAt),
	}
	if withItems {
		items := make([]map[string]any, 0, len(o.OrderItems))
		for i := range o.OrderItems {
			items = append(items, o.OrderItems[i].Serialize())
		}
		data["order_items"] = items
	}
	return data
}

// Deserialize applies a field mapping to the order. customer_id is required
// when requireFields is true (creation) or when the key is present; status
// must lowercase to an allowed value; an order_items key replaces the whole
// collection.
func (o *Order) Deserialize(data map[string]any, requireFields bool) error {
	if v, ok := data["customer_id"]; ok {
		id, ok := toInt(v)
		if !ok {
			return NewValidationError("Invalid Order: invalid customer_id '%v'", v)
		}
		o.CustomerID = id
	} else if requireFields {
		return NewValidationError("Invalid Order: missing customer_id")
	}

	status := o.Status
	if v, ok := data["status"]; ok {
		status = fmt.Sprint(v)
	}
	if status == "" {
		status = DefaultStatus
	}
	status = strings.ToLower(status)
	if !AllowedStatus[status] {
		return NewValidationError("Invalid status '%s'", status)
	}
	o.Status = status

	if v, ok := data["created_at"]; ok {
		t, err := parseTime(v)
		if err != nil {
			return NewValidationError("Invalid Order: bad created_at: %v", err)
		}
		if t != nil {
			o.CreatedAt = *t
		}
	}

	if v, ok := data["shipped_at"]; ok {
		t, err := parseTime(v)
		if err != nil {
			return NewValidationError("Invalid Order: bad shipped_at: %v", err)
		}
		o.ShippedAt = t
	}

	if v, ok := data["order_items"]; ok {
		raw, ok := v.([]any)
		if !ok {
			return NewValidationError("Invalid Order: order_items must be a list")
		}
		items := make([]OrderItem, 0, len(raw))
		for _, entry := range raw {
			var item OrderItem
			itemData, ok := entry.(map[string]any)
			if !ok {
				return NewValidationError("Invalid OrderItem: body of request contained bad or no data")
			}
			if err := item.Deserialize(itemData); err != nil {
				return err
			}
			items = append(items, item)
		}
		o.OrderItems = items
		o.replaceItems = true
	}

	return nil
}

// formatTime renders a timestamp as RFC 3339 or nil for absent values
func formatTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTime accepts an RFC 3339 string or null
func parseTime(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected timestamp string, got %T", v)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// toInt converts the numeric types a decoded JSON payload may carry
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case uint:
		return int(n), true
	default:
		return 0, false
	}
}
