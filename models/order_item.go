package models

import (
	"errors"

	"gorm.io/gorm"
)

// OrderItem represents a line item owned by exactly one Order
type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"not null;index" json:"order_id"`
	ProductID int  `gorm:"not null" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Create persists a new order item
func (i *OrderItem) Create(db *gorm.DB) error {
	i.ID = 0
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(i).Error
	})
	if err != nil {
		return NewValidationError("error creating order item: %v", err)
	}
	return nil
}

// Update persists changes to an existing order item
func (i *OrderItem) Update(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(i).Error
	})
	if err != nil {
		return NewValidationError("error updating order item: %v", err)
	}
	return nil
}

// Delete removes an order item
func (i *OrderItem) Delete(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(i).Error
	})
	if err != nil {
		return NewValidationError("error deleting order item: %v", err)
	}
	return nil
}

// FindOrderItem looks an item up by id, returning (nil, nil) when no row
// matches
func FindOrderItem(db *gorm.DB, id uint) (*OrderItem, error) {
	var item OrderItem
	err := db.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemsByOrder returns every item belonging to the given order
func FindItemsByOrder(db *gorm.DB, orderID uint) ([]OrderItem, error) {
	var items []OrderItem
	if err := db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemsByProduct returns every item for the given product
func FindItemsByProduct(db *gorm.DB, productID int) ([]OrderItem, error) {
	var items []OrderItem
	if err := db.Where("product_id = ?", productID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Serialize converts an order item into a field mapping
func (i *OrderItem) Serialize() map[string]any {
	return map[string]any{
		"id":         i.ID,
		"order_id":   i.OrderID,
		"product_id": i.ProductID,
		"quantity":   i.Quantity,
	}
}

// Deserialize applies a field mapping to the item. product_id and quantity
// are always required; order_id is optional because ownership normally
// comes from the route, not the payload.
func (i *OrderItem) Deserialize(data map[string]any) error {
	if v, ok := data["order_id"]; ok {
		id, ok := toInt(v)
		if !ok {
			return NewValidationError("Invalid OrderItem: invalid order_id '%v'", v)
		}
		i.OrderID = uint(id)
	}

	v, ok := data["product_id"]
	if !ok {
		return NewValidationError("Invalid OrderItem: missing product_id")
	}
	productID, ok := toInt(v)
	if !ok {
		return NewValidationError("Invalid OrderItem: invalid product_id '%v'", v)
	}
	i.ProductID = productID

	v, ok = data["quantity"]
	if !ok {
		return NewValidationError("Invalid OrderItem: missing quantity")
	}
	quantity, ok := toInt(v)
	if !ok {
		return NewValidationError("Invalid OrderItem: invalid quantity '%v'", v)
	}
	i.Quantity = quantity

	return nil
}
