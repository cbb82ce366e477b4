package models

import "gorm.io/gorm"

// Return transitions a shipped order to returned. Any other starting
// status is a conflict and leaves the order untouched.
func (o *Order) Return(db *gorm.DB) error {
	if o.Status != StatusShipped {
		return NewConflictError("Cannot return order with status '%s'", o.Status)
	}
	o.Status = StatusReturned
	return o.Update(db)
}

// Cancel transitions a placed order to canceled. Any other starting status
// is a conflict and leaves the order untouched.
func (o *Order) Cancel(db *gorm.DB) error {
	if o.Status != StatusPlaced {
		return NewConflictError("Cannot cancel order with status '%s'", o.Status)
	}
	o.Status = StatusCanceled
	return o.Update(db)
}
