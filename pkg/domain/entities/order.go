package entities

import (
	"fmt"
	"time"
)

// OrderLine represents one raw customer or internal order line for a run
// date. The supplier_id carried by the raw feed is recorded but ignored by
// aggregation.
type OrderLine struct {
	OrderID     string
	SupplierID  SupplierID
	SKUID       SKUID
	WarehouseID WarehouseID
	Quantity    Quantity
	OrderDate   time.Time
}

// NewOrderLine creates a validated OrderLine
func NewOrderLine(orderID string, supplierID SupplierID, skuID SKUID, warehouseID WarehouseID, quantity Quantity, orderDate time.Time) (*OrderLine, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}
	if orderDate.IsZero() {
		return nil, fmt.Errorf("order date cannot be zero")
	}
	return &OrderLine{
		OrderID:     orderID,
		SupplierID:  supplierID,
		SKUID:       skuID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		OrderDate:   orderDate,
	}, nil
}
