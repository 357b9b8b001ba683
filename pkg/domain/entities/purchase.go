package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of a purchase order
type OrderStatus string

const (
	// StatusPending is the initial status of every emitted purchase order
	StatusPending OrderStatus = "PENDING"
)

// SupplierOrderLine represents one final purchase-order entry: a priced,
// dated order for one SKU at one warehouse from the selected supplier.
// Immutable once emitted.
type SupplierOrderLine struct {
	OrderID       string
	SKUID         SKUID
	SKUCode       string
	ProductName   string
	Category      string
	WarehouseID   WarehouseID
	WarehouseCode string
	WarehouseName string
	City          string
	SupplierID    SupplierID
	SupplierCode  string
	SupplierName  string

	NetDemand    Quantity
	PackSize     Quantity
	MinOrderQty  Quantity
	UnitPrice    decimal.Decimal
	Currency     string
	LeadTimeDays int

	OrderQuantity        Quantity
	TotalCost            decimal.Decimal
	ExpectedDeliveryDate time.Time
	OrderDate            time.Time
	Status               OrderStatus
}
