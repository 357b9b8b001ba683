package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SKUID identifies a product (stock-keeping unit)
type SKUID int64

// WarehouseID identifies a warehouse
type WarehouseID int64

// SupplierID identifies a supplier
type SupplierID int64

// Quantity represents an integer stock or order quantity
type Quantity int64

// Product represents a SKU master record
type Product struct {
	SKUID    SKUID
	SKUCode  string
	Name     string
	Category string
}

// Warehouse represents a warehouse master record
type Warehouse struct {
	WarehouseID   WarehouseID
	WarehouseCode string
	Name          string
	City          string
}

// Supplier represents a supplier master record
type Supplier struct {
	SupplierID   SupplierID
	SupplierCode string
	Name         string
	IsActive     bool
}

// SupplierOffer represents a supplier's sellable terms for one SKU
type SupplierOffer struct {
	SupplierID   SupplierID
	SKUID        SKUID
	PackSize     Quantity
	MinOrderQty  Quantity
	LeadTimeDays int
	UnitPrice    decimal.Decimal
	Currency     string
	IsActive     bool
}

// Valid reports whether the offer carries well-formed procurement terms.
// Offers with a non-positive pack size or unit price are malformed and must
// be excluded from price ranking.
func (o *SupplierOffer) Valid() bool {
	return o.PackSize > 0 && o.UnitPrice.IsPositive()
}

// SafetyStockPolicy represents a minimum buffer-stock rule for a SKU.
// A nil WarehouseID means the policy is global; a per-warehouse policy takes
// precedence over the global one for the same SKU.
type SafetyStockPolicy struct {
	SKUID          SKUID
	WarehouseID    *WarehouseID
	SafetyStockQty Quantity
}

// NewGlobalSafetyStock creates a validated global safety-stock policy
func NewGlobalSafetyStock(skuID SKUID, qty Quantity) (*SafetyStockPolicy, error) {
	if qty < 0 {
		return nil, fmt.Errorf("safety stock cannot be negative, got %d", qty)
	}
	return &SafetyStockPolicy{SKUID: skuID, SafetyStockQty: qty}, nil
}

// NewWarehouseSafetyStock creates a validated per-warehouse safety-stock policy
func NewWarehouseSafetyStock(skuID SKUID, warehouseID WarehouseID, qty Quantity) (*SafetyStockPolicy, error) {
	if qty < 0 {
		return nil, fmt.Errorf("safety stock cannot be negative, got %d", qty)
	}
	wh := warehouseID
	return &SafetyStockPolicy{SKUID: skuID, WarehouseID: &wh, SafetyStockQty: qty}, nil
}
