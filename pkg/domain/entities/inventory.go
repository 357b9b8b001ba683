package entities

import (
	"fmt"
	"time"
)

// StockEntry represents one line of the raw stock feed. The feed is staged
// for downstream snapshot storage; the demand calculation itself consumes
// dated InventorySnapshot records instead.
type StockEntry struct {
	WarehouseID  WarehouseID
	SKUID        SKUID
	CurrentStock Quantity
}

// InventorySnapshot represents point-in-time stock state for one SKU at one
// warehouse. Snapshots are append-only, one per (sku_code, warehouse_code,
// date).
type InventorySnapshot struct {
	SKUCode       string
	WarehouseCode string
	SnapshotDate  time.Time
	AvailableQty  Quantity
	ReservedQty   Quantity
}

// NewInventorySnapshot creates a validated InventorySnapshot
func NewInventorySnapshot(skuCode, warehouseCode string, snapshotDate time.Time, availableQty, reservedQty Quantity) (*InventorySnapshot, error) {
	if skuCode == "" {
		return nil, fmt.Errorf("sku code cannot be empty")
	}
	if warehouseCode == "" {
		return nil, fmt.Errorf("warehouse code cannot be empty")
	}
	if snapshotDate.IsZero() {
		return nil, fmt.Errorf("snapshot date cannot be zero")
	}
	return &InventorySnapshot{
		SKUCode:       skuCode,
		WarehouseCode: warehouseCode,
		SnapshotDate:  snapshotDate,
		AvailableQty:  availableQty,
		ReservedQty:   reservedQty,
	}, nil
}

// EffectiveQty returns available minus reserved stock. The result may be
// negative when reservations exceed availability.
func (s *InventorySnapshot) EffectiveQty() Quantity {
	return s.AvailableQty - s.ReservedQty
}
