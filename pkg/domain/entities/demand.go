package entities

import "time"

// AggregatedDemand represents the demand total for one (sku, warehouse)
// pair, enriched with product and warehouse reference attributes. Derived
// once per run and immutable afterwards.
type AggregatedDemand struct {
	SKUID           SKUID
	SKUCode         string
	ProductName     string
	Category        string
	WarehouseID     WarehouseID
	WarehouseCode   string
	WarehouseName   string
	City            string
	TotalQuantity   Quantity
	OrderCount      int
	LatestOrderDate time.Time
}

// NetDemandRow represents the reconciled purchase need for one
// (sku, warehouse) pair after netting aggregated demand and safety stock
// against effective inventory.
type NetDemandRow struct {
	AggregatedDemand

	SafetyStock     Quantity
	AvailableStock  Quantity
	ReservedStock   Quantity
	EffectiveStock  Quantity
	NetDemand       Quantity
	CalculationDate time.Time
}
