package planning

import (
	"sort"
	"time"

	"github.com/retailops/procurement/pkg/domain/entities"
)

// DemandCalculator reconciles aggregated demand against safety-stock policy
// and the inventory snapshot for the calculation date.
type DemandCalculator struct{}

// NewDemandCalculator creates a new demand calculator
func NewDemandCalculator() *DemandCalculator {
	return &DemandCalculator{}
}

type snapshotKey struct {
	skuCode       string
	warehouseCode string
}

// Calculate produces one NetDemandRow per aggregated row (left-join
// semantics: missing safety stock or snapshot data never drops a row).
// Safety stock resolution prefers the per-warehouse policy, then the global
// policy for the SKU, then zero. Net demand is
// max(0, total + safety - (available - reserved)) in integer arithmetic.
// Rows are sorted by net demand descending, ties by (sku, warehouse)
// ascending.
func (c *DemandCalculator) Calculate(aggregated []entities.AggregatedDemand, policies []*entities.SafetyStockPolicy, snapshots []*entities.InventorySnapshot, calculationDate time.Time) []entities.NetDemandRow {
	globalStock := make(map[entities.SKUID]entities.Quantity)
	warehouseStock := make(map[demandKey]entities.Quantity)
	for _, p := range policies {
		if p.WarehouseID == nil {
			globalStock[p.SKUID] = p.SafetyStockQty
		} else {
			warehouseStock[demandKey{skuID: p.SKUID, warehouseID: *p.WarehouseID}] = p.SafetyStockQty
		}
	}

	// Snapshots for other dates are ignored even if the repository returned
	// them.
	snapshotsByKey := make(map[snapshotKey]*entities.InventorySnapshot)
	for _, s := range snapshots {
		if !sameDay(s.SnapshotDate, calculationDate) {
			continue
		}
		snapshotsByKey[snapshotKey{skuCode: s.SKUCode, warehouseCode: s.WarehouseCode}] = s
	}

	rows := make([]entities.NetDemandRow, 0, len(aggregated))
	for _, agg := range aggregated {
		safety, ok := warehouseStock[demandKey{skuID: agg.SKUID, warehouseID: agg.WarehouseID}]
		if !ok {
			safety = globalStock[agg.SKUID]
		}

		var available, reserved entities.Quantity
		if snap, ok := snapshotsByKey[snapshotKey{skuCode: agg.SKUCode, warehouseCode: agg.WarehouseCode}]; ok {
			available = snap.AvailableQty
			reserved = snap.ReservedQty
		}

		effective := available - reserved
		net := agg.TotalQuantity + safety - effective
		if net < 0 {
			net = 0
		}

		rows = append(rows, entities.NetDemandRow{
			AggregatedDemand: agg,
			SafetyStock:      safety,
			AvailableStock:   available,
			ReservedStock:    reserved,
			EffectiveStock:   effective,
			NetDemand:        net,
			CalculationDate:  calculationDate,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].NetDemand != rows[j].NetDemand {
			return rows[i].NetDemand > rows[j].NetDemand
		}
		if rows[i].SKUID != rows[j].SKUID {
			return rows[i].SKUID < rows[j].SKUID
		}
		return rows[i].WarehouseID < rows[j].WarehouseID
	})

	return rows
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
