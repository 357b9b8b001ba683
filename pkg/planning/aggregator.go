package planning

import (
	"sort"

	"github.com/retailops/procurement/pkg/domain/entities"
)

// Aggregator groups raw order lines into per-SKU, per-warehouse demand
// totals enriched with product and warehouse reference attributes.
type Aggregator struct{}

// NewAggregator creates a new order aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

type demandKey struct {
	skuID       entities.SKUID
	warehouseID entities.WarehouseID
}

// Aggregate groups orders by (sku, warehouse), summing quantities, counting
// lines and keeping the latest order date. Lines whose SKU or warehouse is
// missing from reference data are dropped (inner-join semantics); the
// returned count reports how many lines were dropped. Rows are sorted by
// total quantity descending with (sku, warehouse) ascending as tie-break.
func (a *Aggregator) Aggregate(orders []*entities.OrderLine, products []*entities.Product, warehouses []*entities.Warehouse) ([]entities.AggregatedDemand, int) {
	productsByID := make(map[entities.SKUID]*entities.Product, len(products))
	for _, p := range products {
		productsByID[p.SKUID] = p
	}
	warehousesByID := make(map[entities.WarehouseID]*entities.Warehouse, len(warehouses))
	for _, w := range warehouses {
		warehousesByID[w.WarehouseID] = w
	}

	groups := make(map[demandKey]*entities.AggregatedDemand)
	unmatched := 0

	for _, line := range orders {
		product, ok := productsByID[line.SKUID]
		if !ok {
			unmatched++
			continue
		}
		warehouse, ok := warehousesByID[line.WarehouseID]
		if !ok {
			unmatched++
			continue
		}

		key := demandKey{skuID: line.SKUID, warehouseID: line.WarehouseID}
		row, ok := groups[key]
		if !ok {
			row = &entities.AggregatedDemand{
				SKUID:         product.SKUID,
				SKUCode:       product.SKUCode,
				ProductName:   product.Name,
				Category:      product.Category,
				WarehouseID:   warehouse.WarehouseID,
				WarehouseCode: warehouse.WarehouseCode,
				WarehouseName: warehouse.Name,
				City:          warehouse.City,
			}
			groups[key] = row
		}

		row.TotalQuantity += line.Quantity
		row.OrderCount++
		if line.OrderDate.After(row.LatestOrderDate) {
			row.LatestOrderDate = line.OrderDate
		}
	}

	rows := make([]entities.AggregatedDemand, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalQuantity != rows[j].TotalQuantity {
			return rows[i].TotalQuantity > rows[j].TotalQuantity
		}
		if rows[i].SKUID != rows[j].SKUID {
			return rows[i].SKUID < rows[j].SKUID
		}
		return rows[i].WarehouseID < rows[j].WarehouseID
	})

	return rows, unmatched
}
