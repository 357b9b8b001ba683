package planning

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/procurement/pkg/domain/entities"
)

// Selector picks the least-cost active supplier offer for each SKU with
// positive net demand and prices the resulting order line.
type Selector struct{}

// NewSelector creates a new supplier selector
func NewSelector() *Selector {
	return &Selector{}
}

// SelectionStats reports per-record anomalies encountered during selection.
type SelectionStats struct {
	// UnsuppliedDemand counts rows with positive net demand but no eligible
	// supplier offer for the SKU.
	UnsuppliedDemand int
	// InvalidOffers counts active offers excluded for malformed terms
	// (pack size or unit price not positive).
	InvalidOffers int
}

type rankedOffer struct {
	offer    *entities.SupplierOffer
	supplier *entities.Supplier
}

// Select produces unpriced-order lines (order id, order date and status are
// assigned later by the Assembler). Offers are eligible when both the offer
// and its supplier are active. Offers for the same SKU are ranked by unit
// price ascending; an equal-price tie goes to the lowest supplier id.
// Order quantity is rounded up to a pack multiple and floored at the
// minimum order quantity. Lines are sorted by total cost descending with
// (sku, warehouse) ascending as tie-break.
func (s *Selector) Select(demand []entities.NetDemandRow, offers []*entities.SupplierOffer, suppliers []*entities.Supplier, calculationDate time.Time) ([]entities.SupplierOrderLine, SelectionStats) {
	var stats SelectionStats

	activeSuppliers := make(map[entities.SupplierID]*entities.Supplier, len(suppliers))
	for _, sup := range suppliers {
		if sup.IsActive {
			activeSuppliers[sup.SupplierID] = sup
		}
	}

	best := make(map[entities.SKUID]rankedOffer)
	for _, offer := range offers {
		if !offer.IsActive {
			continue
		}
		supplier, ok := activeSuppliers[offer.SupplierID]
		if !ok {
			continue
		}
		if !offer.Valid() {
			stats.InvalidOffers++
			continue
		}

		current, ok := best[offer.SKUID]
		if !ok {
			best[offer.SKUID] = rankedOffer{offer: offer, supplier: supplier}
			continue
		}
		cmp := offer.UnitPrice.Cmp(current.offer.UnitPrice)
		if cmp < 0 || (cmp == 0 && offer.SupplierID < current.offer.SupplierID) {
			best[offer.SKUID] = rankedOffer{offer: offer, supplier: supplier}
		}
	}

	var lines []entities.SupplierOrderLine
	for _, row := range demand {
		if row.NetDemand <= 0 {
			continue
		}

		ranked, ok := best[row.SKUID]
		if !ok {
			stats.UnsuppliedDemand++
			continue
		}
		offer := ranked.offer

		orderQty := ceilDiv(row.NetDemand, offer.PackSize) * offer.PackSize
		if orderQty < offer.MinOrderQty {
			orderQty = offer.MinOrderQty
		}

		totalCost := offer.UnitPrice.Mul(decimal.NewFromInt(int64(orderQty)))

		lines = append(lines, entities.SupplierOrderLine{
			SKUID:         row.SKUID,
			SKUCode:       row.SKUCode,
			ProductName:   row.ProductName,
			Category:      row.Category,
			WarehouseID:   row.WarehouseID,
			WarehouseCode: row.WarehouseCode,
			WarehouseName: row.WarehouseName,
			City:          row.City,
			SupplierID:    offer.SupplierID,
			SupplierCode:  ranked.supplier.SupplierCode,
			SupplierName:  ranked.supplier.Name,

			NetDemand:    row.NetDemand,
			PackSize:     offer.PackSize,
			MinOrderQty:  offer.MinOrderQty,
			UnitPrice:    offer.UnitPrice,
			Currency:     offer.Currency,
			LeadTimeDays: offer.LeadTimeDays,

			OrderQuantity:        orderQty,
			TotalCost:            totalCost,
			ExpectedDeliveryDate: calculationDate.AddDate(0, 0, offer.LeadTimeDays),
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		if cmp := lines[i].TotalCost.Cmp(lines[j].TotalCost); cmp != 0 {
			return cmp > 0
		}
		if lines[i].SKUID != lines[j].SKUID {
			return lines[i].SKUID < lines[j].SKUID
		}
		return lines[i].WarehouseID < lines[j].WarehouseID
	})

	return lines, stats
}

// ceilDiv rounds n up to the next multiple of d, in integers. d must be
// positive; callers exclude offers with non-positive pack sizes first.
func ceilDiv(n, d entities.Quantity) entities.Quantity {
	return (n + d - 1) / d
}
