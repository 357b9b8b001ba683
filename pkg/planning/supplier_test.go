package planning

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/retailops/procurement/pkg/domain/entities"
)

func testNetDemandRow(skuID entities.SKUID, warehouseID entities.WarehouseID, net entities.Quantity) entities.NetDemandRow {
	return entities.NetDemandRow{
		AggregatedDemand: entities.AggregatedDemand{
			SKUID:       skuID,
			WarehouseID: warehouseID,
		},
		NetDemand: net,
	}
}

func TestSelector_PicksCheapestOffer(t *testing.T) {
	sel := NewSelector()
	date := testDate()

	demand := []entities.NetDemandRow{testNetDemandRow(1, 1, 45)}
	suppliers := []*entities.Supplier{testSupplier(1, "SUP-001"), testSupplier(2, "SUP-002")}
	offers := []*entities.SupplierOffer{
		testOffer(1, 1, "10.00", 5, 10, 2),
		testOffer(2, 1, "9.50", 10, 20, 3),
	}

	lines, stats := sel.Select(demand, offers, suppliers, date)

	if stats.UnsuppliedDemand != 0 || stats.InvalidOffers != 0 {
		t.Errorf("Expected clean stats, got %+v", stats)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected 1 order line, got %d", len(lines))
	}

	line := lines[0]
	if line.SupplierID != 2 {
		t.Errorf("Expected cheapest supplier 2, got %d", line.SupplierID)
	}
	// ceil(45/10)*10 = 50, above the minimum of 20
	if line.OrderQuantity != 50 {
		t.Errorf("Expected order quantity 50, got %d", line.OrderQuantity)
	}
	if !line.TotalCost.Equal(decimal.RequireFromString("475.00")) {
		t.Errorf("Expected total cost 475.00, got %s", line.TotalCost)
	}
	if line.OrderQuantity%line.PackSize != 0 {
		t.Errorf("Order quantity %d is not a pack multiple of %d", line.OrderQuantity, line.PackSize)
	}
}

func TestSelector_EqualPriceTieBreak(t *testing.T) {
	sel := NewSelector()
	date := testDate()

	demand := []entities.NetDemandRow{testNetDemandRow(1, 1, 10)}
	suppliers := []*entities.Supplier{testSupplier(7, "SUP-007"), testSupplier(3, "SUP-003")}
	offers := []*entities.SupplierOffer{
		testOffer(7, 1, "5.00", 1, 1, 2),
		testOffer(3, 1, "5.00", 1, 1, 9),
	}

	lines, _ := sel.Select(demand, offers, suppliers, date)

	if len(lines) != 1 {
		t.Fatalf("Expected 1 order line, got %d", len(lines))
	}
	// Equal unit price: lowest supplier id wins
	if lines[0].SupplierID != 3 {
		t.Errorf("Expected supplier 3 on price tie, got %d", lines[0].SupplierID)
	}
}

func TestSelector_SkipsZeroNetDemand(t *testing.T) {
	sel := NewSelector()
	date := testDate()

	demand := []entities.NetDemandRow{
		testNetDemandRow(1, 1, 0),
		testNetDemandRow(1, 2, 8),
	}
	suppliers := []*entities.Supplier{testSupplier(1, "SUP-001")}
	offers := []*entities.SupplierOffer{testOffer(1, 1, "2.00", 1, 1, 1)}

	lines, stats := sel.Select(demand, offers, suppliers, date)

	if len(lines) != 1 {
		t.Fatalf("Expected only the positive-demand row, got %d lines", len(lines))
	}
	if lines[0].WarehouseID != 2 {
		t.Errorf("Expected warehouse 2, got %d", lines[0].WarehouseID)
	}
	if stats.UnsuppliedDemand != 0 {
		t.Errorf("Zero-demand rows must not count as unsupplied, got %d", stats.UnsuppliedDemand)
	}
}

func TestSelector_CountsUnsuppliedDemand(t *testing.T) {
	sel := NewSelector()
	date := testDate()

	demand := []entities.NetDemandRow{testNetDemandRow(2, 1, 12)}

	lines, stats := sel.Select(demand, nil, nil, date)

	if len(lines) != 0 {
		t.Errorf("Expected no order lines, got %d", len(lines))
	}
	if stats.UnsuppliedDemand != 1 {
		t.Errorf("Expected unsupplied demand count 1, got %d", stats.UnsuppliedDemand)
	}
}

func TestSelector_ExcludesInactiveAndInvalidOffers(t *testing.T) {
	sel := NewSelector()
	date := testDate()

	inactiveSupplier := testSupplier(4, "SUP-004")
	inactiveSupplier.IsActive = false

	inactiveOffer := testOffer(1, 1, "1.00", 1, 1, 1)
	inactiveOffer.IsActive = false

	invalidOffer := testOffer(2, 1, "2.00", 0, 1, 1) // pack size 0

	demand := []entities.NetDemandRow{testNetDemandRow(1, 1, 10)}
	suppliers := []*entities.Supplier{
		testSupplier(1, "SUP-001"),
		testSupplier(2, "SUP-002"),
		testSupplier(3, "SUP-003"),
		inactiveSupplier,
	}
	offers := []*entities.SupplierOffer{
		inactiveOffer,
		invalidOffer,
		testOffer(4, 1, "0.50", 1, 1, 1), // inactive supplier
		testOffer(3, 1, "3.00", 1, 1, 1),
	}

	lines, stats := sel.Select(demand, offers, suppliers, date)

	if len(lines) != 1 {
		t.Fatalf("Expected 1 order line, got %d", len(lines))
	}
	if lines[0].SupplierID != 3 {
		t.Errorf("Expected supplier 3 (only eligible offer), got %d", lines[0].SupplierID)
	}
	if stats.InvalidOffers != 1 {
		t.Errorf("Expected 1 invalid offer, got %d", stats.InvalidOffers)
	}
}

func TestSelector_MinOrderQtyFloor(t *testing.T) {
	sel := NewSelector()
	date := testDate()

	demand := []entities.NetDemandRow{testNetDemandRow(1, 1, 3)}
	suppliers := []*entities.Supplier{testSupplier(1, "SUP-001")}
	offers := []*entities.SupplierOffer{testOffer(1, 1, "4.00", 5, 20, 1)}

	lines, _ := sel.Select(demand, offers, suppliers, date)

	// ceil(3/5)*5 = 5, floored at the minimum order quantity of 20
	if lines[0].OrderQuantity != 20 {
		t.Errorf("Expected order quantity 20, got %d", lines[0].OrderQuantity)
	}
	if !lines[0].TotalCost.Equal(decimal.RequireFromString("80.00")) {
		t.Errorf("Expected total cost 80.00, got %s", lines[0].TotalCost)
	}
}

func TestSelector_ExpectedDeliveryDate(t *testing.T) {
	sel := NewSelector()
	date := testDate()

	demand := []entities.NetDemandRow{testNetDemandRow(1, 1, 10)}
	suppliers := []*entities.Supplier{testSupplier(1, "SUP-001")}
	offers := []*entities.SupplierOffer{testOffer(1, 1, "2.00", 1, 1, 4)}

	lines, _ := sel.Select(demand, offers, suppliers, date)

	want := date.AddDate(0, 0, 4)
	if !lines[0].ExpectedDeliveryDate.Equal(want) {
		t.Errorf("Expected delivery date %v, got %v", want, lines[0].ExpectedDeliveryDate)
	}
}

func TestSelector_SortsByTotalCostDescending(t *testing.T) {
	sel := NewSelector()
	date := testDate()

	demand := []entities.NetDemandRow{
		testNetDemandRow(1, 1, 10), // 10 * 2.00 = 20.00
		testNetDemandRow(2, 1, 10), // 10 * 9.00 = 90.00
		testNetDemandRow(3, 1, 5),  // 5 * 4.00 = 20.00
	}
	suppliers := []*entities.Supplier{testSupplier(1, "SUP-001")}
	offers := []*entities.SupplierOffer{
		testOffer(1, 1, "2.00", 1, 1, 1),
		testOffer(1, 2, "9.00", 1, 1, 1),
		testOffer(1, 3, "4.00", 1, 1, 1),
	}

	lines, _ := sel.Select(demand, offers, suppliers, date)

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0].SKUID != 2 {
		t.Errorf("Expected highest cost first, got sku %d", lines[0].SKUID)
	}
	// Equal cost 20.00: sku ascending
	if lines[1].SKUID != 1 || lines[2].SKUID != 3 {
		t.Errorf("Expected cost tie broken by sku ascending, got %d then %d", lines[1].SKUID, lines[2].SKUID)
	}
}
