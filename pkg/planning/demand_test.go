package planning

import (
	"testing"

	"github.com/retailops/procurement/pkg/domain/entities"
)

func testAggRow(skuID entities.SKUID, skuCode string, warehouseID entities.WarehouseID, warehouseCode string, total entities.Quantity) entities.AggregatedDemand {
	return entities.AggregatedDemand{
		SKUID:         skuID,
		SKUCode:       skuCode,
		WarehouseID:   warehouseID,
		WarehouseCode: warehouseCode,
		TotalQuantity: total,
	}
}

func TestDemandCalculator_NetDemandFormula(t *testing.T) {
	calc := NewDemandCalculator()
	date := testDate()

	// total 50, global safety stock 20, effective stock 30-5=25
	// net = max(0, 50+20-25) = 45
	aggregated := []entities.AggregatedDemand{testAggRow(1, "SKU-0001", 1, "WH-01", 50)}
	global, _ := entities.NewGlobalSafetyStock(1, 20)
	snapshots := []*entities.InventorySnapshot{
		{SKUCode: "SKU-0001", WarehouseCode: "WH-01", SnapshotDate: date, AvailableQty: 30, ReservedQty: 5},
	}

	rows := calc.Calculate(aggregated, []*entities.SafetyStockPolicy{global}, snapshots, date)

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.SafetyStock != 20 {
		t.Errorf("Expected safety stock 20, got %d", row.SafetyStock)
	}
	if row.AvailableStock != 30 || row.ReservedStock != 5 {
		t.Errorf("Expected stock 30/5, got %d/%d", row.AvailableStock, row.ReservedStock)
	}
	if row.EffectiveStock != 25 {
		t.Errorf("Expected effective stock 25, got %d", row.EffectiveStock)
	}
	if row.NetDemand != 45 {
		t.Errorf("Expected net demand 45, got %d", row.NetDemand)
	}
	if !row.CalculationDate.Equal(date) {
		t.Errorf("Expected calculation date %v, got %v", date, row.CalculationDate)
	}
}

func TestDemandCalculator_WarehousePolicyPrecedence(t *testing.T) {
	calc := NewDemandCalculator()
	date := testDate()

	aggregated := []entities.AggregatedDemand{
		testAggRow(1, "SKU-0001", 1, "WH-01", 10),
		testAggRow(1, "SKU-0001", 2, "WH-02", 10),
	}
	global, _ := entities.NewGlobalSafetyStock(1, 5)
	perWH, _ := entities.NewWarehouseSafetyStock(1, 1, 50)

	rows := calc.Calculate(aggregated, []*entities.SafetyStockPolicy{global, perWH}, nil, date)

	byWarehouse := map[entities.WarehouseID]entities.Quantity{}
	for _, row := range rows {
		byWarehouse[row.WarehouseID] = row.SafetyStock
	}
	if byWarehouse[1] != 50 {
		t.Errorf("Expected per-warehouse policy 50 for wh 1, got %d", byWarehouse[1])
	}
	if byWarehouse[2] != 5 {
		t.Errorf("Expected global fallback 5 for wh 2, got %d", byWarehouse[2])
	}
}

func TestDemandCalculator_MissingDataDefaultsToZero(t *testing.T) {
	calc := NewDemandCalculator()
	date := testDate()

	// No policy, no snapshot: left-join semantics keep the row with zeros.
	aggregated := []entities.AggregatedDemand{testAggRow(3, "SKU-0003", 1, "WH-01", 12)}

	rows := calc.Calculate(aggregated, nil, nil, date)

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.SafetyStock != 0 || row.AvailableStock != 0 || row.ReservedStock != 0 {
		t.Errorf("Expected zero defaults, got safety=%d available=%d reserved=%d",
			row.SafetyStock, row.AvailableStock, row.ReservedStock)
	}
	if row.NetDemand != 12 {
		t.Errorf("Expected net demand 12, got %d", row.NetDemand)
	}
}

func TestDemandCalculator_FloorsAtZero(t *testing.T) {
	calc := NewDemandCalculator()
	date := testDate()

	aggregated := []entities.AggregatedDemand{testAggRow(1, "SKU-0001", 1, "WH-01", 10)}
	snapshots := []*entities.InventorySnapshot{
		{SKUCode: "SKU-0001", WarehouseCode: "WH-01", SnapshotDate: date, AvailableQty: 100, ReservedQty: 0},
	}

	rows := calc.Calculate(aggregated, nil, snapshots, date)

	if rows[0].NetDemand != 0 {
		t.Errorf("Expected net demand floored at 0, got %d", rows[0].NetDemand)
	}
	if rows[0].EffectiveStock != 100 {
		t.Errorf("Expected effective stock 100, got %d", rows[0].EffectiveStock)
	}
}

func TestDemandCalculator_NegativeEffectiveStockRaisesDemand(t *testing.T) {
	calc := NewDemandCalculator()
	date := testDate()

	// reserved exceeds available: effective stock is negative and adds to
	// the purchase need
	aggregated := []entities.AggregatedDemand{testAggRow(1, "SKU-0001", 1, "WH-01", 10)}
	snapshots := []*entities.InventorySnapshot{
		{SKUCode: "SKU-0001", WarehouseCode: "WH-01", SnapshotDate: date, AvailableQty: 5, ReservedQty: 12},
	}

	rows := calc.Calculate(aggregated, nil, snapshots, date)

	if rows[0].EffectiveStock != -7 {
		t.Errorf("Expected effective stock -7, got %d", rows[0].EffectiveStock)
	}
	if rows[0].NetDemand != 17 {
		t.Errorf("Expected net demand 17, got %d", rows[0].NetDemand)
	}
}

func TestDemandCalculator_IgnoresSnapshotsForOtherDates(t *testing.T) {
	calc := NewDemandCalculator()
	date := testDate()

	aggregated := []entities.AggregatedDemand{testAggRow(1, "SKU-0001", 1, "WH-01", 10)}
	snapshots := []*entities.InventorySnapshot{
		{SKUCode: "SKU-0001", WarehouseCode: "WH-01", SnapshotDate: date.AddDate(0, 0, -1), AvailableQty: 100, ReservedQty: 0},
	}

	rows := calc.Calculate(aggregated, nil, snapshots, date)

	if rows[0].AvailableStock != 0 {
		t.Errorf("Expected stale snapshot to be ignored, got available %d", rows[0].AvailableStock)
	}
	if rows[0].NetDemand != 10 {
		t.Errorf("Expected net demand 10, got %d", rows[0].NetDemand)
	}
}

func TestDemandCalculator_SortOrder(t *testing.T) {
	calc := NewDemandCalculator()
	date := testDate()

	aggregated := []entities.AggregatedDemand{
		testAggRow(1, "SKU-0001", 1, "WH-01", 5),
		testAggRow(2, "SKU-0002", 1, "WH-01", 80),
		testAggRow(3, "SKU-0003", 1, "WH-01", 5),
	}

	rows := calc.Calculate(aggregated, nil, nil, date)

	if rows[0].SKUID != 2 {
		t.Errorf("Expected highest net demand first, got sku %d", rows[0].SKUID)
	}
	// Equal net demand: sku ascending
	if rows[1].SKUID != 1 || rows[2].SKUID != 3 {
		t.Errorf("Expected tie-break by sku ascending, got %d then %d", rows[1].SKUID, rows[2].SKUID)
	}
}
