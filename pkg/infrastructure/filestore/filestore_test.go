package filestore

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/procurement/pkg/domain/entities"
	"github.com/retailops/procurement/pkg/planning"
)

func testRunDate() time.Time {
	return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
}

func TestRunDateKey(t *testing.T) {
	assert.Equal(t, "14-03-2026", RunDateKey(testRunDate()))
}

func TestStore_StageOrders(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(t.TempDir(), "orders.csv")
	content := "order_id,supplier_id,sku_id,quantity,warehouse_id,order_date\nORD-1,2,1,50,1,2026-03-14\n"
	require.NoError(t, os.WriteFile(source, []byte(content), 0o644))

	store := NewStore(base)
	dest, err := store.StageOrders(testRunDate(), source)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "raw", "orders", "14-03-2026", "orders.csv"), dest)

	staged, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(staged))
}

func TestStore_StageStock(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)

	dest, err := store.StageStock(testRunDate(), []*entities.StockEntry{
		{WarehouseID: 1, SKUID: 1, CurrentStock: 120},
		{WarehouseID: 2, SKUID: 3, CurrentStock: 0},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, dest)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"warehouse_id", "sku_id", "current_stock"}, rows[0])
	assert.Equal(t, []string{"1", "1", "120"}, rows[1])
	assert.Equal(t, []string{"2", "3", "0"}, rows[2])
}

func TestStore_WriteAggregatedDemand(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)

	require.NoError(t, store.WriteAggregatedDemand(testRunDate(), []entities.AggregatedDemand{
		{
			SKUID: 1, SKUCode: "SKU-0001", ProductName: "Copy Paper A4", Category: "Office Supplies",
			WarehouseID: 1, WarehouseCode: "WH-01", WarehouseName: "Central", City: "Casablanca",
			TotalQuantity: 50, OrderCount: 2,
			LatestOrderDate: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		},
	}))

	dir := filepath.Join(base, "processed", "aggregated_orders", "14-03-2026")

	var records []map[string]interface{}
	readJSONFile(t, filepath.Join(dir, "aggregated_orders.json"), &records)
	require.Len(t, records, 1)
	assert.Equal(t, "SKU-0001", records[0]["sku_code"])
	assert.Equal(t, float64(50), records[0]["total_quantity"])
	assert.Equal(t, "2026-03-13", records[0]["order_date"])

	rows := readCSVFile(t, filepath.Join(dir, "aggregated_orders.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "total_quantity", rows[0][8])
	assert.Equal(t, "50", rows[1][8])
}

func TestStore_WriteNetDemand(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)

	row := entities.NetDemandRow{
		AggregatedDemand: entities.AggregatedDemand{
			SKUID: 1, SKUCode: "SKU-0001", ProductName: "Copy Paper A4", Category: "Office Supplies",
			WarehouseID: 1, WarehouseCode: "WH-01", WarehouseName: "Central", City: "Casablanca",
			TotalQuantity: 50, OrderCount: 2,
		},
		SafetyStock:     20,
		AvailableStock:  30,
		ReservedStock:   5,
		EffectiveStock:  25,
		NetDemand:       45,
		CalculationDate: testRunDate(),
	}
	require.NoError(t, store.WriteNetDemand(testRunDate(), []entities.NetDemandRow{row}))

	dir := filepath.Join(base, "processed", "net_demand", "14-03-2026")

	var records []map[string]interface{}
	readJSONFile(t, filepath.Join(dir, "net_demand.json"), &records)
	require.Len(t, records, 1)
	assert.Equal(t, float64(50), records[0]["aggregated_orders"])
	assert.Equal(t, float64(45), records[0]["net_demand"])
	assert.Equal(t, "14-03-2026", records[0]["calculation_date"])
}

func TestStore_WriteSupplierOrders(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)

	order := entities.SupplierOrderLine{
		OrderID: "PO-20260314-00001",
		SKUID:   1, SKUCode: "SKU-0001", ProductName: "Copy Paper A4", Category: "Office Supplies",
		WarehouseID: 1, WarehouseCode: "WH-01", WarehouseName: "Central", City: "Casablanca",
		SupplierID: 2, SupplierCode: "SUP-002", SupplierName: "Atlas Trading",
		NetDemand: 45, PackSize: 10, MinOrderQty: 20,
		UnitPrice: decimal.RequireFromString("9.50"), Currency: "MAD", LeadTimeDays: 3,
		OrderQuantity:        50,
		TotalCost:            decimal.RequireFromString("475.00"),
		ExpectedDeliveryDate: time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		OrderDate:            testRunDate(),
		Status:               entities.StatusPending,
	}
	require.NoError(t, store.WriteSupplierOrders(testRunDate(), []entities.SupplierOrderLine{order}))

	dir := filepath.Join(base, "output", "supplier_orders", "14-03-2026")

	var records []map[string]interface{}
	readJSONFile(t, filepath.Join(dir, "supplier_orders.json"), &records)
	require.Len(t, records, 1)
	assert.Equal(t, "PO-20260314-00001", records[0]["order_id"])
	assert.Equal(t, "9.5", records[0]["unit_price"])
	assert.Equal(t, "475", records[0]["total_cost"])
	assert.Equal(t, "2026-03-17", records[0]["expected_delivery_date"])
	assert.Equal(t, "2026-03-14", records[0]["order_date"])
	assert.Equal(t, "PENDING", records[0]["status"])

	rows := readCSVFile(t, filepath.Join(dir, "supplier_orders.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "PO-20260314-00001", rows[1][0])
}

func TestStore_WriteSummary(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)

	summary := planning.Summary{
		CalculationDate:        testRunDate(),
		OrderLinesProcessed:    4,
		AggregatedCombinations: 3,
		NetDemandCombinations:  3,
		ItemsWithDemand:        2,
		TotalNetDemand:         57,
		OrdersGenerated:        1,
		TotalCost:              decimal.RequireFromString("475.00"),
		UnmatchedOrderLines:    1,
		UnsuppliedDemand:       1,
	}

	path, err := store.WriteSummary("4a1f6b0e", summary, time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "logs", "summaries", "summary_14-03-2026.json"), path)

	var record map[string]interface{}
	readJSONFile(t, path, &record)
	assert.Equal(t, "4a1f6b0e", record["run_id"])
	assert.Equal(t, "14-03-2026", record["calculation_date"])
	assert.Equal(t, "completed", record["status"])

	netDemand := record["net_demand"].(map[string]interface{})
	assert.Equal(t, float64(57), netDemand["total_quantity"])
	supplierOrders := record["supplier_orders"].(map[string]interface{})
	assert.Equal(t, "475", supplierOrders["total_cost"])
}

func TestStore_WriteTaskLog(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)

	path, err := store.WriteTaskLog(testRunDate(), "aggregate_orders", map[string]interface{}{
		"status": "success",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "logs", "tasks", "14-03-2026"), filepath.Dir(path))

	var record map[string]interface{}
	readJSONFile(t, path, &record)
	assert.Equal(t, "success", record["status"])
}

func TestStore_OverwritesExistingPartition(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)

	first := []entities.AggregatedDemand{{SKUID: 1, SKUCode: "SKU-0001", TotalQuantity: 50, OrderCount: 1}}
	second := []entities.AggregatedDemand{{SKUID: 2, SKUCode: "SKU-0002", TotalQuantity: 12, OrderCount: 1}}

	require.NoError(t, store.WriteAggregatedDemand(testRunDate(), first))
	require.NoError(t, store.WriteAggregatedDemand(testRunDate(), second))

	var records []map[string]interface{}
	readJSONFile(t, filepath.Join(base, "processed", "aggregated_orders", "14-03-2026", "aggregated_orders.json"), &records)
	require.Len(t, records, 1)
	assert.Equal(t, "SKU-0002", records[0]["sku_code"])
}

func readJSONFile(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}
