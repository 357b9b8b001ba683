package filestore

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/retailops/procurement/pkg/domain/entities"
	"github.com/retailops/procurement/pkg/planning"
)

const (
	runDateLayout = "02-01-2006"
	isoDateLayout = "2006-01-02"
)

// Store is a date-partitioned file store for the pipeline's raw, processed
// and output datasets. The layout mirrors the lake the external transport
// reads from: raw/, processed/, output/ and logs/ trees partitioned by run
// date, with writes overwriting the partition so repeated runs for the same
// date are idempotent.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// RunDateKey returns the partition key used for a run date
func RunDateKey(runDate time.Time) string {
	return runDate.Format(runDateLayout)
}

// StageOrders copies the raw orders CSV into the lake's raw partition
func (s *Store) StageOrders(runDate time.Time, sourceFile string) (string, error) {
	dest := filepath.Join(s.baseDir, "raw", "orders", RunDateKey(runDate), "orders.csv")
	if err := copyFile(sourceFile, dest); err != nil {
		return "", fmt.Errorf("failed to stage orders: %w", err)
	}
	return dest, nil
}

// StageStock writes the converted stock feed as CSV into the raw partition
func (s *Store) StageStock(runDate time.Time, entries []*entities.StockEntry) (string, error) {
	dest := filepath.Join(s.baseDir, "raw", "stock", RunDateKey(runDate), "stock.csv")

	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			strconv.FormatInt(int64(e.WarehouseID), 10),
			strconv.FormatInt(int64(e.SKUID), 10),
			strconv.FormatInt(int64(e.CurrentStock), 10),
		})
	}

	if err := writeCSV(dest, []string{"warehouse_id", "sku_id", "current_stock"}, records); err != nil {
		return "", fmt.Errorf("failed to stage stock: %w", err)
	}
	return dest, nil
}

type aggregatedRecord struct {
	SKUID         int64  `json:"sku_id"`
	SKUCode       string `json:"sku_code"`
	ProductName   string `json:"product_name"`
	Category      string `json:"category"`
	WarehouseID   int64  `json:"warehouse_id"`
	WarehouseCode string `json:"warehouse_code"`
	WarehouseName string `json:"warehouse_name"`
	City          string `json:"city"`
	TotalQuantity int64  `json:"total_quantity"`
	OrderCount    int    `json:"order_count"`
	OrderDate     string `json:"order_date"`
}

// WriteAggregatedDemand writes the aggregated-demand dataset (JSON and CSV)
// into the processed partition
func (s *Store) WriteAggregatedDemand(runDate time.Time, rows []entities.AggregatedDemand) error {
	records := make([]aggregatedRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, aggregatedRecord{
			SKUID:         int64(r.SKUID),
			SKUCode:       r.SKUCode,
			ProductName:   r.ProductName,
			Category:      r.Category,
			WarehouseID:   int64(r.WarehouseID),
			WarehouseCode: r.WarehouseCode,
			WarehouseName: r.WarehouseName,
			City:          r.City,
			TotalQuantity: int64(r.TotalQuantity),
			OrderCount:    r.OrderCount,
			OrderDate:     r.LatestOrderDate.Format(isoDateLayout),
		})
	}

	dir := filepath.Join(s.baseDir, "processed", "aggregated_orders", RunDateKey(runDate))
	if err := writeJSON(filepath.Join(dir, "aggregated_orders.json"), records); err != nil {
		return err
	}

	header := []string{"sku_id", "sku_code", "product_name", "category", "warehouse_id", "warehouse_code", "warehouse_name", "city", "total_quantity", "order_count", "order_date"}
	csvRecords := make([][]string, 0, len(records))
	for _, r := range records {
		csvRecords = append(csvRecords, []string{
			strconv.FormatInt(r.SKUID, 10), r.SKUCode, r.ProductName, r.Category,
			strconv.FormatInt(r.WarehouseID, 10), r.WarehouseCode, r.WarehouseName, r.City,
			strconv.FormatInt(r.TotalQuantity, 10), strconv.Itoa(r.OrderCount), r.OrderDate,
		})
	}
	return writeCSV(filepath.Join(dir, "aggregated_orders.csv"), header, csvRecords)
}

type netDemandRecord struct {
	SKUID            int64  `json:"sku_id"`
	SKUCode          string `json:"sku_code"`
	ProductName      string `json:"product_name"`
	Category         string `json:"category"`
	WarehouseID      int64  `json:"warehouse_id"`
	WarehouseCode    string `json:"warehouse_code"`
	WarehouseName    string `json:"warehouse_name"`
	City             string `json:"city"`
	AggregatedOrders int64  `json:"aggregated_orders"`
	SafetyStock      int64  `json:"safety_stock"`
	AvailableStock   int64  `json:"available_stock"`
	ReservedStock    int64  `json:"reserved_stock"`
	EffectiveStock   int64  `json:"effective_stock"`
	NetDemand        int64  `json:"net_demand"`
	CalculationDate  string `json:"calculation_date"`
}

// WriteNetDemand writes the net-demand dataset (JSON and CSV) into the
// processed partition
func (s *Store) WriteNetDemand(runDate time.Time, rows []entities.NetDemandRow) error {
	records := make([]netDemandRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, netDemandRecord{
			SKUID:            int64(r.SKUID),
			SKUCode:          r.SKUCode,
			ProductName:      r.ProductName,
			Category:         r.Category,
			WarehouseID:      int64(r.WarehouseID),
			WarehouseCode:    r.WarehouseCode,
			WarehouseName:    r.WarehouseName,
			City:             r.City,
			AggregatedOrders: int64(r.TotalQuantity),
			SafetyStock:      int64(r.SafetyStock),
			AvailableStock:   int64(r.AvailableStock),
			ReservedStock:    int64(r.ReservedStock),
			EffectiveStock:   int64(r.EffectiveStock),
			NetDemand:        int64(r.NetDemand),
			CalculationDate:  r.CalculationDate.Format(runDateLayout),
		})
	}

	dir := filepath.Join(s.baseDir, "processed", "net_demand", RunDateKey(runDate))
	if err := writeJSON(filepath.Join(dir, "net_demand.json"), records); err != nil {
		return err
	}

	header := []string{"sku_id", "sku_code", "product_name", "category", "warehouse_id", "warehouse_code", "warehouse_name", "city", "aggregated_orders", "safety_stock", "available_stock", "reserved_stock", "effective_stock", "net_demand", "calculation_date"}
	csvRecords := make([][]string, 0, len(records))
	for _, r := range records {
		csvRecords = append(csvRecords, []string{
			strconv.FormatInt(r.SKUID, 10), r.SKUCode, r.ProductName, r.Category,
			strconv.FormatInt(r.WarehouseID, 10), r.WarehouseCode, r.WarehouseName, r.City,
			strconv.FormatInt(r.AggregatedOrders, 10), strconv.FormatInt(r.SafetyStock, 10),
			strconv.FormatInt(r.AvailableStock, 10), strconv.FormatInt(r.ReservedStock, 10),
			strconv.FormatInt(r.EffectiveStock, 10), strconv.FormatInt(r.NetDemand, 10),
			r.CalculationDate,
		})
	}
	return writeCSV(filepath.Join(dir, "net_demand.csv"), header, csvRecords)
}

type supplierOrderRecord struct {
	OrderID              string `json:"order_id"`
	SKUID                int64  `json:"sku_id"`
	SKUCode              string `json:"sku_code"`
	ProductName          string `json:"product_name"`
	Category             string `json:"category"`
	WarehouseID          int64  `json:"warehouse_id"`
	WarehouseCode        string `json:"warehouse_code"`
	WarehouseName        string `json:"warehouse_name"`
	City                 string `json:"city"`
	SupplierID           int64  `json:"supplier_id"`
	SupplierCode         string `json:"supplier_code"`
	SupplierName         string `json:"supplier_name"`
	NetDemand            int64  `json:"net_demand"`
	PackSize             int64  `json:"pack_size"`
	MinOrderQty          int64  `json:"min_order_qty"`
	UnitPrice            string `json:"unit_price"`
	Currency             string `json:"currency"`
	LeadTimeDays         int    `json:"lead_time_days"`
	OrderQuantity        int64  `json:"order_quantity"`
	TotalCost            string `json:"total_cost"`
	ExpectedDeliveryDate string `json:"expected_delivery_date"`
	OrderDate            string `json:"order_date"`
	Status               string `json:"status"`
}

// WriteSupplierOrders writes the purchase-order dataset (JSON and CSV) into
// the output partition
func (s *Store) WriteSupplierOrders(runDate time.Time, orders []entities.SupplierOrderLine) error {
	records := make([]supplierOrderRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, supplierOrderRecord{
			OrderID:              o.OrderID,
			SKUID:                int64(o.SKUID),
			SKUCode:              o.SKUCode,
			ProductName:          o.ProductName,
			Category:             o.Category,
			WarehouseID:          int64(o.WarehouseID),
			WarehouseCode:        o.WarehouseCode,
			WarehouseName:        o.WarehouseName,
			City:                 o.City,
			SupplierID:           int64(o.SupplierID),
			SupplierCode:         o.SupplierCode,
			SupplierName:         o.SupplierName,
			NetDemand:            int64(o.NetDemand),
			PackSize:             int64(o.PackSize),
			MinOrderQty:          int64(o.MinOrderQty),
			UnitPrice:            o.UnitPrice.String(),
			Currency:             o.Currency,
			LeadTimeDays:         o.LeadTimeDays,
			OrderQuantity:        int64(o.OrderQuantity),
			TotalCost:            o.TotalCost.String(),
			ExpectedDeliveryDate: o.ExpectedDeliveryDate.Format(isoDateLayout),
			OrderDate:            o.OrderDate.Format(isoDateLayout),
			Status:               string(o.Status),
		})
	}

	dir := filepath.Join(s.baseDir, "output", "supplier_orders", RunDateKey(runDate))
	if err := writeJSON(filepath.Join(dir, "supplier_orders.json"), records); err != nil {
		return err
	}

	header := []string{"order_id", "sku_id", "sku_code", "product_name", "category", "warehouse_id", "warehouse_code", "warehouse_name", "city", "supplier_id", "supplier_code", "supplier_name", "net_demand", "pack_size", "min_order_qty", "unit_price", "currency", "lead_time_days", "order_quantity", "total_cost", "expected_delivery_date", "order_date", "status"}
	csvRecords := make([][]string, 0, len(records))
	for _, r := range records {
		csvRecords = append(csvRecords, []string{
			r.OrderID,
			strconv.FormatInt(r.SKUID, 10), r.SKUCode, r.ProductName, r.Category,
			strconv.FormatInt(r.WarehouseID, 10), r.WarehouseCode, r.WarehouseName, r.City,
			strconv.FormatInt(r.SupplierID, 10), r.SupplierCode, r.SupplierName,
			strconv.FormatInt(r.NetDemand, 10), strconv.FormatInt(r.PackSize, 10),
			strconv.FormatInt(r.MinOrderQty, 10), r.UnitPrice, r.Currency,
			strconv.Itoa(r.LeadTimeDays), strconv.FormatInt(r.OrderQuantity, 10),
			r.TotalCost, r.ExpectedDeliveryDate, r.OrderDate, r.Status,
		})
	}
	return writeCSV(filepath.Join(dir, "supplier_orders.csv"), header, csvRecords)
}

type summaryRecord struct {
	RunID           string `json:"run_id"`
	CalculationDate string `json:"calculation_date"`
	GeneratedAt     string `json:"generated_at"`
	Status          string `json:"status"`

	Aggregation struct {
		Combinations        int `json:"combinations"`
		UnmatchedOrderLines int `json:"unmatched_order_lines"`
	} `json:"aggregation"`
	NetDemand struct {
		Combinations    int   `json:"combinations"`
		ItemsWithDemand int   `json:"items_with_demand"`
		TotalQuantity   int64 `json:"total_quantity"`
	} `json:"net_demand"`
	SupplierOrders struct {
		OrdersGenerated  int    `json:"orders_generated"`
		TotalCost        string `json:"total_cost"`
		UnsuppliedDemand int    `json:"unsupplied_demand"`
		InvalidOffers    int    `json:"invalid_offers"`
	} `json:"supplier_orders"`
}

// WriteSummary writes the run summary JSON into the logs partition and
// returns the file path
func (s *Store) WriteSummary(runID string, summary planning.Summary, generatedAt time.Time) (string, error) {
	record := summaryRecord{
		RunID:           runID,
		CalculationDate: summary.CalculationDate.Format(runDateLayout),
		GeneratedAt:     generatedAt.Format("2006-01-02 15:04:05"),
		Status:          "completed",
	}
	record.Aggregation.Combinations = summary.AggregatedCombinations
	record.Aggregation.UnmatchedOrderLines = summary.UnmatchedOrderLines
	record.NetDemand.Combinations = summary.NetDemandCombinations
	record.NetDemand.ItemsWithDemand = summary.ItemsWithDemand
	record.NetDemand.TotalQuantity = int64(summary.TotalNetDemand)
	record.SupplierOrders.OrdersGenerated = summary.OrdersGenerated
	record.SupplierOrders.TotalCost = summary.TotalCost.String()
	record.SupplierOrders.UnsuppliedDemand = summary.UnsuppliedDemand
	record.SupplierOrders.InvalidOffers = summary.InvalidOffers

	path := filepath.Join(s.baseDir, "logs", "summaries",
		fmt.Sprintf("summary_%s.json", summary.CalculationDate.Format(runDateLayout)))
	if err := writeJSON(path, record); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTaskLog writes one task-execution log entry into the logs partition
// and returns the file path
func (s *Store) WriteTaskLog(runDate time.Time, taskName string, payload interface{}) (string, error) {
	timestamp := time.Now().UTC().Format("20060102_150405")
	path := filepath.Join(s.baseDir, "logs", "tasks", RunDateKey(runDate),
		fmt.Sprintf("%s_%s.json", taskName, timestamp))
	if err := writeJSON(path, payload); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	writer.Flush()
	return writer.Error()
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
