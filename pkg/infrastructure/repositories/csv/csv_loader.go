package csv

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/procurement/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// ErrTooManyMalformedRows is returned when the fraction of rejected rows in
// a raw feed exceeds the configured threshold and the whole batch fails.
var ErrTooManyMalformedRows = errors.New("too many malformed rows in input")

// LoadStats reports the outcome of parsing one raw feed.
type LoadStats struct {
	TotalRows int
	Malformed int
}

// Loader handles loading procurement data from CSV and JSON files. Raw
// feeds (orders, stock, snapshots) tolerate malformed rows up to
// MalformedThreshold (a fraction of total rows); reference CSVs are parsed
// strictly.
type Loader struct {
	MalformedThreshold float64
}

// NewLoader creates a loader with the given malformed-row threshold
func NewLoader(malformedThreshold float64) *Loader {
	return &Loader{MalformedThreshold: malformedThreshold}
}

// LoadOrders loads the raw orders feed. All fields arrive textual; integer
// and date fields are parsed and validated. Rows that fail to parse are
// rejected and counted, never coerced.
func (l *Loader) LoadOrders(filename string) ([]*entities.OrderLine, LoadStats, error) {
	records, err := readCSV(filename, []string{"order_id", "supplier_id", "sku_id", "quantity", "warehouse_id", "order_date"}, true)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("orders feed: %w", err)
	}

	stats := LoadStats{TotalRows: len(records)}
	var orders []*entities.OrderLine

	for _, record := range records {
		line, err := parseOrderLine(record)
		if err != nil {
			stats.Malformed++
			continue
		}
		orders = append(orders, line)
	}

	if err := l.checkThreshold(stats); err != nil {
		return nil, stats, fmt.Errorf("orders feed: %w", err)
	}
	return orders, stats, nil
}

// LoadStockEntries loads the raw stock feed (JSON). The feed is consumed by
// downstream snapshot storage, not by the demand calculation.
func (l *Loader) LoadStockEntries(filename string) ([]*entities.StockEntry, LoadStats, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to open stock file %s: %w", filename, err)
	}

	var raw []struct {
		WarehouseID  json.Number `json:"warehouse_id"`
		SKUID        json.Number `json:"sku_id"`
		CurrentStock json.Number `json:"current_stock"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to parse stock JSON %s: %w", filename, err)
	}

	stats := LoadStats{TotalRows: len(raw)}
	var entries []*entities.StockEntry
	for _, r := range raw {
		warehouseID, err1 := r.WarehouseID.Int64()
		skuID, err2 := r.SKUID.Int64()
		stock, err3 := r.CurrentStock.Int64()
		if err1 != nil || err2 != nil || err3 != nil || stock < 0 {
			stats.Malformed++
			continue
		}
		entries = append(entries, &entities.StockEntry{
			WarehouseID:  entities.WarehouseID(warehouseID),
			SKUID:        entities.SKUID(skuID),
			CurrentStock: entities.Quantity(stock),
		})
	}

	if err := l.checkThreshold(stats); err != nil {
		return nil, stats, fmt.Errorf("stock feed: %w", err)
	}
	return entries, stats, nil
}

// LoadSnapshots loads inventory snapshots from a JSON file.
func (l *Loader) LoadSnapshots(filename string) ([]*entities.InventorySnapshot, LoadStats, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to open snapshots file %s: %w", filename, err)
	}

	var raw []struct {
		SKUCode       string      `json:"sku_code"`
		SnapshotDate  string      `json:"snapshot_date"`
		WarehouseCode string      `json:"warehouse_code"`
		AvailableQty  json.Number `json:"available_qty"`
		ReservedQty   json.Number `json:"reserved_qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to parse snapshots JSON %s: %w", filename, err)
	}

	stats := LoadStats{TotalRows: len(raw)}
	var snapshots []*entities.InventorySnapshot
	for _, r := range raw {
		date, errDate := time.Parse(dateLayout, r.SnapshotDate)
		available, errAvail := r.AvailableQty.Int64()
		reserved, errRes := r.ReservedQty.Int64()
		if errDate != nil || errAvail != nil || errRes != nil {
			stats.Malformed++
			continue
		}
		snap, err := entities.NewInventorySnapshot(r.SKUCode, r.WarehouseCode, date, entities.Quantity(available), entities.Quantity(reserved))
		if err != nil {
			stats.Malformed++
			continue
		}
		snapshots = append(snapshots, snap)
	}

	if err := l.checkThreshold(stats); err != nil {
		return nil, stats, fmt.Errorf("snapshots feed: %w", err)
	}
	return snapshots, stats, nil
}

// LoadProducts loads the product reference CSV
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readCSV(filename, []string{"sku_id", "sku_code", "name", "category"}, false)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}

	var products []*entities.Product
	for i, record := range records {
		skuID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("products row %d: invalid sku_id: %s", i+2, record[0])
		}
		products = append(products, &entities.Product{
			SKUID:    entities.SKUID(skuID),
			SKUCode:  record[1],
			Name:     record[2],
			Category: record[3],
		})
	}
	return products, nil
}

// LoadWarehouses loads the warehouse reference CSV
func (l *Loader) LoadWarehouses(filename string) ([]*entities.Warehouse, error) {
	records, err := readCSV(filename, []string{"warehouse_id", "warehouse_code", "name", "city"}, false)
	if err != nil {
		return nil, fmt.Errorf("warehouses: %w", err)
	}

	var warehouses []*entities.Warehouse
	for i, record := range records {
		warehouseID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("warehouses row %d: invalid warehouse_id: %s", i+2, record[0])
		}
		warehouses = append(warehouses, &entities.Warehouse{
			WarehouseID:   entities.WarehouseID(warehouseID),
			WarehouseCode: record[1],
			Name:          record[2],
			City:          record[3],
		})
	}
	return warehouses, nil
}

// LoadSuppliers loads the supplier reference CSV
func (l *Loader) LoadSuppliers(filename string) ([]*entities.Supplier, error) {
	records, err := readCSV(filename, []string{"supplier_id", "supplier_code", "name", "is_active"}, false)
	if err != nil {
		return nil, fmt.Errorf("suppliers: %w", err)
	}

	var suppliers []*entities.Supplier
	for i, record := range records {
		supplierID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("suppliers row %d: invalid supplier_id: %s", i+2, record[0])
		}
		isActive, err := strconv.ParseBool(record[3])
		if err != nil {
			return nil, fmt.Errorf("suppliers row %d: invalid is_active: %s", i+2, record[3])
		}
		suppliers = append(suppliers, &entities.Supplier{
			SupplierID:   entities.SupplierID(supplierID),
			SupplierCode: record[1],
			Name:         record[2],
			IsActive:     isActive,
		})
	}
	return suppliers, nil
}

// LoadSupplierOffers loads the supplier-product offer reference CSV
func (l *Loader) LoadSupplierOffers(filename string) ([]*entities.SupplierOffer, error) {
	records, err := readCSV(filename, []string{"supplier_id", "sku_id", "pack_size", "min_order_qty", "lead_time_days", "unit_price", "currency", "is_active"}, false)
	if err != nil {
		return nil, fmt.Errorf("supplier offers: %w", err)
	}

	var offers []*entities.SupplierOffer
	for i, record := range records {
		offer, err := parseSupplierOffer(record)
		if err != nil {
			return nil, fmt.Errorf("supplier offers row %d: %w", i+2, err)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// LoadSafetyStock loads global safety-stock policy
// (sku_id, safety_stock_qty) from a CSV file.
func (l *Loader) LoadSafetyStock(filename string) ([]*entities.SafetyStockPolicy, error) {
	records, err := readCSV(filename, []string{"sku_id", "safety_stock_qty"}, false)
	if err != nil {
		return nil, fmt.Errorf("safety stock: %w", err)
	}

	var policies []*entities.SafetyStockPolicy
	for i, record := range records {
		skuID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("safety stock row %d: invalid sku_id: %s", i+2, record[0])
		}
		qty, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("safety stock row %d: invalid safety_stock_qty: %s", i+2, record[1])
		}
		policy, err := entities.NewGlobalSafetyStock(entities.SKUID(skuID), entities.Quantity(qty))
		if err != nil {
			return nil, fmt.Errorf("safety stock row %d: %w", i+2, err)
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

// LoadWarehouseSafetyStock loads per-warehouse safety-stock policy
// (sku_id, warehouse_id, safety_stock_qty) from a CSV file.
func (l *Loader) LoadWarehouseSafetyStock(filename string) ([]*entities.SafetyStockPolicy, error) {
	records, err := readCSV(filename, []string{"sku_id", "warehouse_id", "safety_stock_qty"}, false)
	if err != nil {
		return nil, fmt.Errorf("warehouse safety stock: %w", err)
	}

	var policies []*entities.SafetyStockPolicy
	for i, record := range records {
		skuID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("warehouse safety stock row %d: invalid sku_id: %s", i+2, record[0])
		}
		warehouseID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("warehouse safety stock row %d: invalid warehouse_id: %s", i+2, record[1])
		}
		qty, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("warehouse safety stock row %d: invalid safety_stock_qty: %s", i+2, record[2])
		}
		policy, err := entities.NewWarehouseSafetyStock(entities.SKUID(skuID), entities.WarehouseID(warehouseID), entities.Quantity(qty))
		if err != nil {
			return nil, fmt.Errorf("warehouse safety stock row %d: %w", i+2, err)
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

func (l *Loader) checkThreshold(stats LoadStats) error {
	if stats.TotalRows == 0 || stats.Malformed == 0 {
		return nil
	}
	fraction := float64(stats.Malformed) / float64(stats.TotalRows)
	if fraction > l.MalformedThreshold {
		return fmt.Errorf("%w: %d of %d rows rejected", ErrTooManyMalformedRows, stats.Malformed, stats.TotalRows)
	}
	return nil
}

// Helper functions for reading and parsing records

// readCSV reads a file, validates the header and returns the data rows.
// When allowEmpty is set, a header-only file yields zero rows (an empty
// order day is not an error).
func readCSV(filename string, expectedHeader []string, allowEmpty bool) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty, expected a header row", filename)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", filename, expectedHeader, records[0])
	}
	if len(records) < 2 && !allowEmpty {
		return nil, fmt.Errorf("%s must have at least one data row", filename)
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseOrderLine(record []string) (*entities.OrderLine, error) {
	if len(record) != 6 {
		return nil, fmt.Errorf("expected 6 columns, got %d", len(record))
	}

	supplierID, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier_id: %s", record[1])
	}
	skuID, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid sku_id: %s", record[2])
	}
	quantity, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[3])
	}
	warehouseID, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid warehouse_id: %s", record[4])
	}
	orderDate, err := time.Parse(dateLayout, record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid order_date: %s (expected YYYY-MM-DD)", record[5])
	}

	return entities.NewOrderLine(
		record[0],
		entities.SupplierID(supplierID),
		entities.SKUID(skuID),
		entities.WarehouseID(warehouseID),
		entities.Quantity(quantity),
		orderDate,
	)
}

func parseSupplierOffer(record []string) (*entities.SupplierOffer, error) {
	supplierID, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier_id: %s", record[0])
	}
	skuID, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid sku_id: %s", record[1])
	}
	packSize, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid pack_size: %s", record[2])
	}
	minOrderQty, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid min_order_qty: %s", record[3])
	}
	leadTimeDays, err := strconv.Atoi(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid lead_time_days: %s", record[4])
	}
	unitPrice, err := decimal.NewFromString(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price: %s", record[5])
	}
	isActive, err := strconv.ParseBool(record[7])
	if err != nil {
		return nil, fmt.Errorf("invalid is_active: %s", record[7])
	}

	return &entities.SupplierOffer{
		SupplierID:   entities.SupplierID(supplierID),
		SKUID:        entities.SKUID(skuID),
		PackSize:     entities.Quantity(packSize),
		MinOrderQty:  entities.Quantity(minOrderQty),
		LeadTimeDays: leadTimeDays,
		UnitPrice:    unitPrice,
		Currency:     record[6],
		IsActive:     isActive,
	}, nil
}
