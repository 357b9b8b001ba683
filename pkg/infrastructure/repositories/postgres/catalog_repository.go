package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/retailops/procurement/pkg/domain/entities"
	"github.com/retailops/procurement/pkg/domain/repositories"
)

// CatalogRepository reads the reference catalog (products, warehouses,
// suppliers, offers, safety-stock policy) from PostgreSQL.
type CatalogRepository struct {
	db *sqlx.DB
}

// Connect opens a PostgreSQL connection for the catalog
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to catalog database: %w", err)
	}
	return db, nil
}

// NewCatalogRepository creates a catalog repository over an open connection
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

type productRow struct {
	SKUID    int64  `db:"sku_id"`
	SKUCode  string `db:"sku_code"`
	Name     string `db:"name"`
	Category string `db:"category"`
}

type warehouseRow struct {
	WarehouseID   int64  `db:"warehouse_id"`
	WarehouseCode string `db:"warehouse_code"`
	Name          string `db:"name"`
	City          string `db:"city"`
}

type supplierRow struct {
	SupplierID   int64  `db:"supplier_id"`
	SupplierCode string `db:"supplier_code"`
	Name         string `db:"name"`
	IsActive     bool   `db:"is_active"`
}

type offerRow struct {
	SupplierID   int64           `db:"supplier_id"`
	SKUID        int64           `db:"sku_id"`
	PackSize     int64           `db:"pack_size"`
	MinOrderQty  int64           `db:"min_order_qty"`
	LeadTimeDays int             `db:"lead_time_days"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	Currency     string          `db:"currency"`
	IsActive     bool            `db:"is_active"`
}

type safetyStockRow struct {
	SKUID          int64  `db:"sku_id"`
	WarehouseID    *int64 `db:"warehouse_id"`
	SafetyStockQty int64  `db:"safety_stock_qty"`
}

// GetAllProducts returns all products
func (r *CatalogRepository) GetAllProducts(ctx context.Context) ([]*entities.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT sku_id, sku_code, name, category FROM products ORDER BY sku_id`); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	products := make([]*entities.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, &entities.Product{
			SKUID:    entities.SKUID(row.SKUID),
			SKUCode:  row.SKUCode,
			Name:     row.Name,
			Category: row.Category,
		})
	}
	return products, nil
}

// GetAllWarehouses returns all warehouses
func (r *CatalogRepository) GetAllWarehouses(ctx context.Context) ([]*entities.Warehouse, error) {
	var rows []warehouseRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT warehouse_id, warehouse_code, name, city FROM warehouses ORDER BY warehouse_id`); err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}

	warehouses := make([]*entities.Warehouse, 0, len(rows))
	for _, row := range rows {
		warehouses = append(warehouses, &entities.Warehouse{
			WarehouseID:   entities.WarehouseID(row.WarehouseID),
			WarehouseCode: row.WarehouseCode,
			Name:          row.Name,
			City:          row.City,
		})
	}
	return warehouses, nil
}

// GetAllSuppliers returns all suppliers
func (r *CatalogRepository) GetAllSuppliers(ctx context.Context) ([]*entities.Supplier, error) {
	var rows []supplierRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT supplier_id, supplier_code, name, is_active FROM suppliers ORDER BY supplier_id`); err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}

	suppliers := make([]*entities.Supplier, 0, len(rows))
	for _, row := range rows {
		suppliers = append(suppliers, &entities.Supplier{
			SupplierID:   entities.SupplierID(row.SupplierID),
			SupplierCode: row.SupplierCode,
			Name:         row.Name,
			IsActive:     row.IsActive,
		})
	}
	return suppliers, nil
}

// GetAllSupplierOffers returns all supplier offers
func (r *CatalogRepository) GetAllSupplierOffers(ctx context.Context) ([]*entities.SupplierOffer, error) {
	var rows []offerRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT supplier_id, sku_id, pack_size, min_order_qty, lead_time_days, unit_price, currency, is_active
		 FROM supplier_products ORDER BY supplier_id, sku_id`); err != nil {
		return nil, fmt.Errorf("failed to query supplier offers: %w", err)
	}

	offers := make([]*entities.SupplierOffer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, &entities.SupplierOffer{
			SupplierID:   entities.SupplierID(row.SupplierID),
			SKUID:        entities.SKUID(row.SKUID),
			PackSize:     entities.Quantity(row.PackSize),
			MinOrderQty:  entities.Quantity(row.MinOrderQty),
			LeadTimeDays: row.LeadTimeDays,
			UnitPrice:    row.UnitPrice,
			Currency:     row.Currency,
			IsActive:     row.IsActive,
		})
	}
	return offers, nil
}

// GetSafetyStockPolicies returns global and per-warehouse safety-stock
// policies in one set. Global entries carry a NULL warehouse_id.
func (r *CatalogRepository) GetSafetyStockPolicies(ctx context.Context) ([]*entities.SafetyStockPolicy, error) {
	var rows []safetyStockRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT sku_id, NULL::bigint AS warehouse_id, safety_stock_qty FROM safety_stock
		 UNION ALL
		 SELECT sku_id, warehouse_id, safety_stock_qty FROM safety_stock_by_warehouse
		 ORDER BY sku_id`); err != nil {
		return nil, fmt.Errorf("failed to query safety-stock policies: %w", err)
	}

	policies := make([]*entities.SafetyStockPolicy, 0, len(rows))
	for _, row := range rows {
		policy := &entities.SafetyStockPolicy{
			SKUID:          entities.SKUID(row.SKUID),
			SafetyStockQty: entities.Quantity(row.SafetyStockQty),
		}
		if row.WarehouseID != nil {
			wh := entities.WarehouseID(*row.WarehouseID)
			policy.WarehouseID = &wh
		}
		policies = append(policies, policy)
	}
	return policies, nil
}
