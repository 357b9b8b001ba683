package planning

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/procurement/pkg/domain/entities"
)

// In-package stub repositories and fixture builders shared by the planning
// tests. The application-level tests use the real in-memory repositories
// instead.

type stubCatalog struct {
	products   []*entities.Product
	warehouses []*entities.Warehouse
	suppliers  []*entities.Supplier
	offers     []*entities.SupplierOffer
	policies   []*entities.SafetyStockPolicy
	err        error
}

func (c *stubCatalog) GetAllProducts(ctx context.Context) ([]*entities.Product, error) {
	return c.products, c.err
}

func (c *stubCatalog) GetAllWarehouses(ctx context.Context) ([]*entities.Warehouse, error) {
	return c.warehouses, c.err
}

func (c *stubCatalog) GetAllSuppliers(ctx context.Context) ([]*entities.Supplier, error) {
	return c.suppliers, c.err
}

func (c *stubCatalog) GetAllSupplierOffers(ctx context.Context) ([]*entities.SupplierOffer, error) {
	return c.offers, c.err
}

func (c *stubCatalog) GetSafetyStockPolicies(ctx context.Context) ([]*entities.SafetyStockPolicy, error) {
	return c.policies, c.err
}

type stubSnapshots struct {
	snapshots []*entities.InventorySnapshot
	err       error
}

func (s *stubSnapshots) SaveSnapshots(ctx context.Context, snapshots []*entities.InventorySnapshot) error {
	s.snapshots = append(s.snapshots, snapshots...)
	return s.err
}

func (s *stubSnapshots) GetSnapshotsForDate(ctx context.Context, date time.Time) ([]*entities.InventorySnapshot, error) {
	return s.snapshots, s.err
}

func testDate() time.Time {
	return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
}

func testProduct(skuID entities.SKUID, code string) *entities.Product {
	return &entities.Product{
		SKUID:    skuID,
		SKUCode:  code,
		Name:     "Product " + code,
		Category: "GENERAL",
	}
}

func testWarehouse(warehouseID entities.WarehouseID, code string) *entities.Warehouse {
	return &entities.Warehouse{
		WarehouseID:   warehouseID,
		WarehouseCode: code,
		Name:          "Warehouse " + code,
		City:          "Casablanca",
	}
}

func testSupplier(supplierID entities.SupplierID, code string) *entities.Supplier {
	return &entities.Supplier{
		SupplierID:   supplierID,
		SupplierCode: code,
		Name:         "Supplier " + code,
		IsActive:     true,
	}
}

func testOffer(supplierID entities.SupplierID, skuID entities.SKUID, price string, packSize, minOrderQty entities.Quantity, leadTimeDays int) *entities.SupplierOffer {
	return &entities.SupplierOffer{
		SupplierID:   supplierID,
		SKUID:        skuID,
		PackSize:     packSize,
		MinOrderQty:  minOrderQty,
		LeadTimeDays: leadTimeDays,
		UnitPrice:    decimal.RequireFromString(price),
		Currency:     "MAD",
		IsActive:     true,
	}
}

func testOrderLine(orderID string, skuID entities.SKUID, warehouseID entities.WarehouseID, qty entities.Quantity, orderDate time.Time) *entities.OrderLine {
	return &entities.OrderLine{
		OrderID:     orderID,
		SupplierID:  1,
		SKUID:       skuID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		OrderDate:   orderDate,
	}
}
