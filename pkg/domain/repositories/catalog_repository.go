package repositories

import (
	"context"

	"github.com/retailops/procurement/pkg/domain/entities"
)

// CatalogRepository provides read-only access to the reference catalog:
// products, warehouses, suppliers, supplier offers and safety-stock policy.
type CatalogRepository interface {
	GetAllProducts(ctx context.Context) ([]*entities.Product, error)
	GetAllWarehouses(ctx context.Context) ([]*entities.Warehouse, error)
	GetAllSuppliers(ctx context.Context) ([]*entities.Supplier, error)
	GetAllSupplierOffers(ctx context.Context) ([]*entities.SupplierOffer, error)

	// GetSafetyStockPolicies returns global and per-warehouse policies in one
	// set; callers resolve precedence per (sku, warehouse).
	GetSafetyStockPolicies(ctx context.Context) ([]*entities.SafetyStockPolicy, error)
}
