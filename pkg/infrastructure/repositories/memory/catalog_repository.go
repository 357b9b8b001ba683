package memory

import (
	"context"

	"github.com/retailops/procurement/pkg/domain/entities"
	"github.com/retailops/procurement/pkg/domain/repositories"
)

// CatalogRepository provides in-memory reference-catalog storage
type CatalogRepository struct {
	products   []entities.Product
	warehouses []entities.Warehouse
	suppliers  []entities.Supplier
	offers     []entities.SupplierOffer
	policies   []entities.SafetyStockPolicy
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// LoadProducts loads products into the repository
func (r *CatalogRepository) LoadProducts(products []*entities.Product) {
	for _, p := range products {
		r.products = append(r.products, *p)
	}
}

// LoadWarehouses loads warehouses into the repository
func (r *CatalogRepository) LoadWarehouses(warehouses []*entities.Warehouse) {
	for _, w := range warehouses {
		r.warehouses = append(r.warehouses, *w)
	}
}

// LoadSuppliers loads suppliers into the repository
func (r *CatalogRepository) LoadSuppliers(suppliers []*entities.Supplier) {
	for _, s := range suppliers {
		r.suppliers = append(r.suppliers, *s)
	}
}

// LoadSupplierOffers loads supplier offers into the repository
func (r *CatalogRepository) LoadSupplierOffers(offers []*entities.SupplierOffer) {
	for _, o := range offers {
		r.offers = append(r.offers, *o)
	}
}

// LoadSafetyStockPolicies loads safety-stock policies into the repository
func (r *CatalogRepository) LoadSafetyStockPolicies(policies []*entities.SafetyStockPolicy) {
	for _, p := range policies {
		r.policies = append(r.policies, *p)
	}
}

// GetAllProducts returns all products
func (r *CatalogRepository) GetAllProducts(ctx context.Context) ([]*entities.Product, error) {
	products := make([]*entities.Product, 0, len(r.products))
	for i := range r.products {
		products = append(products, &r.products[i])
	}
	return products, nil
}

// GetAllWarehouses returns all warehouses
func (r *CatalogRepository) GetAllWarehouses(ctx context.Context) ([]*entities.Warehouse, error) {
	warehouses := make([]*entities.Warehouse, 0, len(r.warehouses))
	for i := range r.warehouses {
		warehouses = append(warehouses, &r.warehouses[i])
	}
	return warehouses, nil
}

// GetAllSuppliers returns all suppliers
func (r *CatalogRepository) GetAllSuppliers(ctx context.Context) ([]*entities.Supplier, error) {
	suppliers := make([]*entities.Supplier, 0, len(r.suppliers))
	for i := range r.suppliers {
		suppliers = append(suppliers, &r.suppliers[i])
	}
	return suppliers, nil
}

// GetAllSupplierOffers returns all supplier offers
func (r *CatalogRepository) GetAllSupplierOffers(ctx context.Context) ([]*entities.SupplierOffer, error) {
	offers := make([]*entities.SupplierOffer, 0, len(r.offers))
	for i := range r.offers {
		offers = append(offers, &r.offers[i])
	}
	return offers, nil
}

// GetSafetyStockPolicies returns all safety-stock policies, global and
// per-warehouse combined
func (r *CatalogRepository) GetSafetyStockPolicies(ctx context.Context) ([]*entities.SafetyStockPolicy, error) {
	policies := make([]*entities.SafetyStockPolicy, 0, len(r.policies))
	for i := range r.policies {
		policies = append(policies, &r.policies[i])
	}
	return policies, nil
}
