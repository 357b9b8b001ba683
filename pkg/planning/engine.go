package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/procurement/pkg/domain/entities"
	"github.com/retailops/procurement/pkg/domain/repositories"
)

// ErrMissingCalculationDate is returned when a run is started without a
// valid calculation date. There is no date context to reconcile demand
// against, so the whole computation aborts.
var ErrMissingCalculationDate = errors.New("calculation date is required")

// Summary aggregates the run-level metrics of one planning computation.
type Summary struct {
	CalculationDate        time.Time
	OrderLinesProcessed    int
	AggregatedCombinations int
	NetDemandCombinations  int
	ItemsWithDemand        int
	TotalNetDemand         entities.Quantity
	OrdersGenerated        int
	TotalCost              decimal.Decimal
	UnmatchedOrderLines    int
	UnsuppliedDemand       int
	InvalidOffers          int
}

// Result contains the complete output of one planning run.
type Result struct {
	AggregatedDemand []entities.AggregatedDemand
	NetDemand        []entities.NetDemandRow
	SupplierOrders   []entities.SupplierOrderLine
	Summary          Summary
}

// Engine runs the demand-aggregation and supplier-order computation for one
// calculation date. It is a single-pass, in-memory batch computation: all
// reference data and the dated snapshot are fetched up front and the full
// output set is produced before returning.
type Engine struct {
	catalog   repositories.CatalogRepository
	snapshots repositories.SnapshotRepository

	aggregator *Aggregator
	calculator *DemandCalculator
	selector   *Selector
	assembler  *Assembler
}

// NewEngine creates a planning engine backed by the provided repositories
func NewEngine(catalog repositories.CatalogRepository, snapshots repositories.SnapshotRepository) *Engine {
	return &Engine{
		catalog:    catalog,
		snapshots:  snapshots,
		aggregator: NewAggregator(),
		calculator: NewDemandCalculator(),
		selector:   NewSelector(),
		assembler:  NewAssembler(),
	}
}

// Run executes the four planning stages for the given calculation date and
// raw order lines. Per-record anomalies (unmatched reference data,
// unsupplied demand, invalid offers) are recovered locally and surfaced in
// the summary; only structural problems return an error.
func (e *Engine) Run(ctx context.Context, calculationDate time.Time, orders []*entities.OrderLine) (*Result, error) {
	if calculationDate.IsZero() {
		return nil, ErrMissingCalculationDate
	}

	products, err := e.catalog.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	warehouses, err := e.catalog.GetAllWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}
	suppliers, err := e.catalog.GetAllSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load suppliers: %w", err)
	}
	offers, err := e.catalog.GetAllSupplierOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier offers: %w", err)
	}
	policies, err := e.catalog.GetSafetyStockPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load safety-stock policies: %w", err)
	}
	snapshots, err := e.snapshots.GetSnapshotsForDate(ctx, calculationDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory snapshots: %w", err)
	}

	aggregated, unmatched := e.aggregator.Aggregate(orders, products, warehouses)
	netDemand := e.calculator.Calculate(aggregated, policies, snapshots, calculationDate)
	lines, stats := e.selector.Select(netDemand, offers, suppliers, calculationDate)
	supplierOrders := e.assembler.Assign(lines, calculationDate)

	summary := Summary{
		CalculationDate:        calculationDate,
		OrderLinesProcessed:    len(orders),
		AggregatedCombinations: len(aggregated),
		NetDemandCombinations:  len(netDemand),
		OrdersGenerated:        len(supplierOrders),
		TotalCost:              decimal.Zero,
		UnmatchedOrderLines:    unmatched,
		UnsuppliedDemand:       stats.UnsuppliedDemand,
		InvalidOffers:          stats.InvalidOffers,
	}
	for _, row := range netDemand {
		summary.TotalNetDemand += row.NetDemand
		if row.NetDemand > 0 {
			summary.ItemsWithDemand++
		}
	}
	for _, order := range supplierOrders {
		summary.TotalCost = summary.TotalCost.Add(order.TotalCost)
	}

	return &Result{
		AggregatedDemand: aggregated,
		NetDemand:        netDemand,
		SupplierOrders:   supplierOrders,
		Summary:          summary,
	}, nil
}
