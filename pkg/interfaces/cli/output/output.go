package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/retailops/procurement/pkg/planning"
)

// Config holds configuration for output generation
type Config struct {
	Format   string
	Verbose  bool
	RunID    string
	Duration time.Duration
}

// Generate renders the planning result in the specified format
func Generate(result *planning.Result, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *planning.Result, config Config) error {
	summary := result.Summary

	fmt.Printf("Replenishment Run Summary\n")
	fmt.Printf("=========================\n\n")

	fmt.Printf("Calculation Date: %s\n", summary.CalculationDate.Format("2006-01-02"))
	if config.RunID != "" {
		fmt.Printf("Run ID: %s\n", config.RunID)
	}
	fmt.Printf("Order Lines Processed: %d\n", summary.OrderLinesProcessed)
	fmt.Printf("SKU/Warehouse Combinations: %d\n", summary.AggregatedCombinations)
	fmt.Printf("Items With Net Demand: %d\n", summary.ItemsWithDemand)
	fmt.Printf("Purchase Orders Generated: %d\n", summary.OrdersGenerated)
	fmt.Printf("Total Cost: %s MAD\n", summary.TotalCost.StringFixed(2))
	if config.Duration > 0 {
		fmt.Printf("Duration: %v\n", config.Duration.Round(time.Millisecond))
	}
	fmt.Println()

	if summary.UnmatchedOrderLines > 0 || summary.UnsuppliedDemand > 0 || summary.InvalidOffers > 0 {
		fmt.Printf("Data Quality:\n")
		fmt.Printf("  Unmatched Order Lines: %d\n", summary.UnmatchedOrderLines)
		fmt.Printf("  Unsupplied Demand Items: %d\n", summary.UnsuppliedDemand)
		fmt.Printf("  Invalid Supplier Offers: %d\n", summary.InvalidOffers)
		fmt.Println()
	}

	if len(result.SupplierOrders) > 0 {
		fmt.Printf("Purchase Orders:\n")
		fmt.Printf("%-20s %-10s %-8s %-10s %-8s %-12s %-12s\n",
			"Order ID", "SKU", "WH", "Supplier", "Qty", "Total Cost", "Delivery")
		fmt.Printf("%-20s %-10s %-8s %-10s %-8s %-12s %-12s\n",
			"--------------------", "----------", "--------", "----------", "--------", "------------", "------------")

		for _, order := range result.SupplierOrders {
			fmt.Printf("%-20s %-10s %-8s %-10s %-8d %-12s %-12s\n",
				order.OrderID,
				order.SKUCode,
				order.WarehouseCode,
				order.SupplierCode,
				order.OrderQuantity,
				order.TotalCost.StringFixed(2),
				order.ExpectedDeliveryDate.Format("2006-01-02"))
		}
		fmt.Println()
	}

	if config.Verbose && len(result.NetDemand) > 0 {
		fmt.Printf("Net Demand:\n")
		fmt.Printf("%-10s %-8s %-12s %-12s %-12s %-10s\n",
			"SKU", "WH", "Aggregated", "Safety", "Effective", "Net")
		fmt.Printf("%-10s %-8s %-12s %-12s %-12s %-10s\n",
			"----------", "--------", "------------", "------------", "------------", "----------")

		for _, row := range result.NetDemand {
			fmt.Printf("%-10s %-8s %-12d %-12d %-12d %-10d\n",
				row.SKUCode,
				row.WarehouseCode,
				row.TotalQuantity,
				row.SafetyStock,
				row.EffectiveStock,
				row.NetDemand)
		}
		fmt.Println()
	}

	return nil
}

// generateJSONOutput creates JSON output on stdout
func generateJSONOutput(result *planning.Result) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}
