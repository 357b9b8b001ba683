package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/retailops/procurement/pkg/application/services"
	"github.com/retailops/procurement/pkg/config"
	"github.com/retailops/procurement/pkg/domain/repositories"
	"github.com/retailops/procurement/pkg/infrastructure/events"
	"github.com/retailops/procurement/pkg/infrastructure/filestore"
	csvloader "github.com/retailops/procurement/pkg/infrastructure/repositories/csv"
	"github.com/retailops/procurement/pkg/infrastructure/repositories/memory"
	"github.com/retailops/procurement/pkg/infrastructure/repositories/postgres"
	"github.com/retailops/procurement/pkg/infrastructure/repositories/redisstore"
	"github.com/retailops/procurement/pkg/interfaces/cli/output"
)

// Config holds configuration for the run command
type Config struct {
	CalculationDate string
	InputDir        string
	LakeDir         string
	Format          string
	Verbose         bool
	Help            bool
}

// RunCommand executes one replenishment pipeline run
type RunCommand struct {
	config Config
}

// NewRunCommand creates a run command with the given configuration
func NewRunCommand(config Config) *RunCommand {
	return &RunCommand{
		config: config,
	}
}

// Execute runs the replenishment pipeline
func (c *RunCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	appConfig, err := config.Load()
	if err != nil {
		return err
	}
	// Flags take precedence over environment configuration
	if c.config.InputDir != "" {
		appConfig.Data.InputDir = c.config.InputDir
	}
	if c.config.LakeDir != "" {
		appConfig.Data.LakeDir = c.config.LakeDir
	}

	calculationDate, err := c.resolveCalculationDate()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	logger := newLogger(appConfig.Logging)
	loader := csvloader.NewLoader(appConfig.Pipeline.MalformedThreshold)

	catalog, err := buildCatalog(ctx, appConfig, loader)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	snapshots, err := buildSnapshotStore(appConfig)
	if err != nil {
		return fmt.Errorf("failed to build snapshot store: %w", err)
	}

	service := services.NewPipelineService(
		loader,
		catalog,
		snapshots,
		filestore.NewStore(appConfig.Data.LakeDir),
		events.NewInMemoryJournal(),
		logger,
	)

	input := services.RunInput{
		CalculationDate: calculationDate,
		OrdersFile:      filepath.Join(appConfig.Data.InputDir, appConfig.Data.OrdersFile),
		StockFile:       filepath.Join(appConfig.Data.InputDir, appConfig.Data.StockFile),
		SnapshotsFile:   filepath.Join(appConfig.Data.InputDir, appConfig.Data.SnapshotsFile),
	}

	result, err := service.Run(ctx, input)
	if err != nil {
		return err
	}

	return output.Generate(result.Result, output.Config{
		Format:   c.config.Format,
		Verbose:  c.config.Verbose,
		RunID:    result.RunID,
		Duration: result.Duration,
	})
}

// resolveCalculationDate parses the -date flag, defaulting to today
func (c *RunCommand) resolveCalculationDate() (time.Time, error) {
	if c.config.CalculationDate == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", c.config.CalculationDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -date %q, expected YYYY-MM-DD", c.config.CalculationDate)
	}
	return date, nil
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// buildCatalog wires the configured reference-data source
func buildCatalog(ctx context.Context, cfg *config.Config, loader *csvloader.Loader) (repositories.CatalogRepository, error) {
	if cfg.Catalog.Source == "postgres" {
		db, err := postgres.Connect(cfg.GetCatalogDSN())
		if err != nil {
			return nil, err
		}
		return postgres.NewCatalogRepository(db), nil
	}

	repo := memory.NewCatalogRepository()

	products, err := loader.LoadProducts(filepath.Join(cfg.Data.InputDir, "products.csv"))
	if err != nil {
		return nil, err
	}
	repo.LoadProducts(products)

	warehouses, err := loader.LoadWarehouses(filepath.Join(cfg.Data.InputDir, "warehouses.csv"))
	if err != nil {
		return nil, err
	}
	repo.LoadWarehouses(warehouses)

	suppliers, err := loader.LoadSuppliers(filepath.Join(cfg.Data.InputDir, "suppliers.csv"))
	if err != nil {
		return nil, err
	}
	repo.LoadSuppliers(suppliers)

	offers, err := loader.LoadSupplierOffers(filepath.Join(cfg.Data.InputDir, "supplier_products.csv"))
	if err != nil {
		return nil, err
	}
	repo.LoadSupplierOffers(offers)

	policies, err := loader.LoadSafetyStock(filepath.Join(cfg.Data.InputDir, "safety_stock.csv"))
	if err != nil {
		return nil, err
	}
	warehousePolicies, err := loader.LoadWarehouseSafetyStock(filepath.Join(cfg.Data.InputDir, "safety_stock_by_warehouse.csv"))
	if err != nil {
		// The per-warehouse override file is optional
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		policies = append(policies, warehousePolicies...)
	}
	repo.LoadSafetyStockPolicies(policies)

	return repo, nil
}

// buildSnapshotStore wires the configured snapshot backend
func buildSnapshotStore(cfg *config.Config) (repositories.SnapshotRepository, error) {
	if cfg.Redis.Store == "redis" {
		client, err := redisstore.NewConnection(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return redisstore.NewSnapshotRepository(client), nil
	}
	return memory.NewSnapshotRepository(), nil
}

// showHelp displays the help message
func (c *RunCommand) showHelp() {
	fmt.Printf(`Procurement Replenishment CLI - Daily purchase-order generation

USAGE:
    procure -date <YYYY-MM-DD>             # Run for a specific calculation date
    procure                                # Run for today (UTC)

OPTIONS:
    -date <date>        Calculation date in YYYY-MM-DD format (default: today)
    -input <dir>        Input directory with raw feeds and reference CSVs
    -lake <dir>         Data lake directory for partitioned outputs
    -format <fmt>       Console output format: text, json (default: text)
    -verbose            Include the net-demand table in text output
    -help               Show this help message

INPUT DIRECTORY STRUCTURE:
    input/
    ├── orders.csv                     # Raw order lines
    ├── stock.json                     # Raw per-warehouse stock feed
    ├── inventory_snapshots.json       # Daily inventory snapshots
    ├── products.csv                   # Product reference
    ├── warehouses.csv                 # Warehouse reference
    ├── suppliers.csv                  # Supplier reference
    ├── supplier_products.csv          # Supplier offers with prices
    ├── safety_stock.csv               # Global safety-stock policy
    └── safety_stock_by_warehouse.csv  # Per-warehouse overrides (optional)

CSV FILE FORMATS:

orders.csv:
    order_id,supplier_id,sku_id,quantity,warehouse_id,order_date
    ORD-1001,2,1,30,1,2026-03-12

supplier_products.csv:
    supplier_id,sku_id,pack_size,min_order_qty,lead_time_days,unit_price,currency,is_active
    2,1,10,20,3,9.50,MAD,true

ENVIRONMENT:
    CATALOG_SOURCE      csv (default) or postgres
    SNAPSHOT_STORE      memory (default) or redis
    LOG_LEVEL           debug, info, warn, error (default: info)

EXAMPLES:
    # Run for a specific date with verbose console output
    procure -date 2026-03-14 -input ./data/input -lake ./data/lake -verbose

    # Run against the PostgreSQL catalog and Redis snapshot store
    CATALOG_SOURCE=postgres SNAPSHOT_STORE=redis procure -date 2026-03-14

    # Emit the full result as JSON
    procure -date 2026-03-14 -format json
`)
}
