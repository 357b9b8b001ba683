package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/retailops/procurement/pkg/domain/repositories"
	"github.com/retailops/procurement/pkg/infrastructure/events"
	"github.com/retailops/procurement/pkg/infrastructure/filestore"
	csvloader "github.com/retailops/procurement/pkg/infrastructure/repositories/csv"
	"github.com/retailops/procurement/pkg/planning"
)

// Task names, in execution order.
const (
	TaskStageOrders   = "stage_orders"
	TaskStageStock    = "stage_stock"
	TaskLoadSnapshots = "load_snapshots"
	TaskRunPlanning   = "run_planning"
	TaskWriteOutputs  = "write_outputs"
	TaskWriteSummary  = "write_summary"
)

// RunInput names the raw feed files for one pipeline run.
type RunInput struct {
	CalculationDate time.Time
	OrdersFile      string
	StockFile       string
	SnapshotsFile   string
}

// RunResult carries the planning output plus run bookkeeping.
type RunResult struct {
	RunID       string
	Result      *planning.Result
	SummaryPath string
	Duration    time.Duration
}

// PipelineService runs the daily replenishment pipeline: stage the raw
// feeds, persist inventory snapshots, run the planning engine, and write
// the partitioned outputs and run summary. Tasks execute sequentially and
// the run stops at the first failure.
type PipelineService struct {
	loader    *csvloader.Loader
	catalog   repositories.CatalogRepository
	snapshots repositories.SnapshotRepository
	store     *filestore.Store
	journal   events.Journal
	logger    *logrus.Logger
}

// NewPipelineService creates a pipeline service
func NewPipelineService(
	loader *csvloader.Loader,
	catalog repositories.CatalogRepository,
	snapshots repositories.SnapshotRepository,
	store *filestore.Store,
	journal events.Journal,
	logger *logrus.Logger,
) *PipelineService {
	return &PipelineService{
		loader:    loader,
		catalog:   catalog,
		snapshots: snapshots,
		store:     store,
		journal:   journal,
		logger:    logger,
	}
}

// Run executes one full pipeline run for the given calculation date
func (s *PipelineService) Run(ctx context.Context, input RunInput) (*RunResult, error) {
	if input.CalculationDate.IsZero() {
		return nil, planning.ErrMissingCalculationDate
	}

	runID := events.RunID(uuid.New().String())
	started := time.Now()

	log := s.logger.WithFields(logrus.Fields{
		"run_id":           runID,
		"calculation_date": input.CalculationDate.Format("2006-01-02"),
	})
	log.Info("starting replenishment run")
	s.appendEvent(events.NewRunStartedEvent(runID, input.CalculationDate))

	// stage_orders
	s.taskStarted(runID, TaskStageOrders)
	orders, orderStats, err := s.loader.LoadOrders(input.OrdersFile)
	if err != nil {
		return nil, s.taskFailed(runID, TaskStageOrders, err)
	}
	if _, err := s.store.StageOrders(input.CalculationDate, input.OrdersFile); err != nil {
		return nil, s.taskFailed(runID, TaskStageOrders, err)
	}
	s.taskCompleted(runID, input.CalculationDate, TaskStageOrders, map[string]interface{}{
		"file":           filepath.Base(input.OrdersFile),
		"rows":           orderStats.TotalRows,
		"malformed_rows": orderStats.Malformed,
	})

	// stage_stock
	s.taskStarted(runID, TaskStageStock)
	stock, stockStats, err := s.loader.LoadStockEntries(input.StockFile)
	if err != nil {
		return nil, s.taskFailed(runID, TaskStageStock, err)
	}
	if _, err := s.store.StageStock(input.CalculationDate, stock); err != nil {
		return nil, s.taskFailed(runID, TaskStageStock, err)
	}
	s.taskCompleted(runID, input.CalculationDate, TaskStageStock, map[string]interface{}{
		"file":           filepath.Base(input.StockFile),
		"rows":           stockStats.TotalRows,
		"malformed_rows": stockStats.Malformed,
	})

	// load_snapshots
	s.taskStarted(runID, TaskLoadSnapshots)
	snapshots, snapshotStats, err := s.loader.LoadSnapshots(input.SnapshotsFile)
	if err != nil {
		return nil, s.taskFailed(runID, TaskLoadSnapshots, err)
	}
	if err := s.snapshots.SaveSnapshots(ctx, snapshots); err != nil {
		return nil, s.taskFailed(runID, TaskLoadSnapshots, err)
	}
	s.taskCompleted(runID, input.CalculationDate, TaskLoadSnapshots, map[string]interface{}{
		"file":           filepath.Base(input.SnapshotsFile),
		"rows":           snapshotStats.TotalRows,
		"malformed_rows": snapshotStats.Malformed,
	})

	// run_planning
	s.taskStarted(runID, TaskRunPlanning)
	engine := planning.NewEngine(s.catalog, s.snapshots)
	result, err := engine.Run(ctx, input.CalculationDate, orders)
	if err != nil {
		return nil, s.taskFailed(runID, TaskRunPlanning, err)
	}
	s.taskCompleted(runID, input.CalculationDate, TaskRunPlanning, map[string]interface{}{
		"order_lines":       result.Summary.OrderLinesProcessed,
		"combinations":      result.Summary.AggregatedCombinations,
		"items_with_demand": result.Summary.ItemsWithDemand,
		"orders_generated":  result.Summary.OrdersGenerated,
		"unmatched_lines":   result.Summary.UnmatchedOrderLines,
	})

	// write_outputs
	s.taskStarted(runID, TaskWriteOutputs)
	if err := s.store.WriteAggregatedDemand(input.CalculationDate, result.AggregatedDemand); err != nil {
		return nil, s.taskFailed(runID, TaskWriteOutputs, err)
	}
	if err := s.store.WriteNetDemand(input.CalculationDate, result.NetDemand); err != nil {
		return nil, s.taskFailed(runID, TaskWriteOutputs, err)
	}
	if err := s.store.WriteSupplierOrders(input.CalculationDate, result.SupplierOrders); err != nil {
		return nil, s.taskFailed(runID, TaskWriteOutputs, err)
	}
	s.taskCompleted(runID, input.CalculationDate, TaskWriteOutputs, nil)

	// write_summary
	s.taskStarted(runID, TaskWriteSummary)
	summaryPath, err := s.store.WriteSummary(string(runID), result.Summary, time.Now().UTC())
	if err != nil {
		return nil, s.taskFailed(runID, TaskWriteSummary, err)
	}
	s.taskCompleted(runID, input.CalculationDate, TaskWriteSummary, map[string]interface{}{
		"summary_file": filepath.Base(summaryPath),
	})

	duration := time.Since(started)
	s.appendEvent(events.NewRunCompletedEvent(
		runID, input.CalculationDate, result.Summary.OrdersGenerated, duration))
	log.WithFields(logrus.Fields{
		"orders_generated": result.Summary.OrdersGenerated,
		"total_cost":       result.Summary.TotalCost.String(),
		"duration":         duration.Round(time.Millisecond).String(),
	}).Info("replenishment run completed")

	return &RunResult{
		RunID:       string(runID),
		Result:      result,
		SummaryPath: summaryPath,
		Duration:    duration,
	}, nil
}

// appendEvent records a run event. A journal failure is an audit-trail
// problem, not a planning problem, so the run continues.
func (s *PipelineService) appendEvent(event events.Event) {
	if err := s.journal.Append(event); err != nil {
		s.logger.WithField("event", event.Type).WithError(err).Warn("failed to record run event")
	}
}

func (s *PipelineService) taskStarted(runID events.RunID, task string) {
	s.logger.WithFields(logrus.Fields{"run_id": runID, "task": task}).Info("task started")
	s.appendEvent(events.NewTaskStartedEvent(runID, task))
}

func (s *PipelineService) taskCompleted(runID events.RunID, runDate time.Time, task string, details map[string]interface{}) {
	s.logger.WithFields(logrus.Fields{"run_id": runID, "task": task}).Info("task completed")
	s.appendEvent(events.NewTaskCompletedEvent(runID, task, details))

	payload := map[string]interface{}{
		"run_id": string(runID),
		"task":   task,
		"status": "success",
	}
	for k, v := range details {
		payload[k] = v
	}
	if _, err := s.store.WriteTaskLog(runDate, task, payload); err != nil {
		s.logger.WithError(err).Warn("failed to write task log")
	}
}

func (s *PipelineService) taskFailed(runID events.RunID, task string, err error) error {
	s.logger.WithFields(logrus.Fields{"run_id": runID, "task": task}).WithError(err).Error("task failed")
	s.appendEvent(events.NewTaskFailedEvent(runID, task, err.Error()))
	s.appendEvent(events.NewRunFailedEvent(runID, task, err.Error()))
	return fmt.Errorf("task %s failed: %w", task, err)
}
