package memory

import (
	"context"
	"sort"
	"time"

	"github.com/retailops/procurement/pkg/domain/entities"
	"github.com/retailops/procurement/pkg/domain/repositories"
)

// SnapshotRepository provides in-memory inventory-snapshot storage keyed by
// (sku_code, warehouse_code, date). Saving the same cell again overwrites
// it, so re-running a date is idempotent.
type SnapshotRepository struct {
	snapshots map[snapshotCell]entities.InventorySnapshot
}

type snapshotCell struct {
	skuCode       string
	warehouseCode string
	date          string
}

// NewSnapshotRepository creates a new in-memory snapshot repository
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{
		snapshots: make(map[snapshotCell]entities.InventorySnapshot),
	}
}

// Verify interface compliance
var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

// SaveSnapshots stores the given snapshots, overwriting existing cells
func (r *SnapshotRepository) SaveSnapshots(ctx context.Context, snapshots []*entities.InventorySnapshot) error {
	for _, s := range snapshots {
		cell := snapshotCell{
			skuCode:       s.SKUCode,
			warehouseCode: s.WarehouseCode,
			date:          s.SnapshotDate.Format("2006-01-02"),
		}
		r.snapshots[cell] = *s
	}
	return nil
}

// GetSnapshotsForDate returns the snapshots recorded for the given date,
// ordered by (sku_code, warehouse_code) for determinism
func (r *SnapshotRepository) GetSnapshotsForDate(ctx context.Context, date time.Time) ([]*entities.InventorySnapshot, error) {
	dateKey := date.Format("2006-01-02")

	var result []*entities.InventorySnapshot
	for cell, snap := range r.snapshots {
		if cell.date != dateKey {
			continue
		}
		s := snap
		result = append(result, &s)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SKUCode != result[j].SKUCode {
			return result[i].SKUCode < result[j].SKUCode
		}
		return result[i].WarehouseCode < result[j].WarehouseCode
	})

	return result, nil
}
