package repositories

import (
	"context"
	"time"

	"github.com/retailops/procurement/pkg/domain/entities"
)

// SnapshotRepository provides access to dated inventory snapshots. Snapshot
// storage is append-only: saving the same (sku_code, warehouse_code, date)
// again overwrites that cell, so re-running a date is idempotent.
type SnapshotRepository interface {
	SaveSnapshots(ctx context.Context, snapshots []*entities.InventorySnapshot) error
	GetSnapshotsForDate(ctx context.Context, date time.Time) ([]*entities.InventorySnapshot, error)
}
