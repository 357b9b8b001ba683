package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailops/procurement/pkg/domain/entities"
	"github.com/retailops/procurement/pkg/domain/repositories"
)

const (
	dateLayout = "2006-01-02"
	keyPrefix  = "inventory_snapshots:"
)

// SnapshotRepository stores inventory snapshots in Redis, one hash per
// snapshot date with (sku_code, warehouse_code) as the field key. Writing
// the same field again overwrites it, so re-staging a date is idempotent.
type SnapshotRepository struct {
	client *redis.Client
}

// NewConnection creates a Redis client and verifies the connection
func NewConnection(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewSnapshotRepository creates a snapshot repository over a Redis client
func NewSnapshotRepository(client *redis.Client) *SnapshotRepository {
	return &SnapshotRepository{client: client}
}

// Verify interface compliance
var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

type snapshotRecord struct {
	SKUCode       string `json:"sku_code"`
	WarehouseCode string `json:"warehouse_code"`
	SnapshotDate  string `json:"snapshot_date"`
	AvailableQty  int64  `json:"available_qty"`
	ReservedQty   int64  `json:"reserved_qty"`
}

// SaveSnapshots stores the snapshots under their date's hash
func (r *SnapshotRepository) SaveSnapshots(ctx context.Context, snapshots []*entities.InventorySnapshot) error {
	pipe := r.client.Pipeline()
	for _, s := range snapshots {
		record := snapshotRecord{
			SKUCode:       s.SKUCode,
			WarehouseCode: s.WarehouseCode,
			SnapshotDate:  s.SnapshotDate.Format(dateLayout),
			AvailableQty:  int64(s.AvailableQty),
			ReservedQty:   int64(s.ReservedQty),
		}
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot %s/%s: %w", s.SKUCode, s.WarehouseCode, err)
		}
		key := keyPrefix + record.SnapshotDate
		field := s.SKUCode + ":" + s.WarehouseCode
		pipe.HSet(ctx, key, field, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store snapshots: %w", err)
	}
	return nil
}

// GetSnapshotsForDate returns the snapshots recorded for the given date,
// ordered by (sku_code, warehouse_code) for determinism
func (r *SnapshotRepository) GetSnapshotsForDate(ctx context.Context, date time.Time) ([]*entities.InventorySnapshot, error) {
	key := keyPrefix + date.Format(dateLayout)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots for %s: %w", key, err)
	}

	snapshots := make([]*entities.InventorySnapshot, 0, len(fields))
	for field, data := range fields {
		var record snapshotRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", field, err)
		}
		snapshotDate, err := time.Parse(dateLayout, record.SnapshotDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot date %s: %w", record.SnapshotDate, err)
		}
		snapshots = append(snapshots, &entities.InventorySnapshot{
			SKUCode:       record.SKUCode,
			WarehouseCode: record.WarehouseCode,
			SnapshotDate:  snapshotDate,
			AvailableQty:  entities.Quantity(record.AvailableQty),
			ReservedQty:   entities.Quantity(record.ReservedQty),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].SKUCode != snapshots[j].SKUCode {
			return snapshots[i].SKUCode < snapshots[j].SKUCode
		}
		return snapshots[i].WarehouseCode < snapshots[j].WarehouseCode
	})

	return snapshots, nil
}
