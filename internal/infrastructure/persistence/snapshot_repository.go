package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smartledger/backend/internal/domain/ledger"
	"github.com/smartledger/backend/internal/domain/shared"
	"github.com/smartledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSnapshotRepository implements ledger.SnapshotStore using GORM.
// All snapshot collections share one row shape, so a single repository
// serves every collection; the physical table is selected per call.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// FindLatest returns the snapshot for clientID in collection, or (nil, nil)
// when no row exists. There is at most one row per client_id; the ordering
// by updated_at is defensive and a no-op under that invariant.
func (r *GormSnapshotRepository) FindLatest(ctx context.Context, collection, clientID string) (*ledger.Snapshot, error) {
	var model models.SnapshotModel
	err := r.db.WithContext(ctx).
		Table(collection).
		Where("client_id = ?", clientID).
		Order("updated_at DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.StorageError(err)
	}
	return model.ToDomain(), nil
}

// Upsert merges fields into the snapshot for clientID in collection,
// creating the row on first write. The merge is field-wise: keys absent
// from fields keep their stored values. UpdatedAt is stamped with the
// current UTC time as part of the same write.
func (r *GormSnapshotRepository) Upsert(ctx context.Context, collection, clientID string, fields map[string]any) error {
	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := lockSnapshotRow(tx, collection, clientID)
		if err != nil {
			return err
		}

		if model == nil {
			created := models.SnapshotModel{
				ID:        uuid.New(),
				ClientID:  clientID,
				Fields:    cloneFields(fields),
				UpdatedAt: now,
			}
			// Two first writers can race to this insert: FOR UPDATE on a
			// missing row locks nothing. The loser's insert hits the unique
			// index, inserts nothing, and falls through to a locked merge
			// against the winner's now-visible row.
			res := tx.Table(collection).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "client_id"}},
					DoNothing: true,
				}).
				Create(&created)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				return nil
			}

			model, err = lockSnapshotRow(tx, collection, clientID)
			if err != nil {
				return err
			}
			if model == nil {
				return gorm.ErrRecordNotFound
			}
		}

		if model.Fields == nil {
			model.Fields = make(map[string]any, len(fields))
		}
		for name, value := range fields {
			model.Fields[name] = value
		}
		model.UpdatedAt = now

		return tx.Table(collection).Save(model).Error
	})
	if err != nil {
		return shared.StorageError(err)
	}
	return nil
}

// Collections lists up to limit physical table names. Best-effort: used
// only by the diagnostic endpoint.
func (r *GormSnapshotRepository) Collections(ctx context.Context, limit int) ([]string, error) {
	tables, err := r.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, shared.StorageError(err)
	}
	if limit > 0 && len(tables) > limit {
		tables = tables[:limit]
	}
	return tables, nil
}

// lockSnapshotRow reads the client's row under FOR UPDATE, returning nil
// when it does not exist. sqlite has no FOR UPDATE; it serializes writers
// on its own.
func lockSnapshotRow(tx *gorm.DB, collection, clientID string) (*models.SnapshotModel, error) {
	query := tx.Table(collection).Where("client_id = ?", clientID)
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.SnapshotModel
	err := query.Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func cloneFields(fields map[string]any) map[string]any {
	cloned := make(map[string]any, len(fields))
	for name, value := range fields {
		cloned[name] = value
	}
	return cloned
}

// UnavailableStore is the ledger.SnapshotStore used when the database
// connection could not be established at startup. Every operation fails
// immediately with ErrStorageUnavailable; the process stays up so the
// health and diagnostic endpoints keep answering. Recovery is a restart.
type UnavailableStore struct{}

// Unavailable returns the shared unavailable store
func Unavailable() *UnavailableStore {
	return &UnavailableStore{}
}

// FindLatest implements ledger.SnapshotStore
func (*UnavailableStore) FindLatest(context.Context, string, string) (*ledger.Snapshot, error) {
	return nil, shared.ErrStorageUnavailable
}

// Upsert implements ledger.SnapshotStore
func (*UnavailableStore) Upsert(context.Context, string, string, map[string]any) error {
	return shared.ErrStorageUnavailable
}

// Collections implements ledger.SnapshotStore
func (*UnavailableStore) Collections(context.Context, int) ([]string, error) {
	return nil, shared.ErrStorageUnavailable
}
