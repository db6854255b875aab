// Package models contains the GORM row models for ledger storage.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartledger/backend/internal/domain/ledger"
)

// SnapshotModel is the row shape shared by every snapshot collection.
// The physical table is chosen per query (db.Table(collection)), so the
// model deliberately has no TableName. Fields holds the open-ended client
// payload as JSON.
type SnapshotModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ClientID  string         `gorm:"column:client_id;not null;uniqueIndex"`
	Fields    map[string]any `gorm:"serializer:json"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// ToDomain converts the row to a domain snapshot
func (m *SnapshotModel) ToDomain() *ledger.Snapshot {
	return &ledger.Snapshot{
		ClientID:  m.ClientID,
		Fields:    m.Fields,
		UpdatedAt: m.UpdatedAt,
	}
}
