package ledger

import (
	"context"
	"time"
)

// Snapshot is the latest stored state for one client in one logical table.
// Fields is an open-ended map merged across writes; UpdatedAt is server-set
// (UTC) on every write.
type Snapshot struct {
	ClientID  string
	Fields    map[string]any
	UpdatedAt time.Time
}

// SnapshotStore is the storage gateway contract. There is at most one
// snapshot per (collection, client_id); Upsert merges fields into the
// existing snapshot and creates it on first write.
type SnapshotStore interface {
	// FindLatest returns the snapshot for clientID in collection, or
	// (nil, nil) when the client has never written to that collection.
	FindLatest(ctx context.Context, collection, clientID string) (*Snapshot, error)

	// Upsert merges fields into the snapshot for clientID in collection,
	// creating it if absent, and stamps UpdatedAt with the current UTC time.
	Upsert(ctx context.Context, collection, clientID string, fields map[string]any) error

	// Collections lists up to limit storage table names, best-effort.
	// Used only by the diagnostic endpoint.
	Collections(ctx context.Context, limit int) ([]string, error)
}
