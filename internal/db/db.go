package db

import (
	"context"
	"time"
)

// Store is the key-value facade behind the redis video repository.
type Store interface {
	Pinger
	HashStore
	IndexStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore reads and guards hash records.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Claim sets field only when the hash does not have it yet and reports whether it did.
	Claim(ctx context.Context, key, field, value string) (bool, error)
	Del(ctx context.Context, key string) error
}

// IndexStore keeps hash records listed in a score-ordered index.
type IndexStore interface {
	// PutIndexed writes the hash fields and scores member in index atomically.
	PutIndexed(ctx context.Context, key string, fields map[string]string, index string, score float64, member string) error
	// Members returns index members by descending score; equal scores by descending member.
	Members(ctx context.Context, index string) ([]string, error)
}
