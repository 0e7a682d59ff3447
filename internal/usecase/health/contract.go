package health

import "context"

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// StorageChecker checks that the upload directory is writable.
type StorageChecker interface {
	Check(ctx context.Context) error
}
