// Package db holds the storage facades shared by the sqlite and redis drivers.
package db

// Op constants name the failing command for error context.
const (
	OpDel       = "DEL"
	OpHGetAll   = "HGETALL"
	OpHSetNX    = "HSETNX"
	OpExists    = "EXISTS"
	OpPing      = "PING"
	OpTx        = "MULTI/EXEC"
	OpZRevRange = "ZREVRANGE"

	OpExec    = "EXEC"
	OpQuery   = "QUERY"
	OpMigrate = "MIGRATE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
