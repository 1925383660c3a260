package module

import (
	"context"
	"database/sql"
)

// Db 为 *sql.DB 和 *sql.Tx 的公共子集
type Db interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
