package repositories

import (
	"context"
	"database/sql"
)

// wrapper that implements common functions from sql.DB and sql.Tx
// to not write logic twice
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// requireAffected turns an update or delete that matched nothing into notFound.
func requireAffected(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
