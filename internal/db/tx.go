package db

import (
	"context"
	"database/sql"
	"fmt"
)

// InTx runs fn with queries bound to a new transaction. The transaction is
// committed if fn returns nil and rolled back otherwise.
func InTx(ctx context.Context, database *sql.DB, fn func(qry *Queries) error) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = fn(New(tx))
	if err != nil {
		return err
	}
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
