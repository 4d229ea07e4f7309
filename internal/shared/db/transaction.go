// Package db carries the transaction plumbing shared by repositories
// and use cases. A transaction opened by the TransactionManager rides
// the context, so repositories join it transparently.
package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TransactionManager opens gorm transactions and threads them through
// the context for downstream repositories.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction runs fn inside a single transaction. A non-nil error
// from fn rolls everything back; otherwise the transaction commits.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTxFromContext returns the in-flight transaction if the context
// carries one, falling back to defaultDB. Repositories route every
// query through this so they work the same inside and outside a saga.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
