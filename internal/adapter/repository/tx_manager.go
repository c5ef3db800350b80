package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
)

type txKey struct{}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a gorm backed transaction manager
func NewTxManager(db *gorm.DB) repository.TxManager {
	return &txManager{db: db}
}

// RunInTx commits when fn returns nil and rolls back on error or panic
func (m *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		// already inside a transaction
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db scoped to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
