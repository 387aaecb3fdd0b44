// Package txcontext keeps the process-wide transactional context. A gorm
// transaction started through it travels in the context.Context so nested
// calls join it instead of opening a new one.
package txcontext

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type txKey struct{}

// Context is the process-wide transactional context.
type Context struct{}

var (
	mu      sync.Mutex
	current *Context
)

// Initialize creates the transactional context once per process and returns
// it. Later calls return the existing instance.
func Initialize() *Context {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = &Context{}
	}
	return current
}

// Current returns the initialized context, or nil.
func Current() *Context {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Reset drops the process-wide context. Tests only.
func Reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}

// Transaction runs fn inside a transaction on db. If ctx already carries a
// transaction, fn joins it through a savepoint.
func (c *Context) Transaction(ctx context.Context, db *gorm.DB, fn func(ctx context.Context, tx *gorm.DB) error) error {
	base := c.DB(ctx, db)
	return base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx), tx)
	})
}

// DB returns the transaction carried by ctx, or fallback.
func (c *Context) DB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback
}

// InTransaction reports whether ctx carries a transaction.
func InTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok && tx != nil
}
