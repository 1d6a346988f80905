package services

import (
	"context"

	"gorm.io/gorm"
)

// runInTx runs fn inside a database transaction. Services wired without a DB
// handle run fn directly with a nil tx, which the repositories treat as "use
// your own handle"; that is how the unit tests drive services over in-memory
// repositories.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
