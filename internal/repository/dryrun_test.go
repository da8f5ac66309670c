package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type capturedQuery struct {
	SQL  string
	Vars []any
}

// newDryRunDB returns a gorm handle that builds SQL without a server and
// records every statement issued through the query callbacks.
func newDryRunDB(t *testing.T) (*gorm.DB, *[]capturedQuery) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	captured := &[]capturedQuery{}
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		vars := make([]any, len(tx.Statement.Vars))
		copy(vars, tx.Statement.Vars)
		*captured = append(*captured, capturedQuery{SQL: tx.Statement.SQL.String(), Vars: vars})
	})
	require.NoError(t, err)

	return db, captured
}
