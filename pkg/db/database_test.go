package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Ping(ctx, db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), DriverPostgres, "")
	require.Error(t, err)

	_, err = Open(context.Background(), "mongodb", "mongodb://localhost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported db driver")
}
