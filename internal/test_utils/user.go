package test_utils

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertUser creates a users row and returns its id, for tables that reference it.
func InsertUser(t *testing.T, ctx context.Context, db *pgxpool.Pool, uid string) int {
	t.Helper()
	var id int
	err := db.QueryRow(ctx,
		`INSERT INTO users (uid, username, display_name) VALUES ($1, $1, $1) RETURNING id`, uid).
		Scan(&id)
	require.NoError(t, err)
	return id
}
