package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openCredentialsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE credentials (name TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func storedNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM credentials ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func writePair(ctx context.Context, tx DBTX) error {
	for _, name := range []string{"access", "refresh"} {
		if _, err := tx.ExecContext(ctx, `INSERT INTO credentials(name, value) VALUES (?, 'x')`, name); err != nil {
			return err
		}
	}
	return nil
}

func TestWithTx(t *testing.T) {
	errHalfway := errors.New("halfway")

	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx DBTX) error
		wantErr   error
		wantNames []string
	}{
		{
			name:      "commit",
			fn:        writePair,
			wantNames: []string{"access", "refresh"},
		},
		{
			name: "error rolls back partial write",
			fn: func(ctx context.Context, tx DBTX) error {
				if _, err := tx.ExecContext(ctx, `INSERT INTO credentials(name, value) VALUES ('access', 'x')`); err != nil {
					return err
				}
				return errHalfway
			},
			wantErr: errHalfway,
		},
		{
			name: "constraint violation rolls back",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := writePair(ctx, tx); err != nil {
					return err
				}
				return writePair(ctx, tx)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openCredentialsDB(t)
			err := WithTx(context.Background(), db, nil, tt.fn)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantNames == nil:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantNames, storedNames(t, db))
		})
	}
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openCredentialsDB(t)

	assert.PanicsWithValue(t, "store crashed", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, writePair(ctx, tx))
			panic("store crashed")
		})
	})
	assert.Empty(t, storedNames(t, db))
}

func TestWithTx_BeginFails(t *testing.T) {
	db := openCredentialsDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	assert.ErrorContains(t, err, "begin tx")
	assert.False(t, called)
}
