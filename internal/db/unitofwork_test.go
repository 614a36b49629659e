package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/mdplan/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*db.SQLiteUnitOfWork, db.DBTX) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database), database
}

func insertIdea(ctx context.Context, tx db.DBTX, id, title string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO ideas (id, title) VALUES (?, ?)`, id, title)
	return err
}

func ideaCount(t *testing.T, q db.DBTX) int {
	t.Helper()
	var n int
	require.NoError(t, q.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM ideas`).Scan(&n))
	return n
}

func TestWithinTx(t *testing.T) {
	boom := errors.New("parse failed halfway")

	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx db.DBTX) error
		wantErr   error
		wantPanic bool
		wantRows  int
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context, tx db.DBTX) error {
				if err := insertIdea(ctx, tx, "a", "Referral program"); err != nil {
					return err
				}
				return insertIdea(ctx, tx, "b", "Partner portal")
			},
			wantRows: 2,
		},
		{
			name: "rolls back on error",
			fn: func(ctx context.Context, tx db.DBTX) error {
				if err := insertIdea(ctx, tx, "a", "Referral program"); err != nil {
					return err
				}
				return boom
			},
			wantErr: boom,
		},
		{
			name: "rolls back on panic",
			fn: func(ctx context.Context, tx db.DBTX) error {
				_ = insertIdea(ctx, tx, "a", "Referral program")
				panic("boom")
			},
			wantPanic: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uow, database := newUoW(t)
			run := func() error { return uow.WithinTx(context.Background(), tc.fn) }

			if tc.wantPanic {
				assert.Panics(t, func() { _ = run() })
			} else if tc.wantErr != nil {
				assert.ErrorIs(t, run(), tc.wantErr)
			} else {
				require.NoError(t, run())
			}
			assert.Equal(t, tc.wantRows, ideaCount(t, database))
		})
	}
}

func TestWithinTx_CancelledContext(t *testing.T) {
	uow, database := newUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertIdea(ctx, tx, "a", "Never stored")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, ideaCount(t, database))
}
