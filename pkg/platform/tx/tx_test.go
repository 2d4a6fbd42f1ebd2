package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("commits on success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE profiles").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := Run(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "UPDATE profiles SET is_primary = TRUE")
			return err
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := Run(context.Background(), db, func(context.Context, *sql.Tx) error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested runs join the outer transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := Run(context.Background(), db, func(ctx context.Context, outer *sql.Tx) error {
			return Run(ctx, db, func(_ context.Context, inner *sql.Tx) error {
				assert.Same(t, outer, inner)
				return nil
			})
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
