package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	otelMocks "hostel/infras/otel/mocks"
	"hostel/infras/postgres"
	"hostel/internal/domains/room/repository"
)

var lockRoom = regexp.QuoteMeta("SELECT hostel_id FROM rooms WHERE id = $1 FOR UPDATE")

func TestLockTx(t *testing.T) {
	setup := func(t *testing.T) (repository.Room, sqlmock.Sqlmock, *sqlx.Tx) {
		t.Helper()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		conn := sqlx.NewDb(db, "postgres")
		mock.ExpectBegin()

		tx, err := conn.Beginx()
		require.NoError(t, err)

		return repository.New(&postgres.Connection{Read: conn, Write: conn}, otelMocks.NewOtel()), mock, tx
	}

	t.Run("returns the hostel of the locked room", func(t *testing.T) {
		repo, mock, tx := setup(t)

		mock.ExpectQuery(lockRoom).WithArgs("r1").WillReturnRows(sqlmock.NewRows([]string{"hostel_id"}).AddRow("h1"))

		hostelID, err := repo.LockTx(context.Background(), tx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "h1", hostelID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("room already deleted", func(t *testing.T) {
		repo, mock, tx := setup(t)

		mock.ExpectQuery(lockRoom).WithArgs("r1").WillReturnRows(sqlmock.NewRows([]string{"hostel_id"}))

		_, err := repo.LockTx(context.Background(), tx, "r1")
		assert.ErrorIs(t, err, repository.ErrRoomNotFound)
	})
}
