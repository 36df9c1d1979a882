package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	otelMocks "hostel/infras/otel/mocks"
	"hostel/infras/postgres"
	"hostel/internal/domains/hostel/model"
	"hostel/internal/domains/hostel/repository"
)

var (
	lockOwner       = regexp.QuoteMeta("SELECT owner_id FROM hostels WHERE id = $1 FOR UPDATE")
	adjustTotal     = regexp.QuoteMeta("UPDATE hostels SET total_rooms = GREATEST(total_rooms + $2, 0) WHERE id = $1")
	recountOccupied = regexp.QuoteMeta("UPDATE hostels SET occupied_rooms = (")
	reconcile       = `UPDATE hostels SET\s+total_rooms = \(SELECT COUNT\(\*\)`
	hostelIDs       = regexp.QuoteMeta("SELECT id FROM hostels ORDER BY id")
)

func newRepo(t *testing.T) (repository.Hostel, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, otelMocks.NewOtel()), mock, conn
}

func begin(t *testing.T, mock sqlmock.Sqlmock, conn *sqlx.DB) *sqlx.Tx {
	t.Helper()

	mock.ExpectBegin()

	tx, err := conn.Beginx()
	require.NoError(t, err)

	return tx
}

func TestLockOwnerTx(t *testing.T) {
	t.Run("returns the owner", func(t *testing.T) {
		repo, mock, conn := newRepo(t)
		tx := begin(t, mock, conn)

		mock.ExpectQuery(lockOwner).WithArgs("h1").WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-1"))

		owner, err := repo.LockOwnerTx(context.Background(), tx, "h1")
		require.NoError(t, err)
		assert.Equal(t, "owner-1", owner)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock, conn := newRepo(t)
		tx := begin(t, mock, conn)

		mock.ExpectQuery(lockOwner).WithArgs("h1").WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))

		_, err := repo.LockOwnerTx(context.Background(), tx, "h1")
		assert.ErrorIs(t, err, repository.ErrHostelNotFound)
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		repo, mock, conn := newRepo(t)
		tx := begin(t, mock, conn)

		mock.ExpectQuery(lockOwner).WithArgs("h1").WillReturnError(errors.New("lock timeout"))

		_, err := repo.LockOwnerTx(context.Background(), tx, "h1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrHostelNotFound)
		assert.Contains(t, err.Error(), "lock timeout")
	})
}

func TestAdjustTotalRoomsTx(t *testing.T) {
	repo, mock, conn := newRepo(t)
	tx := begin(t, mock, conn)

	mock.ExpectExec(adjustTotal).WithArgs("h1", -1).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AdjustTotalRoomsTx(context.Background(), tx, "h1", -1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecountOccupiedTx(t *testing.T) {
	repo, mock, conn := newRepo(t)
	tx := begin(t, mock, conn)

	mock.ExpectExec(recountOccupied).WithArgs("h1").WillReturnError(errors.New("connection reset"))

	err := repo.RecountOccupiedTx(context.Background(), tx, "h1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to recount occupied rooms")
}

func TestReconcile(t *testing.T) {
	t.Run("recounts under the hostel lock", func(t *testing.T) {
		repo, mock, _ := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lockOwner).WithArgs("h1").WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-1"))
		mock.ExpectExec(reconcile).WithArgs("h1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Reconcile(context.Background(), "h1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing hostel rolls back", func(t *testing.T) {
		repo, mock, _ := newRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lockOwner).WithArgs("h1").WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Reconcile(context.Background(), "h1"), repository.ErrHostelNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReconcileAll(t *testing.T) {
	t.Run("skips hostels deleted meanwhile", func(t *testing.T) {
		repo, mock, _ := newRepo(t)

		mock.ExpectQuery(hostelIDs).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("h1").AddRow("h2").AddRow("h3"))

		for _, id := range []string{"h1", "h2", "h3"} {
			mock.ExpectBegin()

			if id == "h2" {
				mock.ExpectQuery(lockOwner).WithArgs(id).WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))
				mock.ExpectRollback()

				continue
			}

			mock.ExpectQuery(lockOwner).WithArgs(id).WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-1"))
			mock.ExpectExec(reconcile).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()
		}

		n, err := repo.ReconcileAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops on the first failure", func(t *testing.T) {
		repo, mock, _ := newRepo(t)

		mock.ExpectQuery(hostelIDs).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("h1").AddRow("h2"))
		mock.ExpectBegin()
		mock.ExpectQuery(lockOwner).WithArgs("h1").WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		n, err := repo.ReconcileAll(context.Background())
		require.Error(t, err)
		assert.Zero(t, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStats(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COUNT(*) FROM hostels) AS total_hostels")).
		WillReturnRows(sqlmock.NewRows([]string{"total_hostels", "total_rooms", "occupied_rooms"}).AddRow(2, 8, 3))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Stats{TotalHostels: 2, TotalRooms: 8, OccupiedRooms: 3}, stats)
	require.NoError(t, mock.ExpectationsWereMet())
}
