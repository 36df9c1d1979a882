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
	"hostel/shared/dto"
	"hostel/shared/repository"
)

type lodge struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Secret    string `db:"-"`
	OwnerName string `db:"owner_name" table:"users" column:"name"`
}

func (lodge) GetJoinQuery() string {
	return "JOIN users ON users.id = lodges.owner_id"
}

func newRepo(t *testing.T) (repository.Repository[lodge], sqlmock.Sqlmock) {
	t.Helper()

	repo, mock, _ := newRepoWithDB(t)

	return repo, mock
}

func newRepoWithDB(t *testing.T) (repository.Repository[lodge], sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")
	repo := repository.NewRepository[lodge]("lodge", "lodges", "id", &postgres.Connection{Read: conn, Write: conn}, otelMocks.NewOtel())

	return repo, mock, conn
}

func byID(id string) dto.FilterGroup {
	return dto.And(dto.Filter{Field: "id", Operator: dto.FilterOperatorEq, Value: id, Table: "lodges"})
}

func TestNewRepository_InsertColumnsSkipJoins(t *testing.T) {
	repo, _ := newRepo(t)

	assert.Equal(t, []string{"id", "name"}, repo.InsertColumns)
}

func TestInsert(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lodges (id, name) VALUES ($1, $2)")).
		WithArgs("l1", "Sunrise").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), lodge{ID: "l1", Name: "Sunrise"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	t.Run("joins the owner name", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectPrepare(regexp.QuoteMeta("SELECT lodges.id, lodges.name, users.name AS owner_name FROM lodges JOIN users ON users.id = lodges.owner_id")).
			ExpectQuery().
			WithArgs("l1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_name"}).AddRow("l1", "Sunrise", "Jane"))

		got, err := repo.Get(context.Background(), byID("l1"))
		require.NoError(t, err)
		assert.Equal(t, lodge{ID: "l1", Name: "Sunrise", OwnerName: "Jane"}, got)
	})

	t.Run("no rows yields zero value", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectPrepare("SELECT").
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_name"}))

		got, err := repo.Get(context.Background(), byID("missing"))
		require.NoError(t, err)
		assert.Empty(t, got.ID)
	})

	t.Run("selected columns only", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectPrepare(regexp.QuoteMeta("SELECT lodges.id FROM lodges")).
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("l1"))

		got, err := repo.Get(context.Background(), byID("l1"), "id")
		require.NoError(t, err)
		assert.Equal(t, "l1", got.ID)
	})
}

func TestGetAll_PaginatesAndSorts(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`ORDER BY lodges\.name DESC LIMIT \$\d OFFSET \$\d`).
		ExpectQuery().
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_name"}).
			AddRow("l1", "B", "Jane").
			AddRow("l2", "A", "John"))

	got, err := repo.GetAll(context.Background(), dto.QueryParams{Page: 3, Limit: 10, SortBy: "name", SortDir: dto.SortDirDesc}, dto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAll_UnknownSortKeyIsIgnored(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`^SELECT [^;]*FROM lodges JOIN users ON users\.id = lodges\.owner_id\s*$`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_name"}))

	got, err := repo.GetAll(context.Background(), dto.QueryParams{SortBy: "owner_name; DROP TABLE lodges"}, dto.FilterGroup{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCount(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT COUNT(lodges.id) FROM lodges")).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(context.Background(), dto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestExist(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM lodges")).
		ExpectQuery().
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exist, err := repo.Exist(context.Background(), byID("l1"))
	require.NoError(t, err)
	assert.True(t, exist)

	_, err = repo.Exist(context.Background(), dto.FilterGroup{})
	assert.Error(t, err)
}

func TestUpdate_SortsAssignments(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE lodges SET id = $1, name = $2")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), map[string]any{"name": "Dusk", "id": "l9"}, byID("l1"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAndDelete_RequireFilter(t *testing.T) {
	repo, _ := newRepo(t)

	assert.Error(t, repo.Update(context.Background(), map[string]any{"name": "x"}, dto.FilterGroup{}))
	assert.Error(t, repo.Delete(context.Background(), dto.FilterGroup{}))
}

func TestDeleteTx(t *testing.T) {
	repo, mock, conn := newRepoWithDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lodges")).
		WithArgs("l1").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	tx, err := conn.Beginx()
	require.NoError(t, err)

	err = repo.DeleteTx(context.Background(), tx, byID("l1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete data (lodge)")

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTx_ReadsThroughTransaction(t *testing.T) {
	repo, mock, conn := newRepoWithDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta("SELECT lodges.id, lodges.name, users.name AS owner_name FROM lodges")).
		ExpectQuery().
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_name"}).AddRow("l1", "Sunrise", "Jane"))
	mock.ExpectCommit()

	tx, err := conn.Beginx()
	require.NoError(t, err)

	got, err := repo.GetTx(context.Background(), tx, byID("l1"))
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.OwnerName)

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
