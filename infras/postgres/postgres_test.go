package postgres_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel/config"
	"hostel/infras/postgres"
)

func newTransactor(t *testing.T) (postgres.Transactor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := &postgres.Connection{Write: sqlx.NewDb(db, "sqlmock")}

	return postgres.NewTransactor(conn), mock
}

func TestTransactor_Commit(t *testing.T) {
	txr, mock := newTransactor(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE hostels").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := txr.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE hostels SET total_rooms = total_rooms + 1")

		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollbackOnError(t *testing.T) {
	txr, mock := newTransactor(t)
	sentinel := errors.New("room insert failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := txr.WithTx(context.Background(), func(_ *sqlx.Tx) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_BeginFails(t *testing.T) {
	txr, mock := newTransactor(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err := txr.WithTx(context.Background(), func(_ *sqlx.Tx) error {
		called = true

		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
}

func TestTransactor_RollbackOnPanic(t *testing.T) {
	txr, mock := newTransactor(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = txr.WithTx(context.Background(), func(_ *sqlx.Tx) error {
			panic("unexpected")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndpoints(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "dev_"
	cfg.DB.Postgres.Write.Host = "primary"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "hostel"
	cfg.DB.Postgres.Write.Password = "s3cret#1"
	cfg.DB.Postgres.Write.Name = "hostel"
	cfg.DB.Postgres.Write.SSLMode = "require"

	u, err := url.Parse(postgres.WriteDSN(cfg))
	require.NoError(t, err)

	password, _ := u.User.Password()
	assert.Equal(t, "s3cret#1", password)
	assert.Equal(t, "primary:5432", u.Host)
	assert.Equal(t, "/dev_hostel", u.Path)
	assert.Equal(t, "require", u.Query().Get("sslmode"))

	_, ok := postgres.ReadDSN(cfg)
	assert.False(t, ok, "read pool falls back to the write pool")

	cfg.DB.Postgres.Read.Host = "replica"
	cfg.DB.Postgres.Read.Port = "5433"
	cfg.DB.Postgres.Read.Name = "hostel"

	dsn, ok := postgres.ReadDSN(cfg)
	require.True(t, ok)
	assert.Contains(t, dsn, "replica:5433/dev_hostel")
}
