package helper_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel/config"
	"hostel/helper"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "hostel"
	cfg.DB.Postgres.Write.Password = "p@ss:word/1"
	cfg.DB.Postgres.Write.Name = "hostel"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	u, err := url.Parse(helper.DatabaseURL(cfg))
	require.NoError(t, err)

	password, _ := u.User.Password()
	assert.Equal(t, "p@ss:word/1", password)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/test_hostel", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations", u.Query().Get("x-migrations-table"))
}

func TestRunner_UnknownAction(t *testing.T) {
	err := helper.Runner(&config.Config{}, "sideways")

	assert.ErrorContains(t, err, "unknown migration action")
}
