package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockStore(t *testing.T, dialect Dialect) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	return NewSQLStore(sqlx.NewDb(db, "sqlmock"), dialect, "migrations"), mock
}

func Test_SQLStore_ReadVersions(t *testing.T) {
	store, mock := mockStore(t, MySQLDialect{})

	mock.ExpectQuery(`SELECT version FROM migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).
			AddRow("20230101").
			AddRow("20230215"))

	versions, err := store.ReadVersions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"20230101", "20230215"}, versions)
}

func Test_SQLStore_HasSchema(t *testing.T) {
	t.Run("table exists", func(t *testing.T) {
		store, mock := mockStore(t, MySQLDialect{})

		mock.ExpectQuery(MySQLDialect{}.TableExistsQuery()).
			WithArgs("migrations").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("migrations"))

		ok, err := store.HasSchema(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("table missing", func(t *testing.T) {
		store, mock := mockStore(t, MySQLDialect{})

		mock.ExpectQuery(MySQLDialect{}.TableExistsQuery()).
			WithArgs("migrations").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

		ok, err := store.HasSchema(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func Test_SQLStore_CreateSchema(t *testing.T) {
	for _, tc := range []struct {
		name    string
		dialect Dialect
	}{
		{name: "mysql", dialect: MySQLDialect{}},
		{name: "sqlite", dialect: SqliteDialect{}},
		{name: "postgres", dialect: PostgresDialect{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store, mock := mockStore(t, tc.dialect)

			mock.ExpectExec(tc.dialect.CreateVersionsTable("migrations")).
				WillReturnResult(sqlmock.NewResult(0, 0))

			assert.NoError(t, store.CreateSchema(context.Background()))
		})
	}
}

func Test_SQLStore_InsertAndRemoveVersion(t *testing.T) {
	store, mock := mockStore(t, MySQLDialect{})

	mock.ExpectExec(`INSERT INTO migrations (version) VALUES (?)`).
		WithArgs("20230101").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(`DELETE FROM migrations WHERE version = ?`).
		WithArgs("20230101").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, store.InsertVersion(ctx, "20230101"))
	require.NoError(t, store.RemoveVersion(ctx, "20230101"))
}

func Test_SQLStore_ReadVersionsError(t *testing.T) {
	store, mock := mockStore(t, PostgresDialect{})

	mock.ExpectQuery(`SELECT version FROM migrations`).
		WillReturnError(assert.AnError)

	_, err := store.ReadVersions(context.Background())
	assert.Error(t, err)
}
