package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/smartledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestNewDatabase_EmptyURL(t *testing.T) {
	t.Run("NewDatabase rejects missing URL", func(t *testing.T) {
		db, err := NewDatabase(&config.DatabaseConfig{})

		assert.Nil(t, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database URL is not configured")
	})

	t.Run("NewDatabaseWithLogger rejects missing URL", func(t *testing.T) {
		db, err := NewDatabaseWithLogger(&config.DatabaseConfig{}, nil)

		assert.Nil(t, db)
		assert.Error(t, err)
	})
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing()

		err := db.Ping()
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping with MonitorPingsOption enabled", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockDB.Close()

		// GORM may ping during Open, so expect it first
		mock.ExpectPing()

		dialector := postgres.New(postgres.Config{
			Conn:       mockDB,
			DriverName: "postgres",
		})

		gormDB, err := gorm.Open(dialector, &gorm.Config{
			SkipDefaultTransaction: true,
		})
		require.NoError(t, err)

		db := &Database{DB: gormDB}

		mock.ExpectPing()

		err = db.Ping()
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_Close(t *testing.T) {
	t.Run("successful close", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		_ = mockDB // db.Close() closes the underlying connection

		mock.ExpectClose()

		err := db.Close()
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_QueryThroughGorm(t *testing.T) {
	t.Run("queries run against the mocked connection", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		type snapshotRow struct {
			ID       uint
			ClientID string
		}

		mock.ExpectQuery(`SELECT \* FROM "snapshot_rows" WHERE client_id = \$1`).
			WithArgs("client-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "client_id"}).
				AddRow(1, "client-1"))

		var results []snapshotRow
		err := db.DB.Where("client_id = ?", "client-1").Find(&results).Error
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "client-1", results[0].ClientID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
