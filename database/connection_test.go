package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alidoner/orderbot/internal/config"
)

func TestDSN(t *testing.T) {
	tcp := DSN(config.DatabaseConfig{
		Host: "db.local", Port: "6543", User: "bot", Password: "pw", Name: "orders",
	})
	assert.Equal(t, "host=db.local user=bot password=pw dbname=orders port=6543 sslmode=disable", tcp)

	socket := DSN(config.DatabaseConfig{
		User: "bot", Password: "pw", Name: "orders", InstanceConnectionName: "proj:region:inst",
	})
	assert.Equal(t, "host=/cloudsql/proj:region:inst user=bot password=pw dbname=orders sslmode=disable", socket)
}

func TestPinger(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, Pinger{DB: db}.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}
