package database_test

import (
	"testing"
	"time"

	"inventory/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   uint
	Name string `gorm:"uniqueIndex"`
}

func TestOpen_SQLiteInMemory(t *testing.T) {
	db, err := database.Open(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      "file::memory:",
		LogLevel: "silent",
	}, nil)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.Migrate(db, &widget{}))
	assert.True(t, db.Migrator().HasTable(&widget{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_SQLiteIgnoresConnMaxLifetime(t *testing.T) {
	db, err := database.Open(database.Config{
		Driver:          database.DriverSQLite,
		DSN:             "file::memory:",
		LogLevel:        "silent",
		ConnMaxLifetime: time.Millisecond,
	}, nil)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.Migrate(db, &widget{}))
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, db.Create(&widget{Name: "still here"}).Error)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Zero(t, sqlDB.Stats().MaxLifetimeClosed)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(database.Config{Driver: "mysql", DSN: "x"}, nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrate_NilDB(t *testing.T) {
	assert.Error(t, database.Migrate(nil, &widget{}))
}
