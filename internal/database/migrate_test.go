package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var applied []models.SchemaMigration
	require.NoError(t, db.Order("version").Find(&applied).Error)
	require.Len(t, applied, len(migrations))
	assert.Equal(t, 1, applied[0].Version)
	assert.True(t, db.Migrator().HasColumn(&models.RepresentativeMapping{}, "PrimaryMediaID"))
}

func TestMigrateUpgradesLegacyTable(t *testing.T) {
	db := openMemory(t)

	// the side table as it existed before media selection
	require.NoError(t, db.Exec(`CREATE TABLE item_set_primary_item (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_set_id INTEGER NOT NULL UNIQUE,
		primary_item_id INTEGER NOT NULL
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO item_set_primary_item (item_set_id, primary_item_id) VALUES (5, 9)`).Error)

	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasColumn(&models.RepresentativeMapping{}, "PrimaryMediaID"))
	var row models.RepresentativeMapping
	require.NoError(t, db.Where("item_set_id = ?", 5).Take(&row).Error)
	assert.Equal(t, 9, row.PrimaryItemID)
	assert.Nil(t, row.PrimaryMediaID, "existing rows keep working")
}

func TestInstallAndUninstall(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Install(db))
	assert.True(t, db.Migrator().HasTable(models.RepresentativeTable))

	require.NoError(t, Uninstall(db))
	assert.False(t, db.Migrator().HasTable(models.RepresentativeTable))
	assert.False(t, db.Migrator().HasTable(&models.SchemaMigration{}))
}

func TestExcludeComment(t *testing.T) {
	cases := map[string]string{
		"SELECT 1; -- trailing":             "SELECT 1; ",
		"-- whole line":                     "",
		"SELECT '--not a comment' FROM t":   "SELECT '--not a comment' FROM t",
		`SELECT "a--b" -- c`:                `SELECT "a--b" `,
		"SELECT 'unterminated -- still in": "SELECT 'unterminated -- still in",
	}
	for in, want := range cases {
		assert.Equal(t, want, excludeComment(in), in)
	}
}

func TestExecuteSQL(t *testing.T) {
	db := openMemory(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	script := `-- setup
CREATE TABLE t (v TEXT); -- table
INSERT INTO t (v) VALUES ('a;b');
`
	// statements are split on every semicolon, quoted or not
	err = executeSQL(sqlDB, script)
	require.Error(t, err)

	require.NoError(t, executeSQL(sqlDB, "-- only\nINSERT INTO t (v) VALUES ('--x');\n"))
	var n int64
	require.NoError(t, db.Table("t").Where("v = ?", "--x").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
