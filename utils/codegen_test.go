package utils

import (
	"testing"

	"fiber-erp/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupCodegenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.DocumentNumber{}))
	return db
}

func TestGenerateCodeSequencesPerPrefixAndLocation(t *testing.T) {
	db := setupCodegenDB(t)

	first, err := GenerateCode(db, "IND", 1)
	require.NoError(t, err)
	require.Equal(t, "IND/1/000001", first)

	second, err := GenerateCode(db, "IND", 1)
	require.NoError(t, err)
	require.Equal(t, "IND/1/000002", second)

	// Other prefixes and locations run their own counters.
	otherPrefix, err := GenerateCode(db, "PO", 1)
	require.NoError(t, err)
	require.Equal(t, "PO/1/000001", otherPrefix)

	otherLocation, err := GenerateCode(db, "IND", 2)
	require.NoError(t, err)
	require.Equal(t, "IND/2/000001", otherLocation)
}

func TestGenerateCodeRollsBackWithTransaction(t *testing.T) {
	db := setupCodegenDB(t)

	tx := db.Begin()
	code, err := GenerateCode(tx, "INW", 1)
	require.NoError(t, err)
	require.Equal(t, "INW/1/000001", code)
	tx.Rollback()

	// The number burned inside the rolled back tx is handed out again.
	code, err = GenerateCode(db, "INW", 1)
	require.NoError(t, err)
	require.Equal(t, "INW/1/000001", code)
}

// The counter lookup must hold a row lock on the server drivers, or two
// transactions could read the same LastNumber and mint duplicate codes.
func TestGenerateCodeLocksCounterRowOnServerDrivers(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var doc models.DocumentNumber
		return numberLookup(tx).Where("prefix = ? AND location_id = ?", "IND", 1).Find(&doc)
	})
	require.Contains(t, sql, "FOR UPDATE")
}

func TestGenerateCodeSkipsRowLockOnSqlite(t *testing.T) {
	db := setupCodegenDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var doc models.DocumentNumber
		return numberLookup(tx).Where("prefix = ? AND location_id = ?", "IND", 1).Find(&doc)
	})
	require.NotContains(t, sql, "FOR UPDATE")
}

func TestURLListRoundTrip(t *testing.T) {
	urls := []string{"https://files.local/a.pdf", "https://files.local/b.jpg"}
	require.Equal(t, urls, DecodeURLList(EncodeURLList(urls)))
	require.Equal(t, "[]", EncodeURLList(nil))
	require.Empty(t, DecodeURLList(""))
}
