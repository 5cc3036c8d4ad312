package repositories

import (
	"fmt"
	"os"
	"testing"

	"fiber-erp/controllers/idgen"
	"fiber-erp/database"
	"fiber-erp/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	idgen.Init()
	os.Exit(m.Run())
}

var testScope = Scope{UserID: 1, CompanyID: 1, LocationID: 1}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

var itemSeq int

func createTestItem(t *testing.T, db *gorm.DB) *models.Item {
	t.Helper()

	itemSeq++
	form := models.FormItem{
		ItemCode: fmt.Sprintf("ITM-%04d", itemSeq),
		Name:     fmt.Sprintf("Test item %d", itemSeq),
	}
	item, err := NewItemRepository(db).Create(&form, testScope)
	require.NoError(t, err)
	return item
}

func createApprovedIndent(t *testing.T, db *gorm.DB, items ...*models.Item) *models.Indent {
	t.Helper()

	form := models.FormIndent{}
	for _, it := range items {
		form.Items = append(form.Items, models.FormIndentItem{ItemID: it.ID, Purpose: "NEW"})
	}

	repo := NewIndentRepository(db)
	indent, err := repo.Create(&form, testScope)
	require.NoError(t, err)

	indent, err = repo.Approve(indent.ID, testScope)
	require.NoError(t, err)
	return indent
}

func createApprovedOrder(t *testing.T, db *gorm.DB, indent *models.Indent) *models.PurchaseOrder {
	t.Helper()

	form := models.FormOrder{VendorID: 1}
	for _, line := range indent.Items {
		form.Items = append(form.Items, models.FormOrderItem{IndentItemID: line.ID})
	}

	repo := NewOrderRepository(db)
	order, err := repo.Create(&form, testScope)
	require.NoError(t, err)

	order, err = repo.Approve(order.ID, testScope)
	require.NoError(t, err)
	return order
}

func createOrderInward(t *testing.T, db *gorm.DB, order *models.PurchaseOrder, items ...*models.Item) *models.Inward {
	t.Helper()

	form := models.FormInward{}
	for _, it := range items {
		form.Lines = append(form.Lines, models.FormInwardLine{
			ItemID:     it.ID,
			SourceType: models.SourceOrder,
			SourceID:   order.ID,
		})
	}

	inward, err := NewInwardRepository(db).Create(&form, testScope)
	require.NoError(t, err)
	return inward
}

// approveLinesThroughQc claims every line of the inward in one entry,
// resolves all of them approved and closes the entry.
func approveLinesThroughQc(t *testing.T, db *gorm.DB, inward *models.Inward) *models.QcEntry {
	t.Helper()

	form := models.FormQcEntry{}
	for _, line := range inward.Lines {
		form.Items = append(form.Items, models.FormQcItemRef{
			RefType: models.QcRefInwardLine,
			RefID:   line.ID,
		})
	}

	repo := NewQcRepository(db)
	entry, err := repo.Create(&form, testScope)
	require.NoError(t, err)

	for _, qcItem := range entry.Items {
		_, err := repo.ResolveItem(entry.ID, qcItem.ID, &models.FormQcResolution{
			Resolution: models.QcResolutionApproved,
		}, testScope)
		require.NoError(t, err)
	}

	entry, rejected, err := repo.ApproveEntry(entry.ID, testScope)
	require.NoError(t, err)
	require.Empty(t, rejected)
	return entry
}

// stockItem pushes a fresh item through the whole procurement loop so tests
// can start from IN_STOCK.
func stockItem(t *testing.T, db *gorm.DB, item *models.Item) {
	t.Helper()

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, item)
	approveLinesThroughQc(t, db, inward)

	state, err := NewItemStateRepository(db).GetState(item.ID, 0)
	require.NoError(t, err)
	require.Equal(t, models.StateInStock, state)
}

func derivedState(t *testing.T, db *gorm.DB, item *models.Item) string {
	t.Helper()

	state, err := NewItemStateRepository(db).GetState(item.ID, 0)
	require.NoError(t, err)
	return state
}
