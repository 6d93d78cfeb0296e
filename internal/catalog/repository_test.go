package catalog

import (
	"path/filepath"
	"testing"

	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// seedCatalog builds two categories, three items and four listings split
// across two owner cities.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	fixtures := []interface{}{
		&domain.State{ID: 1, Name: "Karnataka"},
		&domain.City{ID: 1, StateID: 1, Name: "Bengaluru"},
		&domain.City{ID: 2, StateID: 1, Name: "Mysuru"},
		&domain.User{ID: 10, RoleID: 2, FirstName: "Vik", LastName: "Shah", Email: "vik@example.com", CityID: 1, StateID: 1, Status: domain.UserStatusActive},
		&domain.User{ID: 11, RoleID: 2, FirstName: "Nia", LastName: "Iyer", Email: "nia@example.com", CityID: 2, StateID: 1, Status: domain.UserStatusActive},
		&domain.Category{ID: 1, Type: "Tools", Description: "Power and hand tools"},
		&domain.Category{ID: 2, Type: "Camping", Description: "Outdoor gear"},
		&domain.Item{ID: 1, Name: "Drill", CategoryID: 1},
		&domain.Item{ID: 2, Name: "Saw", CategoryID: 1},
		&domain.Item{ID: 3, Name: "Tent", CategoryID: 2},
		&domain.OwnerItem{ID: 100, UserID: 10, ItemID: 1, Brand: "Bosch", Description: "Cordless drill", ConditionType: "Like New", RentPerDay: 80, DepositAmt: 500, Status: domain.ListingAvailable},
		&domain.OwnerItem{ID: 101, UserID: 11, ItemID: 1, Brand: "Makita", Description: "Hammer drill", ConditionType: "Good", RentPerDay: 50, DepositAmt: 400, Status: domain.ListingAvailable},
		&domain.OwnerItem{ID: 102, UserID: 10, ItemID: 1, Brand: "Dewalt", Description: "Impact drill", RentPerDay: 60, DepositAmt: 450, Status: "RENTED"},
		&domain.OwnerItem{ID: 103, UserID: 10, ItemID: 3, Brand: "Quechua", Description: "4 person tent", RentPerDay: 120, DepositAmt: 1000, Status: domain.ListingAvailable},
	}
	for _, f := range fixtures {
		require.NoError(t, db.Create(f).Error)
	}
}

func TestCategories(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	rows, err := NewRepository(db).Categories()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// ordered by type: Camping before Tools
	assert.Equal(t, "Camping", rows[0].Type)
	assert.Equal(t, 1, rows[0].ItemCount)
	assert.Equal(t, "Tools", rows[1].Type)
	assert.Equal(t, 2, rows[1].ItemCount)
}

func TestItemsByCategoryCountsOnlyAvailable(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	rows, err := NewRepository(db).ItemsByCategory(1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Drill", rows[0].ItemName)
	assert.Equal(t, 2, rows[0].AvailableCount) // RENTED listing excluded
	assert.Equal(t, "Saw", rows[1].ItemName)
	assert.Equal(t, 0, rows[1].AvailableCount)
}

func TestItemsByCategoryAndCity(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	repo := NewRepository(db)

	rows, err := repo.ItemsByCategoryAndCity(1, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Drill", rows[0].ItemName)
	assert.Equal(t, 1, rows[0].AvailableCount) // only the Mysuru owner

	// no available listings in the city at all
	empty, err := repo.ItemsByCategoryAndCity(2, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestItemDetail(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	detail, err := NewRepository(db).ItemDetail(1)
	require.NoError(t, err)
	assert.Equal(t, "Drill", detail.ItemName)
	assert.Equal(t, "Tools", detail.CategoryType)
	require.Len(t, detail.AvailableListings, 2)

	// cheapest first; rented listing excluded
	assert.Equal(t, "Makita", detail.AvailableListings[0].Brand)
	assert.Equal(t, "Nia Iyer", detail.AvailableListings[0].OwnerName)
	assert.Equal(t, "Mysuru", detail.AvailableListings[0].CityName)
	assert.Equal(t, "Bosch", detail.AvailableListings[1].Brand)
}

func TestItemDetailNotFound(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	_, err := NewRepository(db).ItemDetail(999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSearchAcrossFields(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	repo := NewRepository(db)

	// item name, case-insensitive
	res, err := repo.Search("dRiLl")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Drill", res.Items[0].ItemName)
	assert.Equal(t, 2, res.Items[0].AvailableCount)
	assert.Equal(t, 1, res.TotalResults)

	// listing brand substring; the count still covers every available
	// listing of the item, not just the Makita one that matched
	res, err = repo.Search("maki")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Drill", res.Items[0].ItemName)
	assert.Equal(t, 2, res.Items[0].AvailableCount)

	// category type
	res, err = repo.Search("camp")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Tent", res.Items[0].ItemName)

	// no match
	res, err = repo.Search("kayak")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalResults)
}
