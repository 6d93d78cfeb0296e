package order

import (
	"path/filepath"
	"testing"
	"time"

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

func seedListing(t *testing.T, db *gorm.DB) domain.OwnerItem {
	t.Helper()
	listing := domain.OwnerItem{
		ID: 300, UserID: 200, ItemID: 1, Brand: "Bosch",
		Description: "Cordless drill", RentPerDay: 50, DepositAmt: 500,
		Status: domain.ListingAvailable, MaxRentDays: 10,
	}
	require.NoError(t, db.Create(&listing).Error)
	return listing
}

func TestAddToCart(t *testing.T) {
	db := newTestDB(t)
	seedListing(t, db)
	svc := NewService(db)

	cart, err := svc.AddToCart(100, 300)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Equal(t, int64(100), cart.CustomerID)

	entries, err := svc.CartEntries(100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Bosch", entries[0].Brand)
	assert.Equal(t, 50, entries[0].RentPerDay)
}

func TestAddToCartUnknownListing(t *testing.T) {
	svc := NewService(newTestDB(t))
	_, err := svc.AddToCart(100, 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRemoveFromCartOwnership(t *testing.T) {
	db := newTestDB(t)
	seedListing(t, db)
	svc := NewService(db)

	cart, err := svc.AddToCart(100, 300)
	require.NoError(t, err)

	err = svc.RemoveFromCart(cart.ID, 101)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, svc.RemoveFromCart(cart.ID, 100))

	entries, err := svc.CartEntries(100)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlaceOrder(t *testing.T) {
	db := newTestDB(t)
	seedListing(t, db)
	svc := NewService(db)

	cart, err := svc.AddToCart(100, 300)
	require.NoError(t, err)

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	placed, err := svc.PlaceOrder(100, cart.ID, start, end)
	require.NoError(t, err)

	// period is inclusive: 3 days at 50 plus the 500 deposit
	assert.Equal(t, 3, placed.Days)
	assert.Equal(t, 650, placed.TotalAmount)
	assert.NotZero(t, placed.BillNo)
	assert.NotZero(t, placed.OrderID)

	var bill domain.Bill
	require.NoError(t, db.First(&bill, "bill_no = ?", placed.BillNo).Error)
	assert.Equal(t, 650, bill.Amount)
	assert.Equal(t, int64(100), bill.CustomerID)
	assert.Equal(t, int64(200), bill.OwnerID)

	var ord domain.OrderTable
	require.NoError(t, db.First(&ord, "order_id = ?", placed.OrderID).Error)
	assert.Equal(t, domain.PaymentPending, ord.PaymentStatus)
	assert.Equal(t, domain.DeliveryModeSelf, ord.DeliveryMode)
}

func TestPlaceOrderSingleDay(t *testing.T) {
	db := newTestDB(t)
	seedListing(t, db)
	svc := NewService(db)

	cart, err := svc.AddToCart(100, 300)
	require.NoError(t, err)

	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	placed, err := svc.PlaceOrder(100, cart.ID, day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, placed.Days)
	assert.Equal(t, 550, placed.TotalAmount)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	seedListing(t, db)
	svc := NewService(db)

	cart, err := svc.AddToCart(100, 300)
	require.NoError(t, err)

	start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	// end before start
	_, err = svc.PlaceOrder(100, cart.ID, start, start.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// exceeds the listing's max rental period
	_, err = svc.PlaceOrder(100, cart.ID, start, start.AddDate(0, 0, 20))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// another customer's cart row
	_, err = svc.PlaceOrder(999, cart.ID, start, start.AddDate(0, 0, 1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// unknown cart
	_, err = svc.PlaceOrder(100, 424242, start, start.AddDate(0, 0, 1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
