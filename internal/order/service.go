// Package order handles cart rows and order placement. Placing an order
// writes the order and its bill in a single transaction; the bill amount
// is the rental for the whole period plus the listing deposit.
package order

import (
	"errors"
	"time"

	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/dacaug2504/rentit/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CartEntry struct {
	CartID     int64     `json:"cart_id"`
	OtID       int64     `json:"ot_id"`
	ItemID     int64     `json:"item_id"`
	Brand      string    `json:"brand"`
	Descr      string    `json:"description"`
	RentPerDay int       `json:"rent_per_day"`
	DepositAmt int       `json:"deposit_amt"`
	Status     string    `json:"status"`
	AddedAt    time.Time `json:"added_at"`
}

type PlacedOrder struct {
	BillNo      int64     `json:"bill_no"`
	OrderID     int64     `json:"order_id"`
	TotalAmount int       `json:"total_amount"`
	Days        int       `json:"days"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddToCart stores a listing in the customer's cart.
func (s *Service) AddToCart(customerID, ownerItemID int64) (*domain.Cart, error) {
	var listing domain.OwnerItem
	err := s.db.Where("ot_id = ?", ownerItemID).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Listing %d not found", ownerItemID)
	} else if err != nil {
		return nil, apperr.Internal(err, "Failed to query listing")
	}

	cart := domain.Cart{
		ID:         common.UUIDint64(),
		CustomerID: customerID,
		OwnerItem:  ownerItemID,
		DateTime:   time.Now(),
	}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, apperr.Internal(err, "Failed to add to cart")
	}
	return &cart, nil
}

// CartEntries lists the customer's cart with listing details.
func (s *Service) CartEntries(customerID int64) ([]CartEntry, error) {
	var rows []CartEntry
	err := s.db.Raw(`
		SELECT ct.cart_id,
		       ct.ot_id,
		       oi.item_id,
		       oi.brand,
		       oi.description AS descr,
		       oi.rent_per_day,
		       oi.deposit_amt,
		       oi.status,
		       ct.date_time AS added_at
		FROM cart ct
		JOIN owner_items oi ON ct.ot_id = oi.ot_id
		WHERE ct.customer_id = ?
		ORDER BY ct.date_time DESC`, customerID).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "Failed to query cart")
	}
	return rows, nil
}

// RemoveFromCart deletes a cart row after checking it belongs to the
// requesting customer.
func (s *Service) RemoveFromCart(cartID, customerID int64) error {
	var cart domain.Cart
	err := s.db.Where("cart_id = ?", cartID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Cart item %d not found", cartID)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query cart item")
	}
	if cart.CustomerID != customerID {
		return apperr.Forbidden("Cart item does not belong to this customer")
	}
	if err := s.db.Delete(&domain.Cart{}, "cart_id = ?", cartID).Error; err != nil {
		return apperr.Internal(err, "Failed to remove cart item")
	}
	return nil
}

// PlaceOrder turns a cart row into an order and its bill. The rental
// period is inclusive of both end dates.
func (s *Service) PlaceOrder(customerID, cartID int64, startDate, endDate time.Time) (*PlacedOrder, error) {
	if endDate.Before(startDate) {
		return nil, apperr.Validation("End date must not be before start date")
	}

	var cart domain.Cart
	err := s.db.Where("cart_id = ?", cartID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Cart item %d not found", cartID)
	} else if err != nil {
		return nil, apperr.Internal(err, "Failed to query cart item")
	}
	if cart.CustomerID != customerID {
		return nil, apperr.Forbidden("Cart item does not belong to this customer")
	}

	var listing domain.OwnerItem
	if err := s.db.Where("ot_id = ?", cart.OwnerItem).First(&listing).Error; err != nil {
		return nil, apperr.Validation("Listing %d no longer exists", cart.OwnerItem)
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1
	if listing.MaxRentDays > 0 && days > listing.MaxRentDays {
		return nil, apperr.Validation("Rental period exceeds the %d day limit for this listing", listing.MaxRentDays)
	}
	rentAmount := days * listing.RentPerDay
	totalAmount := rentAmount + listing.DepositAmt

	bill := domain.Bill{
		CustomerID: customerID,
		OwnerID:    listing.UserID,
		ItemID:     listing.ID,
		Amount:     totalAmount,
	}
	ord := domain.OrderTable{
		ID:            common.UUIDint64(),
		CustomerID:    customerID,
		OwnerID:       listing.UserID,
		OwnerItemID:   listing.ID,
		StartDate:     startDate,
		EndDate:       endDate,
		PaymentStatus: domain.PaymentPending,
		DeliveryMode:  domain.DeliveryModeSelf,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bill).Error; err != nil {
			return err
		}
		if err := tx.Create(&ord).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err, "Failed to place order")
	}

	zap.L().Info("order placed",
		zap.Int64("order_id", ord.ID),
		zap.Int64("bill_no", bill.BillNo),
		zap.Int64("customer_id", customerID),
		zap.Int("days", days))

	return &PlacedOrder{
		BillNo:      bill.BillNo,
		OrderID:     ord.ID,
		TotalAmount: totalAmount,
		Days:        days,
		StartDate:   startDate,
		EndDate:     endDate,
	}, nil
}
