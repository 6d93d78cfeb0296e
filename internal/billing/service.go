// Package billing composes flattened bill views from the bill row and its
// customer, owner and listing relations. Missing relations degrade to
// placeholders; only a missing bill itself is an error.
package billing

import (
	"errors"
	"time"

	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Placeholder values substituted for absent relations.
const (
	UnknownName      = "Unknown"
	NotAvailable     = "N/A"
	DefaultCondition = "Good"
)

// BillView is the flattened, read-only projection of a bill. It is
// recomputed on every read and never persisted.
type BillView struct {
	BillNo int64 `json:"bill_no"`
	// bill date is not stored; reported as the time of composition
	BillDate time.Time `json:"bill_date"`
	Amount   int       `json:"amount"`

	// Derived from the matching order when one exists
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	NumberOfDays *int       `json:"number_of_days,omitempty"`
	TotalRent    *int       `json:"total_rent,omitempty"`

	CustomerID      int64  `json:"customer_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	CustomerCity    string `json:"customer_city"`
	CustomerState   string `json:"customer_state"`

	OwnerID      int64  `json:"owner_id"`
	OwnerName    string `json:"owner_name"`
	OwnerEmail   string `json:"owner_email"`
	OwnerPhone   string `json:"owner_phone"`
	OwnerAddress string `json:"owner_address"`
	OwnerCity    string `json:"owner_city"`
	OwnerState   string `json:"owner_state"`

	ItemID          int64  `json:"item_id"`
	ItemBrand       string `json:"item_brand"`
	ItemDescription string `json:"item_description"`
	ItemCondition   string `json:"item_condition"`
	RentPerDay      int    `json:"rent_per_day"`
	DepositAmt      int    `json:"deposit_amt"`
}

type CreateBillInput struct {
	CustomerID int64 `json:"customer_id" validate:"required"`
	OwnerID    int64 `json:"owner_id" validate:"required"`
	ItemID     int64 `json:"item_id" validate:"required"`
	Amount     int   `json:"amount" validate:"required"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetAllBills composes views for every bill.
func (s *Service) GetAllBills() ([]BillView, error) {
	var bills []domain.Bill
	if err := s.db.Order("bill_no").Find(&bills).Error; err != nil {
		return nil, apperr.Internal(err, "Failed to query bills")
	}
	return s.composeAll(bills), nil
}

// GetBillsByCustomer composes views for one customer's bills.
func (s *Service) GetBillsByCustomer(customerID int64) ([]BillView, error) {
	var bills []domain.Bill
	if err := s.db.Where("customer_id = ?", customerID).Order("bill_no").Find(&bills).Error; err != nil {
		return nil, apperr.Internal(err, "Failed to query bills")
	}
	return s.composeAll(bills), nil
}

// GetBillsByOwner composes views for one owner's bills.
func (s *Service) GetBillsByOwner(ownerID int64) ([]BillView, error) {
	var bills []domain.Bill
	if err := s.db.Where("owner_id = ?", ownerID).Order("bill_no").Find(&bills).Error; err != nil {
		return nil, apperr.Internal(err, "Failed to query bills")
	}
	return s.composeAll(bills), nil
}

// GetBill composes the view for a single bill number.
func (s *Service) GetBill(billNo int64) (*BillView, error) {
	var bill domain.Bill
	err := s.db.Where("bill_no = ?", billNo).First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Bill %d not found", billNo)
	} else if err != nil {
		return nil, apperr.Internal(err, "Failed to query bill")
	}
	view := s.compose(bill)
	return &view, nil
}

// CreateBill validates references and amount, stores the bill and returns
// the composed view. Bills are immutable once written.
func (s *Service) CreateBill(in CreateBillInput) (*BillView, error) {
	if in.Amount <= 0 {
		return nil, apperr.Validation("Amount must be greater than zero")
	}
	if err := s.mustExist(&domain.User{}, "user_id", in.CustomerID, "Customer"); err != nil {
		return nil, err
	}
	if err := s.mustExist(&domain.User{}, "user_id", in.OwnerID, "Owner"); err != nil {
		return nil, err
	}
	if err := s.mustExist(&domain.OwnerItem{}, "ot_id", in.ItemID, "Item"); err != nil {
		return nil, err
	}

	bill := domain.Bill{
		CustomerID: in.CustomerID,
		OwnerID:    in.OwnerID,
		ItemID:     in.ItemID,
		Amount:     in.Amount,
	}
	if err := s.db.Create(&bill).Error; err != nil {
		return nil, apperr.Internal(err, "Failed to create bill")
	}
	zap.L().Info("bill created",
		zap.Int64("bill_no", bill.BillNo),
		zap.Int64("customer_id", bill.CustomerID),
		zap.Int64("owner_id", bill.OwnerID))

	view := s.compose(bill)
	return &view, nil
}

func (s *Service) mustExist(model interface{}, column string, id int64, label string) error {
	var count int64
	if err := s.db.Model(model).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return apperr.Internal(err, "Failed to validate "+label)
	}
	if count == 0 {
		return apperr.Validation("%s with ID %d not found", label, id)
	}
	return nil
}

func (s *Service) composeAll(bills []domain.Bill) []BillView {
	views := make([]BillView, 0, len(bills))
	for _, b := range bills {
		views = append(views, s.compose(b))
	}
	return views
}

// compose flattens one bill with its relations, falling back to fixed
// placeholders for anything missing.
func (s *Service) compose(bill domain.Bill) BillView {
	view := BillView{
		BillNo:   bill.BillNo,
		BillDate: time.Now(),
		Amount:   bill.Amount,

		CustomerID:      bill.CustomerID,
		CustomerName:    UnknownName,
		CustomerEmail:   NotAvailable,
		CustomerPhone:   NotAvailable,
		CustomerAddress: NotAvailable,
		CustomerCity:    NotAvailable,
		CustomerState:   NotAvailable,

		OwnerID:      bill.OwnerID,
		OwnerName:    UnknownName,
		OwnerEmail:   NotAvailable,
		OwnerPhone:   NotAvailable,
		OwnerAddress: NotAvailable,
		OwnerCity:    NotAvailable,
		OwnerState:   NotAvailable,

		ItemID:          bill.ItemID,
		ItemBrand:       NotAvailable,
		ItemDescription: NotAvailable,
		ItemCondition:   DefaultCondition,
	}

	if customer, ok := s.findUser(bill.CustomerID); ok {
		s.fillParty(customer,
			&view.CustomerName, &view.CustomerEmail, &view.CustomerPhone,
			&view.CustomerAddress, &view.CustomerCity, &view.CustomerState)
	}
	if owner, ok := s.findUser(bill.OwnerID); ok {
		s.fillParty(owner,
			&view.OwnerName, &view.OwnerEmail, &view.OwnerPhone,
			&view.OwnerAddress, &view.OwnerCity, &view.OwnerState)
	}

	var listing domain.OwnerItem
	hasListing := s.db.Where("ot_id = ?", bill.ItemID).First(&listing).Error == nil
	if hasListing {
		view.ItemBrand = listing.Brand
		view.ItemDescription = listing.Description
		if listing.ConditionType != "" {
			view.ItemCondition = listing.ConditionType
		}
		view.RentPerDay = listing.RentPerDay
		view.DepositAmt = listing.DepositAmt
	}

	// The order is matched by party/listing ids, most recent first; days
	// and total rent stay unset when no order exists.
	var order domain.OrderTable
	err := s.db.Where("customer_id = ? AND owner_id = ? AND owner_item_id = ?",
		bill.CustomerID, bill.OwnerID, bill.ItemID).
		Order("order_id DESC").First(&order).Error
	if err == nil {
		start, end := order.StartDate, order.EndDate
		view.StartDate = &start
		view.EndDate = &end
		days := int(end.Sub(start).Hours() / 24)
		if days < 1 {
			days = 1
		}
		view.NumberOfDays = &days
		if hasListing {
			total := days * listing.RentPerDay
			view.TotalRent = &total
		}
	}

	return view
}

func (s *Service) findUser(id int64) (domain.User, bool) {
	var u domain.User
	if err := s.db.Where("user_id = ?", id).First(&u).Error; err != nil {
		return domain.User{}, false
	}
	return u, true
}

func (s *Service) fillParty(u domain.User, name, email, phone, address, city, state *string) {
	if n := u.FullName(); n != "" {
		*name = n
	}
	if u.Email != "" {
		*email = u.Email
	}
	if u.PhoneNo != "" {
		*phone = u.PhoneNo
	}
	if u.Address != "" {
		*address = u.Address
	}
	var cityRow domain.City
	if err := s.db.Where("city_id = ?", u.CityID).First(&cityRow).Error; err == nil {
		*city = cityRow.Name
	}
	var stateRow domain.State
	if err := s.db.Where("state_id = ?", u.StateID).First(&stateRow).Error; err == nil {
		*state = stateRow.Name
	}
}
