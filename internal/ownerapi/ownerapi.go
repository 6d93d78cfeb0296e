// Package ownerapi exposes listing management for owners: create, update
// and delete their own owner_items rows plus a joined my-listings view.
// Listing ids always check ownership against the calling principal, with
// the admin bypass.
package ownerapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/dacaug2504/rentit/pkg/common"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type createListingPayload struct {
	CategoryID    int64  `json:"category_id" validate:"required"`
	ItemID        int64  `json:"item_id" validate:"required"`
	Brand         string `json:"brand" validate:"required,max=45"`
	Description   string `json:"description" validate:"max=255"`
	ConditionType string `json:"condition_type" validate:"max=45"`
	RentPerDay    int    `json:"rent_per_day" validate:"required"`
	DepositAmt    int    `json:"deposit_amt"`
	MaxRentDays   int    `json:"max_rent_days"`
}

type updateListingPayload struct {
	Brand         string `json:"brand" validate:"required,max=45"`
	Description   string `json:"description" validate:"max=255"`
	ConditionType string `json:"condition_type" validate:"max=45"`
	RentPerDay    int    `json:"rent_per_day" validate:"required"`
	DepositAmt    int    `json:"deposit_amt"`
	MaxRentDays   int    `json:"max_rent_days"`
	Status        string `json:"status" validate:"required"`
}

// OwnerListing is the owner's view of one listing joined with its
// catalog item and category.
type OwnerListing struct {
	OtID          int64  `json:"ot_id"`
	Brand         string `json:"brand"`
	Description   string `json:"description"`
	ConditionType string `json:"condition_type"`
	RentPerDay    int    `json:"rent_per_day"`
	DepositAmt    int    `json:"deposit_amt"`
	MaxRentDays   int    `json:"max_rent_days"`
	Status        string `json:"status"`
	ItemID        int64  `json:"item_id"`
	ItemName      string `json:"item_name"`
	CategoryID    int64  `json:"category_id"`
	CategoryType  string `json:"category_type"`
}

// InitRouter registers the owner listing routes. Call after webserver.Init.
func InitRouter() {
	ownerOnly := auth.Required(auth.RoleOwner)
	ownerOrAdmin := auth.Required(auth.RoleOwner, auth.RoleAdmin)
	webserver.ApiPOST("/owner/listings", createListing, ownerOnly)
	webserver.ApiGET("/owner/listings", myListings, ownerOnly)
	webserver.ApiGET("/owner/listings/:otId", getListing, ownerOrAdmin)
	webserver.ApiPUT("/owner/listings/:otId", updateListing, ownerOrAdmin)
	webserver.ApiDELETE("/owner/listings/:otId", deleteListing, ownerOrAdmin)
}

func createListing(c echo.Context) error {
	var payload createListingPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse listing")
	}
	payload.Brand = strings.TrimSpace(payload.Brand)
	if payload.Brand == "" {
		return apperr.Validation("Brand is required")
	}
	if payload.RentPerDay <= 0 {
		return apperr.Validation("rent_per_day must be greater than zero")
	}
	if payload.DepositAmt < 0 || payload.MaxRentDays < 0 {
		return apperr.Validation("deposit_amt and max_rent_days cannot be negative")
	}

	db := webserver.GetDB(c)
	var item domain.Item
	if err := db.Where("item_id = ?", payload.ItemID).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Validation("Item with ID %d not found", payload.ItemID)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query item")
	}
	if item.CategoryID != payload.CategoryID {
		return apperr.Validation("Item %d does not belong to category %d", payload.ItemID, payload.CategoryID)
	}

	condition := strings.TrimSpace(payload.ConditionType)
	if common.IsEmptyOrNA(condition) {
		condition = ""
	}

	p, _ := auth.FromContext(c)
	listing := domain.OwnerItem{
		ID:            common.UUIDint64(),
		UserID:        p.ID,
		ItemID:        item.ID,
		Brand:         payload.Brand,
		Description:   strings.TrimSpace(payload.Description),
		ConditionType: condition,
		RentPerDay:    payload.RentPerDay,
		DepositAmt:    payload.DepositAmt,
		MaxRentDays:   payload.MaxRentDays,
		Status:        domain.ListingAvailable,
	}
	if err := db.Create(&listing).Error; err != nil {
		return apperr.Internal(err, "Failed to create listing")
	}
	audit(c, "listing.create", fmt.Sprintf("listing %d item %d '%s'", listing.ID, listing.ItemID, listing.Brand))
	return webserver.Created(c, listing)
}

func myListings(c echo.Context) error {
	p, _ := auth.FromContext(c)
	var rows []OwnerListing
	err := webserver.GetDB(c).Raw(`
		SELECT oi.ot_id,
		       oi.brand,
		       oi.description,
		       oi.condition_type,
		       oi.rent_per_day,
		       oi.deposit_amt,
		       oi.max_rent_days,
		       oi.status,
		       i.item_id,
		       i.item_name,
		       c.category_id,
		       c.type AS category_type
		FROM owner_items oi
		JOIN items i ON oi.item_id = i.item_id
		JOIN category c ON i.category_id = c.category_id
		WHERE oi.user_id = ?
		ORDER BY oi.ot_id`, p.ID).Scan(&rows).Error
	if err != nil {
		return apperr.Internal(err, "Failed to query listings")
	}
	return webserver.OK(c, rows)
}

func getListing(c echo.Context) error {
	listing, err := fetchOwned(c)
	if err != nil {
		return err
	}
	return webserver.OK(c, listing)
}

func updateListing(c echo.Context) error {
	listing, err := fetchOwned(c)
	if err != nil {
		return err
	}
	var payload updateListingPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse listing")
	}
	payload.Brand = strings.TrimSpace(payload.Brand)
	if payload.Brand == "" {
		return apperr.Validation("Brand is required")
	}
	if payload.RentPerDay <= 0 {
		return apperr.Validation("rent_per_day must be greater than zero")
	}
	if payload.DepositAmt < 0 || payload.MaxRentDays < 0 {
		return apperr.Validation("deposit_amt and max_rent_days cannot be negative")
	}
	status := strings.ToUpper(strings.TrimSpace(payload.Status))
	if status != domain.ListingAvailable && status != domain.ListingUnavailable {
		return apperr.Validation("Status must be %s or %s", domain.ListingAvailable, domain.ListingUnavailable)
	}
	condition := strings.TrimSpace(payload.ConditionType)
	if common.IsEmptyOrNA(condition) {
		condition = ""
	}

	listing.Brand = payload.Brand
	listing.Description = strings.TrimSpace(payload.Description)
	listing.ConditionType = condition
	listing.RentPerDay = payload.RentPerDay
	listing.DepositAmt = payload.DepositAmt
	listing.MaxRentDays = payload.MaxRentDays
	listing.Status = status
	if err := webserver.GetDB(c).Save(listing).Error; err != nil {
		return apperr.Internal(err, "Failed to update listing")
	}
	audit(c, "listing.update", fmt.Sprintf("listing %d status %s", listing.ID, listing.Status))
	return webserver.OK(c, listing)
}

// deleteListing removes the listing together with any cart rows still
// pointing at it; placed orders keep their owner_item_id reference.
func deleteListing(c echo.Context) error {
	listing, err := fetchOwned(c)
	if err != nil {
		return err
	}
	err = webserver.GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Cart{}, "ot_id = ?", listing.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.OwnerItem{}, "ot_id = ?", listing.ID).Error
	})
	if err != nil {
		return apperr.Internal(err, "Failed to delete listing")
	}
	audit(c, "listing.delete", fmt.Sprintf("listing %d '%s'", listing.ID, listing.Brand))
	return webserver.OKMessage(c, "Listing deleted")
}

// fetchOwned resolves the :otId param and enforces that the caller owns
// the listing or is an admin.
func fetchOwned(c echo.Context) (*domain.OwnerItem, error) {
	otID, err := strconv.ParseInt(c.Param("otId"), 10, 64)
	if err != nil {
		return nil, apperr.Validation("Invalid listing ID")
	}
	var listing domain.OwnerItem
	if err := webserver.GetDB(c).Where("ot_id = ?", otID).First(&listing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Listing %d not found", otID)
	} else if err != nil {
		return nil, apperr.Internal(err, "Failed to query listing")
	}
	p, _ := auth.FromContext(c)
	if !p.CanAccess(listing.UserID) {
		return nil, apperr.Forbidden("Cannot manage another owner's listing")
	}
	return &listing, nil
}

func audit(c echo.Context, action, desc string) {
	p, _ := auth.FromContext(c)
	webserver.GetApp(c).PublishAudit(app.AuditEvent{
		Actor:  p.Role.String() + ":" + strconv.FormatInt(p.ID, 10),
		Ip:     c.RealIP(),
		Action: action,
		Desc:   desc,
	})
}
