package adminapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type itemPayload struct {
	Name       string `json:"item_name" validate:"required,min=1,max=45"`
	CategoryID int64  `json:"category_id" validate:"required"`
}

func registerItemRoutes() {
	adminOnly := auth.Required(auth.RoleAdmin)
	webserver.ApiGET("/admin/items", listItems, adminOnly)
	webserver.ApiGET("/admin/items/:id", getItem, adminOnly)
	webserver.ApiGET("/admin/items/category/:categoryId", listItemsByCategory, adminOnly)
	webserver.ApiPOST("/admin/items", createItem, adminOnly)
	webserver.ApiPUT("/admin/items/:id", updateItem, adminOnly)
	webserver.ApiDELETE("/admin/items/:id", deleteItem, adminOnly)
}

func listItems(c echo.Context) error {
	var items []domain.Item
	if err := GetDB(c).Order("item_name").Find(&items).Error; err != nil {
		return apperr.Internal(err, "Failed to query items")
	}
	return ok(c, items)
}

func getItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return apperr.Validation("Invalid item ID")
	}
	var item domain.Item
	if err := GetDB(c).Where("item_id = ?", id).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Item %d not found", id)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query item")
	}
	return ok(c, item)
}

func listItemsByCategory(c echo.Context) error {
	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		return apperr.Validation("Invalid category ID")
	}
	if err := mustHaveCategory(GetDB(c), categoryID); err != nil {
		return err
	}
	var items []domain.Item
	if err := GetDB(c).Where("category_id = ?", categoryID).Order("item_name").Find(&items).Error; err != nil {
		return apperr.Internal(err, "Failed to query items")
	}
	return ok(c, items)
}

func mustHaveCategory(db *gorm.DB, categoryID int64) error {
	var count int64
	if err := db.Model(&domain.Category{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return apperr.Internal(err, "Failed to query category")
	}
	if count == 0 {
		return apperr.Validation("Category with ID %d not found", categoryID)
	}
	return nil
}

func createItem(c echo.Context) error {
	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse item")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return apperr.Validation("Item name is required")
	}
	if err := mustHaveCategory(GetDB(c), payload.CategoryID); err != nil {
		return err
	}

	item := domain.Item{Name: payload.Name, CategoryID: payload.CategoryID}
	if err := GetDB(c).Create(&item).Error; err != nil {
		return apperr.Internal(err, "Failed to create item")
	}
	audit(c, "item.create", fmt.Sprintf("item %d '%s'", item.ID, item.Name))
	return webserver.Created(c, item)
}

func updateItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return apperr.Validation("Invalid item ID")
	}
	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse item")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return apperr.Validation("Item name is required")
	}

	var item domain.Item
	if err := GetDB(c).Where("item_id = ?", id).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Item %d not found", id)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query item")
	}
	if err := mustHaveCategory(GetDB(c), payload.CategoryID); err != nil {
		return err
	}

	item.Name = payload.Name
	item.CategoryID = payload.CategoryID
	if err := GetDB(c).Save(&item).Error; err != nil {
		return apperr.Internal(err, "Failed to update item")
	}
	audit(c, "item.update", fmt.Sprintf("item %d '%s'", item.ID, item.Name))
	return ok(c, item)
}

// deleteItem refuses to delete an item that owners still list.
func deleteItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return apperr.Validation("Invalid item ID")
	}
	var item domain.Item
	if err := GetDB(c).Where("item_id = ?", id).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Item %d not found", id)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query item")
	}

	var listingCount int64
	if err := GetDB(c).Model(&domain.OwnerItem{}).Where("item_id = ?", id).Count(&listingCount).Error; err != nil {
		return apperr.Internal(err, "Failed to count item listings")
	}
	if listingCount > 0 {
		return apperr.Conflict("Item has %d listings and cannot be deleted", listingCount)
	}

	if err := GetDB(c).Delete(&domain.Item{}, "item_id = ?", id).Error; err != nil {
		return apperr.Internal(err, "Failed to delete item")
	}
	audit(c, "item.delete", fmt.Sprintf("item %d '%s'", id, item.Name))
	return ok(c, map[string]interface{}{"item_id": id})
}
