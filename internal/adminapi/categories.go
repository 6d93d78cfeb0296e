package adminapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type categoryPayload struct {
	Type        string `json:"type" validate:"required,min=1,max=45"`
	Description string `json:"description" validate:"max=80"`
}

type categoryDetail struct {
	domain.Category
	ItemCount int64 `json:"item_count"`
}

func registerCategoryRoutes() {
	adminOnly := auth.Required(auth.RoleAdmin)
	webserver.ApiGET("/admin/categories", listCategories, adminOnly)
	webserver.ApiGET("/admin/categories/:id", getCategory, adminOnly)
	webserver.ApiPOST("/admin/categories", createCategory, adminOnly)
	webserver.ApiPUT("/admin/categories/:id", updateCategory, adminOnly)
	webserver.ApiDELETE("/admin/categories/:id", deleteCategory, adminOnly)
}

// duplicateType checks category type uniqueness case-insensitively at the
// query level, optionally excluding one id.
func duplicateType(db *gorm.DB, ctype string, excludeID int64) (bool, error) {
	q := db.Model(&domain.Category{}).Where("LOWER(type) = ?", strings.ToLower(strings.TrimSpace(ctype)))
	if excludeID > 0 {
		q = q.Where("category_id != ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func listCategories(c echo.Context) error {
	var categories []domain.Category
	if err := GetDB(c).Order("type").Find(&categories).Error; err != nil {
		return apperr.Internal(err, "Failed to query categories")
	}
	details := make([]categoryDetail, 0, len(categories))
	for _, cat := range categories {
		var count int64
		GetDB(c).Model(&domain.Item{}).Where("category_id = ?", cat.ID).Count(&count)
		details = append(details, categoryDetail{Category: cat, ItemCount: count})
	}
	return ok(c, details)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return apperr.Validation("Invalid category ID")
	}
	var cat domain.Category
	if err := GetDB(c).Where("category_id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Category %d not found", id)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query category")
	}
	var count int64
	GetDB(c).Model(&domain.Item{}).Where("category_id = ?", id).Count(&count)
	return ok(c, categoryDetail{Category: cat, ItemCount: count})
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse category")
	}
	payload.Type = strings.TrimSpace(payload.Type)
	if payload.Type == "" {
		return apperr.Validation("Category type is required")
	}

	dup, err := duplicateType(GetDB(c), payload.Type, 0)
	if err != nil {
		return apperr.Internal(err, "Failed to check category type")
	}
	if dup {
		return apperr.Conflict("Category '%s' already exists", payload.Type)
	}

	cat := domain.Category{
		Type:        payload.Type,
		Description: strings.TrimSpace(payload.Description),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := GetDB(c).Create(&cat).Error; err != nil {
		return apperr.Internal(err, "Failed to create category")
	}
	audit(c, "category.create", fmt.Sprintf("category %d '%s'", cat.ID, cat.Type))
	return webserver.Created(c, cat)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return apperr.Validation("Invalid category ID")
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse category")
	}
	payload.Type = strings.TrimSpace(payload.Type)
	if payload.Type == "" {
		return apperr.Validation("Category type is required")
	}

	var cat domain.Category
	if err := GetDB(c).Where("category_id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Category %d not found", id)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query category")
	}

	dup, err := duplicateType(GetDB(c), payload.Type, id)
	if err != nil {
		return apperr.Internal(err, "Failed to check category type")
	}
	if dup {
		return apperr.Conflict("Category '%s' already exists", payload.Type)
	}

	cat.Type = payload.Type
	cat.Description = strings.TrimSpace(payload.Description)
	cat.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&cat).Error; err != nil {
		return apperr.Internal(err, "Failed to update category")
	}
	audit(c, "category.update", fmt.Sprintf("category %d '%s'", cat.ID, cat.Type))
	return ok(c, cat)
}

// deleteCategory refuses to delete a category that still has items.
func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return apperr.Validation("Invalid category ID")
	}
	var cat domain.Category
	if err := GetDB(c).Where("category_id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Category %d not found", id)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query category")
	}

	var itemCount int64
	if err := GetDB(c).Model(&domain.Item{}).Where("category_id = ?", id).Count(&itemCount).Error; err != nil {
		return apperr.Internal(err, "Failed to count category items")
	}
	if itemCount > 0 {
		return apperr.Conflict("Category has %d items and cannot be deleted", itemCount)
	}

	if err := GetDB(c).Delete(&domain.Category{}, "category_id = ?", id).Error; err != nil {
		return apperr.Internal(err, "Failed to delete category")
	}
	audit(c, "category.delete", fmt.Sprintf("category %d '%s'", id, cat.Type))
	return ok(c, map[string]interface{}{"category_id": id})
}
