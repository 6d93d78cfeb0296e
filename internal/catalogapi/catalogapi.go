// Package catalogapi exposes the public, read-only browse surface:
// category lists, available item counts and free-text search. No route
// here requires authentication.
package catalogapi

import (
	"strconv"
	"strings"

	"github.com/dacaug2504/rentit/internal/catalog"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
)

// InitRouter registers the catalog routes. Call after webserver.Init.
func InitRouter() {
	webserver.PubGET("/catalog/categories", listCategories)
	webserver.PubGET("/catalog/categories/:id/items", listCategoryItems)
	webserver.PubGET("/catalog/items/:id", getItemDetail)
	webserver.PubGET("/catalog/search", search)
}

func repo(c echo.Context) *catalog.Repository {
	return catalog.NewRepository(webserver.GetDB(c))
}

func listCategories(c echo.Context) error {
	summaries, err := repo(c).Categories()
	if err != nil {
		return err
	}
	return webserver.OK(c, summaries)
}

// listCategoryItems lists a category's items with available listing
// counts. An optional cityId query narrows the count to owners in that
// city and drops items with nothing available there.
func listCategoryItems(c echo.Context) error {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.Validation("Invalid category ID")
	}

	if raw := c.QueryParam("cityId"); raw != "" {
		cityID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperr.Validation("Invalid city ID")
		}
		items, err := repo(c).ItemsByCategoryAndCity(categoryID, cityID)
		if err != nil {
			return err
		}
		return webserver.OK(c, items)
	}

	items, err := repo(c).ItemsByCategory(categoryID)
	if err != nil {
		return err
	}
	return webserver.OK(c, items)
}

func getItemDetail(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.Validation("Invalid item ID")
	}
	detail, err := repo(c).ItemDetail(itemID)
	if err != nil {
		return err
	}
	return webserver.OK(c, detail)
}

func search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("query"))
	if term == "" {
		return apperr.Validation("Search query is required")
	}
	result, err := repo(c).Search(term)
	if err != nil {
		return err
	}
	// search_limit caps the response size; the full count is still reported
	if limit := webserver.GetApp(c).GetSettingsInt64Value("catalog", "search_limit"); limit > 0 && int64(len(result.Items)) > limit {
		result.Items = result.Items[:limit]
	}
	return webserver.OK(c, result)
}
