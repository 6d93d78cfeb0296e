// Package catalog is the read layer over categories, items and owner
// listings. Queries are grouped to derive the count of AVAILABLE listings
// per item; text matching is case-insensitive substring with no ranking.
package catalog

import (
	"strings"

	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"gorm.io/gorm"
)

type CategorySummary struct {
	CategoryID  int64  `json:"category_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ItemCount   int    `json:"item_count"`
}

type ItemSummary struct {
	ItemID         int64  `json:"item_id"`
	ItemName       string `json:"item_name"`
	CategoryID     int64  `json:"category_id"`
	CategoryType   string `json:"category_type"`
	AvailableCount int    `json:"available_count"`
}

type Listing struct {
	OtID          int64  `json:"ot_id"`
	Brand         string `json:"brand"`
	Description   string `json:"description"`
	ConditionType string `json:"condition"`
	RentPerDay    int    `json:"rent_per_day"`
	DepositAmt    int    `json:"deposit_amt"`
	Status        string `json:"status"`
	OwnerID       int64  `json:"owner_id"`
	OwnerName     string `json:"owner_name"`
	CityName      string `json:"city_name"`
	StateName     string `json:"state_name"`
}

type ItemDetail struct {
	ItemID              int64     `json:"item_id"`
	ItemName            string    `json:"item_name"`
	CategoryID          int64     `json:"category_id"`
	CategoryType        string    `json:"category_type"`
	CategoryDescription string    `json:"category_description"`
	AvailableListings   []Listing `json:"available_listings" gorm:"-"`
}

type SearchResult struct {
	Items        []ItemSummary `json:"items"`
	SearchTerm   string        `json:"search_term"`
	TotalResults int           `json:"total_results"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Categories lists all categories with their item counts, for the home page.
func (r *Repository) Categories() ([]CategorySummary, error) {
	var rows []CategorySummary
	err := r.db.Raw(`
		SELECT c.category_id,
		       c.type,
		       c.description,
		       COUNT(i.item_id) AS item_count
		FROM category c
		LEFT JOIN items i ON c.category_id = i.category_id
		GROUP BY c.category_id, c.type, c.description
		ORDER BY c.type`).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "Failed to query categories")
	}
	return rows, nil
}

// ItemsByCategory lists a category's items with availability counts.
func (r *Repository) ItemsByCategory(categoryID int64) ([]ItemSummary, error) {
	var rows []ItemSummary
	err := r.db.Raw(`
		SELECT i.item_id,
		       i.item_name,
		       i.category_id,
		       c.type AS category_type,
		       COUNT(CASE WHEN oi.status = ? THEN 1 END) AS available_count
		FROM items i
		JOIN category c ON i.category_id = c.category_id
		LEFT JOIN owner_items oi ON i.item_id = oi.item_id
		WHERE i.category_id = ?
		GROUP BY i.item_id, i.item_name, i.category_id, c.type
		ORDER BY i.item_name`, domain.ListingAvailable, categoryID).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "Failed to query items")
	}
	return rows, nil
}

// ItemsByCategoryAndCity filters a category's items to those with at
// least one available listing from an owner in the given city.
func (r *Repository) ItemsByCategoryAndCity(categoryID, cityID int64) ([]ItemSummary, error) {
	var rows []ItemSummary
	err := r.db.Raw(`
		SELECT i.item_id,
		       i.item_name,
		       i.category_id,
		       c.type AS category_type,
		       COUNT(CASE WHEN oi.status = ? THEN 1 END) AS available_count
		FROM items i
		JOIN category c ON i.category_id = c.category_id
		LEFT JOIN owner_items oi ON i.item_id = oi.item_id
		LEFT JOIN user u ON oi.user_id = u.user_id
		WHERE i.category_id = ? AND u.city_id = ?
		GROUP BY i.item_id, i.item_name, i.category_id, c.type
		HAVING COUNT(CASE WHEN oi.status = ? THEN 1 END) > 0
		ORDER BY i.item_name`,
		domain.ListingAvailable, categoryID, cityID, domain.ListingAvailable).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "Failed to query items")
	}
	return rows, nil
}

// ItemDetail returns one item with its available listings ordered by
// daily rent, cheapest first.
func (r *Repository) ItemDetail(itemID int64) (*ItemDetail, error) {
	var detail ItemDetail
	res := r.db.Raw(`
		SELECT i.item_id,
		       i.item_name,
		       i.category_id,
		       c.type AS category_type,
		       c.description AS category_description
		FROM items i
		JOIN category c ON i.category_id = c.category_id
		WHERE i.item_id = ?`, itemID).Scan(&detail)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "Failed to query item")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Item %d not found", itemID)
	}

	// owner first/last name are joined in Go to stay portable across
	// the mysql and sqlite dialects
	var listingRows []struct {
		Listing
		OwnerFirst string `json:"-"`
		OwnerLast  string `json:"-"`
	}
	err := r.db.Raw(`
		SELECT oi.ot_id,
		       oi.brand,
		       oi.description,
		       oi.condition_type,
		       oi.rent_per_day,
		       oi.deposit_amt,
		       oi.status,
		       oi.user_id AS owner_id,
		       u.first_name AS owner_first,
		       u.last_name AS owner_last,
		       ci.city_name,
		       st.state_name
		FROM owner_items oi
		JOIN user u ON oi.user_id = u.user_id
		LEFT JOIN city ci ON u.city_id = ci.city_id
		LEFT JOIN state st ON u.state_id = st.state_id
		WHERE oi.item_id = ? AND oi.status = ?
		ORDER BY oi.rent_per_day ASC`, itemID, domain.ListingAvailable).
		Scan(&listingRows).Error
	if err != nil {
		return nil, apperr.Internal(err, "Failed to query listings")
	}

	detail.AvailableListings = make([]Listing, 0, len(listingRows))
	for _, row := range listingRows {
		l := row.Listing
		l.OwnerName = strings.TrimSpace(row.OwnerFirst + " " + row.OwnerLast)
		detail.AvailableListings = append(detail.AvailableListings, l)
	}
	return &detail, nil
}

// Search matches a case-insensitive substring across item name, category
// type/description and listing brand/description. Full result set, no
// ranking, no pagination.
func (r *Repository) Search(term string) (*SearchResult, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	// listing fields are matched through EXISTS so the grouped count
	// still covers all of the item's listings, not just matching ones
	var rows []ItemSummary
	err := r.db.Raw(`
		SELECT i.item_id,
		       i.item_name,
		       i.category_id,
		       c.type AS category_type,
		       COUNT(CASE WHEN oi.status = ? THEN 1 END) AS available_count
		FROM items i
		JOIN category c ON i.category_id = c.category_id
		LEFT JOIN owner_items oi ON i.item_id = oi.item_id
		WHERE LOWER(i.item_name) LIKE ?
		   OR LOWER(c.type) LIKE ?
		   OR LOWER(COALESCE(c.description, '')) LIKE ?
		   OR EXISTS (
		        SELECT 1 FROM owner_items m
		        WHERE m.item_id = i.item_id
		          AND (LOWER(COALESCE(m.brand, '')) LIKE ?
		           OR LOWER(COALESCE(m.description, '')) LIKE ?))
		GROUP BY i.item_id, i.item_name, i.category_id, c.type
		ORDER BY i.item_name`,
		domain.ListingAvailable, pattern, pattern, pattern, pattern, pattern).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "Failed to search items")
	}
	return &SearchResult{Items: rows, SearchTerm: term, TotalResults: len(rows)}, nil
}
