package domain

import (
	"time"
)

type Category struct {
	ID          int64     `gorm:"column:category_id;primaryKey" json:"category_id"`
	Type        string    `gorm:"column:type;index" json:"type"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "category"
}

type Item struct {
	ID         int64  `gorm:"column:item_id;primaryKey" json:"item_id"`
	Name       string `gorm:"column:item_name;index" json:"item_name"`
	CategoryID int64  `gorm:"column:category_id;index" json:"category_id"`
}

// TableName Specify table name
func (Item) TableName() string {
	return "items"
}

// Owner listing status sentinels. Only AVAILABLE listings are counted
// as rentable by the catalog queries.
const (
	ListingAvailable   = "AVAILABLE"
	ListingUnavailable = "UNAVAILABLE"
)

// OwnerItem is a single owner's rentable listing of a catalog item.
type OwnerItem struct {
	ID            int64     `gorm:"column:ot_id;primaryKey" json:"ot_id"`
	UserID        int64     `gorm:"column:user_id;index" json:"user_id"`
	ItemID        int64     `gorm:"column:item_id;index" json:"item_id"`
	Brand         string    `gorm:"column:brand" json:"brand"`
	Description   string    `gorm:"column:description" json:"description"`
	ConditionType string    `gorm:"column:condition_type" json:"condition_type"`
	RentPerDay    int       `gorm:"column:rent_per_day" json:"rent_per_day"`
	DepositAmt    int       `gorm:"column:deposit_amt" json:"deposit_amt"`
	Status        string    `gorm:"column:status" json:"status"`
	MaxRentDays   int       `gorm:"column:max_rent_days" json:"max_rent_days"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (OwnerItem) TableName() string {
	return "owner_items"
}
