package domain

import (
	"time"
)

// Bill is written once when an order is fulfilled and never mutated.
// bill_no is assigned by the storage layer.
type Bill struct {
	BillNo     int64     `gorm:"column:bill_no;primaryKey;autoIncrement" json:"bill_no"`
	CustomerID int64     `gorm:"column:customer_id;index" json:"customer_id"`
	OwnerID    int64     `gorm:"column:owner_id;index" json:"owner_id"`
	ItemID     int64     `gorm:"column:item_id;index" json:"item_id"`
	Amount     int       `gorm:"column:amount" json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName Specify table name
func (Bill) TableName() string {
	return "bill"
}

// Order payment and delivery defaults.
const (
	PaymentPending   = "PENDING"
	DeliveryModeSelf = "SELF"
)

// OrderTable has no foreign key onto bill; the two are matched by
// (customer_id, owner_id, owner_item_id), most recent order first.
type OrderTable struct {
	ID            int64     `gorm:"column:order_id;primaryKey" json:"order_id"`
	CustomerID    int64     `gorm:"column:customer_id;index" json:"customer_id"`
	OwnerID       int64     `gorm:"column:owner_id;index" json:"owner_id"`
	OwnerItemID   int64     `gorm:"column:owner_item_id;index" json:"owner_item_id"`
	StartDate     time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate       time.Time `gorm:"column:end_date" json:"end_date"`
	PaymentStatus string    `gorm:"column:payment_status" json:"payment_status"`
	DeliveryMode  string    `gorm:"column:delivery_mode" json:"delivery_mode"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderTable) TableName() string {
	return "order_table"
}

type Cart struct {
	ID         int64     `gorm:"column:cart_id;primaryKey" json:"cart_id"`
	CustomerID int64     `gorm:"column:customer_id;index" json:"customer_id"`
	OwnerItem  int64     `gorm:"column:ot_id;index" json:"ot_id"`
	DateTime   time.Time `gorm:"column:date_time" json:"date_time"`
}

// TableName Specify table name
func (Cart) TableName() string {
	return "cart"
}
