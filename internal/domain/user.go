package domain

import (
	"time"
)

type Role struct {
	ID   int64  `gorm:"column:role_id;primaryKey" json:"role_id"`
	Name string `gorm:"column:role_name;index" json:"role_name"`
}

// TableName Specify table name
func (Role) TableName() string {
	return "role"
}

type State struct {
	ID   int64  `gorm:"column:state_id;primaryKey" json:"state_id"`
	Name string `gorm:"column:state_name" json:"state_name"`
}

// TableName Specify table name
func (State) TableName() string {
	return "state"
}

type City struct {
	ID      int64  `gorm:"column:city_id;primaryKey" json:"city_id"`
	StateID int64  `gorm:"column:state_id;index" json:"state_id"`
	Name    string `gorm:"column:city_name" json:"city_name"`
}

// TableName Specify table name
func (City) TableName() string {
	return "city"
}

// User account statuses stored in the status column.
const (
	UserStatusActive    = 1
	UserStatusSuspended = 2
	UserStatusDisabled  = 3
)

// UserStatusLabel returns the display label for a stored status value.
func UserStatusLabel(status int) string {
	switch status {
	case UserStatusActive:
		return "ACTIVE"
	case UserStatusSuspended:
		return "SUSPENDED"
	case UserStatusDisabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

type User struct {
	ID        int64     `gorm:"column:user_id;primaryKey" json:"user_id"`
	RoleID    int64     `gorm:"column:role_id;index" json:"role_id"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	Password  string    `gorm:"column:password" json:"-"`
	Email     string    `gorm:"column:email;uniqueIndex" json:"email"`
	PhoneNo   string    `gorm:"column:phone_no" json:"phone_no"`
	Address   string    `gorm:"column:address" json:"address"`
	StateID   int64     `gorm:"column:state_id" json:"state_id"`
	CityID    int64     `gorm:"column:city_id" json:"city_id"`
	Status    int       `gorm:"column:status" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "user"
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}
