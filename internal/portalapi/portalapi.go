// Package portalapi carries the public account surface: self-service
// registration and the state/city/role lookups the signup form needs.
package portalapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/dacaug2504/rentit/pkg/common"
	"github.com/labstack/echo/v4"
)

type registerPayload struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=45"`
	LastName  string `json:"last_name" validate:"max=45"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	PhoneNo   string `json:"phone_no" validate:"max=20"`
	Address   string `json:"address" validate:"max=120"`
	RoleID    int64  `json:"role_id" validate:"required"`
	StateID   int64  `json:"state_id"`
	CityID    int64  `json:"city_id"`
}

type registerResult struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// InitRouter registers the portal routes. Call after webserver.Init.
func InitRouter() {
	webserver.PubPOST("/register", registerUser)
	webserver.PubGET("/lookup/states", listStates)
	webserver.PubGET("/lookup/states/:id/cities", listStateCities)
	webserver.PubGET("/lookup/roles", listRoles)
}

// registerUser creates a CUSTOMER or OWNER account. Admin accounts are
// never created through this route. State and city ids are stored as
// given; an unknown id just means the profile shows no location.
func registerUser(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse registration")
	}
	if err := c.Validate(&payload); err != nil {
		return apperr.Validation("first_name, email, password and role_id are required")
	}
	if payload.RoleID != app.RoleIdCustomer && payload.RoleID != app.RoleIdOwner {
		return apperr.Validation("Role must be CUSTOMER or OWNER")
	}

	db := webserver.GetDB(c)
	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var count int64
	if err := db.Model(&domain.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		return apperr.Internal(err, "Failed to check email")
	}
	if count > 0 {
		return apperr.Conflict("Email '%s' is already registered", email)
	}

	hashed, err := common.HashPassword(payload.Password)
	if err != nil {
		return apperr.Internal(err, "Failed to hash password")
	}

	user := domain.User{
		ID:        common.UUIDint64(),
		RoleID:    payload.RoleID,
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
		Password:  hashed,
		Email:     email,
		PhoneNo:   strings.TrimSpace(payload.PhoneNo),
		Address:   strings.TrimSpace(payload.Address),
		StateID:   payload.StateID,
		CityID:    payload.CityID,
		Status:    domain.UserStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		return apperr.Internal(err, "Failed to create user")
	}

	roleName := "CUSTOMER"
	if user.RoleID == app.RoleIdOwner {
		roleName = "OWNER"
	}
	return webserver.Created(c, registerResult{UserID: user.ID, Email: user.Email, Role: roleName})
}

func listStates(c echo.Context) error {
	var states []domain.State
	if err := webserver.GetDB(c).Order("state_name").Find(&states).Error; err != nil {
		return apperr.Internal(err, "Failed to query states")
	}
	return webserver.OK(c, states)
}

func listStateCities(c echo.Context) error {
	stateID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.Validation("Invalid state ID")
	}
	var cities []domain.City
	if err := webserver.GetDB(c).Where("state_id = ?", stateID).Order("city_name").Find(&cities).Error; err != nil {
		return apperr.Internal(err, "Failed to query cities")
	}
	return webserver.OK(c, cities)
}

func listRoles(c echo.Context) error {
	var roles []domain.Role
	if err := webserver.GetDB(c).Order("role_id").Find(&roles).Error; err != nil {
		return apperr.Internal(err, "Failed to query roles")
	}
	return webserver.OK(c, roles)
}
