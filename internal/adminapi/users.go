package adminapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// userDetail is the management projection of a user row.
type userDetail struct {
	UserID     int64  `json:"user_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	PhoneNo    string `json:"phone_no"`
	RoleName   string `json:"role_name"`
	Status     int    `json:"status"`
	StatusName string `json:"status_name"`
}

func registerUserRoutes() {
	adminOnly := auth.Required(auth.RoleAdmin)
	webserver.ApiGET("/admin/users", listUsers, adminOnly)
	webserver.ApiGET("/admin/users/export", exportUsers, adminOnly)
	webserver.ApiGET("/admin/users/:id", getUser, adminOnly)
	webserver.ApiGET("/admin/users/role/:roleId", listUsersByRole, adminOnly)
	webserver.ApiPATCH("/admin/users/:id/status", updateUserStatus, adminOnly)
}

func toUserDetail(u domain.User, roleName string) userDetail {
	return userDetail{
		UserID:     u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		PhoneNo:    u.PhoneNo,
		RoleName:   roleName,
		Status:     u.Status,
		StatusName: domain.UserStatusLabel(u.Status),
	}
}

func roleNames(db *gorm.DB) map[int64]string {
	var roles []domain.Role
	db.Find(&roles)
	names := make(map[int64]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	return names
}

func listUsers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.User{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return apperr.Internal(err, "Failed to query users")
	}

	var users []domain.User
	if err := base.Order("user_id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		return apperr.Internal(err, "Failed to query users")
	}

	names := roleNames(GetDB(c))
	details := make([]userDetail, 0, len(users))
	for _, u := range users {
		details = append(details, toUserDetail(u, names[u.RoleID]))
	}
	return paged(c, details, total, page, pageSize)
}

func getUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return apperr.Validation("Invalid user ID")
	}
	var user domain.User
	if err := GetDB(c).Where("user_id = ?", id).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("User %d not found", id)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query user")
	}
	return ok(c, toUserDetail(user, roleNames(GetDB(c))[user.RoleID]))
}

func listUsersByRole(c echo.Context) error {
	roleID, err := parseIDParam(c, "roleId")
	if err != nil {
		return apperr.Validation("Invalid role ID")
	}
	var users []domain.User
	if err := GetDB(c).Where("role_id = ?", roleID).Order("user_id").Find(&users).Error; err != nil {
		return apperr.Internal(err, "Failed to query users")
	}
	names := roleNames(GetDB(c))
	details := make([]userDetail, 0, len(users))
	for _, u := range users {
		details = append(details, toUserDetail(u, names[u.RoleID]))
	}
	return ok(c, details)
}

type statusPayload struct {
	Status int `json:"status"`
}

// updateUserStatus changes the account status; 1 active, 2 suspended,
// 3 disabled.
func updateUserStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return apperr.Validation("Invalid user ID")
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse status")
	}
	if payload.Status < domain.UserStatusActive || payload.Status > domain.UserStatusDisabled {
		return apperr.Validation("Status must be 1 (active), 2 (suspended) or 3 (disabled)")
	}

	var user domain.User
	if err := GetDB(c).Where("user_id = ?", id).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("User %d not found", id)
	} else if err != nil {
		return apperr.Internal(err, "Failed to query user")
	}

	if err := GetDB(c).Model(&domain.User{}).Where("user_id = ?", id).Updates(map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return apperr.Internal(err, "Failed to update user status")
	}

	audit(c, "user.status", fmt.Sprintf("user %d status -> %s", id, domain.UserStatusLabel(payload.Status)))

	user.Status = payload.Status
	return ok(c, toUserDetail(user, roleNames(GetDB(c))[user.RoleID]))
}
