package adminapi

import (
	"errors"
	"strings"
	"time"

	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/dacaug2504/rentit/pkg/common"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResult struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func registerLoginRoutes() {
	webserver.PubPOST("/admin/auth/login", login)
}

// login verifies credentials and issues a signed token carrying the user
// id as subject and the role claim.
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return apperr.Validation("Unable to parse login parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return apperr.Validation("Email and password are required")
	}

	var user domain.User
	err := GetDB(c).Where("email = ?", strings.TrimSpace(payload.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Unauthorized("Invalid email or password")
	} else if err != nil {
		return apperr.Internal(err, "Failed to query user")
	}

	if !common.CheckPassword(user.Password, payload.Password) {
		zap.L().Warn("login rejected", zap.String("email", payload.Email))
		return apperr.Unauthorized("Invalid email or password")
	}
	if user.Status != domain.UserStatusActive {
		return apperr.Forbidden("Account is %s", domain.UserStatusLabel(user.Status))
	}

	role, rok := roleForUser(c, user)
	if !rok {
		return apperr.Internal(errors.New("user role missing"), "Failed to resolve user role")
	}

	cfg := webserver.GetApp(c).Config()
	ttl := time.Duration(cfg.Jwt.Expire) * time.Minute
	token, err := auth.IssueToken([]byte(cfg.Jwt.Secret), user.ID, role, ttl)
	if err != nil {
		return apperr.Internal(err, "Failed to issue token")
	}

	return ok(c, loginResult{Token: token, UserID: user.ID, Role: role.String()})
}

func roleForUser(c echo.Context, user domain.User) (auth.Role, bool) {
	var role domain.Role
	if err := GetDB(c).Where("role_id = ?", user.RoleID).First(&role).Error; err != nil {
		return "", false
	}
	return auth.ParseRole(role.Name)
}
