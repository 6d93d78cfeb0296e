package app

import (
	"errors"
	"strings"
	"time"

	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Role ids are fixed across the shared schema.
const (
	RoleIdAdmin    int64 = 1
	RoleIdOwner    int64 = 2
	RoleIdCustomer int64 = 3
)

func defaultRoles() []domain.Role {
	return []domain.Role{
		{ID: RoleIdAdmin, Name: "ADMIN"},
		{ID: RoleIdOwner, Name: "OWNER"},
		{ID: RoleIdCustomer, Name: "CUSTOMER"},
	}
}

// checkRoles seeds the closed role set.
func (a *Application) checkRoles() {
	for _, r := range defaultRoles() {
		var count int64
		a.gormDB.Model(&domain.Role{}).Where("role_id = ?", r.ID).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&r).Error; err != nil {
				zap.L().Error("failed to create default role", zap.String("name", r.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default role", zap.String("name", r.Name))
			}
		}
	}
}

func (a *Application) checkSuper() {
	const superEmail = "admin@rentit.local"
	const defaultPassword = "rentit"

	var admin domain.User
	err := a.gormDB.Where("email = ?", superEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, herr := common.HashPassword(defaultPassword)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.User{
			RoleID:    RoleIdAdmin,
			FirstName: "administrator",
			Email:     superEmail,
			PhoneNo:   "0000",
			Password:  hashed,
			Status:    domain.UserStatusActive,
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", superEmail))
		}
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(admin.Password) == ""
	resetRole := admin.RoleID != RoleIdAdmin
	resetStatus := admin.Status != domain.UserStatusActive

	if !resetPassword && !resetRole && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		hashed, herr := common.HashPassword(defaultPassword)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		updates["password"] = hashed
	}
	if resetRole {
		updates["role_id"] = RoleIdAdmin
	}
	if resetStatus {
		updates["status"] = domain.UserStatusActive
	}

	if err := a.gormDB.Model(&domain.User{}).Where("user_id = ?", admin.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair default admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("email", superEmail),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("roleReset", resetRole),
		zap.Bool("statusReset", resetStatus))
}

type settingSchema struct {
	Key         string
	Default     string
	Description string
}

var defaultSettings = []settingSchema{
	{Key: "system.site_title", Default: "Rent-It", Description: "Site title shown on exports"},
	{Key: "system.maintenance", Default: "false", Description: "Reject non-admin writes when enabled"},
	{Key: "billing.currency", Default: "INR", Description: "Display currency code"},
	{Key: "billing.min_amount", Default: "1", Description: "Smallest accepted bill amount"},
	{Key: "catalog.search_limit", Default: "200", Description: "Upper bound on search result rows"},
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range defaultSettings {
		// Parse key: "category.name" -> category, name
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		// e.g., if the configuration does not exist, create the default configuration
		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}
