package adminapi

import (
	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
)

func registerAuditRoutes() {
	webserver.ApiGET("/admin/audit", listAuditLog, auth.Required(auth.RoleAdmin))
}

// listAuditLog pages through the operation log, most recent first. An
// optional action query parameter filters by exact action name.
func listAuditLog(c echo.Context) error {
	page, pageSize := parsePagination(c)

	query := GetDB(c).Model(&domain.SysOprLog{})
	if action := c.QueryParam("action"); action != "" {
		query = query.Where("opt_action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return apperr.Internal(err, "Failed to query audit log")
	}

	var logs []domain.SysOprLog
	if err := query.Order("opt_time DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&logs).Error; err != nil {
		return apperr.Internal(err, "Failed to query audit log")
	}
	return paged(c, logs, total, page, pageSize)
}
