// Package adminapi exposes the management surface: login, user
// administration, category/item CRUD, dashboard stats, exports and the
// audit log. Every route except login requires the ADMIN role.
package adminapi

import (
	"strconv"

	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return webserver.Paged(c, items, total, page, pageSize)
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func parsePagination(c echo.Context) (page int, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = 20
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// audit publishes an operation log event for the acting principal.
func audit(c echo.Context, action, desc string) {
	actor := "anonymous"
	if p, okp := auth.FromContext(c); okp {
		actor = p.Role.String() + ":" + strconv.FormatInt(p.ID, 10)
	}
	webserver.GetApp(c).PublishAudit(app.AuditEvent{
		Actor:  actor,
		Ip:     c.RealIP(),
		Action: action,
		Desc:   desc,
	})
}
