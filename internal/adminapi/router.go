package adminapi

// InitRouter registers the management routes. Call after webserver.Init.
func InitRouter() {
	registerLoginRoutes()
	registerUserRoutes()
	registerCategoryRoutes()
	registerItemRoutes()
	registerStatsRoutes()
	registerExportRoutes()
	registerAuditRoutes()
}
