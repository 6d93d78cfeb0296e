package app

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/dacaug2504/rentit/config"
	"gorm.io/gorm"
)

// InitTestApplication wires the global application around an existing
// database handle, skipping logger setup, connection management and
// seeding. Tests migrate and seed their own fixtures.
func InitTestApplication(cfg *config.AppConfig, db *gorm.DB) *Application {
	a := NewApplication(cfg)
	a.gormDB = db
	a.eventBus = evbus.New()
	a.initAuditSubscriber()
	a.configManager = NewConfigManager(a)
	gapp = a
	return a
}
