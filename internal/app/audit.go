package app

import (
	"time"

	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/pkg/common"
	"go.uber.org/zap"
)

// AuditTopic is the event bus topic audit events are published on.
const AuditTopic = "audit:log"

// AuditEvent describes one actor action for the operation log.
type AuditEvent struct {
	Actor  string
	Ip     string
	Action string
	Desc   string
}

// PublishAudit emits an audit event; persistence happens on the bus
// subscriber so request handling never waits on the log write.
func (a *Application) PublishAudit(evt AuditEvent) {
	a.eventBus.Publish(AuditTopic, evt)
}

func (a *Application) initAuditSubscriber() {
	err := a.eventBus.SubscribeAsync(AuditTopic, func(evt AuditEvent) {
		log := domain.SysOprLog{
			ID:        common.UUIDint64(),
			OprName:   evt.Actor,
			OprIp:     evt.Ip,
			OptAction: evt.Action,
			OptDesc:   evt.Desc,
			OptTime:   time.Now(),
		}
		if err := a.gormDB.Create(&log).Error; err != nil {
			zap.L().Error("failed to write audit log", zap.String("action", evt.Action), zap.Error(err))
		}
	}, false)
	if err != nil {
		zap.L().Error("failed to subscribe audit handler", zap.Error(err))
	}
}
