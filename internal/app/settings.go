package app

import (
	"sync"
	"time"

	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// ConfigManager reads runtime settings from sys_config with a short
// read-through cache. Values are stored as strings and cast on access.
type ConfigManager struct {
	app   *Application
	mu    sync.RWMutex
	cache map[string]cachedSetting
	ttl   time.Duration
}

type cachedSetting struct {
	value    string
	loadedAt time.Time
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{
		app:   app,
		cache: make(map[string]cachedSetting),
		ttl:   30 * time.Second,
	}
}

func (m *ConfigManager) GetString(category, name string) string {
	key := category + "." + name
	m.mu.RLock()
	if c, ok := m.cache[key]; ok && time.Since(c.loadedAt) < m.ttl {
		m.mu.RUnlock()
		return c.value
	}
	m.mu.RUnlock()

	var cfg domain.SysConfig
	err := m.app.DB().Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		zap.S().Debugf("setting %s not found: %v", key, err)
		return ""
	}

	m.mu.Lock()
	m.cache[key] = cachedSetting{value: cfg.Value, loadedAt: time.Now()}
	m.mu.Unlock()
	return cfg.Value
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// SetValue updates a setting and invalidates its cache entry.
func (m *ConfigManager) SetValue(category, name, value string) error {
	err := m.app.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.cache, category+"."+name)
	m.mu.Unlock()
	return nil
}
