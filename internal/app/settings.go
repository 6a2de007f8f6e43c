package app

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/menulink/menulink/internal/domain"
)

// ConfigManager reads runtime-tunable settings from the sys_config table.
type ConfigManager struct {
	app *Application
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app}
}

func (cm *ConfigManager) getValue(category, name string) (string, bool) {
	var cfg domain.SysConfig
	err := cm.app.DB().
		Where("type = ? and name = ?", category, name).
		First(&cfg).Error
	if err != nil {
		return "", false
	}
	return cfg.Value, true
}

func (cm *ConfigManager) GetString(category, name string) string {
	val, _ := cm.getValue(category, name)
	return val
}

func (cm *ConfigManager) GetInt64(category, name string) int64 {
	val, ok := cm.getValue(category, name)
	if !ok {
		return 0
	}
	return cast.ToInt64(val)
}

func (cm *ConfigManager) GetBool(category, name string) bool {
	val, ok := cm.getValue(category, name)
	if !ok {
		return false
	}
	return cast.ToBool(val)
}

func splitSettingsKey(key string) (category, name string) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
