package app

import (
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/menulink/menulink/config"
	"github.com/menulink/menulink/internal/domain"
)

func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	gormConfig := &gorm.Config{
		// unique constraint violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if cfg.Debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var db *gorm.DB
	var err error
	switch cfg.Type {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(path.Join(workdir, "menulink.db")), gormConfig)
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	}
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db
}

type settingsSchema struct {
	key         string
	defval      string
	description string
}

var defaultSettings = []settingsSchema{
	{"system.page_size_default", "100", "Default page size for list endpoints"},
	{"system.page_size_max", "500", "Maximum page size for list endpoints"},
	{"mail.welcome_subject", "Registered Successfully", "Subject of the registration notification"},
	{"mail.welcome_body", "Email registration done.", "Body of the registration notification"},
	{"media.temp_ttl_minutes", "60", "Age after which stale temp media files are purged"},
}

// checkSettings initializes missing sys_config entries with their defaults.
func (a *Application) checkSettings() {
	for sortid, schema := range defaultSettings {
		category, name := splitSettingsKey(schema.key)
		if category == "" {
			continue
		}

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.defval,
				Remark: schema.description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.key),
				zap.String("default", schema.defval))
		}
	}
}
