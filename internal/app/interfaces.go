package app

import (
	"gorm.io/gorm"

	"github.com/menulink/menulink/config"
	"github.com/menulink/menulink/internal/auth"
	"github.com/menulink/menulink/internal/catalog"
	"github.com/menulink/menulink/internal/mailer"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CredentialsProvider provides password hashing and token services
type CredentialsProvider interface {
	Credentials() *auth.CredentialService
}

// MailProvider provides the async mail queue
type MailProvider interface {
	Mailer() *mailer.Mailer
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
}

// RepoProvider provides the catalog repositories
type RepoProvider interface {
	Users() *catalog.UserRepo
	Stores() *catalog.StoreRepo
	Menus() *catalog.MenuRepo
	Items() *catalog.ItemRepo
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	CredentialsProvider
	MailProvider
	SettingsProvider
	RepoProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
