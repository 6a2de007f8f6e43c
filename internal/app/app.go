package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/menulink/menulink/config"
	"github.com/menulink/menulink/internal/auth"
	"github.com/menulink/menulink/internal/catalog"
	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/internal/mailer"
	"github.com/menulink/menulink/internal/media"
)

type Application struct {
	appConfig     *config.AppConfig
	gormDB        *gorm.DB
	sched         *cron.Cron
	configManager *ConfigManager
	credentials   *auth.CredentialService
	mailQueue     *mailer.Mailer
	mediaPipe     *media.Pipeline

	users  *catalog.UserRepo
	stores *catalog.StoreRepo
	menus  *catalog.MenuRepo
	items  *catalog.ItemRepo
}

// Ensure Application implements all interfaces
var (
	_ DBProvider          = (*Application)(nil)
	_ ConfigProvider      = (*Application)(nil)
	_ CredentialsProvider = (*Application)(nil)
	_ MailProvider        = (*Application)(nil)
	_ SettingsProvider    = (*Application)(nil)
	_ RepoProvider        = (*Application)(nil)
	_ AppContext          = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Credentials() *auth.CredentialService {
	return a.credentials
}

func (a *Application) Mailer() *mailer.Mailer {
	return a.mailQueue
}

func (a *Application) Media() *media.Pipeline {
	return a.mediaPipe
}

func (a *Application) Users() *catalog.UserRepo     { return a.users }
func (a *Application) Stores() *catalog.StoreRepo   { return a.stores }
func (a *Application) Menus() *catalog.MenuRepo     { return a.menus }
func (a *Application) Items() *catalog.ItemRepo     { return a.items }

// Init wires the full production stack: logger, database, object storage,
// mail queue and background jobs.
func (a *Application) Init() {
	cfg := a.appConfig

	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	cfg.InitDirs()
	a.initLogger()

	// Initialize database connection
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database, cfg.System.Workdir)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	// Ensure database schema is migrated before serving
	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	uploader, err := media.NewS3Uploader(context.Background(), cfg.Storage)
	if err != nil {
		zap.S().Errorf("object storage init failed: %v", err)
	}
	a.mediaPipe = media.NewPipeline(cfg.GetTempDir(), cfg.Web.BaseURL, uploader)

	a.InitComponents(a.gormDB, a.mediaPipe)

	a.checkSettings()
	a.initJob()
}

// InitComponents wires the request-serving components over an existing
// database handle and attacher. Split out of Init so tests can assemble an
// application without a real logger, object store or scheduler.
func (a *Application) InitComponents(db *gorm.DB, att catalog.Attacher) {
	cfg := a.appConfig
	a.gormDB = db
	a.credentials = auth.NewCredentialService(cfg.Web.Secret,
		time.Duration(cfg.Web.JwtExpire)*time.Minute)
	a.mailQueue = mailer.NewMailer(cfg.Mail)
	a.configManager = NewConfigManager(a)
	a.users = catalog.NewUserRepo()
	a.stores = catalog.NewStoreRepo(att)
	a.menus = catalog.NewMenuRepo(att)
	a.items = catalog.NewItemRepo(att)
}

func (a *Application) initLogger() {
	cfg := a.appConfig
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	var err error
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func (a *Application) MigrateDB(track bool) (err error) {
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.mailQueue != nil {
		a.mailQueue.Release()
	}
	_ = zap.L().Sync()
}
