package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Secret  string `yaml:"secret" json:"secret"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	// JwtExpire is the access token lifetime in minutes.
	JwtExpire int `yaml:"jwt_expire" json:"jwt_expire"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type MailConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	From     string `yaml:"from" json:"from"`
	FromName string `yaml:"from_name" json:"from_name"`
	// Workers bounds the async delivery pool.
	Workers int `yaml:"workers" json:"workers"`
}

type StorageConfig struct {
	Bucket    string `yaml:"bucket" json:"bucket"`
	Region    string `yaml:"region" json:"region"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Mail     MailConfig    `yaml:"mail" json:"mail"`
	Storage  StorageConfig `yaml:"storage" json:"storage"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetTempDir() string {
	return path.Join(c.System.Workdir, "tmp")
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "tmp"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "menulink",
		Location: "Asia/Shanghai",
		Workdir:  "/var/menulink",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      8000,
		Secret:    "9b6de5cc-menulink-1a2b3c4d5e6f",
		BaseURL:   "http://localhost:8000",
		JwtExpire: 15,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "menulink",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Mail: MailConfig{
		Enabled:  false,
		Host:     "smtp.gmail.com",
		Port:     587,
		From:     "catalog_app@gmail.com",
		FromName: "Catalog App",
		Workers:  8,
	},
	Storage: StorageConfig{
		Region: "us-east-1",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/menulink/logs/menulink.log",
	},
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := fmt.Sscanf(evalue, "%d", val)
	_ = p
	_ = err
}

// LoadConfig reads the yaml configuration file and overlays environment
// variables. A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	// config priority: environment > config file > default
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "parse config %s error: %v\n", cfile, err)
			}
		}
	}

	setEnvValue("MENULINK_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("MENULINK_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("MENULINK_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("MENULINK_WEB_PORT", &cfg.Web.Port)
	setEnvValue("MENULINK_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("MENULINK_WEB_BASE_URL", &cfg.Web.BaseURL)
	setEnvIntValue("MENULINK_WEB_JWT_EXPIRE", &cfg.Web.JwtExpire)

	setEnvValue("MENULINK_DB_TYPE", &cfg.Database.Type)
	setEnvValue("MENULINK_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("MENULINK_DB_PORT", &cfg.Database.Port)
	setEnvValue("MENULINK_DB_NAME", &cfg.Database.Name)
	setEnvValue("MENULINK_DB_USER", &cfg.Database.User)
	setEnvValue("MENULINK_DB_PWD", &cfg.Database.Passwd)

	setEnvBoolValue("MENULINK_MAIL_ENABLED", &cfg.Mail.Enabled)
	setEnvValue("MENULINK_MAIL_HOST", &cfg.Mail.Host)
	setEnvIntValue("MENULINK_MAIL_PORT", &cfg.Mail.Port)
	setEnvValue("MENULINK_MAIL_USERNAME", &cfg.Mail.Username)
	setEnvValue("MENULINK_MAIL_PWD", &cfg.Mail.Passwd)
	setEnvValue("MENULINK_MAIL_FROM", &cfg.Mail.From)

	setEnvValue("MENULINK_AWS_BUCKET", &cfg.Storage.Bucket)
	setEnvValue("MENULINK_AWS_REGION", &cfg.Storage.Region)
	setEnvValue("MENULINK_AWS_ACCESS_KEY", &cfg.Storage.AccessKey)
	setEnvValue("MENULINK_AWS_SECRET", &cfg.Storage.SecretKey)

	return cfg
}
