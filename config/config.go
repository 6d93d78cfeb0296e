package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
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
}

type JwtConfig struct {
	Secret string `yaml:"secret" json:"secret"`
	Expire int    `yaml:"expire" json:"expire"` // minutes
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Jwt      JwtConfig `yaml:"jwt" json:"jwt"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "rentit",
		Location: "Asia/Kolkata",
		Workdir:  "/var/rentit",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Database: DBConfig{
		Type:     "mysql",
		Host:     "127.0.0.1",
		Port:     3306,
		Name:     "rentit",
		User:     "rentit",
		Passwd:   "rentit",
		MaxConn:  100,
		IdleConn: 10,
	},
	Jwt: JwtConfig{
		Secret: "9b6d7a2e4f8c1305a7d9e2b4c6f8a0d1",
		Expire: 60,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/rentit/rentit.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int64)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := strconv.ParseInt(evalue, 10, 64)
	if err == nil {
		f(p)
	}
}

// LoadConfig reads the YAML configuration and applies environment
// overrides. A missing file yields the built-in defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("RENTIT_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvBoolValue("RENTIT_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("RENTIT_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("RENTIT_WEB_PORT", func(v int64) { cfg.Web.Port = int(v) })

	setEnvValue("RENTIT_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("RENTIT_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvIntValue("RENTIT_DB_PORT", func(v int64) { cfg.Database.Port = int(v) })
	setEnvValue("RENTIT_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("RENTIT_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("RENTIT_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	setEnvValue("RENTIT_JWT_SECRET", func(v string) { cfg.Jwt.Secret = v })
	setEnvIntValue("RENTIT_JWT_EXPIRE", func(v int64) { cfg.Jwt.Expire = int(v) })

	setEnvValue("RENTIT_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("RENTIT_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })

	if cfg.Logger.Filename == "" {
		cfg.Logger.Filename = filepath.Join(cfg.System.Workdir, "rentit.log")
	}
	return cfg
}
