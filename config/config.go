package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	AI        AIConfig        `mapstructure:"ai"`
	Email     EmailConfig     `mapstructure:"email"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	BaseURL     string   `mapstructure:"base_url"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig 数据库配置
// driver 支持 mysql / postgres / sqlite；dsn 非空时直接使用
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	Path         string `mapstructure:"path"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret              string        `mapstructure:"secret"`
	AccessExpireMinutes int           `mapstructure:"access_expire_minutes"`
	RefreshExpireHours  int           `mapstructure:"refresh_expire_hours"`
	RefreshCookie       string        `mapstructure:"refresh_cookie"`
	ExpireTime          time.Duration `mapstructure:"-"`
	RefreshExpireTime   time.Duration `mapstructure:"-"`
}

// LedgerConfig 记账配置
type LedgerConfig struct {
	// DefaultCategories 交易类型 -> 默认类别名称，未指定类别时使用
	DefaultCategories map[string]string `mapstructure:"default_categories"`
	SeedCategories    []string          `mapstructure:"seed_categories"`
}

// NotifyConfig 交易事件推送配置
type NotifyConfig struct {
	Buffer           int        `mapstructure:"buffer"`
	ListenerBuffer   int        `mapstructure:"listener_buffer"`
	KeepaliveSeconds int        `mapstructure:"keepalive_seconds"`
	AMQP             AMQPConfig `mapstructure:"amqp"`
}

// AMQPConfig RabbitMQ 配置，url 为空时不启用
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// AIConfig 理财建议所用的大模型配置（兼容 OpenAI 接口）
type AIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// RateLimitConfig 认证接口限流配置
type RateLimitConfig struct {
	LoginAttempts      int `mapstructure:"login_attempts"`
	LoginWindowSeconds int `mapstructure:"login_window_seconds"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// 0. 读取 .env（可选）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("读取 .env 失败", "error", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}
	slog.Debug("已加载内置默认配置")

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			slog.Warn("无法读取指定配置文件", "path", configPath, "error", err)
		} else {
			slog.Info("已合并外部配置文件", "path", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/finlogix")
		externalViper.AddConfigPath("$HOME/.finlogix")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				slog.Warn("合并外部配置失败", "error", err)
			} else {
				slog.Info("已合并外部配置文件", "path", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 FINLOGIX_DATABASE_DRIVER
	v.SetEnvPrefix("FINLOGIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.applyDefaults()

	GlobalConfig = &cfg

	return &cfg, nil
}

// applyDefaults 补齐缺省值并计算派生字段
func (cfg *Config) applyDefaults() {
	if cfg.JWT.AccessExpireMinutes <= 0 {
		cfg.JWT.AccessExpireMinutes = 15
	}
	if cfg.JWT.RefreshExpireHours <= 0 {
		cfg.JWT.RefreshExpireHours = 7 * 24
	}
	if cfg.JWT.RefreshCookie == "" {
		cfg.JWT.RefreshCookie = "refresh_token_cookie"
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.AccessExpireMinutes) * time.Minute
	cfg.JWT.RefreshExpireTime = time.Duration(cfg.JWT.RefreshExpireHours) * time.Hour

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.Notify.Buffer <= 0 {
		cfg.Notify.Buffer = 256
	}
	if cfg.Notify.ListenerBuffer <= 0 {
		cfg.Notify.ListenerBuffer = 16
	}
	if cfg.Notify.KeepaliveSeconds <= 0 {
		cfg.Notify.KeepaliveSeconds = 25
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.RateLimit.LoginAttempts <= 0 {
		cfg.RateLimit.LoginAttempts = 5
	}
	if cfg.RateLimit.LoginWindowSeconds <= 0 {
		cfg.RateLimit.LoginWindowSeconds = 60
	}
}

// MustLoadConfig 加载配置，失败则 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	return cfg
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("配置未初始化，请先调用 LoadConfig")
	}
	return GlobalConfig
}

// IsRelease 是否为生产模式
func IsRelease() bool {
	return GlobalConfig != nil && GlobalConfig.Server.Mode == "release"
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	c := GlobalConfig
	slog.Info("当前配置",
		"port", c.Server.Port,
		"mode", c.Server.Mode,
		"db_driver", c.Database.Driver,
		"db", fmt.Sprintf("%s@%s:%s/%s", c.Database.Username, c.Database.Host, c.Database.Port, c.Database.DBName),
		"amqp_enabled", c.Notify.AMQP.URL != "",
		"ai_enabled", c.AI.APIKey != "",
		"email_enabled", c.Email.Enabled,
	)
}
