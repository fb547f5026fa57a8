package database

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"finlogix/config"
	"finlogix/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	dialector, err := Dialector(&cfg.Database)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: NewLogger(log.New(os.Stdout, "\r\n", log.LstdFlags), cfg.Database.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	if cfg.Database.Driver == "sqlite" {
		// sqlite 单写者，避免 database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(valueOr(cfg.Database.MaxIdleConns, 10))
		sqlDB.SetMaxOpenConns(valueOr(cfg.Database.MaxOpenConns, 100))
	}

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	if err := SeedCategories(DB, cfg.Ledger.SeedCategories); err != nil {
		return fmt.Errorf("初始化默认类别失败: %w", err)
	}

	slog.Info("数据库初始化成功", "driver", cfg.Database.Driver)
	return nil
}

// Dialector 根据配置选择数据库驱动
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "mysql":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=UTC",
				cfg.Username,
				cfg.Password,
				cfg.Host,
				cfg.Port,
				cfg.DBName,
				valueOrString(cfg.Charset, "utf8mb4"),
			)
		}
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		path := cfg.DSN
		if path == "" {
			path = valueOrString(cfg.Path, "finlogix.db")
		}
		if !strings.Contains(path, "?") {
			path += "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.AudioNote{},
		&models.PasswordReset{},
		&models.AdviceHistory{},
	)
}

// SeedCategories 插入缺失的默认类别，已存在的跳过
func SeedCategories(db *gorm.DB, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var cat models.Category
		err := db.Where("name = ?", name).First(&cat).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// LogLevel 将配置中的日志级别映射为 gorm 日志级别
func LogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// NewLogger gorm 日志，查无记录属于正常分支（404、邮箱检查），不记为错误
func NewLogger(w logger.Writer, level string) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  LogLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

func valueOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func valueOrString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
