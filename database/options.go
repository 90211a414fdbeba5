package database

import (
	"fmt"
	"time"

	"github.com/gocrud/dep/logging"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Options 数据库配置选项
type Options struct {
	Name         string
	Dialector    gorm.Dialector
	GormConfig   *gorm.Config
	MaxIdleConns int
	MaxOpenConns int
	MaxLifetime  time.Duration
	AutoMigrate  []any // 需要自动迁移的模型
	Logger       logging.Logger
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string, dialector gorm.Dialector) *Options {
	return &Options{
		Name:         name,
		Dialector:    dialector,
		GormConfig:   &gorm.Config{},
		MaxIdleConns: 10,
		MaxOpenConns: 100,
		MaxLifetime:  time.Hour,
		Logger:       logging.Nop(),
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("database: name is required")
	}
	if o.Dialector == nil {
		return fmt.Errorf("database: dialector is required")
	}
	return nil
}

// SQLite 返回 SQLite 方言，path 可以是文件路径或 ":memory:"
func SQLite(path string) gorm.Dialector {
	return sqlite.Open(path)
}
