package mongodb

import (
	"fmt"
	"time"

	"github.com/gocrud/dep/logging"
)

// Options MongoDB 配置选项
type Options struct {
	Name        string
	Uri         string
	Username    string
	Password    string
	MaxPoolSize uint64
	MinPoolSize uint64
	Timeout     time.Duration
	Logger      logging.Logger
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string) *Options {
	return &Options{
		Name:        name,
		Uri:         "mongodb://localhost:27017",
		MaxPoolSize: 100,
		MinPoolSize: 0,
		Timeout:     10 * time.Second,
		Logger:      logging.Nop(),
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("mongodb: name is required")
	}
	if o.Uri == "" {
		return fmt.Errorf("mongodb: uri is required")
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("mongodb: timeout must be positive")
	}
	return nil
}
