package redis

import (
	"fmt"
	"time"

	"github.com/gocrud/dep/logging"
)

// Options Redis 客户端配置选项
type Options struct {
	Name         string        // 客户端名称
	Addr         string        // Redis 服务器地址 (host:port)
	Password     string        // 密码（可选）
	DB           int           // 数据库编号
	DialTimeout  time.Duration // 连接超时时间
	ReadTimeout  time.Duration // 读取超时时间
	WriteTimeout time.Duration // 写入超时时间
	PoolSize     int           // 连接池大小
	MinIdleConns int           // 最小空闲连接数
	MaxRetries   int           // 最大重试次数
	Logger       logging.Logger
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string) *Options {
	return &Options{
		Name:         name,
		Addr:         "localhost:6379",
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		Logger:       logging.Nop(),
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("redis: client name is required")
	}
	if o.Addr == "" {
		return fmt.Errorf("redis: address is required")
	}
	if o.DB < 0 {
		return fmt.Errorf("redis: database number must be non-negative")
	}
	if o.DialTimeout <= 0 {
		return fmt.Errorf("redis: dial timeout must be positive")
	}
	return nil
}
