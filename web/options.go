package web

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/dep/logging"
)

// Options Web 服务器配置选项
type Options struct {
	Name string
	// Port 监听端口，0 表示由系统分配（适合测试）
	Port int
	// Mode Gin 运行模式，默认 release
	Mode string
	// Configure 在启动前注册中间件与路由
	Configure func(engine *gin.Engine)
	Logger    logging.Logger
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string) *Options {
	return &Options{
		Name:   name,
		Port:   8080,
		Mode:   gin.ReleaseMode,
		Logger: logging.Nop(),
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("web: server name is required")
	}
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("web: invalid port %d", o.Port)
	}
	switch o.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("web: invalid mode '%s'", o.Mode)
	}
	return nil
}
