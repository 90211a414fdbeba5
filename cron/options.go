package cron

import (
	"fmt"

	"github.com/gocrud/dep/logging"
)

// Job 一条定时任务定义
type Job struct {
	Spec    string // cron 表达式，如 "0 */5 * * * *"
	Name    string // 任务名称（用于管理和日志）
	Handler func()
}

// Options Cron 调度器配置选项
type Options struct {
	Name string
	// Location 时区设置，默认 UTC
	Location string
	// EnableSeconds 是否启用秒级精度（默认分钟级）
	EnableSeconds bool
	// EnableCronLogger 是否启用 cron 库的内部调度日志（默认 false）
	EnableCronLogger bool
	// Jobs 启动时注册的任务
	Jobs   []Job
	Logger logging.Logger
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string) *Options {
	return &Options{
		Name:     name,
		Location: "UTC",
		Logger:   logging.Nop(),
	}
}

// AddJob 追加一条任务定义
func (o *Options) AddJob(spec, name string, handler func()) *Options {
	o.Jobs = append(o.Jobs, Job{Spec: spec, Name: name, Handler: handler})
	return o
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("cron: scheduler name is required")
	}
	for _, job := range o.Jobs {
		if job.Name == "" || job.Spec == "" {
			return fmt.Errorf("cron: job name and spec are required")
		}
		if job.Handler == nil {
			return fmt.Errorf("cron: job '%s' has no handler", job.Name)
		}
	}
	return nil
}
