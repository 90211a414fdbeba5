package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/dep/logging"
	"github.com/robfig/cron/v3"
)

// Scheduler 运行中的定时任务调度器。
// 生命周期由资源句柄驱动：创建即启动，最后一个句柄关闭时停机。
type Scheduler struct {
	cron   *cron.Cron
	logger logging.Logger
	mu     sync.RWMutex
	jobs   map[string]cron.EntryID // 任务名称到任务ID的映射
}

// newScheduler 按选项构建并启动调度器
func newScheduler(o *Options) (*Scheduler, error) {
	location, err := time.LoadLocation(o.Location)
	if err != nil {
		return nil, fmt.Errorf("cron: load location '%s': %w", o.Location, err)
	}

	cronOpts := []cron.Option{cron.WithLocation(location)}

	// 只在启用时添加 cron 库的调度日志
	if o.EnableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(newCronLogger(o.Logger)))
	}

	cronOpts = append(cronOpts, cron.WithChain(
		cron.Recover(newCronLogger(o.Logger)),
	))

	if o.EnableSeconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	s := &Scheduler{
		cron:   cron.New(cronOpts...),
		logger: o.Logger,
		jobs:   make(map[string]cron.EntryID),
	}

	for _, job := range o.Jobs {
		if err := s.AddJob(job.Spec, job.Name, job.Handler); err != nil {
			return nil, err
		}
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		logging.Field{Key: "name", Value: o.Name},
		logging.Field{Key: "jobs", Value: len(o.Jobs)})

	return s, nil
}

// AddJob 添加定时任务
// spec: cron 表达式，如 "0 */5 * * * *" (每5分钟) 或 "0 0 2 * * *" (每天凌晨2点)
func (s *Scheduler) AddJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("cron: job '%s' already registered", name)
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug(fmt.Sprintf("cron job '%s' started", name))
		defer s.logger.Debug(fmt.Sprintf("cron job '%s' completed", name))
		job()
	})
	if err != nil {
		return fmt.Errorf("cron: add job '%s': %w", name, err)
	}

	s.jobs[name] = entryID
	return nil
}

// RemoveJob 移除定时任务
func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}
}

// JobCount 返回已注册任务数
func (s *Scheduler) JobCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// stop 停止调度并等待运行中的任务结束，或 ctx 先到期
func (s *Scheduler) stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger 适配器：将日志接口适配到 cron 的日志接口
type cronLogger struct {
	logger logging.Logger
}

func newCronLogger(logger logging.Logger) cron.Logger {
	return &cronLogger{logger: logger}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, convertToFields(keysAndValues)...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := convertToFields(keysAndValues)
	fields = append(fields, logging.Field{Key: "error", Value: err.Error()})
	l.logger.Error(msg, fields...)
}

func convertToFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			key := fmt.Sprintf("%v", keysAndValues[i])
			fields = append(fields, logging.Field{Key: key, Value: keysAndValues[i+1]})
		}
	}
	return fields
}
