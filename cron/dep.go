// Package cron 将 robfig/cron 调度器声明为带生命周期的资源：
// 获取时启动调度，最后一个句柄关闭时停机并等待在途任务。
package cron

import (
	"context"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/core"
)

// Dep 在默认容器上声明一个共享的调度器。
func Dep(name string, configure func(*Options), opts ...core.Option) *dep.Dep[*Scheduler] {
	return DepIn(dep.Default(), name, configure, opts...)
}

// DepIn 在指定容器上声明调度器资源。
func DepIn(c *core.Container, name string, configure func(*Options), opts ...core.Option) *dep.Dep[*Scheduler] {
	setup := func(ctx context.Context, call core.Call) (*Scheduler, error) {
		o := NewDefaultOptions(name)
		if configure != nil {
			configure(o)
		}
		if err := o.Validate(); err != nil {
			return nil, err
		}
		return newScheduler(o)
	}

	teardown := func(ctx context.Context, s *Scheduler) error {
		return s.stop(ctx)
	}

	declOpts := append([]core.Option{core.WithCached(), core.WithName("cron:" + name)}, opts...)
	return dep.DeclareIn(c, setup, teardown, declOpts...)
}
