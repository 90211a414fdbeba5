package dep

import (
	"context"

	"github.com/gocrud/dep/core"
)

// Override 在默认容器生命周期内设置覆盖。
// 需要块级、可恢复的覆盖时使用 WithOverrides。
func Override(m core.Overrides) {
	defaultContainer.Override(m)
}

// ClearOverride 撤销默认容器上的一条覆盖。
func ClearOverride(reg *core.Registration) {
	defaultContainer.ClearOverride(reg)
}

// WithOverrides 返回在默认容器上叠加了一层块级覆盖的派生 context。
// 覆盖随派生 context 的作用范围结束而失效，外层映射原样恢复。
func WithOverrides(ctx context.Context, m core.Overrides) context.Context {
	return core.WithOverrides(ctx, defaultContainer, m)
}

// WithOverridesIn 返回在指定容器上叠加了一层块级覆盖的派生 context。
func WithOverridesIn(ctx context.Context, c *core.Container, m core.Overrides) context.Context {
	return core.WithOverrides(ctx, c, m)
}

// OverrideOf 构造一条类型安全的覆盖：repl 必须与 orig 产出同一种资源。
func OverrideOf[T any](orig, repl *Dep[T]) core.Overrides {
	return core.Overrides{orig.reg: repl.reg}
}
