package core

import "context"

// scopeFrame 一层块级覆盖。
// 帧通过 context 派生形成链：内层遮蔽外层但不修改外层，
// 派生 context 失效即作用域退出，外层映射原样恢复。
// 并发任务继承 spawn 时刻的帧链，彼此的压栈互不可见。
type scopeFrame struct {
	parent    *scopeFrame
	container *Container
	overrides Overrides
}

type scopeCtxKey struct{}

func frameFrom(ctx context.Context) *scopeFrame {
	f, _ := ctx.Value(scopeCtxKey{}).(*scopeFrame)
	return f
}

// WithOverrides 返回叠加了一层覆盖的派生 context。
// 覆盖只对持有该 context 的调用链及其子任务可见；
// 帧记录所属容器，跨容器的获取不受影响。
func WithOverrides(ctx context.Context, c *Container, overrides Overrides) context.Context {
	cloned := make(Overrides, len(overrides))
	for reg, replacement := range overrides {
		cloned[reg] = replacement
	}

	frame := &scopeFrame{
		parent:    frameFrom(ctx),
		container: c,
		overrides: cloned,
	}
	return context.WithValue(ctx, scopeCtxKey{}, frame)
}

// RunWithOverrides 在一层块级覆盖内执行 fn。
// fn 返回（正常或出错）即作用域退出；fn 之外的代码
// 拿不到派生 context，覆盖不可能泄漏出块外。
func RunWithOverrides(ctx context.Context, c *Container, overrides Overrides, fn func(ctx context.Context) error) error {
	return fn(WithOverrides(ctx, c, overrides))
}
