// Package dep 提供带 setup/teardown 生命周期的资源声明与获取。
// 声明一个工厂得到 Dep，通过 Acquire/Use 获取资源句柄；
// 带缓存的声明在嵌套获取间共享同一实例，引用计数归零时释放。
package dep

import (
	"context"

	"github.com/gocrud/dep/core"
)

// ErrNotImplemented 桩声明在被覆盖前获取时返回的错误。
var ErrNotImplemented = core.ErrNotImplemented

// defaultContainer 进程级默认容器。
// 需要隔离时（并行测试、多租户）用 NewContainer 构造独立实例。
var defaultContainer = core.NewContainer()

// Default 返回进程级默认容器。
func Default() *core.Container {
	return defaultContainer
}

// NewContainer 创建一个独立容器。
func NewContainer() *core.Container {
	return core.NewContainer()
}

// SetupFunc 类型化的资源创建函数。
type SetupFunc[T any] func(ctx context.Context, call core.Call) (T, error)

// TeardownFunc 类型化的资源释放函数。
type TeardownFunc[T any] func(ctx context.Context, value T) error

// Dep 绑定到某个容器的类型化资源声明。
type Dep[T any] struct {
	reg       *core.Registration
	container *core.Container
}

// Declare 在默认容器上声明资源。
func Declare[T any](setup SetupFunc[T], teardown TeardownFunc[T], opts ...core.Option) *Dep[T] {
	return DeclareIn(defaultContainer, setup, teardown, opts...)
}

// DeclareIn 在指定容器上声明资源。
func DeclareIn[T any](c *core.Container, setup SetupFunc[T], teardown TeardownFunc[T], opts ...core.Option) *Dep[T] {
	factory := core.FactoryFuncs{
		SetupFunc: func(ctx context.Context, call core.Call) (any, error) {
			return setup(ctx, call)
		},
		TeardownFunc: func(ctx context.Context, instance any) error {
			if teardown == nil {
				return nil
			}
			value, _ := instance.(T)
			return teardown(ctx, value)
		},
	}

	return &Dep[T]{
		reg:       core.Declare(factory, opts...),
		container: c,
	}
}

// Stub 声明一个尚未实现的依赖：获取时以 ErrNotImplemented 失败，
// 直到被覆盖为真实实现。用于强制调用方在使用前显式覆盖。
func Stub[T any](name string) *Dep[T] {
	return StubIn[T](defaultContainer, name)
}

// StubIn 在指定容器上声明桩依赖。
func StubIn[T any](c *core.Container, name string) *Dep[T] {
	return DeclareIn(c, func(ctx context.Context, call core.Call) (T, error) {
		var zero T
		return zero, core.ErrNotImplemented
	}, nil, core.WithName(name))
}

// Registration 返回底层注册，作为覆盖映射的键使用。
func (d *Dep[T]) Registration() *core.Registration {
	return d.reg
}

// Acquire 以位置参数获取资源。
func (d *Dep[T]) Acquire(ctx context.Context, args ...any) (*Handle[T], error) {
	return d.AcquireCall(ctx, core.NewCall(args...))
}

// AcquireCall 以完整的参数集合获取资源。
func (d *Dep[T]) AcquireCall(ctx context.Context, call core.Call) (*Handle[T], error) {
	h, err := d.container.Acquire(ctx, d.reg, call)
	if err != nil {
		return nil, err
	}
	return &Handle[T]{inner: h}, nil
}

// Use 在 fn 执行期间持有资源，返回时保证关闭句柄——
// 包括 fn 出错或 panic 的退出路径。
// fn 的错误优先返回，其次是关闭时的 teardown 错误。
func (d *Dep[T]) Use(ctx context.Context, fn func(ctx context.Context, value T) error, args ...any) (retErr error) {
	h, err := d.Acquire(ctx, args...)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := h.Close(ctx); cerr != nil && retErr == nil {
			retErr = cerr
		}
	}()

	return fn(ctx, h.Value())
}

// Handle 类型化的资源句柄。
type Handle[T any] struct {
	inner *core.Handle
}

// Value 返回产出的资源。
func (h *Handle[T]) Value() T {
	value, _ := h.inner.Value().(T)
	return value
}

// State 返回句柄状态。
func (h *Handle[T]) State() core.HandleState {
	return h.inner.State()
}

// Close 关闭句柄。幂等。
func (h *Handle[T]) Close(ctx context.Context) error {
	return h.inner.Close(ctx)
}
