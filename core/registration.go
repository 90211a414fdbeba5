package core

import "context"

// Factory 两阶段资源工厂。
// Setup 创建并返回资源，Teardown 释放它。
// 阻塞式实现直接执行，挂起式实现通过 ctx 感知取消，
// 两者对容器完全透明。
type Factory interface {
	Setup(ctx context.Context, call Call) (any, error)
	Teardown(ctx context.Context, instance any) error
}

// FactoryFuncs 以函数对实现 Factory。
// TeardownFunc 为 nil 时释放是空操作。
type FactoryFuncs struct {
	SetupFunc    func(ctx context.Context, call Call) (any, error)
	TeardownFunc func(ctx context.Context, instance any) error
}

func (f FactoryFuncs) Setup(ctx context.Context, call Call) (any, error) {
	return f.SetupFunc(ctx, call)
}

func (f FactoryFuncs) Teardown(ctx context.Context, instance any) error {
	if f.TeardownFunc == nil {
		return nil
	}
	return f.TeardownFunc(ctx, instance)
}

// Registration 不可变的资源声明：一个工厂加上它的缓存策略。
// 注册的身份就是指针本身——覆盖表和缓存表都以 *Registration 为键。
type Registration struct {
	name    string
	factory Factory
	cached  bool
	keyFn   KeyFunc
}

// Option 配置资源声明。
type Option func(*Registration)

// WithCached 启用实例共享：相同参数的嵌套获取复用同一实例。
func WithCached() Option {
	return func(r *Registration) {
		r.cached = true
	}
}

// WithKeyFunc 替换默认的参数编码器。
// 自定义键函数被原样信任。
func WithKeyFunc(fn KeyFunc) Option {
	return func(r *Registration) {
		r.keyFn = fn
	}
}

// WithName 设置用于错误信息的名称。
func WithName(name string) Option {
	return func(r *Registration) {
		r.name = name
	}
}

// Declare 声明一个资源工厂。
// 默认不缓存、使用 DefaultKeyFunc 编码参数。
func Declare(factory Factory, opts ...Option) *Registration {
	r := &Registration{
		name:    "anonymous",
		factory: factory,
		keyFn:   DefaultKeyFunc,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Name 返回声明时设置的名称。
func (r *Registration) Name() string {
	return r.name
}

// Cached 报告结果是否跨嵌套获取共享。
func (r *Registration) Cached() bool {
	return r.cached
}
