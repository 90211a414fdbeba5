package config

import (
	"context"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/core"
)

// Dep 把一份构建好的配置声明为默认容器上的缓存资源。
// 配置在首次获取时加载，所有嵌套获取共享同一份视图，
// 最后一个句柄关闭后下次获取会重新加载。
func Dep(configure func(*Builder), opts ...core.Option) *dep.Dep[Configuration] {
	return DepIn(dep.Default(), configure, opts...)
}

// DepIn 在指定容器上声明配置资源。
func DepIn(c *core.Container, configure func(*Builder), opts ...core.Option) *dep.Dep[Configuration] {
	setup := func(ctx context.Context, call core.Call) (Configuration, error) {
		b := NewBuilder()
		if configure != nil {
			configure(b)
		}
		return b.Build()
	}

	declOpts := append([]core.Option{core.WithCached(), core.WithName("config")}, opts...)
	return dep.DeclareIn(c, setup, nil, declOpts...)
}
