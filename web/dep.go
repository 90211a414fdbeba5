// Package web 将基于 Gin 的 HTTP 服务器声明为带生命周期的资源。
package web

import (
	"context"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/core"
)

// Dep 在默认容器上声明一个共享的 Web 服务器。
func Dep(name string, configure func(*Options), opts ...core.Option) *dep.Dep[*Server] {
	return DepIn(dep.Default(), name, configure, opts...)
}

// DepIn 在指定容器上声明 Web 服务器资源。
func DepIn(c *core.Container, name string, configure func(*Options), opts ...core.Option) *dep.Dep[*Server] {
	setup := func(ctx context.Context, call core.Call) (*Server, error) {
		o := NewDefaultOptions(name)
		if configure != nil {
			configure(o)
		}
		if err := o.Validate(); err != nil {
			return nil, err
		}
		return newServer(o)
	}

	teardown := func(ctx context.Context, s *Server) error {
		return s.shutdown(ctx)
	}

	declOpts := append([]core.Option{core.WithCached(), core.WithName("web:" + name)}, opts...)
	return dep.DeclareIn(c, setup, teardown, declOpts...)
}
