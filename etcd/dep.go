// Package etcd 将 etcd 客户端声明为带生命周期的资源。
package etcd

import (
	"context"
	"fmt"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/core"
	"github.com/gocrud/dep/logging"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// Dep 在默认容器上声明一个共享的 etcd 客户端。
func Dep(name string, configure func(*Options), opts ...core.Option) *dep.Dep[*clientv3.Client] {
	return DepIn(dep.Default(), name, configure, opts...)
}

// DepIn 在指定容器上声明 etcd 客户端资源。
func DepIn(c *core.Container, name string, configure func(*Options), opts ...core.Option) *dep.Dep[*clientv3.Client] {
	setup := func(ctx context.Context, call core.Call) (*clientv3.Client, error) {
		o := NewDefaultOptions(name)
		if configure != nil {
			configure(o)
		}
		if err := o.Validate(); err != nil {
			return nil, err
		}
		return open(o)
	}

	teardown := func(ctx context.Context, client *clientv3.Client) error {
		return client.Close()
	}

	declOpts := append([]core.Option{core.WithCached(), core.WithName("etcd:" + name)}, opts...)
	return dep.DeclareIn(c, setup, teardown, declOpts...)
}

// open 按选项构建客户端
func open(o *Options) (*clientv3.Client, error) {
	config := clientv3.Config{
		Endpoints:   o.Endpoints,
		DialTimeout: o.DialTimeout,
	}

	if o.Username != "" {
		config.Username = o.Username
		config.Password = o.Password
	}
	if o.AutoSyncInterval > 0 {
		config.AutoSyncInterval = o.AutoSyncInterval
	}
	if o.MaxCallSendMsgSize > 0 {
		config.MaxCallSendMsgSize = o.MaxCallSendMsgSize
	}
	if o.MaxCallRecvMsgSize > 0 {
		config.MaxCallRecvMsgSize = o.MaxCallRecvMsgSize
	}

	client, err := clientv3.New(config)
	if err != nil {
		return nil, fmt.Errorf("etcd: create client '%s': %w", o.Name, err)
	}

	o.Logger.Info("etcd client created",
		logging.Field{Key: "name", Value: o.Name},
		logging.Field{Key: "endpoints", Value: o.Endpoints})

	return client, nil
}
