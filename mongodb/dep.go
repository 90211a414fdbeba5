// Package mongodb 将 MongoDB 客户端声明为带生命周期的资源。
package mongodb

import (
	"context"
	"fmt"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/core"
	"github.com/gocrud/dep/logging"
	"github.com/gocrud/mgo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Dep 在默认容器上声明一个共享的 MongoDB 客户端。
func Dep(name string, configure func(*Options), opts ...core.Option) *dep.Dep[*mgo.Client] {
	return DepIn(dep.Default(), name, configure, opts...)
}

// DepIn 在指定容器上声明 MongoDB 客户端资源。
func DepIn(c *core.Container, name string, configure func(*Options), opts ...core.Option) *dep.Dep[*mgo.Client] {
	setup := func(ctx context.Context, call core.Call) (*mgo.Client, error) {
		o := NewDefaultOptions(name)
		if configure != nil {
			configure(o)
		}
		if err := o.Validate(); err != nil {
			return nil, err
		}
		return connect(ctx, o)
	}

	teardown := func(ctx context.Context, client *mgo.Client) error {
		return client.Disconnect(ctx)
	}

	declOpts := append([]core.Option{core.WithCached(), core.WithName("mongodb:" + name)}, opts...)
	return dep.DeclareIn(c, setup, teardown, declOpts...)
}

// connect 构建客户端配置并建立连接
func connect(ctx context.Context, o *Options) (*mgo.Client, error) {
	clientOpts := options.Client()
	if o.Username != "" || o.Password != "" {
		clientOpts.SetAuth(options.Credential{
			Username: o.Username,
			Password: o.Password,
		})
	}
	if o.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(o.MaxPoolSize)
	}
	if o.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(o.MinPoolSize)
	}
	clientOpts.SetConnectTimeout(o.Timeout)

	connectCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	client, err := mgo.NewClient(connectCtx, o.Uri, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect to '%s': %w", o.Name, err)
	}

	o.Logger.Info("mongo client connected",
		logging.Field{Key: "name", Value: o.Name},
		logging.Field{Key: "uri", Value: o.Uri})

	return client, nil
}
