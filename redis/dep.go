// Package redis 将 Redis 客户端声明为带生命周期的资源：
// 获取时建立连接并验证连通性，最后一个句柄关闭时断开。
package redis

import (
	"context"
	"fmt"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/core"
	"github.com/gocrud/dep/logging"
	"github.com/redis/go-redis/v9"
)

// Dep 在默认容器上声明一个共享的 Redis 客户端。
func Dep(name string, configure func(*Options), opts ...core.Option) *dep.Dep[*redis.Client] {
	return DepIn(dep.Default(), name, configure, opts...)
}

// DepIn 在指定容器上声明 Redis 客户端资源。
func DepIn(c *core.Container, name string, configure func(*Options), opts ...core.Option) *dep.Dep[*redis.Client] {
	setup := func(ctx context.Context, call core.Call) (*redis.Client, error) {
		o := NewDefaultOptions(name)
		if configure != nil {
			configure(o)
		}
		if err := o.Validate(); err != nil {
			return nil, err
		}
		return open(ctx, o)
	}

	teardown := func(ctx context.Context, client *redis.Client) error {
		return client.Close()
	}

	declOpts := append([]core.Option{core.WithCached(), core.WithName("redis:" + name)}, opts...)
	return dep.DeclareIn(c, setup, teardown, declOpts...)
}

// open 创建客户端并验证连通性
func open(ctx context.Context, o *Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
		PoolSize:     o.PoolSize,
		MinIdleConns: o.MinIdleConns,
		MaxRetries:   o.MaxRetries,
	})

	pingCtx, cancel := context.WithTimeout(ctx, o.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: connect to '%s': %w", o.Name, err)
	}

	o.Logger.Info("redis client connected",
		logging.Field{Key: "name", Value: o.Name},
		logging.Field{Key: "addr", Value: o.Addr},
		logging.Field{Key: "db", Value: o.DB})

	return client, nil
}
