// Package database 将 gorm 数据库连接声明为带生命周期的资源。
package database

import (
	"context"
	"fmt"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/core"
	"github.com/gocrud/dep/logging"
	"gorm.io/gorm"
)

// Dep 在默认容器上声明一个共享的数据库连接。
func Dep(name string, dialector gorm.Dialector, configure func(*Options), opts ...core.Option) *dep.Dep[*gorm.DB] {
	return DepIn(dep.Default(), name, dialector, configure, opts...)
}

// DepIn 在指定容器上声明数据库资源。
func DepIn(c *core.Container, name string, dialector gorm.Dialector, configure func(*Options), opts ...core.Option) *dep.Dep[*gorm.DB] {
	setup := func(ctx context.Context, call core.Call) (*gorm.DB, error) {
		o := NewDefaultOptions(name, dialector)
		if configure != nil {
			configure(o)
		}
		if err := o.Validate(); err != nil {
			return nil, err
		}
		return open(o)
	}

	teardown := func(ctx context.Context, db *gorm.DB) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("database: get sql.DB: %w", err)
		}
		return sqlDB.Close()
	}

	declOpts := append([]core.Option{core.WithCached(), core.WithName("database:" + name)}, opts...)
	return dep.DeclareIn(c, setup, teardown, declOpts...)
}

// open 打开连接、配置连接池并执行自动迁移
func open(o *Options) (*gorm.DB, error) {
	db, err := gorm.Open(o.Dialector, o.GormConfig)
	if err != nil {
		return nil, fmt.Errorf("database: open '%s': %w", o.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB for '%s': %w", o.Name, err)
	}

	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(o.MaxLifetime)

	if len(o.AutoMigrate) > 0 {
		if err := db.AutoMigrate(o.AutoMigrate...); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("database: auto migrate '%s': %w", o.Name, err)
		}
	}

	o.Logger.Info("database opened",
		logging.Field{Key: "name", Value: o.Name},
		logging.Field{Key: "dialect", Value: o.Dialector.Name()})

	return db, nil
}
