package core

import (
	"errors"
	"fmt"
)

// ErrNotImplemented 桩工厂在被覆盖前返回的错误。
// 用于先声明、后在测试或多租户配置中覆盖的依赖。
var ErrNotImplemented = errors.New("dep: factory not implemented")

// SetupError 工厂在产出资源前失败。
// 不会创建缓存条目，错误原样传播到获取方。
type SetupError struct {
	Registration string
	Err          error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("dep: setup of '%s' failed: %v", e.Registration, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// TeardownError 工厂在释放资源时失败。
// 条目仍会从缓存中移除，错误传播给触发释放的关闭方。
type TeardownError struct {
	Registration string
	Err          error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("dep: teardown of '%s' failed: %v", e.Registration, e.Err)
}

func (e *TeardownError) Unwrap() error {
	return e.Err
}

// KeyError 键函数无法编码给定参数。
// 在任何 setup 执行之前、获取时即返回。
type KeyError struct {
	Registration string
	Err          error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("dep: cache key for '%s' failed: %v", e.Registration, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}
