package core

import (
	"context"
	"sync"
)

// cacheKey 缓存身份：注册指针 + 规范化的参数编码。
type cacheKey struct {
	reg  *Registration
	args string
}

// cacheEntry 一个已产出（或正在产出）的资源实例，
// 连同引用计数和释放动作。
type cacheEntry struct {
	// mu 在 setup 执行期间被创建者持有；
	// 等待者拿到锁时 instance/err 必然已就绪
	mu       sync.Mutex
	instance any
	err      error

	// refcount 由所属 Container 的锁保护
	refcount int

	reg          *Registration
	teardown     func(ctx context.Context) error
	teardownOnce sync.Once
}

// runTeardown 执行释放动作，保证至多一次。
// 后续调用是空操作并返回 nil。
func (e *cacheEntry) runTeardown(ctx context.Context) error {
	var err error
	e.teardownOnce.Do(func() {
		if e.teardown == nil {
			return
		}
		if terr := e.teardown(ctx); terr != nil {
			err = &TeardownError{Registration: e.reg.Name(), Err: terr}
		}
	})
	return err
}
