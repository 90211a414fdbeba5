package core

import (
	"context"
	"sync/atomic"
)

// HandleState 句柄的生命周期状态。
type HandleState int32

const (
	// HandlePending setup 尚未完成。获取失败的调用不会产生句柄，
	// 因此对外可见的句柄从 Active 开始。
	HandlePending HandleState = iota
	// HandleActive 资源可用，等待配对的 Close。
	HandleActive
	// HandleClosed 终态。重复 Close 是空操作。
	HandleClosed
)

// Handle 一次打开的资源获取。
// 同一缓存条目上的 N 个句柄共享同一个实例；
// 哪个 Close 把引用计数减到零，teardown 就在那次 Close 上执行。
type Handle struct {
	container *Container
	entry     *cacheEntry
	key       cacheKey
	cached    bool
	state     atomic.Int32
}

func newHandle(c *Container, e *cacheEntry, key cacheKey, cached bool) *Handle {
	h := &Handle{
		container: c,
		entry:     e,
		key:       key,
		cached:    cached,
	}
	h.state.Store(int32(HandleActive))
	return h
}

// Value 返回产出的资源实例。
func (h *Handle) Value() any {
	return h.entry.instance
}

// State 返回句柄当前状态。
func (h *Handle) State() HandleState {
	return HandleState(h.state.Load())
}

// Close 关闭句柄：递减所属条目的引用计数，
// 归零时执行 teardown 并把其中的错误返回给本次调用。
// 幂等：已关闭的句柄直接返回 nil。
func (h *Handle) Close(ctx context.Context) error {
	if !h.state.CompareAndSwap(int32(HandleActive), int32(HandleClosed)) {
		return nil
	}
	return h.container.release(ctx, h)
}
