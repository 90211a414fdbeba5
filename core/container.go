package core

import (
	"context"
	"fmt"
	"sync"
)

// Container 资源生命周期容器，进程或测试级的共享单元。
// 它拥有本系统仅有的两块共享可变状态：缓存表和覆盖表。
// 不同 Container 完全独立，这是测试与多租户隔离的支持机制。
type Container struct {
	mu        sync.RWMutex
	cache     map[cacheKey]*cacheEntry
	overrides Overrides
}

// Overrides 注册到替换注册的映射。
type Overrides map[*Registration]*Registration

// NewContainer 创建一个空容器。
func NewContainer() *Container {
	return &Container{
		cache:     make(map[cacheKey]*cacheEntry),
		overrides: make(Overrides),
	}
}

// Acquire 获取一次资源。
// 解析覆盖（先走 ctx 携带的作用域链，再查容器覆盖表），
// 对解析后的注册计算缓存键，命中则共享现有实例并递增引用计数，
// 否则执行 setup 并建立新条目。返回的句柄负责配对的释放。
func (c *Container) Acquire(ctx context.Context, reg *Registration, call Call) (*Handle, error) {
	if reg == nil {
		return nil, fmt.Errorf("dep: nil registration")
	}

	resolved := c.Resolve(ctx, reg)

	if !resolved.cached {
		return c.acquireFresh(ctx, resolved, call)
	}

	encoded, err := resolved.keyFn(call)
	if err != nil {
		return nil, &KeyError{Registration: resolved.name, Err: err}
	}
	key := cacheKey{reg: resolved, args: encoded}

	c.mu.Lock()
	if e, ok := c.cache[key]; ok {
		e.refcount++
		c.mu.Unlock()

		// 创建者在 setup 期间持有 e.mu；拿到锁即结果已定
		e.mu.Lock()
		serr := e.err
		e.mu.Unlock()

		if serr != nil {
			c.mu.Lock()
			e.refcount--
			c.mu.Unlock()
			return nil, serr
		}
		return newHandle(c, e, key, true), nil
	}

	e := &cacheEntry{refcount: 1, reg: resolved}
	e.mu.Lock()
	c.cache[key] = e
	c.mu.Unlock()

	// setup 在表锁之外执行；并发获取者在 e.mu 上排队等待结果
	instance, err := resolved.factory.Setup(ctx, call)
	if err != nil {
		serr := &SetupError{Registration: resolved.name, Err: err}
		e.err = serr

		c.mu.Lock()
		delete(c.cache, key)
		e.refcount--
		c.mu.Unlock()
		e.mu.Unlock()
		return nil, serr
	}

	e.instance = instance
	e.teardown = func(ctx context.Context) error {
		return resolved.factory.Teardown(ctx, instance)
	}
	e.mu.Unlock()

	return newHandle(c, e, key, true), nil
}

// acquireFresh 处理不缓存的注册：每次获取都产出并独占一个实例，
// 关闭时无条件释放，不参与缓存表。
func (c *Container) acquireFresh(ctx context.Context, resolved *Registration, call Call) (*Handle, error) {
	instance, err := resolved.factory.Setup(ctx, call)
	if err != nil {
		return nil, &SetupError{Registration: resolved.name, Err: err}
	}

	e := &cacheEntry{
		refcount: 1,
		reg:      resolved,
		instance: instance,
		teardown: func(ctx context.Context) error {
			return resolved.factory.Teardown(ctx, instance)
		},
	}

	return newHandle(c, e, cacheKey{}, false), nil
}

// release 关闭一个句柄：递减引用计数，归零时先把条目移出缓存表，
// 再在表锁之外执行 teardown。teardown 失败不会阻止条目移除。
func (c *Container) release(ctx context.Context, h *Handle) error {
	e := h.entry

	if !h.cached {
		return e.runTeardown(ctx)
	}

	c.mu.Lock()
	e.refcount--
	last := e.refcount == 0
	if last {
		// setup 失败的条目已被创建者移除；只清理仍然在表中的自己
		if cur, ok := c.cache[h.key]; ok && cur == e {
			delete(c.cache, h.key)
		}
	}
	c.mu.Unlock()

	if last {
		return e.runTeardown(ctx)
	}
	return nil
}

// SetOverride 在容器生命周期内用 replacement 替换 reg。
// 这是不带作用域的简化覆盖方式；块级覆盖见 WithOverrides。
func (c *Container) SetOverride(reg, replacement *Registration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[reg] = replacement
}

// ClearOverride 撤销 SetOverride。
func (c *Container) ClearOverride(reg *Registration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.overrides, reg)
}

// Override 批量设置容器级覆盖。
func (c *Container) Override(m Overrides) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for reg, replacement := range m {
		c.overrides[reg] = replacement
	}
}

// Resolve 解析 reg 当前生效的注册：
// 从 ctx 携带的最内层作用域向外查找，然后查容器覆盖表，
// 都未命中时返回原注册。
func (c *Container) Resolve(ctx context.Context, reg *Registration) *Registration {
	for f := frameFrom(ctx); f != nil; f = f.parent {
		if f.container != c {
			continue
		}
		if r, ok := f.overrides[reg]; ok && r != nil {
			return r
		}
	}

	c.mu.RLock()
	r, ok := c.overrides[reg]
	c.mu.RUnlock()
	if ok && r != nil {
		return r
	}
	return reg
}

// entryCount 返回缓存表中的条目数，仅用于测试。
func (c *Container) entryCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
