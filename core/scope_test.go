package core

import (
	"context"
	"sync"
	"testing"
)

func valueReg(value string) *Registration {
	return Declare(FactoryFuncs{
		SetupFunc: func(ctx context.Context, call Call) (any, error) {
			return value, nil
		},
	}, WithCached(), WithName(value))
}

func acquireValue(t *testing.T, ctx context.Context, c *Container, reg *Registration) string {
	t.Helper()
	h, err := c.Acquire(ctx, reg, Call{})
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer h.Close(ctx)
	return h.Value().(string)
}

func TestScopedOverride(t *testing.T) {
	c := NewContainer()
	original := valueReg("original")
	replacement := valueReg("overridden")

	base := context.Background()
	scoped := WithOverrides(base, c, Overrides{original: replacement})

	if got := acquireValue(t, scoped, c, original); got != "overridden" {
		t.Errorf("inside scope: expected overridden, got %q", got)
	}
	// 块外的 context 不受影响
	if got := acquireValue(t, base, c, original); got != "original" {
		t.Errorf("outside scope: expected original, got %q", got)
	}
}

func TestNestedOverrideShadowing(t *testing.T) {
	c := NewContainer()
	original := valueReg("original")
	outerRepl := valueReg("outer")
	innerRepl := valueReg("inner")

	base := context.Background()
	outer := WithOverrides(base, c, Overrides{original: outerRepl})
	inner := WithOverrides(outer, c, Overrides{original: innerRepl})

	// 内层遮蔽外层
	if got := acquireValue(t, inner, c, original); got != "inner" {
		t.Errorf("inner scope: expected inner, got %q", got)
	}
	// 内层退出后外层映射原样恢复
	if got := acquireValue(t, outer, c, original); got != "outer" {
		t.Errorf("outer scope: expected outer, got %q", got)
	}
	if got := acquireValue(t, base, c, original); got != "original" {
		t.Errorf("base: expected original, got %q", got)
	}
}

func TestScopeFallsBackToContainerOverride(t *testing.T) {
	c := NewContainer()
	original := valueReg("original")
	containerRepl := valueReg("container-level")
	scopeRepl := valueReg("scope-level")
	other := valueReg("other")
	otherRepl := valueReg("other-scope")

	c.SetOverride(original, containerRepl)

	base := context.Background()
	// 作用域里只覆盖了 other；original 回落到容器级覆盖
	scoped := WithOverrides(base, c, Overrides{other: otherRepl})

	if got := acquireValue(t, scoped, c, original); got != "container-level" {
		t.Errorf("expected container-level fallback, got %q", got)
	}

	// 作用域覆盖优先于容器级覆盖
	scoped2 := WithOverrides(base, c, Overrides{original: scopeRepl})
	if got := acquireValue(t, scoped2, c, original); got != "scope-level" {
		t.Errorf("scope must shadow container override, got %q", got)
	}

	c.ClearOverride(original)
	if got := acquireValue(t, base, c, original); got != "original" {
		t.Errorf("after clear: expected original, got %q", got)
	}
}

func TestSiblingTaskIsolation(t *testing.T) {
	c := NewContainer()
	original := valueReg("original")
	replA := valueReg("sibling-a")
	replB := valueReg("sibling-b")

	base := context.Background()

	var wg sync.WaitGroup
	results := make(map[string]string)
	var mu sync.Mutex

	// 两个并发任务各自从同一父 context 派生作用域，互不可见
	for name, repl := range map[string]*Registration{"a": replA, "b": replB} {
		wg.Add(1)
		go func(name string, repl *Registration) {
			defer wg.Done()
			scoped := WithOverrides(base, c, Overrides{original: repl})
			v := acquireValue(t, scoped, c, original)
			mu.Lock()
			results[name] = v
			mu.Unlock()
		}(name, repl)
	}
	wg.Wait()

	if results["a"] != "sibling-a" || results["b"] != "sibling-b" {
		t.Errorf("sibling scopes leaked: %v", results)
	}
	if got := acquireValue(t, base, c, original); got != "original" {
		t.Errorf("parent context mutated by siblings: %q", got)
	}
}

func TestScopeFramesAreContainerLocal(t *testing.T) {
	c1 := NewContainer()
	c2 := NewContainer()
	original := valueReg("original")
	repl := valueReg("only-in-c1")

	// c1 的作用域帧对 c2 的解析不可见
	scoped := WithOverrides(context.Background(), c1, Overrides{original: repl})

	if got := acquireValue(t, scoped, c1, original); got != "only-in-c1" {
		t.Errorf("c1: expected override, got %q", got)
	}
	if got := acquireValue(t, scoped, c2, original); got != "original" {
		t.Errorf("c2 must ignore c1's frames, got %q", got)
	}
}

func TestRunWithOverrides(t *testing.T) {
	c := NewContainer()
	original := valueReg("original")
	repl := valueReg("overridden")

	base := context.Background()

	err := RunWithOverrides(base, c, Overrides{original: repl}, func(ctx context.Context) error {
		if got := acquireValue(t, ctx, c, original); got != "overridden" {
			t.Errorf("inside block: expected overridden, got %q", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := acquireValue(t, base, c, original); got != "original" {
		t.Errorf("after block: expected original, got %q", got)
	}
}

func TestOverrideDoesNotSuppressFactoryErrors(t *testing.T) {
	c := NewContainer()
	original := valueReg("original")
	failing := Declare(FactoryFuncs{
		SetupFunc: func(ctx context.Context, call Call) (any, error) {
			return nil, ErrNotImplemented
		},
	}, WithName("failing"))

	scoped := WithOverrides(context.Background(), c, Overrides{original: failing})

	if _, err := c.Acquire(scoped, original, Call{}); err == nil {
		t.Fatal("override must propagate the replacement's failure")
	}
}
