package dep_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/core"
)

func TestDeclareAndUse(t *testing.T) {
	c := dep.NewContainer()
	torn := 0

	conn := dep.DeclareIn(c, func(ctx context.Context, call core.Call) (*string, error) {
		s := "connected"
		return &s, nil
	}, func(ctx context.Context, value *string) error {
		torn++
		return nil
	}, core.WithCached(), core.WithName("conn"))

	ctx := context.Background()

	err := conn.Use(ctx, func(ctx context.Context, value *string) error {
		if *value != "connected" {
			t.Errorf("unexpected value %q", *value)
		}
		// 嵌套获取共享同一实例
		return conn.Use(ctx, func(ctx context.Context, inner *string) error {
			if inner != value {
				t.Error("nested Use must observe the identical instance")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("use: %v", err)
	}
	if torn != 1 {
		t.Errorf("expected exactly 1 teardown, got %d", torn)
	}
}

func TestUseClosesOnError(t *testing.T) {
	c := dep.NewContainer()
	torn := false

	res := dep.DeclareIn(c, func(ctx context.Context, call core.Call) (int, error) {
		return 42, nil
	}, func(ctx context.Context, value int) error {
		torn = true
		return nil
	}, core.WithCached())

	boom := errors.New("handler failed")
	err := res.Use(context.Background(), func(ctx context.Context, value int) error {
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
	// 出错路径同样保证释放
	if !torn {
		t.Error("resource must be released when the block fails")
	}
}

func TestAcquireWithArguments(t *testing.T) {
	c := dep.NewContainer()
	setups := 0

	db := dep.DeclareIn(c, func(ctx context.Context, call core.Call) (string, error) {
		setups++
		return "db:" + call.Args[0].(string), nil
	}, nil, core.WithCached())

	ctx := context.Background()

	hA, err := db.Acquire(ctx, "tenant-a")
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	hA2, err := db.Acquire(ctx, "tenant-a")
	if err != nil {
		t.Fatalf("acquire a2: %v", err)
	}
	hB, err := db.Acquire(ctx, "tenant-b")
	if err != nil {
		t.Fatalf("acquire b: %v", err)
	}

	if hA.Value() != hA2.Value() || hA.Value() != "db:tenant-a" {
		t.Error("equal arguments must share the instance")
	}
	if hB.Value() != "db:tenant-b" {
		t.Errorf("unexpected value %q", hB.Value())
	}
	if setups != 2 {
		t.Errorf("expected 2 setups, got %d", setups)
	}

	_ = hA.Close(ctx)
	_ = hA2.Close(ctx)
	_ = hB.Close(ctx)
}

func TestScopedOverrideOnDefaultContainer(t *testing.T) {
	original := dep.Declare(func(ctx context.Context, call core.Call) (string, error) {
		return "original", nil
	}, nil, core.WithCached())
	replacement := dep.Declare(func(ctx context.Context, call core.Call) (string, error) {
		return "overridden", nil
	}, nil, core.WithCached())

	base := context.Background()
	scoped := dep.WithOverrides(base, dep.OverrideOf(original, replacement))

	err := original.Use(scoped, func(ctx context.Context, value string) error {
		if value != "overridden" {
			t.Errorf("inside scope: got %q", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("use scoped: %v", err)
	}

	err = original.Use(base, func(ctx context.Context, value string) error {
		if value != "original" {
			t.Errorf("outside scope: got %q", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("use base: %v", err)
	}
}

func TestPermanentOverride(t *testing.T) {
	c := dep.NewContainer()
	original := dep.DeclareIn(c, func(ctx context.Context, call core.Call) (string, error) {
		return "original", nil
	}, nil)
	replacement := dep.DeclareIn(c, func(ctx context.Context, call core.Call) (string, error) {
		return "replacement", nil
	}, nil)

	c.Override(dep.OverrideOf(original, replacement))

	err := original.Use(context.Background(), func(ctx context.Context, value string) error {
		if value != "replacement" {
			t.Errorf("got %q", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("use: %v", err)
	}

	c.ClearOverride(original.Registration())

	err = original.Use(context.Background(), func(ctx context.Context, value string) error {
		if value != "original" {
			t.Errorf("after clear: got %q", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("use after clear: %v", err)
	}
}

func TestStubRequiresOverride(t *testing.T) {
	c := dep.NewContainer()
	gateway := dep.StubIn[string](c, "gateway")

	_, err := gateway.Acquire(context.Background())
	if !errors.Is(err, core.ErrNotImplemented) {
		t.Fatalf("stub must fail with ErrNotImplemented, got %v", err)
	}

	real := dep.DeclareIn(c, func(ctx context.Context, call core.Call) (string, error) {
		return "live", nil
	}, nil)
	c.Override(dep.OverrideOf(gateway, real))

	err = gateway.Use(context.Background(), func(ctx context.Context, value string) error {
		if value != "live" {
			t.Errorf("got %q", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("use after override: %v", err)
	}
}
