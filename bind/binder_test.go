package bind_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/r-bar/hookchain"
	"github.com/r-bar/hookchain/bind"
	"github.com/r-bar/hookchain/catalog"
	"github.com/r-bar/hookchain/hook"
	"github.com/r-bar/hookchain/hook/memory"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBinder(d *memory.Dispatcher, opts ...bind.Option) *bind.Binder {
	opts = append([]bind.Option{bind.WithLogger(quiet())}, opts...)
	return bind.New(d, catalog.Default(), catalog.DefaultExpander(), opts...)
}

// failingDispatcher rejects subscriptions for one hook name and passes
// everything else through.
type failingDispatcher struct {
	*memory.Dispatcher
	failOn string
}

func (d *failingDispatcher) Listen(target hook.Target, hookName string, h *hook.Handler, once bool) error {
	if hookName == d.failOn {
		return errors.New("listener table full")
	}
	return d.Dispatcher.Listen(target, hookName, h, once)
}

// kinded is a registration target that declares its own kind.
type kinded struct {
	name string
	kind hook.Kind
}

func (k kinded) HookKind() hook.Kind { return k.kind }

func TestListen_Primitive(t *testing.T) {
	d := memory.New(memory.WithLogger(quiet()))
	b := newBinder(d)

	calls := 0
	h := hook.NewHandler("t", func(_ context.Context, _ ...any) error {
		calls++
		return nil
	})
	if err := b.Listen("order", "after_insert", h, false); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	if err := d.Fire(context.Background(), "order", "after_insert", "m", "c", "obj"); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestListen_CompositeFansOut(t *testing.T) {
	d := memory.New(memory.WithLogger(quiet()))
	b := newBinder(d)
	ctx := context.Background()

	var events []string
	h := hook.NewHandler("t", func(_ context.Context, args ...any) error {
		events = append(events, args[0].(string))
		return nil
	})
	if err := b.Listen("order", "after_touch", h, false); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	// One subscription per primitive member, each firing independently.
	for _, ev := range []string{"after_insert", "after_update", "after_delete"} {
		if n := d.Subscriptions("order", ev); n != 1 {
			t.Errorf("Subscriptions(%q) = %d, want 1", ev, n)
		}
		if err := d.Fire(ctx, "order", ev, ev); err != nil {
			t.Fatalf("Fire %s: %v", ev, err)
		}
	}
	if len(events) != 3 {
		t.Fatalf("handler fired %d times, want 3: %v", len(events), events)
	}
}

func TestUnlisten_CompositeRemovesAllMembers(t *testing.T) {
	d := memory.New(memory.WithLogger(quiet()))
	b := newBinder(d)

	h := hook.NewHandler("t", func(_ context.Context, _ ...any) error { return nil })
	if err := b.Listen("order", "after_save", h, false); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if err := b.Unlisten("order", "after_save", h); err != nil {
		t.Fatalf("Unlisten: %v", err)
	}

	for _, ev := range []string{"after_insert", "after_update"} {
		if n := d.Subscriptions("order", ev); n != 0 {
			t.Errorf("Subscriptions(%q) after Unlisten = %d, want 0", ev, n)
		}
	}
}

func TestListen_CompositeRollsBackOnDispatcherError(t *testing.T) {
	mem := memory.New(memory.WithLogger(quiet()))
	d := &failingDispatcher{Dispatcher: mem, failOn: "after_update"}
	b := bind.New(d, catalog.Default(), catalog.DefaultExpander(),
		bind.WithLogger(quiet()), bind.WithBindingLogs(false))

	calls := 0
	h := hook.NewHandler("t", func(_ context.Context, _ ...any) error {
		calls++
		return nil
	})

	// after_save expands to [after_insert, after_update]; the second
	// member fails, so the first must be rolled back.
	if err := b.Listen("order", "after_save", h, false); err == nil {
		t.Fatalf("Listen succeeded, want dispatcher error")
	}
	if n := mem.Subscriptions("order", "after_insert"); n != 0 {
		t.Errorf("after_insert subscriptions after failed composite = %d, want 0", n)
	}
	if err := mem.Fire(context.Background(), "order", "after_insert", "m", "c", "obj"); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if calls != 0 {
		t.Errorf("handler ran despite failed composite registration")
	}
}

func TestListen_HandlerIdentity(t *testing.T) {
	d := memory.New(memory.WithLogger(quiet()))
	b := newBinder(d)
	ctx := context.Background()

	calls := map[string]int{}
	mk := func(name string) *hook.Handler {
		return hook.NewHandler(name, func(_ context.Context, _ ...any) error {
			calls[name]++
			return nil
		})
	}
	h1, h2 := mk("h1"), mk("h2")
	if err := b.Listen("order", "after_insert", h1, false); err != nil {
		t.Fatalf("Listen h1: %v", err)
	}
	if err := b.Listen("order", "after_insert", h2, false); err != nil {
		t.Fatalf("Listen h2: %v", err)
	}

	// Removing h1 leaves h2 untouched.
	if err := b.Unlisten("order", "after_insert", h1); err != nil {
		t.Fatalf("Unlisten h1: %v", err)
	}
	if err := d.Fire(ctx, "order", "after_insert"); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if calls["h1"] != 0 || calls["h2"] != 1 {
		t.Errorf("calls = %v, want h1:0 h2:1", calls)
	}
}

func TestListen_Validation(t *testing.T) {
	h := hook.NewHandler("t", func(_ context.Context, _ ...any) error { return nil })

	t.Run("nil handler", func(t *testing.T) {
		b := newBinder(memory.New(memory.WithLogger(quiet())))
		if err := b.Listen("order", "after_insert", nil, false); !errors.Is(err, hookchain.ErrNilHandler) {
			t.Errorf("err = %v, want ErrNilHandler", err)
		}
	})

	t.Run("no dispatcher", func(t *testing.T) {
		b := bind.New(nil, catalog.Default(), catalog.DefaultExpander(), bind.WithLogger(quiet()))
		if err := b.Listen("order", "after_insert", h, false); !errors.Is(err, hookchain.ErrNoDispatcher) {
			t.Errorf("err = %v, want ErrNoDispatcher", err)
		}
	})

	t.Run("unknown event passes without strict kinds", func(t *testing.T) {
		b := newBinder(memory.New(memory.WithLogger(quiet())))
		if err := b.Listen("order", "made_up_event", h, false); err != nil {
			t.Errorf("err = %v, want nil (validation is opt-in)", err)
		}
	})
}

func TestListen_StrictKinds(t *testing.T) {
	d := memory.New(memory.WithLogger(quiet()))
	b := newBinder(d, bind.WithStrictKinds(true))
	h := hook.NewHandler("t", func(_ context.Context, _ ...any) error { return nil })

	t.Run("unknown event rejected", func(t *testing.T) {
		err := b.Listen("order", "made_up_event", h, false)
		if !errors.Is(err, hookchain.ErrUnknownEvent) {
			t.Errorf("err = %v, want ErrUnknownEvent", err)
		}
	})

	t.Run("kind mismatch rejected", func(t *testing.T) {
		unit := kinded{name: "u1", kind: hook.KindUnit}
		err := b.Listen(unit, "after_insert", h, false)
		if !errors.Is(err, hookchain.ErrKindMismatch) {
			t.Errorf("err = %v, want ErrKindMismatch", err)
		}
	})

	t.Run("matching kind accepted", func(t *testing.T) {
		rec := kinded{name: "r1", kind: hook.KindRecord}
		if err := b.Listen(rec, "after_insert", h, false); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})

	t.Run("mismatch rejected before any member subscribes", func(t *testing.T) {
		unit := kinded{name: "u2", kind: hook.KindUnit}
		err := b.Listen(unit, "after_save", h, false)
		if !errors.Is(err, hookchain.ErrKindMismatch) {
			t.Fatalf("err = %v, want ErrKindMismatch", err)
		}
		for _, ev := range []string{"after_insert", "after_update"} {
			if n := d.Subscriptions(unit, ev); n != 0 {
				t.Errorf("partial subscription leaked on %q", ev)
			}
		}
	})
}
