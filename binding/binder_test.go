package binding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-games/binder/binding"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

// MapView is the contract the test providers install under.
type MapView interface {
	Name() string
}

type minimap struct{ label string }

func (m *minimap) Name() string { return m.label }

type worldMap struct{ label string }

func (w *worldMap) Name() string { return w.label }

var mapViewT = binding.Of[MapView]()

// hud is a persistent consumer: it follows every change of the current view.
type hud struct {
	view  MapView
	calls []MapView // callback invocations, in order
}

// questLog is a one-shot consumer: it wants the first view that shows up.
type questLog struct {
	view  MapView
	calls []MapView
}

func newTable() *binding.Table {
	tbl := binding.NewTable()
	tbl.For(&minimap{}).InstallAs(mapViewT)
	tbl.For(&worldMap{}).InstallAs(mapViewT)
	tbl.For(&hud{}).UpdateCall("view", mapViewT,
		binding.Field(func(h *hud, v MapView) { h.view = v }),
		binding.Call(func(h *hud, v MapView) { h.calls = append(h.calls, v) }))
	tbl.For(&questLog{}).InjectCall("view", mapViewT,
		binding.Field(func(q *questLog, v MapView) { q.view = v }),
		binding.Call(func(q *questLog, v MapView) { q.calls = append(q.calls, v) }))
	return tbl
}

func newBinder() *binding.Binder {
	return binding.New(newTable())
}

// ── waiting injectors ─────────────────────────────────────────────────────────

func TestBind_InjectorWaitsUntilFirstInstall(t *testing.T) {
	b := newBinder()

	q := &questLog{}
	b.Bind(q)
	require.Nil(t, q.view, "no provider exists yet")
	require.Empty(t, q.calls)

	a := &minimap{label: "a"}
	b.Bind(a)

	assert.Same(t, a, q.view)
	require.Len(t, q.calls, 1)
	assert.Same(t, a, q.calls[0])
}

func TestBind_InjectorSatisfiedImmediatelyIsNotRetained(t *testing.T) {
	b := newBinder()

	a := &minimap{label: "a"}
	b.Bind(a)

	q := &questLog{}
	b.Bind(q)
	assert.Same(t, a, q.view)

	// A later install must not reach the already-satisfied one-shot.
	b.Bind(&worldMap{label: "b"})
	assert.Same(t, a, q.view)
	assert.Len(t, q.calls, 1)
}

// ── last-writer-wins ──────────────────────────────────────────────────────────

func TestInstall_LastWriterWins(t *testing.T) {
	b := newBinder()

	h := &hud{}
	b.Bind(h)

	a := &minimap{label: "a"}
	w := &worldMap{label: "b"}
	b.Bind(a)
	b.Bind(w)

	current, ok := b.Current(mapViewT)
	require.True(t, ok)
	assert.Same(t, w, current)

	require.Len(t, h.calls, 2, "updater sees both installs, in order")
	assert.Same(t, a, h.calls[0])
	assert.Same(t, w, h.calls[1])
	assert.Same(t, w, h.view)
}

// ── removal ───────────────────────────────────────────────────────────────────

func TestUninstall_RevealsPriorLayer(t *testing.T) {
	b := newBinder()

	h := &hud{}
	q := &questLog{}
	b.Bind(h)
	b.Bind(q)

	a := &minimap{label: "a"}
	w := &worldMap{label: "b"}
	b.Bind(a)
	b.Bind(w)

	b.Unbind(w)

	current, ok := b.Current(mapViewT)
	require.True(t, ok)
	assert.Same(t, a, current)
	assert.Same(t, a, h.view)
	require.Len(t, h.calls, 3)
	assert.Same(t, a, h.calls[2])

	// The satisfied one-shot is gone; removal does not renotify it.
	assert.Same(t, a, q.view)
	assert.Len(t, q.calls, 1)
}

func TestUninstall_ToEmptyClearsFieldWithoutCallback(t *testing.T) {
	b := newBinder()

	h := &hud{}
	b.Bind(h)

	a := &minimap{label: "a"}
	b.Bind(a)
	b.Unbind(a)

	_, ok := b.Current(mapViewT)
	assert.False(t, ok)
	assert.Nil(t, h.view, "field cleared to absent")
	assert.Len(t, h.calls, 1, "callbacks never fire with an absent value")
}

func TestUninstall_NonCurrentProviderDoesNotRenotify(t *testing.T) {
	b := newBinder()

	h := &hud{}
	b.Bind(h)

	a := &minimap{label: "a"}
	w := &worldMap{label: "b"}
	b.Bind(a)
	b.Bind(w)

	b.Unbind(a) // below the top: current is unaffected

	current, ok := b.Current(mapViewT)
	require.True(t, ok)
	assert.Same(t, w, current)
	assert.Len(t, h.calls, 2, "no renotification when the current provider did not change")
	assert.Same(t, w, h.view)
}

// ── one-shot vs persistent ────────────────────────────────────────────────────

func TestConsumers_OneShotVersusPersistent(t *testing.T) {
	b := newBinder()

	h := &hud{}
	q := &questLog{}
	b.Bind(h)
	b.Bind(q)

	a := &minimap{label: "a"}
	w := &worldMap{label: "b"}
	b.Bind(a)
	b.Bind(w)
	b.Unbind(w)
	b.Unbind(a)
	b.Bind(w)

	assert.Len(t, q.calls, 1, "one-shot fires exactly once across all changes")
	assert.Same(t, a, q.view)

	// persistent: a, b, a, absent(no call), b
	require.Len(t, h.calls, 4)
	assert.Same(t, a, h.calls[0])
	assert.Same(t, w, h.calls[1])
	assert.Same(t, a, h.calls[2])
	assert.Same(t, w, h.calls[3])
	assert.Same(t, w, h.view)
}

// ── unbind cleanliness ────────────────────────────────────────────────────────

func TestUnbind_RemovesConsumerFromAllLists(t *testing.T) {
	b := newBinder()

	h := &hud{}
	b.Bind(h)
	b.Unbind(h)

	b.Bind(&minimap{label: "a"})
	assert.Nil(t, h.view)
	assert.Empty(t, h.calls, "unbound consumer must not be notified")
}

func TestUnbind_ClearsFieldWithoutCallback(t *testing.T) {
	b := newBinder()

	h := &hud{}
	b.Bind(h)

	a := &minimap{label: "a"}
	b.Bind(a)
	require.Same(t, a, h.view)

	b.Unbind(h)
	assert.Nil(t, h.view)
	assert.Len(t, h.calls, 1)
}

func TestUnbind_RemovesPendingInjector(t *testing.T) {
	b := newBinder()

	q := &questLog{}
	b.Bind(q)
	b.Unbind(q)

	b.Bind(&minimap{label: "a"})
	assert.Nil(t, q.view)
	assert.Empty(t, q.calls)
}

// ── idempotence ───────────────────────────────────────────────────────────────

func TestUnbind_Idempotent(t *testing.T) {
	b := newBinder()

	h1 := &hud{}
	h2 := &hud{}
	b.Bind(h1)
	b.Bind(h2)

	b.Unbind(h1)
	b.Unbind(h1) // second unbind is a no-op

	b.Bind(&minimap{label: "a"})
	assert.Empty(t, h1.calls)
	assert.Len(t, h2.calls, 1, "sibling listeners survive redundant unbinds")
}

func TestUninstall_MissingProviderIsNoOp(t *testing.T) {
	b := newBinder()

	h := &hud{}
	b.Bind(h)

	a := &minimap{label: "a"}
	b.Bind(a)

	never := &worldMap{label: "ghost"}
	b.Uninstall(never, mapViewT)

	current, ok := b.Current(mapViewT)
	require.True(t, ok)
	assert.Same(t, a, current)
	assert.Len(t, h.calls, 1)
}

func TestBind_NilTargetIsNoOp(t *testing.T) {
	b := newBinder()
	b.Bind(nil)
	b.Unbind(nil)
	b.Install(nil, mapViewT)
	b.Uninstall(nil, mapViewT)

	_, ok := b.Current(mapViewT)
	assert.False(t, ok)
}

// ── implicit self-install ─────────────────────────────────────────────────────

type oddball struct{ n int }

func TestBind_UndeclaredTypeInstallsUnderItself(t *testing.T) {
	b := newBinder()

	ob := &oddball{n: 7}
	b.Bind(ob)

	got, ok := binding.CurrentAs[*oddball](b)
	require.True(t, ok)
	assert.Same(t, ob, got)

	b.Unbind(ob)
	_, ok = binding.CurrentAs[*oddball](b)
	assert.False(t, ok)
}

// ── ordering within a sink ────────────────────────────────────────────────────

func TestSink_CallbackRunsBeforeAssignment(t *testing.T) {
	var seq []string

	tbl := newTable()
	type probe struct{}
	tbl.For(&probe{}).UpdateCall("view", mapViewT,
		func(_, value any) {
			if value == nil {
				seq = append(seq, "assign:absent")
			} else {
				seq = append(seq, "assign:present")
			}
		},
		func(_, _ any) { seq = append(seq, "callback") })

	b := binding.New(tbl)
	b.Bind(&probe{})

	a := &minimap{label: "a"}
	b.Bind(a)
	b.Unbind(a)

	assert.Equal(t, []string{"callback", "assign:present", "assign:absent"}, seq)
}

// ── multiple contracts ────────────────────────────────────────────────────────

type pinger interface{ Ping() }

type radar struct{ label string }

func (r *radar) Name() string { return r.label }
func (r *radar) Ping()        {}

func TestInstall_SameInstanceUnderMultipleContracts(t *testing.T) {
	tbl := newTable()
	tbl.For(&radar{}).
		InstallAs(mapViewT).
		InstallAs(binding.Of[pinger]())

	b := binding.New(tbl)
	r := &radar{label: "radar"}
	b.Bind(r)

	view, ok := b.Current(mapViewT)
	require.True(t, ok)
	assert.Same(t, r, view)

	ping, ok := binding.CurrentAs[pinger](b)
	require.True(t, ok)
	assert.Same(t, r, ping)

	b.Unbind(r)
	_, ok = b.Current(mapViewT)
	assert.False(t, ok)
	_, ok = binding.CurrentAs[pinger](b)
	assert.False(t, ok)
}

// ── re-entrancy ───────────────────────────────────────────────────────────────

func TestNotify_ReentrantBindDuringDispatch(t *testing.T) {
	var b *binding.Binder
	late := &questLog{}

	tbl := newTable()
	type trigger struct{ fired bool }
	tbl.For(&trigger{}).Update("spawn", mapViewT, func(target, value any) {
		tr := target.(*trigger)
		if value != nil && !tr.fired {
			tr.fired = true
			b.Bind(late) // re-enters the binder mid-notification
		}
	})

	b = binding.New(tbl)
	b.Bind(&trigger{})

	a := &minimap{label: "a"}
	b.Bind(a)

	assert.Same(t, a, late.view, "consumer bound mid-dispatch is satisfied from current state")
	assert.Len(t, late.calls, 1)
}

func TestNotify_SelfUnbindDuringDispatch(t *testing.T) {
	var b *binding.Binder

	tbl := newTable()
	type flighty struct {
		seen int
	}
	tbl.For(&flighty{}).Update("view", mapViewT, func(target, value any) {
		f := target.(*flighty)
		if value != nil {
			f.seen++
			b.Unbind(f)
		}
	})

	b = binding.New(tbl)
	f := &flighty{}
	h := &hud{}
	b.Bind(f)
	b.Bind(h)

	b.Bind(&minimap{label: "a"})
	b.Bind(&worldMap{label: "b"})

	assert.Equal(t, 1, f.seen, "listener that unbound itself mid-dispatch stops receiving")
	assert.Len(t, h.calls, 2, "sibling updater unaffected by mid-dispatch removal")
}

// ── reset ─────────────────────────────────────────────────────────────────────

func TestReset_ClearsAllState(t *testing.T) {
	b := newBinder()

	h := &hud{}
	b.Bind(h)
	b.Bind(&minimap{label: "a"})
	require.Len(t, h.calls, 1)

	b.Reset()

	_, ok := b.Current(mapViewT)
	assert.False(t, ok)

	b.Bind(&worldMap{label: "b"})
	assert.Len(t, h.calls, 1, "listeners do not survive a reset")

	snap := b.Snapshot()
	assert.Empty(t, snap.Listeners)
}

// ── snapshot ──────────────────────────────────────────────────────────────────

func TestSnapshot_ReflectsLiveState(t *testing.T) {
	b := newBinder()

	q := &questLog{}
	h := &hud{}
	b.Bind(q)
	b.Bind(h)
	b.Bind(&minimap{label: "a"})
	b.Bind(&worldMap{label: "b"})

	snap := b.Snapshot()

	require.Len(t, snap.Bindings, 1)
	assert.Equal(t, 2, snap.Bindings[0].Providers)
	assert.Contains(t, snap.Bindings[0].Type, "MapView")
	assert.Contains(t, snap.Bindings[0].Current, "worldMap")

	require.Len(t, snap.Listeners, 1)
	assert.Equal(t, 1, snap.Listeners[0].Updaters)
	assert.Equal(t, 0, snap.Listeners[0].Injectors, "satisfied one-shot is not retained")

	assert.NotEmpty(t, snap.Declarations)
}
