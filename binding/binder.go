package binding

import (
	"io"
	"log/slog"
	"reflect"
	"sort"
)

// Binder is the public wiring contract. It owns the provider stacks, the
// listener lists, and the declaration cache, and orchestrates the four
// operations components call at lifecycle points: Bind, Unbind, Install,
// Uninstall.
//
// A Binder is an explicit state value owned by the composition root; tests
// create a fresh one instead of sharing process globals.
type Binder struct {
	deps      *DependencyRegistry
	listeners *ListenerRegistry
	cache     *Cache
	logger    *slog.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger routes the binder's diagnostic channel (configuration gaps,
// install/uninstall traces) to logger. A nil value is ignored; by default
// diagnostics are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a Binder reading declarations from table. A nil table behaves
// as an empty one: every bound type derives the implicit self-install.
func New(table *Table, opts ...Option) *Binder {
	b := &Binder{
		deps:      NewDependencyRegistry(),
		listeners: NewListenerRegistry(),
		cache:     NewCache(table),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ── Bind / Unbind ─────────────────────────────────────────────────────────────

// Bind wires target according to its type's declaration: every install
// declaration installs target as a provider, and every inject declaration
// subscribes target as a consumer. Consumers are satisfied immediately when
// a current provider exists; persistent ones stay subscribed either way,
// one-shots stay pending only while unsatisfied.
//
// Binding a nil target, or a target whose type declares nothing and is not
// implicitly installable, is a no-op.
func (b *Binder) Bind(target any) {
	if target == nil {
		return
	}
	decl := b.cache.Resolve(reflect.TypeOf(target))
	for _, in := range decl.Installs {
		b.Install(target, in.As)
	}
	for i := range decl.Injects {
		d := decl.Injects[i]
		if d.Type == nil {
			continue
		}
		if d.Assign == nil && d.Callback == nil {
			b.logger.Warn("Inject declaration has no assign or callback",
				"declaration", d.Name, "type", TypeName(d.Type))
			continue
		}
		sink := b.sinkFor(target, d)
		current, ok := b.deps.Current(d.Type)
		if ok {
			sink(current)
		}
		switch d.Kind {
		case Update:
			b.listeners.AddUpdater(d.Type, target, sink)
		case Inject:
			if !ok {
				b.listeners.AddInjector(d.Type, target, sink)
			}
		}
	}
}

// Unbind reverses Bind: every installed contract is uninstalled, target is
// removed from every updater and pending-injector list its declaration
// subscribed it to, and its consumer fields are cleared to absent (without
// invoking callbacks). Unbinding twice, or unbinding a never-bound target,
// is a no-op.
func (b *Binder) Unbind(target any) {
	if target == nil {
		return
	}
	decl := b.cache.Resolve(reflect.TypeOf(target))
	for _, in := range decl.Installs {
		b.Uninstall(target, in.As)
	}
	for i := range decl.Injects {
		d := decl.Injects[i]
		if d.Type == nil {
			continue
		}
		b.listeners.RemoveUpdater(d.Type, target)
		b.listeners.RemoveInjector(d.Type, target)
		if d.Assign != nil {
			d.Assign(target, nil)
		}
	}
}

// ── Install / Uninstall ───────────────────────────────────────────────────────

// Install pushes provider onto at's stack, making it the current provider,
// and broadcasts it: persistent updaters first, then pending one-shot
// injectors, which are satisfied and discarded.
func (b *Binder) Install(provider any, at AbstractType) {
	if provider == nil || at == nil {
		return
	}
	b.deps.Add(at, provider)
	b.logger.Debug("Provider installed", "type", TypeName(at))
	b.listeners.NotifyUpdaters(at, provider)
	b.listeners.NotifyAndClearInjectors(at, provider)
}

// Uninstall removes provider from at's stack. If and only if the removed
// entry was the current provider, the new current value — possibly absent —
// is broadcast to updaters. Pending injectors are untouched: a removal can
// only reveal an existing-or-absent state, so unsatisfied one-shots keep
// waiting for a future install. Uninstalling a provider that is not present
// is a no-op.
func (b *Binder) Uninstall(provider any, at AbstractType) {
	if provider == nil || at == nil {
		return
	}
	if !b.deps.Remove(at, provider) {
		return
	}
	current, _ := b.deps.Current(at)
	b.logger.Debug("Current provider removed", "type", TypeName(at), "replaced", current != nil)
	b.listeners.NotifyUpdaters(at, current)
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// Current returns the current provider for at, or ok=false when none is
// installed.
func (b *Binder) Current(at AbstractType) (any, bool) {
	return b.deps.Current(at)
}

// CurrentAs resolves the current provider for T's AbstractType.
//
//	view, ok := binding.CurrentAs[MapView](b)
func CurrentAs[T any](b *Binder) (T, bool) {
	var zero T
	v, ok := b.deps.Current(Of[T]())
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// ── Reset ─────────────────────────────────────────────────────────────────────

// Reset clears every provider stack, every listener list, and the
// declaration cache. Hosts call it on session boundaries such as script
// hot-reload; the descriptor table itself is kept.
func (b *Binder) Reset() {
	b.deps.Reset()
	b.listeners.Reset()
	b.cache.Invalidate()
	b.logger.Debug("Binder reset")
}

// ── Diagnostics ───────────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of binder state for diagnostics tooling.
type Snapshot struct {
	Bindings     []BindingSnapshot  `json:"bindings"`
	Listeners    []ListenerSnapshot `json:"listeners"`
	Declarations []string           `json:"declarations"`
}

// BindingSnapshot describes one provider stack.
type BindingSnapshot struct {
	Type      string `json:"type"`
	Providers int    `json:"providers"`
	Current   string `json:"current"`
}

// ListenerSnapshot describes the listener lists for one type.
type ListenerSnapshot struct {
	Type      string `json:"type"`
	Updaters  int    `json:"updaters"`
	Injectors int    `json:"injectors"`
}

// Snapshot captures the current provider stacks, listener counts, and cached
// declarations, sorted by type name.
func (b *Binder) Snapshot() Snapshot {
	var snap Snapshot
	for at, stack := range b.deps.providers {
		snap.Bindings = append(snap.Bindings, BindingSnapshot{
			Type:      TypeName(at),
			Providers: len(stack),
			Current:   TypeName(reflect.TypeOf(stack[len(stack)-1])),
		})
	}
	sort.Slice(snap.Bindings, func(i, j int) bool {
		return snap.Bindings[i].Type < snap.Bindings[j].Type
	})

	types := make(map[AbstractType]bool)
	for at := range b.listeners.updaters {
		types[at] = true
	}
	for at := range b.listeners.injectors {
		types[at] = true
	}
	for at := range types {
		u, i := b.listeners.Counts(at)
		snap.Listeners = append(snap.Listeners, ListenerSnapshot{
			Type:      TypeName(at),
			Updaters:  u,
			Injectors: i,
		})
	}
	sort.Slice(snap.Listeners, func(i, j int) bool {
		return snap.Listeners[i].Type < snap.Listeners[j].Type
	})

	for _, rt := range b.cache.Cached() {
		snap.Declarations = append(snap.Declarations, TypeName(rt))
	}
	return snap
}

// sinkFor builds the notification sink for one inject declaration: callback
// first (present values only), then the field assignment (always, including
// absent).
func (b *Binder) sinkFor(target any, d InjectDecl) Sink {
	return func(value any) {
		if value != nil && d.Callback != nil {
			d.Callback(target, value)
		}
		if d.Assign != nil {
			d.Assign(target, value)
		}
	}
}
