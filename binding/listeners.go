package binding

// Sink receives the current provider for a type. A nil value means no
// current provider exists.
type Sink func(value any)

// listener pairs a consumer target with its notification sink. Targets are
// compared by interface equality, so bound consumers must be references
// (pointers) with stable identity.
type listener struct {
	target any
	sink   Sink
}

// ListenerRegistry keeps, per AbstractType, the pending one-shot injectors
// and the persistent updaters waiting on that type's current provider.
type ListenerRegistry struct {
	updaters  map[AbstractType][]listener
	injectors map[AbstractType][]listener
}

// NewListenerRegistry creates an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{
		updaters:  make(map[AbstractType][]listener),
		injectors: make(map[AbstractType][]listener),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// AddUpdater subscribes target persistently: sink fires on every change of
// at's current provider. A given (target, type) pair may be subscribed at
// most once; rebinding a target without unbinding it first is not a
// supported transition.
func (r *ListenerRegistry) AddUpdater(at AbstractType, target any, sink Sink) {
	r.updaters[at] = append(r.updaters[at], listener{target: target, sink: sink})
}

// AddInjector registers a pending one-shot: sink fires on the next install
// for at and is then discarded.
func (r *ListenerRegistry) AddInjector(at AbstractType, target any, sink Sink) {
	r.injectors[at] = append(r.injectors[at], listener{target: target, sink: sink})
}

// RemoveUpdater drops every updater entry for target under at. Safe to call
// when none exist.
func (r *ListenerRegistry) RemoveUpdater(at AbstractType, target any) {
	r.updaters[at] = withoutTarget(r.updaters[at], target)
	if len(r.updaters[at]) == 0 {
		delete(r.updaters, at)
	}
}

// RemoveInjector drops every pending injector entry for target under at.
// Safe to call when none exist (one-shots normally self-remove on fire).
func (r *ListenerRegistry) RemoveInjector(at AbstractType, target any) {
	r.injectors[at] = withoutTarget(r.injectors[at], target)
	if len(r.injectors[at]) == 0 {
		delete(r.injectors, at)
	}
}

// ── Notification ──────────────────────────────────────────────────────────────

// NotifyUpdaters invokes every updater sink for at with value (nil meaning
// no current provider). The list is snapshotted before dispatch, so sinks
// may re-enter the binder and add or remove listeners mid-notification.
func (r *ListenerRegistry) NotifyUpdaters(at AbstractType, value any) {
	for _, l := range snapshot(r.updaters[at]) {
		l.sink(value)
	}
}

// NotifyAndClearInjectors fires every pending injector for at with value,
// then discards them. The pending list is detached before the first sink
// runs, so a re-entrant install cannot fire a one-shot twice.
func (r *ListenerRegistry) NotifyAndClearInjectors(at AbstractType, value any) {
	pending := r.injectors[at]
	if len(pending) == 0 {
		return
	}
	delete(r.injectors, at)
	for _, l := range pending {
		l.sink(value)
	}
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Counts returns the number of updaters and pending injectors for at.
func (r *ListenerRegistry) Counts(at AbstractType) (updaters, injectors int) {
	return len(r.updaters[at]), len(r.injectors[at])
}

// Reset drops every listener list.
func (r *ListenerRegistry) Reset() {
	r.updaters = make(map[AbstractType][]listener)
	r.injectors = make(map[AbstractType][]listener)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// withoutTarget filters into a fresh slice so in-flight snapshots keep their
// backing array intact.
func withoutTarget(list []listener, target any) []listener {
	var out []listener
	for _, l := range list {
		if l.target != target {
			out = append(out, l)
		}
	}
	return out
}

func snapshot(list []listener) []listener {
	if len(list) == 0 {
		return nil
	}
	out := make([]listener, len(list))
	copy(out, list)
	return out
}
