package binding

// DependencyRegistry tracks, per AbstractType, the ordered stack of
// installed providers. The current provider for a type is the top of its
// stack: the most recently installed entry not yet removed.
//
// The registry only mutates internal state; broadcasting changes to
// listeners is the Binder's job.
type DependencyRegistry struct {
	providers map[AbstractType][]any
}

// NewDependencyRegistry creates an empty registry.
func NewDependencyRegistry() *DependencyRegistry {
	return &DependencyRegistry{providers: make(map[AbstractType][]any)}
}

// Add pushes provider onto the stack for at.
func (r *DependencyRegistry) Add(at AbstractType, provider any) {
	r.providers[at] = append(r.providers[at], provider)
}

// Remove takes the first entry matching provider (reference identity) off
// the stack for at. It reports whether the removed entry was the current
// (top) provider at the time of removal — the signal that updaters must be
// renotified. Removing a provider that was never added is a no-op and
// reports false. An emptied stack releases its map entry.
func (r *DependencyRegistry) Remove(at AbstractType, provider any) bool {
	stack := r.providers[at]
	for i, p := range stack {
		if p != provider {
			continue
		}
		wasCurrent := i == len(stack)-1
		stack = append(stack[:i:i], stack[i+1:]...)
		if len(stack) == 0 {
			delete(r.providers, at)
		} else {
			r.providers[at] = stack
		}
		return wasCurrent
	}
	return false
}

// Current returns the top-of-stack provider for at, or ok=false when the
// stack is empty.
func (r *DependencyRegistry) Current(at AbstractType) (any, bool) {
	stack := r.providers[at]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// Count returns the number of providers installed under at.
func (r *DependencyRegistry) Count(at AbstractType) int {
	return len(r.providers[at])
}

// Reset drops every provider stack.
func (r *DependencyRegistry) Reset() {
	r.providers = make(map[AbstractType][]any)
}
