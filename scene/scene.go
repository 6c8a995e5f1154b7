// Package scene bridges engine component lifecycles to the binder. A Stage
// binds components as they spawn into the live scene, unbinds them as they
// despawn, and handles session boundaries such as script hot-reload by
// resetting the binder and rewiring everything still alive.
//
// Instance construction is delegated: when a contract has no current
// provider, Provide consults an optional Locator (find an existing scene
// instance) and then an optional Constructor (build a fresh one).
package scene

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lodestone-games/binder/binding"
)

// Spawned is implemented by components that want a hook right before they
// are wired into the scene.
type Spawned interface {
	Spawned(s *Stage)
}

// Despawned is implemented by components that want a hook right after they
// are unwired from the scene.
type Despawned interface {
	Despawned(s *Stage)
}

// Locator finds an existing instance satisfying a contract somewhere in the
// live scene. It is consulted before constructing a new instance.
type Locator interface {
	Locate(at binding.AbstractType) (any, bool)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(at binding.AbstractType) (any, bool)

// Locate implements Locator.
func (f LocatorFunc) Locate(at binding.AbstractType) (any, bool) { return f(at) }

// Constructor builds a fresh instance for a contract. Returning a nil
// instance with a nil error means the constructor cannot serve the contract.
type Constructor func(at binding.AbstractType) (any, error)

// Stage tracks the live components of a scene and drives the binder at
// their lifecycle points.
type Stage struct {
	binder    *binding.Binder
	logger    *slog.Logger
	locator   Locator
	construct Constructor
	live      []any // spawn order, replayed on Reload
}

// Option configures a Stage.
type Option func(*Stage)

// WithLogger routes stage diagnostics to logger. A nil value is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocator sets the collaborator that finds existing scene instances.
func WithLocator(l Locator) Option {
	return func(s *Stage) { s.locator = l }
}

// WithConstructor sets the collaborator that builds missing instances.
func WithConstructor(c Constructor) Option {
	return func(s *Stage) { s.construct = c }
}

// New creates a Stage driving b.
func New(b *binding.Binder, opts ...Option) *Stage {
	s := &Stage{
		binder: b,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Binder returns the underlying binder.
func (s *Stage) Binder() *binding.Binder { return s.binder }

// Spawn wires component into the scene: the Spawned hook runs first, then
// the component is bound and tracked as live. Spawning nil is a no-op.
func (s *Stage) Spawn(component any) {
	if component == nil {
		return
	}
	if h, ok := component.(Spawned); ok {
		h.Spawned(s)
	}
	s.binder.Bind(component)
	s.live = append(s.live, component)
	s.logger.Debug("Component spawned", "component", fmt.Sprintf("%T", component))
}

// Despawn unwires component: it is unbound, dropped from the live list, and
// its Despawned hook runs last. Despawning a component that is not live is
// a no-op apart from the (idempotent) unbind.
func (s *Stage) Despawn(component any) {
	if component == nil {
		return
	}
	s.binder.Unbind(component)
	for i, c := range s.live {
		if c == component {
			s.live = append(s.live[:i:i], s.live[i+1:]...)
			break
		}
	}
	if h, ok := component.(Despawned); ok {
		h.Despawned(s)
	}
	s.logger.Debug("Component despawned", "component", fmt.Sprintf("%T", component))
}

// Provide ensures a provider exists for at and returns it: the current
// provider if one is installed, otherwise an instance found by the Locator
// or built by the Constructor, installed under at.
func (s *Stage) Provide(at binding.AbstractType) (any, error) {
	if current, ok := s.binder.Current(at); ok {
		return current, nil
	}
	if s.locator != nil {
		if v, ok := s.locator.Locate(at); ok && v != nil {
			s.binder.Install(v, at)
			return v, nil
		}
	}
	if s.construct != nil {
		v, err := s.construct(at)
		if err != nil {
			return nil, fmt.Errorf("scene: construct %s: %w", binding.TypeName(at), err)
		}
		if v != nil {
			s.binder.Install(v, at)
			return v, nil
		}
	}
	return nil, fmt.Errorf("scene: no provider available for %s", binding.TypeName(at))
}

// Reload marks a script hot-reload boundary: the binder is fully reset and
// every live component is rebound in its original spawn order.
func (s *Stage) Reload() {
	s.binder.Reset()
	for _, c := range s.live {
		s.binder.Bind(c)
	}
	s.logger.Info("Scene reloaded", "live", len(s.live))
}

// Clear despawns every live component, most recently spawned first, then
// resets the binder.
func (s *Stage) Clear() {
	for i := len(s.live) - 1; i >= 0; i-- {
		c := s.live[i]
		s.binder.Unbind(c)
		if h, ok := c.(Despawned); ok {
			h.Despawned(s)
		}
	}
	s.live = nil
	s.binder.Reset()
}

// Live returns the number of live components.
func (s *Stage) Live() int { return len(s.live) }
