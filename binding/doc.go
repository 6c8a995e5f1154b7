// Package binding provides the dependency binder at the heart of the
// scripting runtime: a registry that wires provider components to consumer
// components by abstract type, tolerating providers that arrive late and
// providers that disappear while consumers are live.
//
// # Overview
//
// Components declare, through a descriptor Table, that they install an
// implementation of a contract, inject one (one-shot), or update on one
// (persistent). The Binder orchestrates three collaborators:
//
//   - DependencyRegistry — per-type stack of installed providers; the most
//     recently installed provider is the current one.
//   - ListenerRegistry — per-type lists of pending one-shot injectors and
//     persistent updaters.
//   - Cache — per-concrete-type declarations, derived once and memoized.
//
// # Declaring components
//
//	tbl := binding.NewTable()
//
//	// Minimap installs itself under the MapView contract.
//	tbl.For(&Minimap{}).InstallAs(binding.Of[MapView]())
//
//	// CompassHUD wants the current MapView, and keeps tracking it as
//	// providers come and go.
//	tbl.For(&CompassHUD{}).Update("view", binding.Of[MapView](),
//	    binding.Field(func(h *CompassHUD, v MapView) { h.view = v }))
//
// A type with no declarations at all is implicitly installable under its own
// concrete type, so arbitrary externally-defined objects can be bound ad hoc.
//
// # Binding
//
//	b := binding.New(tbl)
//	b.Bind(hud)      // hud waits; no MapView exists yet
//	b.Bind(minimap)  // installs MapView; hud.view is set
//	b.Unbind(minimap) // hud.view cleared to nil
//
// Install and Uninstall are also directly callable for manual provider
// management outside component lifecycles.
//
// # Model
//
// All calls are synchronous and run to completion on the calling goroutine
// (the engine's update loop in practice); the binder performs no locking.
// Re-entrant calls from notification sinks are legal: listener lists are
// snapshotted before dispatch. Absence of a provider is an ordinary value
// (nil / ok=false), never an error, and redundant removals are no-ops.
package binding
