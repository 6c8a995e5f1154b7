package binding

import "reflect"

// ── Abstract types ────────────────────────────────────────────────────────────

// AbstractType is the contract key under which providers are installed and
// consumers subscribe. It may be an interface, a base component, or a
// concrete type. Equality is by identity; it is used directly as a map key.
type AbstractType = reflect.Type

// Of returns the AbstractType for T.
//
//	binding.Of[MapView]()  // an interface contract
//	binding.Of[*Minimap]() // a concrete component type
func Of[T any]() AbstractType {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypeName returns a package-qualified name for an AbstractType, used on the
// diagnostic channel and in snapshots.
func TypeName(at AbstractType) string {
	if at == nil {
		return "<none>"
	}
	if at.Kind() == reflect.Ptr {
		return "*" + TypeName(at.Elem())
	}
	if at.PkgPath() != "" {
		return at.PkgPath() + "." + at.Name()
	}
	return at.String()
}

// ── Declarations ──────────────────────────────────────────────────────────────

// InjectKind selects how long a consumer stays subscribed.
type InjectKind uint8

const (
	// Inject marks a one-shot consumer: it receives the current provider at
	// most once. If none exists at bind time it stays pending until the
	// first install, fires, and is discarded.
	Inject InjectKind = iota

	// Update marks a persistent consumer: it is notified on every change of
	// the current provider, including removal to absent.
	Update
)

// String returns the declaration keyword for the kind.
func (k InjectKind) String() string {
	if k == Update {
		return "update"
	}
	return "inject"
}

// InstallDecl registers the bound target as a provider. As names the
// contract to install under; a nil As stands for the target's own concrete
// type and is resolved during declaration derivation.
type InstallDecl struct {
	As AbstractType
}

// InjectDecl subscribes the bound target to the current provider of Type.
//
// Assign writes the provider into the target; it receives nil when no
// current provider exists (removal to empty, or unbind). Callback, if set,
// runs before Assign and only when a provider is present — consumers are
// never called back with an absent value.
type InjectDecl struct {
	// Name labels the declaration (typically the field or method it feeds)
	// for diagnostics.
	Name string

	Type     AbstractType
	Kind     InjectKind
	Assign   func(target, value any)
	Callback func(target, value any)
}

// Declaration is the full set of install and inject descriptors for one
// concrete type.
type Declaration struct {
	Installs []InstallDecl
	Injects  []InjectDecl
}

func (d Declaration) empty() bool {
	return len(d.Installs) == 0 && len(d.Injects) == 0
}

// ── Typed adapters ────────────────────────────────────────────────────────────

// Field adapts a typed setter into an InjectDecl assign function. When no
// provider exists, the setter receives the zero value of V.
func Field[T any, V any](set func(target T, value V)) func(target, value any) {
	return func(target, value any) {
		var v V
		if value != nil {
			v = value.(V)
		}
		set(target.(T), v)
	}
}

// Call adapts a typed callback into an InjectDecl callback function. The
// binder never invokes callbacks with an absent value, so fn always receives
// a live provider.
func Call[T any, V any](fn func(target T, value V)) func(target, value any) {
	return func(target, value any) {
		fn(target.(T), value.(V))
	}
}
