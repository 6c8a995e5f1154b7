package binding

import "reflect"

// ── Descriptor table ──────────────────────────────────────────────────────────

// Table is the explicit descriptor table: the source of install/inject
// declarations, keyed by component type. It stands in for annotation
// scanning — declarations are assembled once at startup, usually in the
// composition root, and read by the Cache when a type is first bound.
//
// Entries may be keyed by a concrete type (its own declarations), by an
// embedded base type (inherited by everything embedding it), or by an
// interface (applied to every implementation; installs only).
type Table struct {
	decls map[reflect.Type]Declaration
}

// NewTable creates an empty descriptor table.
func NewTable() *Table {
	return &Table{decls: make(map[reflect.Type]Declaration)}
}

// Declare records the declaration for prototype's type, replacing any
// earlier entry. prototype is either a value of the component type
// (typically a nil-free pointer, e.g. &Minimap{}) or a reflect.Type /
// AbstractType for interface keys.
func (t *Table) Declare(prototype any, d Declaration) {
	t.decls[keyOf(prototype)] = d
}

// For starts a declaration builder for prototype's type.
//
//	tbl.For(&Minimap{}).
//	    InstallAs(binding.Of[MapView]()).
//	    Update("clock", binding.Of[*WorldClock](),
//	        binding.Field(func(m *Minimap, c *WorldClock) { m.clock = c }))
//
// Every builder call writes through to the table immediately; no commit step
// is needed.
func (t *Table) For(prototype any) *DeclBuilder {
	return &DeclBuilder{table: t, key: keyOf(prototype)}
}

// Declared reports whether an entry exists for prototype's type.
func (t *Table) Declared(prototype any) bool {
	_, ok := t.decls[keyOf(prototype)]
	return ok
}

func keyOf(prototype any) reflect.Type {
	if rt, ok := prototype.(reflect.Type); ok {
		return rt
	}
	return reflect.TypeOf(prototype)
}

// ── Builder ───────────────────────────────────────────────────────────────────

// DeclBuilder accumulates a Declaration for one table key.
type DeclBuilder struct {
	table *Table
	key   reflect.Type
	decl  Declaration
}

// InstallSelf declares the component installable under its own concrete type.
func (b *DeclBuilder) InstallSelf() *DeclBuilder {
	b.decl.Installs = append(b.decl.Installs, InstallDecl{})
	return b.commit()
}

// InstallAs declares the component installable under the contract as.
func (b *DeclBuilder) InstallAs(as AbstractType) *DeclBuilder {
	b.decl.Installs = append(b.decl.Installs, InstallDecl{As: as})
	return b.commit()
}

// Inject declares a one-shot consumer of at, written through assign.
func (b *DeclBuilder) Inject(name string, at AbstractType, assign func(target, value any)) *DeclBuilder {
	return b.inject(name, at, Inject, assign, nil)
}

// InjectCall is Inject with a callback invoked before the assignment
// whenever a provider is present.
func (b *DeclBuilder) InjectCall(name string, at AbstractType, assign, callback func(target, value any)) *DeclBuilder {
	return b.inject(name, at, Inject, assign, callback)
}

// Update declares a persistent consumer of at, written through assign on
// every change.
func (b *DeclBuilder) Update(name string, at AbstractType, assign func(target, value any)) *DeclBuilder {
	return b.inject(name, at, Update, assign, nil)
}

// UpdateCall is Update with a callback invoked before the assignment
// whenever a provider is present.
func (b *DeclBuilder) UpdateCall(name string, at AbstractType, assign, callback func(target, value any)) *DeclBuilder {
	return b.inject(name, at, Update, assign, callback)
}

func (b *DeclBuilder) inject(name string, at AbstractType, kind InjectKind, assign, callback func(target, value any)) *DeclBuilder {
	b.decl.Injects = append(b.decl.Injects, InjectDecl{
		Name:     name,
		Type:     at,
		Kind:     kind,
		Assign:   assign,
		Callback: callback,
	})
	return b.commit()
}

func (b *DeclBuilder) commit() *DeclBuilder {
	b.table.decls[b.key] = b.decl
	return b
}
