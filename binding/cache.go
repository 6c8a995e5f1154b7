package binding

import (
	"reflect"
	"sort"
)

// Cache derives the effective Declaration for each concrete component type
// and memoizes it for the life of the process (until Invalidate). Derivation
// runs once, on the first Bind of that type.
type Cache struct {
	table   *Table
	derived map[reflect.Type]*Declaration
}

// NewCache creates a Cache backed by table. A nil table behaves as an empty
// one: every type derives the implicit self-install.
func NewCache(table *Table) *Cache {
	if table == nil {
		table = NewTable()
	}
	return &Cache{
		table:   table,
		derived: make(map[reflect.Type]*Declaration),
	}
}

// Resolve returns the effective Declaration for the concrete type rt,
// deriving and caching it on first use.
func (c *Cache) Resolve(rt reflect.Type) *Declaration {
	if d, ok := c.derived[rt]; ok {
		return d
	}
	d := c.derive(rt)
	c.derived[rt] = d
	return d
}

// Invalidate discards every cached declaration. Called on process-wide
// reset events such as script hot-reload; the table itself is kept.
func (c *Cache) Invalidate() {
	c.derived = make(map[reflect.Type]*Declaration)
}

// Cached returns the concrete types with a derived declaration, sorted by
// name. Used by diagnostics tooling.
func (c *Cache) Cached() []reflect.Type {
	out := make([]reflect.Type, 0, len(c.derived))
	for rt := range c.derived {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool {
		return TypeName(out[i]) < TypeName(out[j])
	})
	return out
}

// derive assembles rt's declaration from the table:
//
//  1. installs from rt's own entry, from entries keyed by interfaces rt
//     implements, and from entries keyed by embedded ancestor types —
//     deduplicated by resulting AbstractType, with a nil As resolving to rt;
//  2. injects from rt's own entry and its embedded ancestors (interface
//     entries carry no injects: there is no field to write to);
//  3. a type with no declarations at all is implicitly installable under
//     its own concrete type.
func (c *Cache) derive(rt reflect.Type) *Declaration {
	var out Declaration
	seen := make(map[AbstractType]bool)
	declared := false

	addInstalls := func(installs []InstallDecl) {
		for _, in := range installs {
			as := in.As
			if as == nil {
				as = rt
			}
			if seen[as] {
				continue
			}
			seen[as] = true
			out.Installs = append(out.Installs, InstallDecl{As: as})
		}
	}

	if d, ok := c.table.decls[rt]; ok {
		declared = true
		addInstalls(d.Installs)
		out.Injects = append(out.Injects, d.Injects...)
	}

	for _, key := range c.contracts(rt) {
		declared = true
		addInstalls(c.table.decls[key].Installs)
	}

	for _, anc := range ancestors(rt) {
		if d, ok := c.table.decls[anc]; ok {
			declared = true
			addInstalls(d.Installs)
			out.Injects = append(out.Injects, d.Injects...)
		}
	}

	if !declared {
		out.Installs = []InstallDecl{{As: rt}}
	}
	return &out
}

// contracts returns the interface-keyed table entries rt satisfies, sorted
// by name so derivation is deterministic.
func (c *Cache) contracts(rt reflect.Type) []reflect.Type {
	var keys []reflect.Type
	for key := range c.table.decls {
		if key.Kind() != reflect.Interface || key == rt {
			continue
		}
		if rt.Implements(key) {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return TypeName(keys[i]) < TypeName(keys[j])
	})
	return keys
}

// ancestors lists the embedded field types of rt, recursively, in field
// order. Both the value and pointer forms are included so table entries may
// be keyed either way.
func ancestors(rt reflect.Type) []reflect.Type {
	st := rt
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.Type
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.Anonymous {
			continue
		}
		out = append(out, f.Type)
		if f.Type.Kind() != reflect.Ptr {
			out = append(out, reflect.PtrTo(f.Type))
		}
		out = append(out, ancestors(f.Type)...)
	}
	return out
}
