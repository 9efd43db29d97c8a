package symbols

// scope is one level of the variable-binding stack.
type scope struct {
	vars map[string]*VariableSymbol
}

func newScope() *scope {
	return &scope{vars: make(map[string]*VariableSymbol)}
}

// Table is the per-compilation symbol table: a stack of variable
// scopes (innermost at top) plus a flat, module-global type registry
// (spec.md §4.4). A Table is constructed fresh for every compilation —
// it is never reused across compilations (spec.md §3, "Lifecycles").
type Table struct {
	scopes []*scope
	types  map[string]Type
}

// NewTable returns a Table with one root scope and the seven built-in
// primitive types registered.
func NewTable() *Table {
	t := &Table{
		scopes: []*scope{newScope()},
		types:  make(map[string]Type),
	}
	t.RegisterBuiltInTypes()
	return t
}

// RegisterBuiltInTypes preloads the closed set of primitive types
// (spec.md §4.4).
func (t *Table) RegisterBuiltInTypes() {
	for _, k := range []PrimitiveKind{KindInt, KindFloat, KindBool, KindString, KindChar, KindUnit, KindError} {
		t.types[k.String()] = &PrimitiveTypeSymbol{Kind: k}
	}
}

// ---- Type registry: flat, no shadowing (spec.md §4.4) ----

// TryDeclareType registers name -> t, failing if name is already
// registered. There is no shadowing for types.
func (t *Table) TryDeclareType(name string, typ Type) bool {
	if _, exists := t.types[name]; exists {
		return false
	}
	t.types[name] = typ
	return true
}

// LookupType resolves a registered type by name.
func (t *Table) LookupType(name string) (Type, bool) {
	typ, ok := t.types[name]
	return typ, ok
}

// ---- Variable scope stack ----

// EnterScope pushes a new, empty scope.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, newScope())
}

// ExitScope pops the innermost scope. It is a no-op at depth 1: the
// root scope always persists (spec.md §4.4).
func (t *Table) ExitScope() {
	if len(t.scopes) <= 1 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the current scope stack depth (root scope is depth 1).
func (t *Table) Depth() int {
	return len(t.scopes)
}

func (t *Table) top() *scope {
	return t.scopes[len(t.scopes)-1]
}

// TryDeclareVar installs sym in the current (innermost) scope, failing
// if the name already exists there (spec.md §3, "declaring a name that
// exists in the top scope fails").
func (t *Table) TryDeclareVar(sym *VariableSymbol) bool {
	top := t.top()
	if _, exists := top.vars[sym.Name]; exists {
		return false
	}
	top.vars[sym.Name] = sym
	return true
}

// IsDeclaredInCurrentScope inspects only the top scope (spec.md §4.4).
func (t *Table) IsDeclaredInCurrentScope(name string) bool {
	_, ok := t.top().vars[name]
	return ok
}

// TryLookupVar traverses scopes outward from the innermost, returning
// the first match (spec.md §3, "lookups traverse outward").
func (t *Table) TryLookupVar(name string) (*VariableSymbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].vars[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// TryLookupWithScopeDepth additionally returns the absolute depth
// (1-based, root = 1) of the scope where the binding was found, used by
// the ownership analyzer (spec.md §4.4).
func (t *Table) TryLookupWithScopeDepth(name string) (*VariableSymbol, int, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].vars[name]; ok {
			return sym, i + 1, true
		}
	}
	return nil, 0, false
}
