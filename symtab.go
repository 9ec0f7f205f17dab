package pp2cil

// SymbolTable is an indexable table for one symbol kind: lookups by index
// return a name, lookups by name return the kind's datum. Index order is the
// table's declaration order and is authoritative for value-to-name
// resolution (see resolve.go).
type SymbolTable[D any] struct {
	Kind   SymbolKind
	Names  []string // index -> name, zero-based
	ByName map[string]D
}

func newSymbolTable[D any](kind SymbolKind) *SymbolTable[D] {
	return &SymbolTable[D]{Kind: kind, ByName: make(map[string]D)}
}

// NameAt returns the name stored at zero-based index i.
func (t *SymbolTable[D]) NameAt(i int) (string, bool) {
	if t == nil || i < 0 || i >= len(t.Names) {
		return "", false
	}
	return t.Names[i], true
}

// Lookup returns the datum for name.
func (t *SymbolTable[D]) Lookup(name string) (D, bool) {
	var zero D
	if t == nil {
		return zero, false
	}
	d, ok := t.ByName[name]
	return d, ok
}

// Add appends name (at the next index) with its datum.
func (t *SymbolTable[D]) Add(name string, d D) {
	t.Names = append(t.Names, name)
	t.ByName[name] = d
}

// Len reports the number of names in the table.
func (t *SymbolTable[D]) Len() int { return len(t.Names) }
