package pp2cil

import (
	"fmt"
	"strings"
)

// Resolver maps (symbol-kind, index) pairs to names against one
// PolicyDatabase. All lowerers go through it rather than indexing symbol
// tables directly, so the "-1" stored-value offset (spec §3's invariant)
// never leaks past this one file.
type Resolver struct {
	db *PolicyDatabase
}

// NewResolver returns a Resolver bound to db.
func NewResolver(db *PolicyDatabase) *Resolver { return &Resolver{db: db} }

func (r *Resolver) table(kind SymbolKind) interface {
	NameAt(int) (string, bool)
} {
	switch kind {
	case SymCommon:
		return r.db.Commons
	case SymClass:
		return r.db.Classes
	case SymRole:
		return r.db.Roles
	case SymType:
		return r.db.Types
	case SymUser:
		return r.db.Users
	case SymBool:
		return r.db.Bools
	case SymSens:
		return r.db.Sens
	case SymCat:
		return r.db.Cats
	default:
		return nil
	}
}

// NameAt returns the name at zero-based index within kind's symbol table.
func (r *Resolver) NameAt(kind SymbolKind, index int) (string, error) {
	t := r.table(kind)
	if t == nil {
		return "", fmt.Errorf("%w: unknown symbol kind %v", ErrStructural, kind)
	}
	name, ok := t.NameAt(index)
	if !ok {
		return "", fmt.Errorf("%w: no %v at index %d", ErrStructural, kind, index)
	}
	return name, nil
}

// NameForValue returns the name for a one-based stored value, i.e. NameAt
// with the uniform "-1" offset applied (spec §3).
func (r *Resolver) NameForValue(kind SymbolKind, value int) (string, error) {
	return r.NameAt(kind, value-1)
}

// NamesForBits resolves every set position in b to a name within kind,
// using the "-1" stored-value offset, in ascending bit order.
func (r *Resolver) NamesForBits(kind SymbolKind, b *Bitmap) ([]string, error) {
	var names []string
	for _, bit := range b.Bits() {
		name, err := r.NameAt(kind, bit)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// JoinNames joins a name list with single-space separators, the helper
// spec §4.2 calls for.
func JoinNames(names []string) string {
	return strings.Join(names, " ")
}
