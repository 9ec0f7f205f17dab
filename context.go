package pp2cil

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// Context threads the translator's shared, non-hierarchical state through
// every lowerer: the resolver, the emitter, the sanitized module name, the
// monotonic synthesized-attribute counter, and the warning sink. Spec §5
// calls out exactly two scalars as shared mutable state between components
// (the attribute counter and the emitter's indent level). Context holds the
// counter, passed explicitly rather than as a package global (spec §9's
// redesign note on the monotonic counter); the indent level is not stored
// anywhere but passed as a parameter to every lowerer.
type Context struct {
	DB          *PolicyDatabase
	Resolver    *Resolver
	Emit        *Emitter
	ModuleName  string // sanitized, per spec §6
	Permissions PermissionDecoder
	Caps        CapabilityNameLookup

	attrCounter uint64
	warnOut     *os.File
}

// NewContext returns a Context for translating db to out, with moduleName
// already sanitized by SanitizeModuleName.
func NewContext(db *PolicyDatabase, out *Emitter, moduleName string, perms PermissionDecoder, caps CapabilityNameLookup, warnOut *os.File) *Context {
	return &Context{
		DB:          db,
		Resolver:    NewResolver(db),
		Emit:        out,
		ModuleName:  moduleName,
		Permissions: perms,
		Caps:        caps,
		warnOut:     warnOut,
	}
}

// NextAttrID increments and returns the next synthesized-attribute id,
// shared across both type and role attribute synthesis (spec §4.3).
func (c *Context) NextAttrID() (uint64, error) {
	if c.attrCounter >= math.MaxUint32 {
		return 0, fmt.Errorf("%w: synthesized attribute counter overflow", ErrAllocation)
	}
	c.attrCounter++
	return c.attrCounter, nil
}

// Warnf reports an unsupported-but-recoverable diagnostic (spec §7) to the
// configured warning sink and continues; it never returns an error.
func (c *Context) Warnf(format string, args ...any) {
	out := c.warnOut
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "warning: "+format+"\n", args...)
}

// SanitizeModuleName applies spec §6's module-naming rule: a null (empty)
// name becomes "base"; any character that is not alphanumeric is rewritten
// to '_'.
func SanitizeModuleName(name string) string {
	if name == "" {
		return "base"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
