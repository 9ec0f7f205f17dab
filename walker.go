package pp2cil

import (
	"fmt"
	"sort"
)

// scopeKinds is the fixed symbol-kind iteration order of the declared and
// required passes (spec §4.11); the scope-subset predicate walks the same
// order, and the additive pass uses the same order minus classes.
var scopeKinds = []SymbolKind{SymClass, SymRole, SymType, SymUser, SymBool, SymSens, SymCat}

// Walk is the Block Walker (spec §4.11): it iterates the global block list,
// tracks a stack of enclosing optional blocks' required scopes, and drives
// every per-decl emission (decl-roles, the three scope passes, then rules)
// in the fixed order spec §4.11 step 4 names.
func (c *Context) Walk(blocks []*AvRuleBlock, indent int) error {
	var stack []*ScopeIndex
	globalEmitted := false

	for _, block := range blocks {
		if len(block.Decls) == 0 {
			continue // no decl in this block; skip per spec §4.11 step 1
		}
		if len(block.Decls) > 1 {
			c.Warnf("block has %d decls, else-branches are unsupported, dropped", len(block.Decls))
		}
		decl := block.Decls[0]

		if block.IsOptional() {
			for len(stack) > 0 && !stack[len(stack)-1].Covers(decl.Required) {
				stack = stack[:len(stack)-1]
				indent--
				if err := c.Emit.line(indent, ")"); err != nil {
					return err
				}
			}
			if err := c.Emit.line(indent, fmt.Sprintf("(optional %s_optional_%d", c.ModuleName, decl.DeclID)); err != nil {
				return err
			}
			stack = append(stack, decl.Required)
			indent++
		}

		inOptional := len(stack) > 0

		if len(stack) == 0 && !globalEmitted {
			if err := c.lowerGlobalPrelude(indent); err != nil {
				return err
			}
			globalEmitted = true
		}

		if err := c.lowerDeclRoles(decl, indent); err != nil {
			return err
		}
		if err := c.lowerScopePass(decl.Declared, ScopeDecl, indent, inOptional); err != nil {
			return err
		}
		if err := c.lowerScopePass(decl.Required, ScopeReq, indent, inOptional); err != nil {
			return err
		}
		if err := c.lowerAdditiveScopes(decl, indent, inOptional); err != nil {
			return err
		}

		if err := c.LowerAvRules(decl.AvRules, indent); err != nil {
			return err
		}
		if err := c.LowerRoleTransitions(decl.RoleTransitions, indent); err != nil {
			return err
		}
		if err := c.LowerRoleAllows(decl.RoleAllows, indent); err != nil {
			return err
		}
		if err := c.LowerRangeTransitions(decl.RangeTransitions, indent); err != nil {
			return err
		}
		if err := c.LowerFileNameTransitions(decl.FileNameTransitions, indent); err != nil {
			return err
		}
		if err := c.LowerConditionals(decl.Conditionals, indent); err != nil {
			return err
		}
	}

	for range stack {
		indent--
		if err := c.Emit.line(indent, ")"); err != nil {
			return err
		}
	}
	return nil
}

// lowerGlobalPrelude emits the global-scope-only content spec §4.11 step 3
// names: type aliases (types with Primary == false) and commons. It runs
// exactly once, the first time the walker reaches global scope, since both
// are whole-database data rather than per-decl data.
func (c *Context) lowerGlobalPrelude(indent int) error {
	for _, name := range c.DB.Types.Names {
		typ, ok := c.DB.Types.Lookup(name)
		if !ok || typ.Flavor != TypeFlavorType || typ.Primary {
			continue
		}
		if err := c.lowerType(name, ScopeDecl, indent); err != nil {
			return err
		}
	}
	for _, name := range c.DB.Commons.Names {
		common, ok := c.DB.Commons.Lookup(name)
		if !ok {
			continue
		}
		line := fmt.Sprintf("(common %s (%s))", name, JoinNames(common.Permissions))
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

// lowerDeclRoles reconstructs per-decl role-type associations (spec §4.12):
// for every role declared at global DECL scope, for every type in that
// role's type set whose scope record names decl among its declaring decls,
// emit (roletype <role> <type>).
func (c *Context) lowerDeclRoles(decl *AvRuleDecl, indent int) error {
	for _, roleName := range c.DB.Roles.Names {
		if roleName == defaultObject {
			continue
		}
		sd, ok := c.DB.ScopeOf(SymRole, roleName)
		if !ok || sd.Scope != ScopeDecl {
			continue
		}
		role, ok := c.DB.Roles.Lookup(roleName)
		if !ok {
			continue
		}
		types, err := c.Resolver.NamesForBits(SymType, role.Types)
		if err != nil {
			return err
		}
		for _, typeName := range types {
			typeScope, ok := c.DB.ScopeOf(SymType, typeName)
			if !ok || !typeScope.DeclaredBy(decl.DeclID) {
				continue
			}
			line := fmt.Sprintf("(roletype %s %s)", roleName, typeName)
			if err := c.Emit.line(indent, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// lowerScopePass implements the declared-scopes pass (§4.13) when scope ==
// ScopeDecl, and the required-scopes pass (§4.14) when scope == ScopeReq:
// for each symbol kind but commons, iterate the bits set in idx, invoking
// the symbol lowerer at scope. The declared pass additionally emits
// categoryorder and sensitivityorder once their respective iterations
// finish, when non-empty.
func (c *Context) lowerScopePass(idx *ScopeIndex, scope ScopeKind, indent int, inOptional bool) error {
	for _, kind := range scopeKinds {
		names, err := c.Resolver.NamesForBits(kind, idx.bitmapFor(kind))
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := c.LowerSymbol(kind, name, scope, indent, inOptional); err != nil {
				return err
			}
		}
		if scope != ScopeDecl {
			continue
		}
		switch kind {
		case SymCat:
			if !idx.Cats.IsEmpty() {
				if err := c.Emit.line(indent, fmt.Sprintf("(categoryorder (%s))", JoinNames(names))); err != nil {
					return err
				}
			}
		case SymSens:
			if !idx.Sens.IsEmpty() {
				if err := c.Emit.line(indent, fmt.Sprintf("(sensitivityorder (%s))", JoinNames(names))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// lowerAdditiveScopes implements the additive-scopes pass (§4.15): for each
// symbol kind, iterate the decl's additive per-kind table (in sorted name
// order, for determinism over the underlying map) and invoke the lowerer at
// scope=REQ.
func (c *Context) lowerAdditiveScopes(decl *AvRuleDecl, indent int, inOptional bool) error {
	if decl.Additive == nil {
		return nil
	}
	emit := func(kind SymbolKind, names []string) error {
		sort.Strings(names)
		for _, name := range names {
			if err := c.LowerSymbol(kind, name, ScopeReq, indent, inOptional); err != nil {
				return err
			}
		}
		return nil
	}

	if err := emit(SymRole, keysOf(decl.Additive.Roles)); err != nil {
		return err
	}
	if err := emit(SymType, keysOf(decl.Additive.Types)); err != nil {
		return err
	}
	if err := emit(SymUser, keysOf(decl.Additive.Users)); err != nil {
		return err
	}
	if err := emit(SymBool, keysOf(decl.Additive.Bools)); err != nil {
		return err
	}
	if err := emit(SymSens, keysOf(decl.Additive.Sens)); err != nil {
		return err
	}
	return emit(SymCat, keysOf(decl.Additive.Cats))
}

func keysOf[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}
