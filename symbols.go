package pp2cil

import "fmt"

// defaultObject is the fixed object_r role every primary type is bound to
// and every declared user carries in addition to its own roles.
const defaultObject = "object_r"

// LowerSymbol dispatches to the per-kind lowerer for name within kind, at
// the given scope and indent (spec §4.8). This is the single entry point
// the declared/required/additive passes (walker.go) call, keeping symbol-
// kind dispatch a closed sum rather than a function-pointer table (spec §9).
// inOptional reports whether name is being lowered from within a nested
// optional block, the one case (a user statement) where the MLS index
// offset differs (spec §3).
func (c *Context) LowerSymbol(kind SymbolKind, name string, scope ScopeKind, indent int, inOptional bool) error {
	switch kind {
	case SymClass:
		return c.lowerClass(name, scope, indent)
	case SymRole:
		return c.lowerRole(name, scope, indent)
	case SymType:
		return c.lowerType(name, scope, indent)
	case SymUser:
		return c.lowerUser(name, scope, indent, inOptional)
	case SymBool:
		return c.lowerBool(name, scope, indent)
	case SymSens:
		return c.lowerSens(name, scope, indent)
	case SymCat:
		return c.lowerCat(name, scope, indent)
	default:
		return fmt.Errorf("%w: symbol kind %v has no lowerer", ErrStructural, kind)
	}
}

func (c *Context) lowerClass(name string, scope ScopeKind, indent int) error {
	if scope == ScopeReq {
		return nil // classes at REQ scope are skipped, spec §4.8
	}
	class, ok := c.DB.Classes.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown class %q", ErrStructural, name)
	}

	if err := c.Emit.line(indent, fmt.Sprintf("(class %s (%s))", name, JoinNames(class.Permissions))); err != nil {
		return err
	}
	if class.CommonName != "" {
		if err := c.Emit.line(indent, fmt.Sprintf("(classcommon %s %s)", name, class.CommonName)); err != nil {
			return err
		}
	}
	if kw, ok := class.DefaultUser.Keyword(); ok {
		if err := c.Emit.line(indent, fmt.Sprintf("(defaultuser %s %s)", name, kw)); err != nil {
			return err
		}
	}
	if kw, ok := class.DefaultRole.Keyword(); ok {
		if err := c.Emit.line(indent, fmt.Sprintf("(defaultrole %s %s)", name, kw)); err != nil {
			return err
		}
	}
	if kw, ok := class.DefaultType.Keyword(); ok {
		if err := c.Emit.line(indent, fmt.Sprintf("(defaulttype %s %s)", name, kw)); err != nil {
			return err
		}
	}
	if kw, ok := class.DefaultRange.Keyword(); ok {
		if err := c.Emit.line(indent, fmt.Sprintf("(defaultrange %s %s)", name, kw)); err != nil {
			return err
		}
	}
	if err := c.LowerClassConstraints(name, class, indent); err != nil {
		return err
	}
	return c.LowerValidatetrans(name, class, indent)
}

func (c *Context) lowerRole(name string, scope ScopeKind, indent int) error {
	role, ok := c.DB.Roles.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown role %q", ErrStructural, name)
	}

	if role.Dominates.Len() > 1 {
		c.Warnf("role %q: multiple role dominance is unsupported, dropped", name)
	}

	switch role.Flavor {
	case RoleFlavorRole:
		if scope == ScopeDecl && c.DB.PolicyType == PolicyModule {
			return c.Emit.line(indent, fmt.Sprintf("(role %s)", name))
		}
		// Unlike the other per-kind lowerers, ROLE flavor does not early-return
		// at ScopeReq: a required role's type set still needs its roletype
		// lines emitted (spec §4.14 "only those constructs allowed in a
		// require apply" — roletype is one of them).
		types, err := c.Resolver.NamesForBits(SymType, role.Types)
		if err != nil {
			return err
		}
		for _, typ := range types {
			if err := c.Emit.line(indent, fmt.Sprintf("(roletype %s %s)", name, typ)); err != nil {
				return err
			}
		}
		if role.Bounds != "" {
			if err := c.Emit.line(indent, fmt.Sprintf("(rolebounds %s %s)", name, role.Bounds)); err != nil {
				return err
			}
		}
		return nil

	case RoleFlavorAttrib:
		if scope == ScopeDecl {
			if err := c.Emit.line(indent, fmt.Sprintf("(roleattribute %s)", name)); err != nil {
				return err
			}
		}
		if !role.Roles.IsEmpty() {
			members, err := c.Resolver.NamesForBits(SymRole, role.Roles)
			if err != nil {
				return err
			}
			if err := c.Emit.line(indent, fmt.Sprintf("(roleattributeset %s (%s))", name, JoinNames(members))); err != nil {
				return err
			}
		}
		types, err := c.Resolver.NamesForBits(SymType, role.Types)
		if err != nil {
			return err
		}
		for _, typ := range types {
			if err := c.Emit.line(indent, fmt.Sprintf("(roletype %s %s)", name, typ)); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown role flavor %v", ErrStructural, role.Flavor)
	}
}

func (c *Context) lowerType(name string, scope ScopeKind, indent int) error {
	if scope == ScopeReq {
		return nil
	}
	typ, ok := c.DB.Types.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown type %q", ErrStructural, name)
	}

	switch typ.Flavor {
	case TypeFlavorType:
		if typ.Primary {
			if err := c.Emit.line(indent, fmt.Sprintf("(type %s)", name)); err != nil {
				return err
			}
			if err := c.Emit.line(indent, fmt.Sprintf("(roletype %s %s)", defaultObject, name)); err != nil {
				return err
			}
		} else {
			if err := c.Emit.line(indent, fmt.Sprintf("(typealias %s)", name)); err != nil {
				return err
			}
			if err := c.Emit.line(indent, fmt.Sprintf("(typealiasactual %s %s)", name, typ.ActualName)); err != nil {
				return err
			}
		}
		if typ.Permissive {
			if err := c.Emit.line(indent, fmt.Sprintf("(typepermissive %s)", name)); err != nil {
				return err
			}
		}
		if typ.Bounds != "" {
			if err := c.Emit.line(indent, fmt.Sprintf("(typebounds %s %s)", typ.Bounds, name)); err != nil {
				return err
			}
		}
		return nil

	case TypeFlavorAttrib:
		if err := c.Emit.line(indent, fmt.Sprintf("(typeattribute %s)", name)); err != nil {
			return err
		}
		if !typ.Types.IsEmpty() {
			members, err := c.Resolver.NamesForBits(SymType, typ.Types)
			if err != nil {
				return err
			}
			if err := c.Emit.line(indent, fmt.Sprintf("(typeattributeset %s (%s))", name, JoinNames(members))); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown type flavor %v", ErrStructural, typ.Flavor)
	}
}

func (c *Context) lowerUser(name string, scope ScopeKind, indent int, inOptional bool) error {
	if scope == ScopeReq {
		return nil
	}
	user, ok := c.DB.Users.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown user %q", ErrStructural, name)
	}

	if err := c.Emit.line(indent, fmt.Sprintf("(user %s)", name)); err != nil {
		return err
	}
	if err := c.Emit.line(indent, fmt.Sprintf("(userrole %s %s)", name, defaultObject)); err != nil {
		return err
	}
	roles, err := c.Resolver.NamesForBits(SymRole, user.Roles)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if err := c.Emit.line(indent, fmt.Sprintf("(userrole %s %s)", name, role)); err != nil {
			return err
		}
	}

	offset := offsetDecl
	if inOptional {
		offset = offsetUserOptional
	}

	if !c.DB.MLS {
		if err := c.Emit.line(indent, fmt.Sprintf("(userlevel %s (%s))", name, defaultLevelLiteral)); err != nil {
			return err
		}
		return c.Emit.line(indent, fmt.Sprintf("(userrange %s %s)", name, nonMLSRange()))
	}

	level, err := c.ResolveLevel(user.Level, offset)
	if err != nil {
		return err
	}
	if err := c.Emit.line(indent, fmt.Sprintf("(userlevel %s %s)", name, RenderLevel(level))); err != nil {
		return err
	}
	low, err := c.ResolveLevel(user.Range.Low, offset)
	if err != nil {
		return err
	}
	high, err := c.ResolveLevel(user.Range.High, offset)
	if err != nil {
		return err
	}
	return c.Emit.line(indent, fmt.Sprintf("(userrange %s %s)", name, RenderRange(low, high)))
}

func (c *Context) lowerBool(name string, scope ScopeKind, indent int) error {
	if scope == ScopeReq {
		return nil
	}
	b, ok := c.DB.Bools.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown bool %q", ErrStructural, name)
	}
	kind := "boolean"
	if b.Tunable {
		kind = "tunable"
	}
	state := "false"
	if b.State {
		state = "true"
	}
	return c.Emit.line(indent, fmt.Sprintf("(%s %s %s)", kind, name, state))
}

func (c *Context) lowerSens(name string, scope ScopeKind, indent int) error {
	if scope == ScopeReq {
		return nil
	}
	sens, ok := c.DB.Sens.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown sensitivity %q", ErrStructural, name)
	}
	if sens.IsAlias {
		if err := c.Emit.line(indent, fmt.Sprintf("(sensitivityalias %s)", name)); err != nil {
			return err
		}
		if err := c.Emit.line(indent, fmt.Sprintf("(sensitivityaliasactual %s %s)", name, sens.ActualName)); err != nil {
			return err
		}
	} else {
		if err := c.Emit.line(indent, fmt.Sprintf("(sensitivity %s)", name)); err != nil {
			return err
		}
	}
	if !sens.Cats.IsEmpty() {
		cats, err := c.Resolver.NamesForBits(SymCat, sens.Cats)
		if err != nil {
			return err
		}
		if err := c.Emit.line(indent, fmt.Sprintf("(sensitivitycategory %s (%s))", name, JoinNames(cats))); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerCat(name string, scope ScopeKind, indent int) error {
	if scope == ScopeReq {
		return nil // categories at REQ scope are skipped, spec §4.8
	}
	cat, ok := c.DB.Cats.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrStructural, name)
	}
	if cat.IsAlias {
		if err := c.Emit.line(indent, fmt.Sprintf("(categoryalias %s)", name)); err != nil {
			return err
		}
		return c.Emit.line(indent, fmt.Sprintf("(categoryaliasactual %s %s)", name, cat.ActualName))
	}
	return c.Emit.line(indent, fmt.Sprintf("(category %s)", name))
}
