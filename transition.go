package pp2cil

import "fmt"

// LowerRoleTransitions emits one (roletransition <role> <type> <class>
// <new-role>) line per (role, type, class) triple in the rule's cross
// product, per spec §4.7.
func (c *Context) LowerRoleTransitions(rules []RoleTransitionRule, indent int) error {
	for _, rule := range rules {
		newRole, err := c.Resolver.NameForValue(SymRole, rule.NewRole)
		if err != nil {
			return err
		}
		roles, err := c.Resolver.NamesForBits(SymRole, rule.Roles)
		if err != nil {
			return err
		}
		types, err := c.Resolver.NamesForBits(SymType, rule.Types)
		if err != nil {
			return err
		}
		classes, err := c.Resolver.NamesForBits(SymClass, rule.Classes)
		if err != nil {
			return err
		}
		for _, role := range roles {
			for _, typ := range types {
				for _, class := range classes {
					line := fmt.Sprintf("(roletransition %s %s %s %s)", role, typ, class, newRole)
					if err := c.Emit.line(indent, line); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// LowerRoleAllows emits one (roleallow <role> <new-role>) line per (role,
// new-role) pair in each rule's cross product.
func (c *Context) LowerRoleAllows(rules []RoleAllowRule, indent int) error {
	for _, rule := range rules {
		roles, err := c.Resolver.NamesForBits(SymRole, rule.Roles)
		if err != nil {
			return err
		}
		newRoles, err := c.Resolver.NamesForBits(SymRole, rule.NewRoles)
		if err != nil {
			return err
		}
		for _, role := range roles {
			for _, newRole := range newRoles {
				line := fmt.Sprintf("(roleallow %s %s)", role, newRole)
				if err := c.Emit.line(indent, line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// LowerRangeTransitions emits one (rangetransition <s> <t> <class>
// (<low> <high>)) line per (stype, ttype, tclass) triple, only when the
// policy is MLS (spec §4.7).
func (c *Context) LowerRangeTransitions(rules []RangeTransitionRule, indent int) error {
	if !c.DB.MLS {
		return nil
	}
	for _, rule := range rules {
		low, err := c.ResolveLevel(rule.NewRange.Low, offsetDecl)
		if err != nil {
			return err
		}
		high, err := c.ResolveLevel(rule.NewRange.High, offsetDecl)
		if err != nil {
			return err
		}
		rng := RenderRange(low, high)

		stypes, err := c.Resolver.NamesForBits(SymType, rule.STypes)
		if err != nil {
			return err
		}
		ttypes, err := c.Resolver.NamesForBits(SymType, rule.TTypes)
		if err != nil {
			return err
		}
		tclasses, err := c.Resolver.NamesForBits(SymClass, rule.TClasses)
		if err != nil {
			return err
		}
		for _, s := range stypes {
			for _, t := range ttypes {
				for _, class := range tclasses {
					line := fmt.Sprintf("(rangetransition %s %s %s %s)", s, t, class, rng)
					if err := c.Emit.line(indent, line); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// LowerFileNameTransitions emits one (typetransition <s> <t> <class>
// "<filename>" <new-type>) line per (stype, ttype) pair, per spec §4.7.
func (c *Context) LowerFileNameTransitions(rules []FileNameTransitionRule, indent int) error {
	for _, rule := range rules {
		class, err := c.Resolver.NameForValue(SymClass, rule.Class)
		if err != nil {
			return err
		}
		newType, err := c.Resolver.NameForValue(SymType, rule.NewType)
		if err != nil {
			return err
		}
		stypes, err := c.Resolver.NamesForBits(SymType, rule.STypes)
		if err != nil {
			return err
		}
		ttypes, err := c.Resolver.NamesForBits(SymType, rule.TTypes)
		if err != nil {
			return err
		}
		for _, s := range stypes {
			for _, t := range ttypes {
				line := fmt.Sprintf("(typetransition %s %s %s %q %s)", s, t, class, rule.FileName, newType)
				if err := c.Emit.line(indent, line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
