package pp2cil

import "fmt"

// domain returns which symbol kind a NAMES-kind constraint atom's Attr
// selects over: types use the Set Expander, roles/users use a direct
// bitmap-to-names lookup (spec §4.6).
func (a ConstraintAttr) domain() (SymbolKind, error) {
	switch a {
	case AttrType1, AttrType2, AttrType3:
		return SymType, nil
	case AttrRole1, AttrRole2, AttrRole3:
		return SymRole, nil
	case AttrUser1, AttrUser2, AttrUser3:
		return SymUser, nil
	default:
		return 0, fmt.Errorf("%w: constraint attribute %v has no NAMES domain", ErrStructural, a)
	}
}

// rewriteConstraintExpr is the constraint analogue of rewriteCondExpr: same
// postfix-to-prefix stack rewrite, with two additional leaf shapes (ATTR and
// NAMES atoms push directly, carrying no operand of their own) alongside the
// NOT/AND/OR combinators, which pop exactly as §4.5 describes.
func (c *Context) rewriteConstraintExpr(expr ConstraintExpr, indent int) (string, error) {
	var stack []string

	pop := func() (string, error) {
		if len(stack) == 0 {
			return "", fmt.Errorf("%w: constraint expression stack underflow", ErrStructural)
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, nil
	}

	for _, atom := range expr.Postfix {
		switch atom.Kind {
		case ConstraintAtomAttr:
			keyword, ok := atom.Op.Keyword()
			if !ok {
				return "", fmt.Errorf("%w: unknown constraint operator %v", ErrStructural, atom.Op)
			}
			stack = append(stack, fmt.Sprintf("(%s %s %s)", keyword, atom.Attr, atom.Attr2))

		case ConstraintAtomNames:
			keyword, ok := atom.Op.Keyword()
			if !ok {
				return "", fmt.Errorf("%w: unknown constraint operator %v", ErrStructural, atom.Op)
			}
			kind, err := atom.Attr.domain()
			if err != nil {
				return "", err
			}
			var names []string
			if kind == SymType {
				names, err = c.ExpandTypeSet(TypeSet{Positive: atom.Names}, indent)
			} else {
				names, err = c.Resolver.NamesForBits(kind, atom.Names)
			}
			if err != nil {
				return "", err
			}
			stack = append(stack, fmt.Sprintf("(%s %s (%s))", keyword, atom.Attr, JoinNames(names)))

		case ConstraintAtomCombinator:
			keyword, ok := atom.Op.Keyword()
			if !ok {
				return "", fmt.Errorf("%w: unknown constraint operator %v", ErrStructural, atom.Op)
			}
			if atom.Op == ConstraintNot {
				operand, err := pop()
				if err != nil {
					return "", err
				}
				stack = append(stack, fmt.Sprintf("(%s %s)", keyword, operand))
				continue
			}
			right, err := pop()
			if err != nil {
				return "", err
			}
			left, err := pop()
			if err != nil {
				return "", err
			}
			stack = append(stack, fmt.Sprintf("(%s %s %s)", keyword, left, right))

		default:
			return "", fmt.Errorf("%w: unknown constraint atom kind %v", ErrStructural, atom.Kind)
		}
	}

	if len(stack) != 1 {
		return "", fmt.Errorf("%w: constraint expression reduced to %d values, want 1", ErrStructural, len(stack))
	}
	return stack[0], nil
}

func (c *Context) mlsPrefix() string {
	if c.DB.MLS {
		return "mls"
	}
	return ""
}

// LowerClassConstraints emits one ([mls]constrain ...) form per
// ClassConstraint attached to class, named className, at indent.
func (c *Context) LowerClassConstraints(className string, class *ClassDatum, indent int) error {
	for _, cst := range class.Constraints {
		perms, err := c.Permissions.PermissionNames(class, c.DB.Commons, cst.Permissions)
		if err != nil {
			return err
		}
		expr, err := c.rewriteConstraintExpr(cst.Expr, indent)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(%sconstrain (%s (%s)) %s)", c.mlsPrefix(), className, JoinNames(perms), expr)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}

// LowerValidatetrans emits one ([mls]validatetrans ...) form per expression
// attached to class, named className, at indent.
func (c *Context) LowerValidatetrans(className string, class *ClassDatum, indent int) error {
	for _, expr := range class.Validatetrans {
		rendered, err := c.rewriteConstraintExpr(expr, indent)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("(%svalidatetrans %s %s)", c.mlsPrefix(), className, rendered)
		if err := c.Emit.line(indent, line); err != nil {
			return err
		}
	}
	return nil
}
