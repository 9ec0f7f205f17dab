package pp2cil

import "fmt"

// LowerConditionals emits one (booleanif ...)/(tunableif ...) block per
// CondNode in nodes, at the given indent (spec §4.5).
func (c *Context) LowerConditionals(nodes []CondNode, indent int) error {
	for i := range nodes {
		if err := c.lowerCondNode(&nodes[i], indent); err != nil {
			return err
		}
	}
	return nil
}

// rewriteCondExpr walks a postfix CondAtom list with an operand stack of
// owned strings (spec §9's redesign note: never share substrings across
// stack frames) and returns the single resulting prefix expression.
func rewriteCondExpr(resolver *Resolver, postfix []CondAtom) (string, error) {
	var stack []string

	pop := func() (string, error) {
		if len(stack) == 0 {
			return "", fmt.Errorf("%w: conditional expression stack underflow", ErrStructural)
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, nil
	}

	for _, atom := range postfix {
		if atom.IsBoolRef {
			name, err := resolver.NameForValue(SymBool, atom.BoolIndex)
			if err != nil {
				return "", err
			}
			stack = append(stack, fmt.Sprintf("(%s)", name))
			continue
		}

		keyword, ok := atom.Op.Keyword()
		if !ok {
			return "", fmt.Errorf("%w: unknown conditional operator %v", ErrStructural, atom.Op)
		}

		if atom.Op.IsUnary() {
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
	}

	if len(stack) != 1 {
		return "", fmt.Errorf("%w: conditional expression reduced to %d values, want 1", ErrStructural, len(stack))
	}
	return stack[0], nil
}

func (c *Context) lowerCondNode(node *CondNode, indent int) error {
	expr, err := rewriteCondExpr(c.Resolver, node.Postfix)
	if err != nil {
		return err
	}

	kind := "booleanif"
	if node.Tunable() {
		kind = "tunableif"
	}
	if err := c.Emit.line(indent, fmt.Sprintf("(%s %s", kind, expr)); err != nil {
		return err
	}

	if len(node.TrueRules) > 0 {
		if err := c.Emit.line(indent+1, "(true"); err != nil {
			return err
		}
		if err := c.LowerAvRules(node.TrueRules, indent+2); err != nil {
			return err
		}
		if err := c.Emit.line(indent+1, ")"); err != nil {
			return err
		}
	}
	if len(node.FalseRules) > 0 {
		if err := c.Emit.line(indent+1, "(false"); err != nil {
			return err
		}
		if err := c.LowerAvRules(node.FalseRules, indent+2); err != nil {
			return err
		}
		if err := c.Emit.line(indent+1, ")"); err != nil {
			return err
		}
	}

	return c.Emit.line(indent, ")")
}
