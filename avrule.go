package pp2cil

import "fmt"

// LowerAvRules emits one rule line per (src, tgt, class-perm-node) triple
// for every rule in rules, at the given indent (spec §4.4).
func (c *Context) LowerAvRules(rules []AvRule, indent int) error {
	for i := range rules {
		if err := c.lowerAvRule(&rules[i], indent); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerAvRule(rule *AvRule, indent int) error {
	keyword, ok := rule.Kind.Keyword()
	if !ok {
		return fmt.Errorf("%w: unknown av-rule kind %v", ErrStructural, rule.Kind)
	}

	sources, err := c.ExpandTypeSet(rule.Source, indent)
	if err != nil {
		return err
	}
	targets, err := c.ExpandTypeSet(rule.Target, indent)
	if err != nil {
		return err
	}

	targetLists := make([][]string, 0, len(targets)+1)
	for _, t := range targets {
		targetLists = append(targetLists, []string{t})
	}
	if rule.SelfFlag {
		targetLists = append(targetLists, []string{"self"})
	}

	for _, src := range sources {
		for _, tgtList := range targetLists {
			tgt := tgtList[0]
			for _, node := range rule.Nodes {
				line, err := c.avRuleLine(rule.Kind, keyword, src, tgt, node)
				if err != nil {
					return err
				}
				if err := c.Emit.line(indent, line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Context) avRuleLine(kind AvRuleKind, keyword, src, tgt string, node AvRuleNode) (string, error) {
	class, err := c.Resolver.NameForValue(SymClass, node.ClassIndex)
	if err != nil {
		return "", err
	}

	if kind.IsAccessVector() {
		mask, ok := node.Payload.(AccessVectorMask)
		if !ok {
			return "", fmt.Errorf("%w: access-vector rule kind %v carries non-mask payload", ErrStructural, kind)
		}
		classDatum, ok := c.DB.Classes.Lookup(class)
		if !ok {
			return "", fmt.Errorf("%w: unknown class %q", ErrStructural, class)
		}
		perms, err := c.Permissions.PermissionNames(classDatum, c.DB.Commons, mask.Bits)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s (%s (%s)))", keyword, src, tgt, class, JoinNames(perms)), nil
	}

	newType, ok := node.Payload.(NewTypeIndex)
	if !ok {
		return "", fmt.Errorf("%w: transition rule kind %v carries non-type payload", ErrStructural, kind)
	}
	newTypeName, err := c.Resolver.NameForValue(SymType, newType.Index)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s %s %s)", keyword, src, tgt, class, newTypeName), nil
}
