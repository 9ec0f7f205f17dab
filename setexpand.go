package pp2cil

import "fmt"

// ExpandTypeSet turns a TypeSet into a name list, synthesizing a fresh
// typeattribute declaration when the set is not a plain positive list (spec
// §4.3). indent is the level the (typeattribute ...)/(typeattributeset ...)
// forms are emitted at, when synthesis is needed.
func (c *Context) ExpandTypeSet(ts TypeSet, indent int) ([]string, error) {
	return c.expandSet(ts.Positive, ts.Negative, ts.Flags, true, indent)
}

// ExpandRoleSet is the role analogue of ExpandTypeSet. Role sets never carry
// a negative bitmap (spec §3 invariant: "for role sets only flags
// matters"), so Negative is always passed as nil here.
func (c *Context) ExpandRoleSet(rs RoleSet, indent int) ([]string, error) {
	return c.expandSet(rs.Positive, nil, rs.Flags, false, indent)
}

func (c *Context) expandSet(positive, negative *Bitmap, flags SetFlags, isType bool, indent int) ([]string, error) {
	kind := SymRole
	infix := "_roleattr_"
	if isType {
		kind = SymType
		infix = "_typeattr_"
	}

	if negative.IsEmpty() && flags == 0 {
		return c.Resolver.NamesForBits(kind, positive)
	}

	id, err := c.NextAttrID()
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s%s%d", c.ModuleName, infix, id)

	decl := "typeattribute"
	if !isType {
		decl = "roleattribute"
	}
	if err := c.Emit.line(indent, fmt.Sprintf("(%s %s)", decl, name)); err != nil {
		return nil, err
	}

	body, err := c.attributeSetBody(kind, positive, negative, flags)
	if err != nil {
		return nil, err
	}
	setKind := "typeattributeset"
	if !isType {
		setKind = "roleattributeset"
	}
	if err := c.Emit.line(indent, fmt.Sprintf("(%s %s %s)", setKind, name, body)); err != nil {
		return nil, err
	}

	return []string{name}, nil
}

// attributeSetBody builds the inner form of an attributeset/attributeset
// body, per spec §4.3 step 4: (all) when STAR is set, otherwise an (and pos
// (not neg)) / bare pos / bare (not neg) combination of whichever bitmaps
// are non-empty (with STAR set the bitmaps are not rendered), then an outer
// (not ...) wrapper when COMP is set.
func (c *Context) attributeSetBody(kind SymbolKind, positive, negative *Bitmap, flags SetFlags) (string, error) {
	var inner string

	switch {
	case flags.Has(SetStar):
		inner = "(all)"
	case !positive.IsEmpty() && !negative.IsEmpty():
		posNames, err := c.Resolver.NamesForBits(kind, positive)
		if err != nil {
			return "", err
		}
		negNames, err := c.Resolver.NamesForBits(kind, negative)
		if err != nil {
			return "", err
		}
		inner = fmt.Sprintf("(and (%s) (not (%s)))", JoinNames(posNames), JoinNames(negNames))
	case !positive.IsEmpty():
		posNames, err := c.Resolver.NamesForBits(kind, positive)
		if err != nil {
			return "", err
		}
		inner = fmt.Sprintf("(%s)", JoinNames(posNames))
	case !negative.IsEmpty():
		negNames, err := c.Resolver.NamesForBits(kind, negative)
		if err != nil {
			return "", err
		}
		inner = fmt.Sprintf("(not (%s))", JoinNames(negNames))
	default:
		inner = ""
	}

	if flags.Has(SetComp) {
		return fmt.Sprintf("(not %s)", inner), nil
	}
	return inner, nil
}
