package pp2cil

import "fmt"

// offsetDecl and offsetUserOptional are the two index offsets spec §3
// allows for semantic MLS level resolution: one (offsetDecl) everywhere, and
// offsetUserOptional for sensitivities referenced inside a user statement
// declared within an optional block.
const (
	offsetDecl          = 1
	offsetUserOptional  = 0
)

// ResolveLevel expands an index-valued MlsLevel into a name-resolved
// SemanticLevel, applying offset to every sensitivity/category index it
// touches (spec §3's "-1, except ... offset 0" invariant).
func (c *Context) ResolveLevel(level MlsLevel, offset int) (SemanticLevel, error) {
	sens, err := c.Resolver.NameAt(SymSens, level.SensIndex-offset)
	if err != nil {
		return SemanticLevel{}, err
	}
	var cats []string
	for _, span := range level.Cats {
		lo, err := c.Resolver.NameAt(SymCat, span.Low-offset)
		if err != nil {
			return SemanticLevel{}, err
		}
		if span.Low == span.High {
			cats = append(cats, lo)
			continue
		}
		hi, err := c.Resolver.NameAt(SymCat, span.High-offset)
		if err != nil {
			return SemanticLevel{}, err
		}
		cats = append(cats, fmt.Sprintf("%s.%s", lo, hi))
	}
	return SemanticLevel{Sens: sens, Cats: cats}, nil
}

// RenderLevel renders one semantic level as "(<sens>)" or, when it carries
// categories, "(<sens> (<cats>))".
func RenderLevel(l SemanticLevel) string {
	if len(l.Cats) == 0 {
		return fmt.Sprintf("(%s)", l.Sens)
	}
	return fmt.Sprintf("(%s (%s))", l.Sens, JoinNames(l.Cats))
}

// RenderRange renders a low/high semantic-level pair as the level-pair form
// used throughout emitted contexts and ranges: two self-delimiting level
// forms back to back inside one outer pair of parens (spec §8 scenario 6:
// "((s0)(s0))").
func RenderRange(low, high SemanticLevel) string {
	return fmt.Sprintf("(%s%s)", RenderLevel(low), RenderLevel(high))
}

// defaultLevelLiteral is DEFAULT_LEVEL from spec §6, used verbatim whenever
// a context's level must be rendered in non-MLS mode instead of being
// resolved against the sensitivity/category tables.
const defaultLevelLiteral = "systemlow"

// defaultSensName is the sensitivity name a non-MLS base module pre-declares
// so that defaultLevelLiteral has something to bind to (spec §6).
const defaultSensName = "s0"

// nonMLSRange is the literal default-level-twice range spec §4.8/§4.9
// require whenever the policy is non-MLS.
func nonMLSRange() string {
	l := SemanticLevel{Sens: defaultLevelLiteral}
	return RenderRange(l, l)
}

// ResolveRange expands a full MlsRange, or returns the non-MLS literal
// range, depending on mls.
func (c *Context) ResolveRange(mls bool, r MlsRange, offset int) (string, error) {
	if !mls {
		return nonMLSRange(), nil
	}
	low, err := c.ResolveLevel(r.Low, offset)
	if err != nil {
		return "", err
	}
	high, err := c.ResolveLevel(r.High, offset)
	if err != nil {
		return "", err
	}
	return RenderRange(low, high), nil
}

// ResolveSecurityContext renders a full (<user> <role> <type> (<range>))
// context form.
func (c *Context) ResolveSecurityContext(mls bool, ctx SecurityContext) (string, error) {
	user, err := c.Resolver.NameForValue(SymUser, ctx.UserIndex)
	if err != nil {
		return "", err
	}
	role, err := c.Resolver.NameForValue(SymRole, ctx.RoleIndex)
	if err != nil {
		return "", err
	}
	typ, err := c.Resolver.NameForValue(SymType, ctx.TypeIndex)
	if err != nil {
		return "", err
	}
	rng, err := c.ResolveRange(mls, ctx.Range, offsetDecl)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s %s)", user, role, typ, rng), nil
}
