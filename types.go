package pp2cil

// This file is the decoded policy database: the read-only in-memory shape a
// PolicyDecoder hands to the translator (see decoder.go). Parsing the binary
// policy module into this shape is out of scope for the translator core; it
// is modeled here only as the data the core consumes.

// SymbolKind identifies one of the eight indexable symbol spaces a policy
// database carries.
type SymbolKind int

const (
	SymCommon SymbolKind = iota
	SymClass
	SymRole
	SymType
	SymUser
	SymBool
	SymSens
	SymCat
)

func (k SymbolKind) String() string {
	switch k {
	case SymCommon:
		return "common"
	case SymClass:
		return "class"
	case SymRole:
		return "role"
	case SymType:
		return "type"
	case SymUser:
		return "user"
	case SymBool:
		return "bool"
	case SymSens:
		return "sens"
	case SymCat:
		return "cat"
	default:
		return "unknown"
	}
}

// ScopeKind distinguishes whether a name is declared by, or merely required
// by, an avrule_decl.
type ScopeKind int

const (
	ScopeDecl ScopeKind = iota
	ScopeReq
)

// ScopeDatum is the per-name metadata the block walker consults to decide
// whether a declared-scope or required-scope pass should touch a name, and
// which decl(s) declared it.
type ScopeDatum struct {
	Scope   ScopeKind
	DeclIDs []int
}

// DeclaredBy reports whether declID is among the decls that declared this
// name (used by the decl-role reconstruction pass, §4.12).
func (s *ScopeDatum) DeclaredBy(declID int) bool {
	if s == nil {
		return false
	}
	for _, id := range s.DeclIDs {
		if id == declID {
			return true
		}
	}
	return false
}

// SetFlags carries the STAR (matches all) and COMP (complement) markers a
// TypeSet or RoleSet may carry in addition to its bitmaps.
type SetFlags uint8

const (
	SetStar SetFlags = 1 << iota
	SetComp
)

func (f SetFlags) Has(bit SetFlags) bool { return f&bit != 0 }

// TypeSet is a positive-minus-negative-minus-flags set of type indices, as
// it appears on the source or target side of an AvRule.
type TypeSet struct {
	Positive *Bitmap
	Negative *Bitmap
	Flags    SetFlags
}

// RoleSet is the role analogue of TypeSet. Role sets carry no negative
// bitmap: only Flags matters beyond the positive bitmap (spec invariant).
type RoleSet struct {
	Positive *Bitmap
	Flags    SetFlags
}

// AvRuleKind enumerates the access-vector and transition rule kinds a policy
// module can carry.
type AvRuleKind int

const (
	AvAllow AvRuleKind = iota
	AvAuditAllow
	AvAuditDeny
	AvDontAudit
	AvNeverAllow
	AvTypeTransition
	AvTypeMember
	AvTypeChange
)

// IsAccessVector reports whether this kind's payload is a class-relative
// permission bitmask (true) or a new-type index (false, transition kinds).
func (k AvRuleKind) IsAccessVector() bool {
	switch k {
	case AvAllow, AvAuditAllow, AvAuditDeny, AvDontAudit, AvNeverAllow:
		return true
	default:
		return false
	}
}

// Keyword returns the target-language keyword for this rule kind. auditdenty
// is not a recognized spelling anywhere in this table: see SPEC_FULL.md's
// Open Questions resolution.
func (k AvRuleKind) Keyword() (string, bool) {
	switch k {
	case AvAllow:
		return "allow", true
	case AvAuditAllow:
		return "auditallow", true
	case AvAuditDeny:
		return "auditdeny", true
	case AvDontAudit:
		return "dontaudit", true
	case AvNeverAllow:
		return "neverallow", true
	case AvTypeTransition:
		return "typetransition", true
	case AvTypeMember:
		return "typemember", true
	case AvTypeChange:
		return "typechange", true
	default:
		return "", false
	}
}

// AvRuleNode is one (class, payload) entry of an AvRule's permission list.
// The payload is a tagged variant: AccessVectorMask for the five AV kinds,
// NewTypeIndex for the three transition kinds. Keeping this as an interface
// rather than two optional fields on AvRuleNode makes "which kind of payload
// this rule carries" total at the type level, per SPEC_FULL.md's adoption of
// the spec's redesign note on dynamic per-kind field tagging.
type AvRuleNode struct {
	ClassIndex int // stored (one-based) class value
	Payload    AvPayload
}

// AvPayload is the sealed interface implemented by AccessVectorMask and
// NewTypeIndex.
type AvPayload interface{ isAvPayload() }

// AccessVectorMask is the permission bitmask payload of an AV-kind rule.
type AccessVectorMask struct{ Bits uint32 }

func (AccessVectorMask) isAvPayload() {}

// NewTypeIndex is the new-type payload of a transition/member/change rule.
type NewTypeIndex struct{ Index int } // stored (one-based) type value

func (NewTypeIndex) isAvPayload() {}

// AvRule is one access-vector or transition rule.
type AvRule struct {
	Kind      AvRuleKind
	Source    TypeSet
	Target    TypeSet
	SelfFlag  bool
	Nodes     []AvRuleNode
}

// CondOp enumerates the operators a conditional boolean expression atom may
// carry. CondOpNone marks a boolean-reference atom rather than an operator.
type CondOp int

const (
	CondOpNone CondOp = iota
	CondNot
	CondOr
	CondAnd
	CondXor
	CondEq
	CondNeq
)

func (op CondOp) Keyword() (string, bool) {
	switch op {
	case CondNot:
		return "not", true
	case CondOr:
		return "or", true
	case CondAnd:
		return "and", true
	case CondXor:
		return "xor", true
	case CondEq:
		return "eq", true
	case CondNeq:
		return "neq", true
	default:
		return "", false
	}
}

func (op CondOp) IsUnary() bool { return op == CondNot }

// CondAtom is one element of a CondNode's postfix expression: either a
// boolean reference or an operator.
type CondAtom struct {
	IsBoolRef bool
	BoolIndex int // stored (one-based) bool value, valid when IsBoolRef
	Op        CondOp
}

// CondNodeFlags carries the TUNABLE marker distinguishing tunableif from
// booleanif.
type CondNodeFlags uint8

const CondTunable CondNodeFlags = 1

// CondNode is a conditional policy node: a postfix boolean expression plus
// the rule lists gated on its two branches.
type CondNode struct {
	Postfix    []CondAtom
	Flags      CondNodeFlags
	TrueRules  []AvRule
	FalseRules []AvRule
}

func (c *CondNode) Tunable() bool { return c.Flags&CondTunable != 0 }

// ConstraintOp enumerates the comparison and combinator operators a
// constraint expression atom may carry.
type ConstraintOp int

const (
	ConstraintEq ConstraintOp = iota
	ConstraintNeq
	ConstraintDom
	ConstraintDomby
	ConstraintIncomp
	ConstraintNot
	ConstraintAnd
	ConstraintOr
)

func (op ConstraintOp) Keyword() (string, bool) {
	switch op {
	case ConstraintEq:
		return "eq", true
	case ConstraintNeq:
		return "neq", true
	case ConstraintDom:
		return "dom", true
	case ConstraintDomby:
		return "domby", true
	case ConstraintIncomp:
		return "incomp", true
	case ConstraintNot:
		return "not", true
	case ConstraintAnd:
		return "and", true
	case ConstraintOr:
		return "or", true
	default:
		return "", false
	}
}

func (op ConstraintOp) IsCombinator() bool {
	return op == ConstraintNot || op == ConstraintAnd || op == ConstraintOr
}

// ConstraintAttr encodes which implicit context attribute(s) a constraint
// leaf compares: user/role/type each combined with default|TARGET|XTARGET
// (u1/u2/u3, r1/r2/r3, t1/t2/t3), or one of the six MLS-level pairs.
type ConstraintAttr int

const (
	AttrUser1 ConstraintAttr = iota
	AttrUser2
	AttrUser3
	AttrRole1
	AttrRole2
	AttrRole3
	AttrType1
	AttrType2
	AttrType3
	AttrL1L2
	AttrL1H2
	AttrH1L2
	AttrH1H2
	AttrL1H1
	AttrL2H2
)

// IsType reports whether this attribute code is one of the TYPE-selector
// codes (t1/t2/t3). The constraint lowerer does not call it; it picks a
// NAMES-kind atom's resolution path through domain() in constraint.go.
func (a ConstraintAttr) IsType() bool {
	return a == AttrType1 || a == AttrType2 || a == AttrType3
}

func (a ConstraintAttr) String() string {
	switch a {
	case AttrUser1:
		return "u1"
	case AttrUser2:
		return "u2"
	case AttrUser3:
		return "u3"
	case AttrRole1:
		return "r1"
	case AttrRole2:
		return "r2"
	case AttrRole3:
		return "r3"
	case AttrType1:
		return "t1"
	case AttrType2:
		return "t2"
	case AttrType3:
		return "t3"
	case AttrL1L2:
		return "l1l2"
	case AttrL1H2:
		return "l1h2"
	case AttrH1L2:
		return "h1l2"
	case AttrH1H2:
		return "h1h2"
	case AttrL1H1:
		return "l1h1"
	case AttrL2H2:
		return "l2h2"
	default:
		return "?"
	}
}

// ConstraintAtomKind distinguishes the three shapes a ConstraintAtom may
// take: an attribute-to-attribute comparison, an attribute-to-name-list
// membership test, or a boolean combinator.
type ConstraintAtomKind int

const (
	ConstraintAtomAttr ConstraintAtomKind = iota
	ConstraintAtomNames
	ConstraintAtomCombinator
)

// ConstraintAtom is one element of a ConstraintExpr's postfix sequence.
type ConstraintAtom struct {
	Kind  ConstraintAtomKind
	Op    ConstraintOp
	Attr  ConstraintAttr // valid for Attr and Names kinds
	Attr2 ConstraintAttr // second attribute, valid for Attr kind only
	Names *Bitmap        // membership set, valid for Names kind only
}

// ConstraintExpr is a postfix constraint expression.
type ConstraintExpr struct {
	Postfix []ConstraintAtom
}

// ClassConstraint pairs a constrain expression with the permission subset of
// its containing class that it applies to.
type ClassConstraint struct {
	Permissions uint32
	Expr        ConstraintExpr
}

// DefaultBase enumerates the default_user/default_role/default_type
// selector: unset, or source/target.
type DefaultBase int

const (
	DefaultUnset DefaultBase = iota
	DefaultSource
	DefaultTarget
)

func (d DefaultBase) Keyword() (string, bool) {
	switch d {
	case DefaultSource:
		return "source", true
	case DefaultTarget:
		return "target", true
	default:
		return "", false
	}
}

// DefaultRangeRule enumerates the six default_range forms.
type DefaultRangeRule int

const (
	DefaultRangeUnset DefaultRangeRule = iota
	DefaultRangeSourceLow
	DefaultRangeSourceHigh
	DefaultRangeSourceLowHigh
	DefaultRangeTargetLow
	DefaultRangeTargetHigh
	DefaultRangeTargetLowHigh
)

func (d DefaultRangeRule) Keyword() (string, bool) {
	switch d {
	case DefaultRangeSourceLow:
		return "source low", true
	case DefaultRangeSourceHigh:
		return "source high", true
	case DefaultRangeSourceLowHigh:
		return "source low-high", true
	case DefaultRangeTargetLow:
		return "target low", true
	case DefaultRangeTargetHigh:
		return "target high", true
	case DefaultRangeTargetLowHigh:
		return "target low-high", true
	default:
		return "", false
	}
}

// CommonDatum is a common permission set classes can inherit from.
type CommonDatum struct {
	Name        string
	Permissions []string
}

// ClassDatum is one object class.
type ClassDatum struct {
	Name          string
	CommonName    string // "" if this class inherits no common
	Permissions   []string
	DefaultUser   DefaultBase
	DefaultRole   DefaultBase
	DefaultType   DefaultBase
	DefaultRange  DefaultRangeRule
	Constraints   []ClassConstraint
	Validatetrans []ConstraintExpr
}

// RoleFlavor distinguishes an ordinary role from a role attribute.
type RoleFlavor int

const (
	RoleFlavorRole RoleFlavor = iota
	RoleFlavorAttrib
)

// RoleDatum is one role or role attribute.
type RoleDatum struct {
	Name      string
	Flavor    RoleFlavor
	Types     *Bitmap // type set of the role or role attribute, emitted as roletype lines for both flavors
	Roles     *Bitmap // ATTRIB flavor: aggregated member roles (roleattributeset)
	Bounds    string  // rolebounds target, "" if none
	Dominates *Bitmap // cardinality > 1 is unsupported and dropped with a warning
}

// TypeFlavor distinguishes an ordinary type from a type attribute.
type TypeFlavor int

const (
	TypeFlavorType TypeFlavor = iota
	TypeFlavorAttrib
)

// TypeDatum is one type or type attribute.
type TypeDatum struct {
	Name       string
	Flavor     TypeFlavor
	Primary    bool   // TYPE flavor: true for the primary name, false for an alias
	ActualName string // alias: the primary type name it aliases
	Permissive bool
	Bounds     string  // typebounds source, "" if none
	Types      *Bitmap // ATTRIB flavor: member type bitmap (typeattributeset)
}

// CategorySpan is a low..high category range, or a single category when
// Low == High.
type CategorySpan struct{ Low, High int }

// MlsLevel is a sensitivity plus an ordered list of category spans, all
// still index-valued (as opposed to SemanticLevel, its name-resolved form).
type MlsLevel struct {
	SensIndex int // stored (one-based) sensitivity value, offset per context
	Cats      []CategorySpan
}

// MlsRange is a low/high MlsLevel pair.
type MlsRange struct{ Low, High MlsLevel }

// SemanticLevel is a name-resolved MlsLevel, ready for emission.
type SemanticLevel struct {
	Sens string
	Cats []string // already expanded atoms, e.g. "c0" or "c0.c3"
}

// UserDatum is one SELinux user.
type UserDatum struct {
	Name  string
	Roles *Bitmap
	Level MlsLevel
	Range MlsRange
}

// BoolDatum is one boolean or tunable.
type BoolDatum struct {
	Name    string
	Tunable bool
	State   bool
}

// SensDatum is one sensitivity or sensitivity alias.
type SensDatum struct {
	Name       string
	IsAlias    bool
	ActualName string
	Cats       *Bitmap
}

// CatDatum is one category or category alias.
type CatDatum struct {
	Name       string
	IsAlias    bool
	ActualName string
}

// RoleTransitionRule is a role_transition rule, expanded over roles x types
// x classes at lowering time.
type RoleTransitionRule struct {
	Roles   *Bitmap
	Types   *Bitmap
	Classes *Bitmap
	NewRole int // stored (one-based) role value
}

// RoleAllowRule is a role_allow rule, expanded over roles x new-roles.
type RoleAllowRule struct {
	Roles    *Bitmap
	NewRoles *Bitmap
}

// RangeTransitionRule is a range_transition rule, expanded over stypes x
// ttypes x tclasses.
type RangeTransitionRule struct {
	STypes   *Bitmap
	TTypes   *Bitmap
	TClasses *Bitmap
	NewRange MlsRange
}

// FileNameTransitionRule is a type_transition rule with a filename, expanded
// over stypes x ttypes.
type FileNameTransitionRule struct {
	STypes   *Bitmap
	TTypes   *Bitmap
	Class    int // stored (one-based) class value
	FileName string
	NewType  int // stored (one-based) type value
}

// BlockFlags carries the OPTIONAL marker on an AvRuleBlock.
type BlockFlags uint8

const BlockOptional BlockFlags = 1

// ScopeIndex is a per-decl bitmap-per-symbol-kind snapshot, plus a
// class-permissions bitmap array, used both to record what a decl declares
// or requires and to test the scope-subset predicate between nested
// optional blocks.
type ScopeIndex struct {
	Classes    *Bitmap
	Roles      *Bitmap
	Types      *Bitmap
	Users      *Bitmap
	Bools      *Bitmap
	Sens       *Bitmap
	Cats       *Bitmap
	ClassPerms []*Bitmap // indexed by class index (0-based)
}

func emptyScopeIndex() *ScopeIndex {
	return &ScopeIndex{
		Classes: NewBitmap(),
		Roles:   NewBitmap(),
		Types:   NewBitmap(),
		Users:   NewBitmap(),
		Bools:   NewBitmap(),
		Sens:    NewBitmap(),
		Cats:    NewBitmap(),
	}
}

// bitmapFor returns the per-kind bitmap for k, or nil for SymCommon (commons
// carry no scope of their own).
func (s *ScopeIndex) bitmapFor(k SymbolKind) *Bitmap {
	switch k {
	case SymClass:
		return s.Classes
	case SymRole:
		return s.Roles
	case SymType:
		return s.Types
	case SymUser:
		return s.Users
	case SymBool:
		return s.Bools
	case SymSens:
		return s.Sens
	case SymCat:
		return s.Cats
	default:
		return nil
	}
}

// Covers implements the scope-subset predicate of spec §4.11: every symbol
// bitmap of other must be covered by the matching bitmap of s, and s's
// ClassPerms must be at least as long as other's with bit-coverage on every
// paired entry.
func (s *ScopeIndex) Covers(other *ScopeIndex) bool {
	if other == nil {
		return true
	}
	for _, k := range []SymbolKind{SymClass, SymRole, SymType, SymUser, SymBool, SymSens, SymCat} {
		if !s.bitmapFor(k).Covers(other.bitmapFor(k)) {
			return false
		}
	}
	if len(s.ClassPerms) < len(other.ClassPerms) {
		return false
	}
	for i, want := range other.ClassPerms {
		if !s.ClassPerms[i].Covers(want) {
			return false
		}
	}
	return true
}

// AdditiveTables holds a decl's additive, per-kind symbol tables: role
// attribute additions, type attribute additions, and similarly-shaped
// incremental data, all lowered at ScopeReq.
type AdditiveTables struct {
	Roles map[string]*RoleDatum
	Types map[string]*TypeDatum
	Users map[string]*UserDatum
	Bools map[string]*BoolDatum
	Sens  map[string]*SensDatum
	Cats  map[string]*CatDatum
}

// AvRuleDecl is one alternative body of an AvRuleBlock.
type AvRuleDecl struct {
	DeclID              int
	Declared            *ScopeIndex
	Required            *ScopeIndex
	Additive            *AdditiveTables
	AvRules             []AvRule
	RoleTransitions     []RoleTransitionRule
	RoleAllows          []RoleAllowRule
	RangeTransitions    []RangeTransitionRule
	FileNameTransitions []FileNameTransitionRule
	Conditionals        []CondNode
}

// AvRuleBlock is one node of the global block tree. Flags carries the
// OPTIONAL marker; Decls holds the block's alternatives (the first is used,
// any others are unsupported "else" branches, dropped with a warning per
// spec §4.11).
type AvRuleBlock struct {
	Flags BlockFlags
	Decls []*AvRuleDecl
}

func (b *AvRuleBlock) IsOptional() bool { return b.Flags&BlockOptional != 0 }
