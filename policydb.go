package pp2cil

// PolicyType distinguishes a base module (which owns the global prelude)
// from an ordinary loadable module.
type PolicyType int

const (
	PolicyBase PolicyType = iota
	PolicyModule
)

// HandleUnknownMode is the policy's handling of unknown permissions.
type HandleUnknownMode int

const (
	HandleDeny HandleUnknownMode = iota
	HandleReject
	HandleAllow
)

func (h HandleUnknownMode) Keyword() (string, bool) {
	switch h {
	case HandleDeny:
		return "deny", true
	case HandleReject:
		return "reject", true
	case HandleAllow:
		return "allow", true
	default:
		return "", false
	}
}

// scopeKey identifies a name within one symbol kind, the key ScopeData is
// indexed by.
type scopeKey struct {
	Kind SymbolKind
	Name string
}

// PolicyDatabase is the fully decoded, read-only policy database a
// PolicyDecoder hands to the translator. Every field here is populated
// once, consumed once by Translate, and never mutated by the core (spec
// §3's lifecycle invariant).
type PolicyDatabase struct {
	ModuleName    string // raw name as decoded; "" for a base module, per spec §6
	PolicyType    PolicyType
	MLS           bool
	HandleUnknown HandleUnknownMode
	Platform      Platform
	PolicyCaps    *Bitmap

	Commons *SymbolTable[*CommonDatum]
	Classes *SymbolTable[*ClassDatum]
	Roles   *SymbolTable[*RoleDatum]
	Types   *SymbolTable[*TypeDatum]
	Users   *SymbolTable[*UserDatum]
	Bools   *SymbolTable[*BoolDatum]
	Sens    *SymbolTable[*SensDatum]
	Cats    *SymbolTable[*CatDatum]

	ScopeData map[scopeKey]*ScopeDatum

	GlobalBlocks []*AvRuleBlock

	InitialSids []OContext // source order, SELinux or Xen depending on Platform
	Filesystems []OContext // legacy "filesystems" slot, unsupported, warn-only
	Ports       []OContext
	Netifs      []OContext
	NodesV4     []OContext
	NodesV6     []OContext
	FsUses      []OContext
	Genfs       []GenfsEntry

	XenPirqs       []OContext
	XenIoports     []OContext
	XenIomems      []OContext
	XenPciDevices  []OContext

	FileContexts       string
	Seusers            string
	UserExtra          string
	NetfilterContexts  string
}

// NewPolicyDatabase returns an empty, fully initialized PolicyDatabase ready
// for a decoder to populate.
func NewPolicyDatabase() *PolicyDatabase {
	return &PolicyDatabase{
		PolicyCaps: NewBitmap(),
		Commons:    newSymbolTable[*CommonDatum](SymCommon),
		Classes:    newSymbolTable[*ClassDatum](SymClass),
		Roles:      newSymbolTable[*RoleDatum](SymRole),
		Types:      newSymbolTable[*TypeDatum](SymType),
		Users:      newSymbolTable[*UserDatum](SymUser),
		Bools:      newSymbolTable[*BoolDatum](SymBool),
		Sens:       newSymbolTable[*SensDatum](SymSens),
		Cats:       newSymbolTable[*CatDatum](SymCat),
		ScopeData:  make(map[scopeKey]*ScopeDatum),
	}
}

// ScopeOf returns the scope metadata recorded for name within kind, if any.
func (db *PolicyDatabase) ScopeOf(kind SymbolKind, name string) (*ScopeDatum, bool) {
	sd, ok := db.ScopeData[scopeKey{Kind: kind, Name: name}]
	return sd, ok
}

// SetScope records scope metadata for name within kind.
func (db *PolicyDatabase) SetScope(kind SymbolKind, name string, sd *ScopeDatum) {
	db.ScopeData[scopeKey{Kind: kind, Name: name}] = sd
}
