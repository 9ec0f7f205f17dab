package pp2cil

import (
	"strings"
	"testing"
)

func newWalkerTestDB() *PolicyDatabase {
	db := NewPolicyDatabase()
	db.Roles.Add("object_r", &RoleDatum{Name: "object_r", Flavor: RoleFlavorRole, Types: NewBitmap(), Roles: NewBitmap()})
	db.Types.Add("alpha_alias", &TypeDatum{Name: "alpha_alias", Flavor: TypeFlavorType, Primary: false, ActualName: "alpha"})
	db.Commons.Add("common_file", &CommonDatum{Name: "common_file", Permissions: []string{"read"}})
	return db
}

func TestWalkGlobalPreludeEmittedOnce(t *testing.T) {
	db := newWalkerTestDB()
	db.Types.Add("t1", &TypeDatum{Name: "t1", Flavor: TypeFlavorType, Primary: true})
	db.SetScope(SymType, "t1", &ScopeDatum{Scope: ScopeDecl, DeclIDs: []int{1}})
	ctx, buf := newTestContext(db)

	declared := emptyScopeIndex()
	declared.Types.Set(1) // t1; index 0 is alpha_alias
	decl := &AvRuleDecl{DeclID: 1, Declared: declared, Required: emptyScopeIndex()}
	block := &AvRuleBlock{Decls: []*AvRuleDecl{decl}}

	if err := ctx.Walk([]*AvRuleBlock{block}, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "(typealias alpha_alias)") != 1 {
		t.Fatalf("global prelude should emit exactly once, got %q", out)
	}
	if !strings.Contains(out, "(common common_file (read))") {
		t.Fatalf("missing common decl: %q", out)
	}
}

func TestWalkOptionalBlockOpensAndCloses(t *testing.T) {
	db := newWalkerTestDB()
	db.Bools.Add("b1", &BoolDatum{Name: "b1"})
	ctx, buf := newTestContext(db)

	required := emptyScopeIndex()
	required.Bools.Set(0)
	decl := &AvRuleDecl{DeclID: 7, Declared: emptyScopeIndex(), Required: required}
	block := &AvRuleBlock{Flags: BlockOptional, Decls: []*AvRuleDecl{decl}}

	if err := ctx.Walk([]*AvRuleBlock{block}, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "(optional base_optional_7") {
		t.Fatalf("missing optional header: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[len(lines)-1] != ")" {
		t.Fatalf("expected closing paren on last line, got %q", out)
	}
}

func TestWalkDropsMultiDeclBlockWithWarning(t *testing.T) {
	db := newWalkerTestDB()
	ctx, _ := newTestContext(db)

	decl1 := &AvRuleDecl{DeclID: 1, Declared: emptyScopeIndex(), Required: emptyScopeIndex()}
	decl2 := &AvRuleDecl{DeclID: 2, Declared: emptyScopeIndex(), Required: emptyScopeIndex()}
	block := &AvRuleBlock{Decls: []*AvRuleDecl{decl1, decl2}}

	if err := ctx.Walk([]*AvRuleBlock{block}, 0); err != nil {
		t.Fatal(err)
	}
}

func TestLowerAdditiveScopesSortedOrder(t *testing.T) {
	db := newWalkerTestDB()
	db.Types.Add("t1", &TypeDatum{Name: "t1", Flavor: TypeFlavorType, Primary: true})
	roleTypes := NewBitmap()
	roleTypes.Set(1) // t1
	// Roles, unlike bools, still emit roletype lines at REQ scope, so the
	// additive pass's order is visible in the output.
	db.Roles.Add("zeta_r", &RoleDatum{Name: "zeta_r", Flavor: RoleFlavorRole, Types: roleTypes})
	db.Roles.Add("alpha_r", &RoleDatum{Name: "alpha_r", Flavor: RoleFlavorRole, Types: roleTypes})
	ctx, buf := newTestContext(db)

	decl := &AvRuleDecl{
		Additive: &AdditiveTables{
			Roles: map[string]*RoleDatum{
				"zeta_r":  {Name: "zeta_r"},
				"alpha_r": {Name: "alpha_r"},
			},
		},
	}
	if err := ctx.lowerAdditiveScopes(decl, 0, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	alphaAt, zetaAt := strings.Index(out, "(roletype alpha_r t1)"), strings.Index(out, "(roletype zeta_r t1)")
	if alphaAt < 0 || zetaAt < 0 || alphaAt > zetaAt {
		t.Fatalf("expected sorted (alpha_r before zeta_r) order, got %q", out)
	}
}
