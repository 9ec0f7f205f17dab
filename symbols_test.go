package pp2cil

import (
	"strings"
	"testing"
)

func newSymbolsTestDB() *PolicyDatabase {
	db := NewPolicyDatabase()
	db.Roles.Add("object_r", &RoleDatum{Name: "object_r", Flavor: RoleFlavorRole, Types: NewBitmap(), Roles: NewBitmap()})
	return db
}

func TestLowerClassEmitsPermissionsAndDefaults(t *testing.T) {
	db := newSymbolsTestDB()
	db.Classes.Add("file", &ClassDatum{
		Name:        "file",
		CommonName:  "common_file",
		Permissions: []string{"read", "write"},
		DefaultUser: DefaultSource,
	})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymClass, "file", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "(class file (read write))") {
		t.Fatalf("missing class decl: %q", out)
	}
	if !strings.Contains(out, "(classcommon file common_file)") {
		t.Fatalf("missing classcommon: %q", out)
	}
	if !strings.Contains(out, "(defaultuser file source)") {
		t.Fatalf("missing defaultuser: %q", out)
	}
}

func TestLowerClassSkippedAtReqScope(t *testing.T) {
	db := newSymbolsTestDB()
	db.Classes.Add("file", &ClassDatum{Name: "file", Permissions: []string{"read"}})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymClass, "file", ScopeReq, 0, false); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output at REQ scope, got %q", buf.String())
	}
}

func TestLowerRolePlainDecl(t *testing.T) {
	db := newSymbolsTestDB()
	db.PolicyType = PolicyModule
	types := NewBitmap()
	db.Roles.Add("staff_r", &RoleDatum{Name: "staff_r", Flavor: RoleFlavorRole, Types: types})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymRole, "staff_r", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "(role staff_r)\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestLowerTypePrimaryEmitsRoletype(t *testing.T) {
	db := newSymbolsTestDB()
	db.Types.Add("alpha", &TypeDatum{Name: "alpha", Flavor: TypeFlavorType, Primary: true})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymType, "alpha", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	want := "(type alpha)\n(roletype object_r alpha)\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestLowerTypeAlias(t *testing.T) {
	db := newSymbolsTestDB()
	db.Types.Add("alpha_alias", &TypeDatum{Name: "alpha_alias", Flavor: TypeFlavorType, Primary: false, ActualName: "alpha"})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymType, "alpha_alias", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	want := "(typealias alpha_alias)\n(typealiasactual alpha_alias alpha)\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestLowerUserNonMLS(t *testing.T) {
	db := newSymbolsTestDB()
	db.Users.Add("staff_u", &UserDatum{Name: "staff_u", Roles: NewBitmap()})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymUser, "staff_u", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "(userlevel staff_u (systemlow))") {
		t.Fatalf("missing userlevel: %q", out)
	}
	if !strings.Contains(out, "(userrange staff_u ((systemlow)(systemlow)))") {
		t.Fatalf("missing userrange: %q", out)
	}
}

func TestLowerUserMLSOffsets(t *testing.T) {
	db := newSymbolsTestDB()
	db.MLS = true
	db.Sens.Add("s0", &SensDatum{Name: "s0"})
	db.Users.Add("staff_u", &UserDatum{
		Name:  "staff_u",
		Roles: NewBitmap(),
		Level: MlsLevel{SensIndex: 1},
		Range: MlsRange{Low: MlsLevel{SensIndex: 1}, High: MlsLevel{SensIndex: 1}},
	})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymUser, "staff_u", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "(userlevel staff_u (s0))") {
		t.Fatalf("missing resolved userlevel: %q", out)
	}
	if !strings.Contains(out, "(userrange staff_u ((s0)(s0)))") {
		t.Fatalf("missing resolved userrange: %q", out)
	}
}

func TestLowerBoolTunable(t *testing.T) {
	db := newSymbolsTestDB()
	db.Bools.Add("allow_x", &BoolDatum{Name: "allow_x", Tunable: true, State: true})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymBool, "allow_x", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "(tunable allow_x true)\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestLowerSensWithCategories(t *testing.T) {
	db := newSymbolsTestDB()
	db.Cats.Add("c0", &CatDatum{Name: "c0"})
	cats := NewBitmap()
	cats.Set(0)
	db.Sens.Add("s0", &SensDatum{Name: "s0", Cats: cats})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymSens, "s0", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "(sensitivity s0)") || !strings.Contains(out, "(sensitivitycategory s0 (c0))") {
		t.Fatalf("got %q", out)
	}
}

func TestLowerCatAlias(t *testing.T) {
	db := newSymbolsTestDB()
	db.Cats.Add("c0_alias", &CatDatum{Name: "c0_alias", IsAlias: true, ActualName: "c0"})
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSymbol(SymCat, "c0_alias", ScopeDecl, 0, false); err != nil {
		t.Fatal(err)
	}
	want := "(categoryalias c0_alias)\n(categoryaliasactual c0_alias c0)\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
