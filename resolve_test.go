package pp2cil

import "testing"

func newTestDB() *PolicyDatabase {
	db := NewPolicyDatabase()
	db.Types.Add("alpha", &TypeDatum{Name: "alpha", Flavor: TypeFlavorType, Primary: true})
	db.Types.Add("beta", &TypeDatum{Name: "beta", Flavor: TypeFlavorType, Primary: true})
	db.Roles.Add("object_r", &RoleDatum{Name: "object_r", Flavor: RoleFlavorRole})
	return db
}

func TestResolverNameAt(t *testing.T) {
	db := newTestDB()
	r := NewResolver(db)

	name, err := r.NameAt(SymType, 1)
	if err != nil || name != "beta" {
		t.Fatalf("NameAt(SymType, 1) = %q, %v; want beta, nil", name, err)
	}

	if _, err := r.NameAt(SymType, 5); err == nil {
		t.Fatal("NameAt with out-of-range index should error")
	}
}

func TestResolverNameForValue(t *testing.T) {
	db := newTestDB()
	r := NewResolver(db)

	name, err := r.NameForValue(SymType, 1)
	if err != nil || name != "alpha" {
		t.Fatalf("NameForValue(SymType, 1) = %q, %v; want alpha, nil", name, err)
	}
}

func TestResolverNamesForBits(t *testing.T) {
	db := newTestDB()
	r := NewResolver(db)

	b := NewBitmap()
	b.Set(0)
	b.Set(1)
	names, err := r.NamesForBits(SymType, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("NamesForBits = %v, want [alpha beta]", names)
	}
}

func TestJoinNames(t *testing.T) {
	if got := JoinNames([]string{"a", "b", "c"}); got != "a b c" {
		t.Fatalf("JoinNames = %q, want %q", got, "a b c")
	}
	if got := JoinNames(nil); got != "" {
		t.Fatalf("JoinNames(nil) = %q, want empty", got)
	}
}
