package pp2cil

import (
	"bytes"
	"strings"
	"testing"
)

func newTestContext(db *PolicyDatabase) (*Context, *bytes.Buffer) {
	var buf bytes.Buffer
	emit := NewEmitter(&buf)
	ctx := NewContext(db, emit, "base", DefaultPermissionDecoder{}, DefaultCapabilityNameLookup{}, nil)
	return ctx, &buf
}

func TestExpandTypeSetPlainPositive(t *testing.T) {
	db := newTestDB()
	ctx, buf := newTestContext(db)

	pos := NewBitmap()
	pos.Set(0)
	pos.Set(1)
	names, err := ctx.ExpandTypeSet(TypeSet{Positive: pos}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("names = %v, want [alpha beta]", names)
	}
	if buf.Len() != 0 {
		t.Fatalf("plain positive set should synthesize no attribute, got output %q", buf.String())
	}
}

func TestExpandTypeSetSynthesizesAttribute(t *testing.T) {
	db := newTestDB()
	ctx, buf := newTestContext(db)

	pos := NewBitmap()
	pos.Set(0)
	neg := NewBitmap()
	neg.Set(1)

	names, err := ctx.ExpandTypeSet(TypeSet{Positive: pos, Negative: neg}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "base_typeattr_1" {
		t.Fatalf("names = %v, want one synthesized attribute", names)
	}
	out := buf.String()
	if !strings.Contains(out, "(typeattribute base_typeattr_1)") {
		t.Fatalf("missing typeattribute declaration in %q", out)
	}
	if !strings.Contains(out, "(typeattributeset base_typeattr_1 (and (alpha) (not (beta))))") {
		t.Fatalf("unexpected attributeset body in %q", out)
	}
}

func TestAttributeSetBodyStarAndComp(t *testing.T) {
	db := newTestDB()
	ctx, buf := newTestContext(db)

	names, err := ctx.ExpandTypeSet(TypeSet{Flags: SetStar | SetComp}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Fatalf("names = %v, want one synthesized attribute", names)
	}
	out := buf.String()
	if !strings.Contains(out, "(typeattributeset base_typeattr_1 (not (all)))") {
		t.Fatalf("STAR+COMP should short-circuit to (not (all)), got %q", out)
	}
}

func TestExpandRoleSetNeverCarriesNegative(t *testing.T) {
	db := newTestDB()
	ctx, _ := newTestContext(db)

	pos := NewBitmap()
	pos.Set(0)
	names, err := ctx.ExpandRoleSet(RoleSet{Positive: pos, Flags: SetComp}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "base_roleattr_1" {
		t.Fatalf("names = %v, want synthesized role attribute", names)
	}
}
