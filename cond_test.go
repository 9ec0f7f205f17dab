package pp2cil

import (
	"strings"
	"testing"
)

func newCondTestDB() *PolicyDatabase {
	db := NewPolicyDatabase()
	db.Bools.Add("b1", &BoolDatum{Name: "b1", State: true})
	db.Bools.Add("b2", &BoolDatum{Name: "b2", State: false})
	db.Types.Add("alpha", &TypeDatum{Name: "alpha", Flavor: TypeFlavorType, Primary: true})
	db.Classes.Add("file", &ClassDatum{Name: "file", Permissions: []string{"read"}})
	return db
}

// TestConditionalAndExpr matches spec §8 scenario 3: "b1 b2 and" emits
// (booleanif (and (b1) (b2)) followed by an indented (true ...) block.
func TestConditionalAndExpr(t *testing.T) {
	db := newCondTestDB()
	ctx, buf := newTestContext(db)

	src := NewBitmap()
	src.Set(0)
	tgt := NewBitmap()
	tgt.Set(0)

	node := CondNode{
		Postfix: []CondAtom{
			{IsBoolRef: true, BoolIndex: 1},
			{IsBoolRef: true, BoolIndex: 2},
			{Op: CondAnd},
		},
		TrueRules: []AvRule{{
			Kind:     AvAllow,
			Source:   TypeSet{Positive: src},
			SelfFlag: true,
			Nodes:    []AvRuleNode{{ClassIndex: 1, Payload: AccessVectorMask{Bits: 1}}},
		}},
	}

	if err := ctx.LowerConditionals([]CondNode{node}, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "(booleanif (and (b1) (b2))\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "    (true\n") {
		t.Fatalf("missing indented true block: %q", out)
	}
	if !strings.Contains(out, "(allow alpha self (file (read)))") {
		t.Fatalf("missing true-branch rule: %q", out)
	}
}

func TestConditionalTunable(t *testing.T) {
	db := newCondTestDB()
	ctx, buf := newTestContext(db)

	node := CondNode{
		Postfix: []CondAtom{{IsBoolRef: true, BoolIndex: 1}},
		Flags:   CondTunable,
	}
	if err := ctx.LowerConditionals([]CondNode{node}, 0); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "(tunableif (b1)") {
		t.Fatalf("expected tunableif header, got %q", buf.String())
	}
}

func TestRewriteCondExprUnderflow(t *testing.T) {
	db := newCondTestDB()
	r := NewResolver(db)
	_, err := rewriteCondExpr(r, []CondAtom{{Op: CondAnd}})
	if err == nil {
		t.Fatal("expected stack underflow error")
	}
}
