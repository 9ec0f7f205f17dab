package pp2cil

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSidecarLevelWithCategories(t *testing.T) {
	lvl := parseSidecarLevel("s0:c0,c1")
	if lvl.Sens != "s0" || len(lvl.Cats) != 2 || lvl.Cats[0] != "c0" || lvl.Cats[1] != "c1" {
		t.Fatalf("got %+v", lvl)
	}
}

func TestParseSidecarRangeEmptyIsNonMLS(t *testing.T) {
	got := parseSidecarRange("")
	if got != "((systemlow)(systemlow))" {
		t.Fatalf("got %q", got)
	}
}

func TestParseSidecarRangeLowHigh(t *testing.T) {
	got := parseSidecarRange("s0-s0:c0")
	if got != "((s0)(s0 (c0)))" {
		t.Fatalf("got %q", got)
	}
}

func TestLowerFileContextsBasic(t *testing.T) {
	db := NewPolicyDatabase()
	db.FileContexts = "/etc/passwd --    system_u:object_r:etc_t:s0\n# comment\n\n"
	ctx, buf := newTestContext(db)

	if err := ctx.LowerFileContexts(0); err != nil {
		t.Fatal(err)
	}
	want := `(filecon "/etc/passwd" "" file (system_u object_r etc_t ((s0)(s0))))` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestLowerFileContextsNoneContext(t *testing.T) {
	db := NewPolicyDatabase()
	db.FileContexts = "/proc <<none>>\n"
	ctx, buf := newTestContext(db)

	if err := ctx.LowerFileContexts(0); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "()") {
		t.Fatalf("expected empty-context form, got %q", buf.String())
	}
}

func TestLowerSeusersDefault(t *testing.T) {
	db := NewPolicyDatabase()
	db.Seusers = "__default__:user_u:s0\nroot:root:s0-s0\n"
	ctx, buf := newTestContext(db)

	if err := ctx.LowerSeusers(0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "(selinuxuserdefault user_u ((s0)(s0)))") {
		t.Fatalf("missing default entry: %q", out)
	}
	if !strings.Contains(out, "(selinuxuser root root ((s0)(s0)))") {
		t.Fatalf("missing named entry: %q", out)
	}
}

func TestLowerUserExtra(t *testing.T) {
	db := NewPolicyDatabase()
	db.UserExtra = "user root prefix user;\n"
	ctx, buf := newTestContext(db)

	if err := ctx.LowerUserExtra(0); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "(userprefix root user)\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestLowerNetfilterContextsWarnsOnly(t *testing.T) {
	db := NewPolicyDatabase()
	db.NetfilterContexts = "some raw rule data"
	ctx, buf := newTestContext(db)

	ctx.LowerNetfilterContexts()
	if buf.Len() != 0 {
		t.Fatalf("netfilter_contexts must never emit output, got %q", buf.String())
	}
}

func TestLowerFileContextsMalformedLineIsFatal(t *testing.T) {
	db := NewPolicyDatabase()
	db.FileContexts = "onlyonefield\n"
	ctx, _ := newTestContext(db)

	err := ctx.LowerFileContexts(0)
	if !errors.Is(err, ErrInvalidSideCar) {
		t.Fatalf("got %v, want ErrInvalidSideCar", err)
	}
}
