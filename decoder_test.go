package pp2cil

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDefaultPermissionDecoderWithCommon(t *testing.T) {
	commons := newSymbolTable[*CommonDatum](SymCommon)
	commons.Add("common_file", &CommonDatum{Name: "common_file", Permissions: []string{"read", "write"}})

	class := &ClassDatum{Name: "file", CommonName: "common_file", Permissions: []string{"ioctl"}}

	names, err := DefaultPermissionDecoder{}.PermissionNames(class, commons, 0b101)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "read" || names[1] != "ioctl" {
		t.Fatalf("got %v, want [read ioctl]", names)
	}
}

func TestDefaultPermissionDecoderUnknownCommon(t *testing.T) {
	commons := newSymbolTable[*CommonDatum](SymCommon)
	class := &ClassDatum{Name: "file", CommonName: "missing"}

	if _, err := (DefaultPermissionDecoder{}).PermissionNames(class, commons, 1); err == nil {
		t.Fatal("expected error for unknown common")
	}
}

func TestDefaultCapabilityNameLookup(t *testing.T) {
	name, err := DefaultCapabilityNameLookup{}.CapabilityName(1)
	if err != nil || name != "open_perms" {
		t.Fatalf("got %q, %v", name, err)
	}
	if _, err := (DefaultCapabilityNameLookup{}).CapabilityName(-1); err == nil {
		t.Fatal("expected error for negative id")
	}
}

func TestStubPolicyDecoderAlwaysFails(t *testing.T) {
	_, err := StubPolicyDecoder{}.Decode(strings.NewReader("anything"))
	if !errors.Is(err, ErrDecoderUnavailable) {
		t.Fatalf("got %v, want ErrDecoderUnavailable", err)
	}
}

func TestReadAllGrowsPastInitialBuffer(t *testing.T) {
	want := bytes.Repeat([]byte("x"), 300*1024)
	got, err := ReadAll(bytes.NewReader(want))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %d bytes, want %d", len(got), len(want))
	}
}
