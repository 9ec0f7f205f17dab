package pp2cil

import (
	"errors"
	"fmt"
	"io"
)

// PolicyDecoder is the external collaborator spec §1/§6 names as out of
// scope for this translator: given a byte source holding a serialized
// policy package, Decode returns a fully populated PolicyDatabase whose
// FileContexts/Seusers/UserExtra/NetfilterContexts fields carry the four
// embedded text side-cars, and Permissions returns the PermissionDecoder the
// translator uses with it.
// The translator core never parses the binary package itself; it only
// consumes what a PolicyDecoder hands back.
type PolicyDecoder interface {
	Decode(src io.Reader) (*PolicyDatabase, error)
	Permissions() PermissionDecoder
}

// PermissionDecoder turns a class's permission bitmask into the ordered list
// of permission names it represents, including any inherited from the
// class's common. This mirrors the teacher's decomposeAccessMask: walk the
// known bit positions in ascending order, and collect the names of the bits
// the mask has set.
type PermissionDecoder interface {
	PermissionNames(class *ClassDatum, commons *SymbolTable[*CommonDatum], mask uint32) ([]string, error)
}

// DefaultPermissionDecoder implements PermissionDecoder directly from the
// decoded ClassDatum/CommonDatum permission-name lists: a common's
// permissions occupy the low bit positions, followed by the class's own
// permissions, exactly as checkpolicy-family policy databases lay them out.
type DefaultPermissionDecoder struct{}

func (DefaultPermissionDecoder) PermissionNames(class *ClassDatum, commons *SymbolTable[*CommonDatum], mask uint32) ([]string, error) {
	if class == nil {
		return nil, fmt.Errorf("%w: nil class datum", ErrStructural)
	}
	var names []string
	bit := 0
	if class.CommonName != "" {
		common, ok := commons.Lookup(class.CommonName)
		if !ok {
			return nil, fmt.Errorf("%w: class %q inherits unknown common %q", ErrStructural, class.Name, class.CommonName)
		}
		for _, name := range common.Permissions {
			if mask&(1<<uint(bit)) != 0 {
				names = append(names, name)
			}
			bit++
		}
	}
	for _, name := range class.Permissions {
		if mask&(1<<uint(bit)) != 0 {
			names = append(names, name)
		}
		bit++
	}
	return names, nil
}

// CapabilityNameLookup resolves a policy-capability bit position to its
// symbolic name (spec §6). An unknown id is fatal.
type CapabilityNameLookup interface {
	CapabilityName(id int) (string, error)
}

// knownPolicyCaps is the fixed, real SELinux policy-capability name table,
// indexed by bit position, mirroring the teacher's wellKnownSids table.
var knownPolicyCaps = []string{
	"network_peer_controls",
	"open_perms",
	"extended_socket_class",
	"always_check_network",
	"cgroup_seclabel",
	"nnp_nosuid_transition",
	"genfs_seclabel_symlinks",
}

// DefaultCapabilityNameLookup implements CapabilityNameLookup against the
// fixed policy-capability table above.
type DefaultCapabilityNameLookup struct{}

func (DefaultCapabilityNameLookup) CapabilityName(id int) (string, error) {
	if id < 0 || id >= len(knownPolicyCaps) {
		return "", fmt.Errorf("%w: unknown policy capability id %d", ErrStructural, id)
	}
	return knownPolicyCaps[id], nil
}

// ErrDecoderUnavailable is returned by StubPolicyDecoder: binary policy
// module parsing is outside this translator's core (spec §1), so the stub
// exists only to keep cmd/pp2cil linkable and runnable against an injected
// real decoder.
var ErrDecoderUnavailable = errors.New("pp2cil: no PolicyDecoder configured; binary policy-module parsing is supplied externally")

// StubPolicyDecoder is the zero-value PolicyDecoder: it always fails with
// ErrDecoderUnavailable. cmd/pp2cil's package-level decoder variable holds
// this stub until a real PolicyDecoder is assigned in its place.
type StubPolicyDecoder struct{}

func (StubPolicyDecoder) Decode(io.Reader) (*PolicyDatabase, error) {
	return nil, ErrDecoderUnavailable
}

func (StubPolicyDecoder) Permissions() PermissionDecoder { return DefaultPermissionDecoder{} }

// ReadAll drains src into memory, starting with a 128 KiB buffer and
// doubling on fill, per spec §6's requirement for non-seekable sources
// (pipes, sockets). Seekable sources should be decoded directly from their
// file handle instead; see source_unix.go / source_windows.go for the
// seekability check this helper is paired with.
func ReadAll(src io.Reader) ([]byte, error) {
	buf := make([]byte, 0, 128*1024)
	for {
		if len(buf) == cap(buf) {
			grown := make([]byte, len(buf), cap(buf)*2)
			copy(grown, buf)
			buf = grown
		}
		n, err := src.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if err != nil {
			if err == io.EOF {
				return buf, nil
			}
			return nil, fmt.Errorf("%w: reading policy package: %v", ErrIO, err)
		}
	}
}
