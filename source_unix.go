//go:build !windows

package pp2cil

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// IsSeekableSource reports whether f is a regular, seekable file rather than
// a pipe or socket. The CLI wrapper (out of scope for this package, per
// spec §1) uses this to decide whether it may hand the core a file handle
// directly or must first buffer the source with ReadAll, per spec §6.
//
// This mirrors the teacher's platform-dispatch pattern (cmd/sddl's
// _windows.go / _linux.go pair calling into native OS facilities) but
// repoints it at golang.org/x/sys/unix.Fstat, the one place this spec's CLI
// surface needs OS-level plumbing.
func IsSeekableSource(f *os.File) (bool, error) {
	var stat unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &stat); err != nil {
		return false, fmt.Errorf("%w: fstat: %v", ErrIO, err)
	}
	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFIFO, unix.S_IFSOCK:
		return false, nil
	default:
		return true, nil
	}
}
