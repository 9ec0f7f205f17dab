//go:build windows

package pp2cil

import (
	"fmt"
	"os"
)

// IsSeekableSource reports whether f is a regular, seekable file rather than
// a pipe or socket. Windows named pipes and sockets never present as *os.File
// here in a way the stdlib distinguishes cheaply, so this conservatively
// reports via os.FileInfo.Mode(), matching what os.Stdin/os.Stdout report
// when redirected from/to a pipe.
func IsSeekableSource(f *os.File) (bool, error) {
	fi, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("%w: stat: %v", ErrIO, err)
	}
	return fi.Mode()&(os.ModeNamedPipe|os.ModeSocket) == 0, nil
}
