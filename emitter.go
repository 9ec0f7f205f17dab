package pp2cil

import (
	"fmt"
	"io"
	"strings"
)

// indentWidth is the number of spaces per indent level, per spec §4.1.
const indentWidth = 4

// Emitter writes the target prefix-form language to a sink, one top-level
// form per line (spec §6), synchronously and without buffering state beyond
// the sink itself. Any write failure is immediately fatal: the Emitter
// reports it wrapped in ErrIO and the caller aborts the whole translation.
type Emitter struct {
	w io.Writer
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// indent returns n indent levels worth of leading spaces.
func (e *Emitter) indent(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n*indentWidth)
}

// write emits text verbatim, with no trailing newline.
func (e *Emitter) write(text string) error {
	if _, err := io.WriteString(e.w, text); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// line emits text indented n levels, terminated by a newline. This is the
// primary entry point lowerers use to emit one top-level (or nested) form.
func (e *Emitter) line(n int, text string) error {
	if err := e.write(e.indent(n)); err != nil {
		return err
	}
	if err := e.write(text); err != nil {
		return err
	}
	return e.write("\n")
}
