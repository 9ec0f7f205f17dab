package pp2cil

import "errors"

// Fatal error classes, per spec §7. Every lowering routine that detects one
// of these wraps it with fmt.Errorf("...: %w", ErrX) so callers can test
// with errors.Is without parsing message text — the same pattern the
// teacher uses for ErrInvalidSIDFormat and friends.
var (
	// ErrIO marks a read or write failure against the input source or the
	// output sink. Always fatal.
	ErrIO = errors.New("i/o error")

	// ErrStructural marks a malformed conditional/constraint expression, an
	// unknown enum tag, or any other internal inconsistency the spec treats
	// as a structural error. Always fatal.
	ErrStructural = errors.New("structural error")

	// ErrInvalidSideCar marks a malformed file_contexts, seusers, or
	// user_extra line. Always fatal.
	ErrInvalidSideCar = errors.New("invalid side-car line")

	// ErrAllocation marks an allocation failure, such as the synthesized
	// attribute-name counter overflowing. Always fatal in practice this
	// never triggers in Go (allocation failure is a runtime panic, not an
	// error value), but the sentinel exists so the counter-overflow check
	// in NextAttrID (context.go) has somewhere to point.
	ErrAllocation = errors.New("allocation failure")
)

// Warner receives one-line, unsupported-but-recoverable diagnostics (spec
// §7): SELinux fscon contexts, role dominance, optional else branches, and
// non-empty netfilter_contexts. These never abort the run.
type Warner interface {
	Warnf(format string, args ...any)
}
