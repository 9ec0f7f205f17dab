package pp2cil

import (
	"fmt"
	"strings"
)

// fileModeKeywords maps a file_contexts mode token to its target-language
// file-type keyword (spec §4.10).
var fileModeKeywords = map[string]string{
	"--": "file",
	"-d": "dir",
	"-c": "char",
	"-b": "block",
	"-s": "socket",
	"-p": "pipe",
	"-l": "symlink",
}

// sidecarLines trims each line, drops blanks and '#'-prefixed comments, and
// returns the rest in order (spec §4.10's shared line-oriented preamble).
func sidecarLines(blob string) []string {
	var out []string
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseSidecarLevel parses one raw "sens[:cats]" token, where cats is a
// comma-joined list of atoms (a bare category name or a "lo.hi" range), into
// a SemanticLevel. The sidecar format already carries names, not indices, so
// no resolver lookup applies here (spec §4.10).
func parseSidecarLevel(tok string) SemanticLevel {
	sens, catPart, hasCats := strings.Cut(tok, ":")
	lvl := SemanticLevel{Sens: sens}
	if hasCats && catPart != "" {
		lvl.Cats = strings.Split(catPart, ",")
	}
	return lvl
}

// parseSidecarRange parses a raw "low[-high]" range token into a rendered
// range form, or the non-MLS literal range if tok is empty.
func parseSidecarRange(tok string) string {
	if tok == "" {
		l := SemanticLevel{Sens: defaultLevelLiteral}
		return RenderRange(l, l)
	}
	low, high, ok := strings.Cut(tok, "-")
	if !ok {
		high = low
	}
	return RenderRange(parseSidecarLevel(low), parseSidecarLevel(high))
}

// LowerFileContexts parses and re-emits the file_contexts side-car (spec
// §4.10): one line is `<regex> [<mode>] <context>`. A malformed line is a
// fatal invalid-side-car-line error (spec §7), not a warn-and-skip: that
// recoverable class is reserved for fscon contexts, role dominance,
// optional else branches, and netfilter_contexts.
func (c *Context) LowerFileContexts(indent int) error {
	for _, line := range sidecarLines(c.DB.FileContexts) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("%w: file_contexts: malformed line %q", ErrInvalidSideCar, line)
		}
		regex := fields[0]
		rest := fields[1:]

		mode := "any"
		if kw, ok := fileModeKeywords[rest[0]]; ok {
			mode = kw
			rest = rest[1:]
		}
		if len(rest) != 1 {
			return fmt.Errorf("%w: file_contexts: malformed line %q", ErrInvalidSideCar, line)
		}
		ctxTok := rest[0]

		var ctx string
		if ctxTok == "<<none>>" {
			ctx = "()"
		} else {
			rendered, err := renderSidecarContext(ctxTok)
			if err != nil {
				return fmt.Errorf("file_contexts: line %q: %w", line, err)
			}
			ctx = rendered
		}
		out := fmt.Sprintf("(filecon %q \"\" %s %s)", regex, mode, ctx)
		if err := c.Emit.line(indent, out); err != nil {
			return err
		}
	}
	return nil
}

// LowerSeusers parses and re-emits the seusers side-car (spec §4.10): one
// line is `<linux-user>:<selinux-user>[:<mls-range>]`. A malformed line is a
// fatal invalid-side-car-line error (spec §7).
func (c *Context) LowerSeusers(indent int) error {
	for _, line := range sidecarLines(c.DB.Seusers) {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 2 {
			return fmt.Errorf("%w: seusers: malformed line %q", ErrInvalidSideCar, line)
		}
		linuxUser, seUser := parts[0], parts[1]
		rangeTok := ""
		if len(parts) == 3 {
			rangeTok = parts[2]
		}
		rng := parseSidecarRange(rangeTok)

		var out string
		if linuxUser == "__default__" {
			out = fmt.Sprintf("(selinuxuserdefault %s %s)", seUser, rng)
		} else {
			out = fmt.Sprintf("(selinuxuser %s %s %s)", linuxUser, seUser, rng)
		}
		if err := c.Emit.line(indent, out); err != nil {
			return err
		}
	}
	return nil
}

// LowerUserExtra parses and re-emits the user_extra side-car (spec §4.10):
// lines of form `user <name> prefix <p>;`. A malformed line is a fatal
// invalid-side-car-line error (spec §7).
func (c *Context) LowerUserExtra(indent int) error {
	for _, line := range sidecarLines(c.DB.UserExtra) {
		line = strings.TrimSuffix(line, ";")
		fields := strings.Fields(line)
		if len(fields) != 4 || fields[0] != "user" || fields[2] != "prefix" {
			return fmt.Errorf("%w: user_extra: malformed line %q", ErrInvalidSideCar, line)
		}
		out := fmt.Sprintf("(userprefix %s %s)", fields[1], fields[3])
		if err := c.Emit.line(indent, out); err != nil {
			return err
		}
	}
	return nil
}

// LowerNetfilterContexts implements the netfilter_contexts side-car (spec
// §4.10): any non-empty blob produces a warning and no output.
func (c *Context) LowerNetfilterContexts() {
	if strings.TrimSpace(c.DB.NetfilterContexts) != "" {
		c.Warnf("netfilter_contexts is unsupported, dropped")
	}
}

// renderSidecarContext parses a raw "u:r:t[:mls-range]" context token and
// renders it as "(<user> <role> <type> <range>)".
func renderSidecarContext(tok string) (string, error) {
	parts := strings.SplitN(tok, ":", 4)
	if len(parts) < 3 {
		return "", fmt.Errorf("%w: malformed context %q", ErrInvalidSideCar, tok)
	}
	rangeTok := ""
	if len(parts) == 4 {
		rangeTok = parts[3]
	}
	rng := parseSidecarRange(rangeTok)
	return fmt.Sprintf("(%s %s %s %s)", parts[0], parts[1], parts[2], rng), nil
}

// LowerSideCars runs all four text side-car lowerers in spec order.
func (c *Context) LowerSideCars(indent int) error {
	if err := c.LowerFileContexts(indent); err != nil {
		return err
	}
	if err := c.LowerSeusers(indent); err != nil {
		return err
	}
	if err := c.LowerUserExtra(indent); err != nil {
		return err
	}
	c.LowerNetfilterContexts()
	return nil
}
