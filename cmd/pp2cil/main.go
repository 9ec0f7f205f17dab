package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/artyom-smirnov/pp2cil"
)

// decoder is the PolicyDecoder this binary is wired against. Binary policy
// module parsing is out of scope for the translator core (spec §1); swap
// this for a real PolicyDecoder to ship a working end-to-end build.
var decoder pp2cil.PolicyDecoder = pp2cil.StubPolicyDecoder{}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-h] [IN [OUT]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	signal.Ignore(syscall.SIGPIPE)

	args := flag.Args()
	var inArg, outArg string
	if len(args) > 0 {
		inArg = args[0]
	}
	if len(args) > 1 {
		outArg = args[1]
	}

	if err := run(inArg, outArg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(inArg, outArg string) error {
	in := os.Stdin
	if inArg != "" && inArg != "-" {
		f, err := os.Open(inArg)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	createdOutput := false
	outPath := outArg
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("opening output: %w", err)
		}
		defer f.Close()
		out = f
		createdOutput = true
	}

	if err := translateStream(in, out); err != nil {
		if createdOutput {
			out.Close()
			os.Remove(outPath)
		}
		return err
	}
	return nil
}

// translateStream decodes src into a PolicyDatabase, buffering it in memory
// first when src is a non-seekable pipe or socket (spec §6), then runs the
// full translation against dst.
func translateStream(src *os.File, dst *os.File) error {
	seekable, err := pp2cil.IsSeekableSource(src)
	if err != nil {
		return fmt.Errorf("%w: %v", pp2cil.ErrIO, err)
	}

	db, err := decodeSource(src, seekable)
	if err != nil {
		return err
	}

	emit := pp2cil.NewEmitter(dst)
	moduleName := pp2cil.SanitizeModuleName(db.ModuleName)
	ctx := pp2cil.NewContext(db, emit, moduleName, decoder.Permissions(), pp2cil.DefaultCapabilityNameLookup{}, os.Stderr)
	return pp2cil.Translate(ctx)
}

func decodeSource(src *os.File, seekable bool) (*pp2cil.PolicyDatabase, error) {
	if seekable {
		return decoder.Decode(src)
	}
	buf, err := pp2cil.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return decoder.Decode(bytes.NewReader(buf))
}
