// classscan reports where bytes of a character class occur in files.
//
// Usage:
//
//	classscan [-w auto|16|32|scalable] [-vl bytes] [-not] [-count] [-z] [-v] class [file ...]
//
// For each input (standard input when no file or "-" is given) it prints the
// offset of the first and last byte in the class, or outside it with -not.
// Inputs whose name ends in .zst, or every input with -z, are decompressed
// with zstd first.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/mtremer/vectorscan"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	width    vectorscan.Width
	vl       int
	not      bool
	count    bool
	zstd     bool
	verbose  bool
	class    string
	inputs   []string
	widthArg string
}

func parseWidth(s string) (vectorscan.Width, error) {
	switch s {
	case "auto", "":
		return vectorscan.WidthAuto, nil
	case "16":
		return vectorscan.Width16, nil
	case "32":
		return vectorscan.Width32, nil
	case "scalable":
		return vectorscan.WidthScalable, nil
	}
	return 0, fmt.Errorf("unknown width %q (want auto, 16, 32 or scalable)", s)
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var o options
	flags := flag.NewFlagSet("classscan", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&o.widthArg, "w", "auto", "kernel width: auto, 16, 32 or scalable")
	flags.IntVar(&o.vl, "vl", 0, "scalable vector length in bytes (0 = platform default)")
	flags.BoolVar(&o.not, "not", false, "report bytes outside the class")
	flags.BoolVar(&o.count, "count", false, "also print the number of matching bytes")
	flags.BoolVar(&o.zstd, "z", false, "decompress every input with zstd")
	flags.BoolVar(&o.verbose, "v", false, "log compile diagnostics to stderr")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return nil, fmt.Errorf("missing class argument")
	}
	w, err := parseWidth(o.widthArg)
	if err != nil {
		return nil, err
	}
	o.width = w
	o.class = flags.Arg(0)
	o.inputs = flags.Args()[1:]
	if len(o.inputs) == 0 {
		o.inputs = []string{"-"}
	}
	return &o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "classscan:", err)
		return 2
	}

	config := vectorscan.DefaultConfig()
	config.Width = o.width
	config.ScalableBytes = o.vl
	if o.verbose {
		config.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	acc, err := vectorscan.CompileWithConfig(o.class, config)
	if err != nil {
		fmt.Fprintln(stderr, "classscan:", err)
		return 2
	}

	out := bufio.NewWriter(stdout)
	status := 0
	for _, name := range o.inputs {
		buf, err := readInput(name, stdin, o.zstd)
		if err != nil {
			fmt.Fprintf(stderr, "classscan: %s: %s\n", name, err)
			status = 1
			continue
		}
		report(out, acc, o, name, buf)
	}
	if err := out.Flush(); err != nil {
		fmt.Fprintln(stderr, "classscan:", err)
		return 1
	}
	return status
}

func report(w io.Writer, acc *vectorscan.Accelerator, o *options, name string, buf []byte) {
	first, last := acc.Find(buf), acc.RFind(buf)
	if o.not {
		first, last = acc.FindNot(buf), acc.RFindNot(buf)
	}
	fmt.Fprintf(w, "%s: first=%d last=%d", name, first, last)
	if o.count {
		n := acc.Count(buf)
		if o.not {
			n = len(buf) - n
		}
		fmt.Fprintf(w, " count=%d", n)
	}
	fmt.Fprintln(w)
}

func readInput(name string, stdin io.Reader, forceZstd bool) ([]byte, error) {
	var r io.Reader = stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if forceZstd || strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}
	return io.ReadAll(r)
}
