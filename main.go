package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lookbusy1344/mips-toolchain/assembler"
	"github.com/lookbusy1344/mips-toolchain/config"
	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/loader"
	"github.com/lookbusy1344/mips-toolchain/parser"
	"github.com/lookbusy1344/mips-toolchain/vm"
)

// Version information; can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion  = flag.Bool("version", false, "Show version information")
		assembleOnly = flag.Bool("assemble-only", false, "Assemble only; do not execute")
		maxCycles    = flag.Uint64("max-cycles", 0, "Maximum CPU cycles before halt (0 = use config default)")
		stackSize    = flag.Uint("stack-size", 0, "Stack size in bytes (0 = use config default)")
		entryFlag    = flag.String("entry", "", "Entry point symbol or address override (default: _start/main/text base)")
		configPath   = flag.String("config", "", "Path to a TOML config file (default: platform config dir)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file.s [file2.s ...]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("mips-toolchain %s (%s)\n", Version, Commit)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	obj, err := assembleFiles(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *assembleOnly {
		return
	}

	cycles := cfg.Execution.MaxCycles
	if *maxCycles != 0 {
		cycles = *maxCycles
	}
	stack := uint32(cfg.Execution.StackSize)
	if *stackSize != 0 {
		stack = uint32(*stackSize)
	}

	const defaultHeapSize = 1 << 20 // 1 MiB growth region above .data
	m, err := loader.Load(obj, defaultHeapSize, stack)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *entryFlag != "" {
		entry, err := resolveEntryOverride(obj, *entryFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		m.CPU.PC = entry
	}

	reason, kind := m.Run(cycles)
	if reason == vm.StopUnhandledException {
		reportException(obj, m, kind)
		os.Exit(1)
	}
	if reason == vm.StopCycleLimit {
		fmt.Fprintf(os.Stderr, "stopped: %s\n", reason)
		os.Exit(1)
	}
	os.Exit(m.ExitCode)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// assembleFiles runs the full lex/preprocess/parse/assemble pipeline
// over each file, in order, sharing one Session and one assembled
// Object so later files see earlier ones' labels (a simple whole-
// program model; there is no external linker in scope).
func assembleFiles(paths []string) (*assembler.Object, error) {
	sess := parser.NewSession()
	var allNodes []parser.Node
	errs := &parser.ErrorList{}

	for _, path := range paths {
		src, err := os.ReadFile(path) // #nosec G304 -- CLI argument, user-controlled by design
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		span := sess.AddSource(path, "", string(src))

		lx := parser.NewLexer(string(src), span.Start)
		toks := lx.TokenizeAll()
		errs.Merge(lx.Errors())

		pp := parser.NewPreprocessor(sess, errs)
		toks = pp.Process(toks, dirOf(path), path)

		p := parser.NewParser(toks, errs)
		allNodes = append(allNodes, p.Parse()...)
	}

	obj, aerrs := assembler.Assemble(sess, allNodes)
	errs.Merge(aerrs)
	errs.Resolve(sess)

	if errs.HasErrors() {
		for _, e := range errs.Errors {
			fmt.Fprint(os.Stderr, e.Error())
		}
		return nil, fmt.Errorf("assembly failed with %d error(s)", len(errs.Errors))
	}
	for _, w := range errs.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}
	return obj, nil
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func resolveEntryOverride(obj *assembler.Object, spec string) (uint32, error) {
	if sym, ok := obj.Symbols.Lookup(spec); ok && sym.Defined {
		return sym.Value, nil
	}
	var addr uint32
	if _, err := fmt.Sscanf(spec, "0x%x", &addr); err == nil {
		return addr, nil
	}
	if _, err := fmt.Sscanf(spec, "%d", &addr); err == nil {
		return addr, nil
	}
	return 0, fmt.Errorf("unknown entry point %q: not a defined symbol, hex, or decimal address", spec)
}

// reportException prints a diagnostic tied to a line-info lookup (main
// exits non-zero after it), per the runtime-exception error stratum (spec §7): every
// exception besides Syscall reaches here since Step/Run already
// recovers Syscall transparently.
func reportException(obj *assembler.Object, m *vm.Machine, kind isa.ExceptionKind) {
	pc := m.PC()
	for _, line := range obj.Lines {
		if pc >= line.StartAddr && pc < line.EndAddr {
			fmt.Fprintf(os.Stderr, "runtime exception: %s at 0x%08X (line %d: %s)\n", kind, pc, line.LineNumber, line.Text)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "runtime exception: %s at 0x%08X\n", kind, pc)
}
