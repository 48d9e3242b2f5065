// Command tigerc runs the Tiger compiler front- and middle-end: parse,
// bind, type-check and lower to IR, stopping at the stage the flags select.
package main

import (
	goflag "flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/tigerlang/tigerc/internal/codegen"
	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/irgen"
	"github.com/tigerlang/tigerc/internal/semant"
	"github.com/tigerlang/tigerc/internal/syntax"
)

const version = "0.1.0-dev"

type options struct {
	emitAST  bool // dump the raw AST and stop
	bindOnly bool // stop after binding, dump the bound AST
	typeOnly bool // stop after type checking, dump the typed AST
	emitIR   bool // dump the IR module (the default)
	emitLL   bool // dump the IR module as LLVM assembly
	output   string
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:          "tigerc [flags] file.tig",
		Short:        "Tiger compiler front- and middle-end",
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], opts)
		},
	}

	flags := root.Flags()
	flags.BoolVar(&opts.emitAST, "emit-ast", false, "print the parsed AST and stop")
	flags.BoolVar(&opts.bindOnly, "bind", false, "stop after binding and print the bound AST")
	flags.BoolVar(&opts.typeOnly, "type", false, "stop after type checking and print the typed AST")
	flags.BoolVar(&opts.emitIR, "emit-ir", false, "print the IR module")
	flags.BoolVar(&opts.emitLL, "emit-ll", false, "print the IR module as LLVM assembly")
	flags.StringVarP(&opts.output, "output", "o", "", "write output to file instead of stdout")

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.Flags().AddGoFlagSet(klogFlags)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(filename string, opts *options) error {
	out := io.Writer(os.Stdout)
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer f.Close()
		out = f
	}
	return compile(filename, opts, out)
}

// compile runs the pipeline on filename, writing the selected stage's dump
// to out. Diagnostics go to stderr as they are reported.
func compile(filename string, opts *options, out io.Writer) error {
	src, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "opening input")
	}
	defer src.Close()

	diag := func(pos syntax.Pos, msg string) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", pos, msg)
	}

	start := time.Now()
	p := syntax.NewParser(filename, src, diag)
	root := p.Parse()
	if err := p.FirstError(); err != nil {
		return errors.Wrap(err, "parsing")
	}
	klog.V(1).Infof("parsed %s in %v", filename, time.Since(start))

	if opts.emitAST {
		syntax.Fprint(out, root)
		return nil
	}

	start = time.Now()
	main, err := semant.Bind(root, diag)
	if err != nil {
		return errors.Wrap(err, "binding")
	}
	klog.V(1).Infof("bound %s in %v", filename, time.Since(start))

	if opts.bindOnly {
		syntax.Fprint(out, main)
		return nil
	}

	start = time.Now()
	if err := semant.Check(main, diag); err != nil {
		return errors.Wrap(err, "type checking")
	}
	klog.V(1).Infof("type-checked %s in %v", filename, time.Since(start))

	if opts.typeOnly {
		syntax.Fprint(out, main)
		return nil
	}

	start = time.Now()
	mod, err := irgen.Generate(main)
	if err != nil {
		return errors.Wrap(err, "generating IR")
	}
	klog.V(1).Infof("lowered %s in %v", filename, time.Since(start))
	for _, f := range mod.Funcs {
		klog.V(2).Infof("func %s: %d blocks, %d values", f.Name, f.NumBlocks(), f.NumValues())
	}

	if opts.emitLL {
		return errors.Wrap(codegen.Generate(out, mod), "emitting LLVM")
	}

	ir.FprintModule(out, mod)
	return nil
}
