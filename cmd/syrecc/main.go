// Command syrecc compiles SyReC programs to RevLib .real circuits, one
// output file next to every input.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"gosyrec/pkg/config"
	"gosyrec/pkg/synthesis"
	"gosyrec/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("syrecc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	strategy := fs.String("strategy", "", "synthesis strategy: costAware or lineAware")
	mainModule := fs.String("main", "", "entry module of every program")
	debug := fs.Bool("debug", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: syrecc [flags] prog.src...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := cfg.Override(*mainModule, *strategy, ""); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	logger, closer, err := cfg.CreateLogger(*debug)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closer.Close()
	defer logger.Sync()

	synth, err := cfg.Synthesizer(logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	failed := 0
	for _, in := range fs.Args() {
		out, res, err := compileFile(in, cfg, synth)
		if err != nil {
			logger.Error("compilation failed", zap.String("file", in), zap.Error(err))
			fmt.Fprintf(stderr, "%s: %v\n", in, err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "%s -> %s (%d lines, %d gates, quantum cost %d)\n",
			in, out, res.Statistics.Lines, res.Statistics.Gates, res.Statistics.QuantumCost)
	}
	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d programs failed\n", failed, fs.NArg())
		return 1
	}
	return 0
}

func compileFile(in string, cfg *config.Config, synth *synthesis.Synthesizer) (string, *synthesis.Result, error) {
	src, fullPath, err := utils.ReadSource(in)
	if err != nil {
		return "", nil, err
	}
	res, err := synthesis.CompileSource(src, cfg.ParserOptions(), synth)
	if err != nil {
		return "", nil, err
	}
	out := utils.OutputPath(fullPath, ".real")
	f, err := os.Create(out)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	if err := res.Circuit.WriteReal(f); err != nil {
		return "", nil, err
	}
	return out, res, nil
}
