//go:build !js

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gosyrec/pkg/config"
	"gosyrec/pkg/simulation"
	"gosyrec/pkg/synthesis"
	"gosyrec/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gosyrec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "", "SyReC source file")
	outPath := fs.String("out", "", "write the circuit to this .real file")
	write := fs.Bool("write", false, "write the circuit next to the input with a .real extension")
	mainModule := fs.String("main", "", "entry module (default: main, else the last module)")
	strategy := fs.String("strategy", "", "synthesis strategy: costAware or lineAware")
	truncation := fs.String("truncation", "", "constant truncation: bitwiseAnd or modulo")
	configPath := fs.String("config", "", "YAML configuration file")
	simulate := fs.String("simulate", "", "simulate the circuit on this input bit string (line 0 first)")
	stats := fs.Bool("stats", true, "print circuit statistics")
	lines := fs.Bool("lines", false, "print the circuit lines")
	debug := fs.Bool("debug", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *inPath == "" {
		fmt.Fprintln(stderr, "nothing to do: provide -in <program>")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := cfg.Override(*mainModule, *strategy, *truncation); err != nil {
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

	src, fullPath, err := utils.ReadSource(*inPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	synth, err := cfg.Synthesizer(logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	res, err := synthesis.CompileSource(src, cfg.ParserOptions(), synth)
	if err != nil {
		fmt.Fprintf(stderr, "compilation failed: %v\n", err)
		return 1
	}

	output := *outPath
	if output == "" && *write {
		output = utils.OutputPath(fullPath, ".real")
	}
	if output != "" {
		if err := writeReal(output, res); err != nil {
			fmt.Fprintf(stderr, "failed to write circuit %q: %v\n", output, err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %d gates on %d lines -> %s\n", res.Statistics.Gates, res.Statistics.Lines, output)
	}

	if *stats {
		synthesis.StatisticsTable(res, synthesis.TableStyle(stdout)).Print(stdout)
	}
	if *lines {
		synthesis.LinesTable(res.Circuit, synthesis.TableStyle(stdout)).Print(stdout)
	}

	if *simulate != "" {
		input, err := simulation.FromString(*simulate)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		out, err := simulation.Simulate(res.Circuit, input)
		if err != nil {
			fmt.Fprintf(stderr, "simulation failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%s -> %s\n", input, out)
	}
	return 0
}

func writeReal(path string, res *synthesis.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := res.Circuit.WriteReal(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
