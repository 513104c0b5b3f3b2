// Command console is an interactive shell for writing, compiling and
// simulating SyReC programs.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"gosyrec/pkg/config"
)

const (
	historyFile = ".gosyrec_history"
	prompt      = "syrec> "
	promptCont  = "  ...> "
)

const help = `lines without a leading ':' are appended to the program buffer
  :load FILE       replace the buffer with FILE
  :main ID         select the entry module
  :strategy NAME   costAware or lineAware
  :sim BITS        simulate the circuit (line 0 first)
  :stats           circuit statistics
  :gates           list the gates
  :lines           list the circuit lines
  :source          print the buffer
  :reset           clear the buffer
  :quit            leave the console`

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, closer, err := cfg.CreateLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	defer logger.Sync()

	s, err := newSession(cfg, logger, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if flag.NArg() > 0 {
		s.exec(":load " + flag.Arg(0))
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		interactive(s)
		return
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if s.exec(scanner.Text()) {
			return
		}
	}
}

func interactive(s *session) {
	fmt.Println("gosyrec console, :help for commands")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		p := prompt
		if s.source.Len() > 0 {
			p = promptCont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			fmt.Println()
			return
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if s.exec(line) {
			return
		}
	}
}
