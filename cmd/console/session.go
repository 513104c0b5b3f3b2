package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/markkurossi/tabulate"
	"go.uber.org/zap"

	"gosyrec/pkg/circuit"
	"gosyrec/pkg/config"
	"gosyrec/pkg/simulation"
	"gosyrec/pkg/synthesis"
	"gosyrec/pkg/utils"
)

// session holds the program buffer and the last compiled circuit.
type session struct {
	cfg    *config.Config
	cache  *synthesis.Cache
	logger *zap.Logger
	out    io.Writer
	style  tabulate.Style

	source strings.Builder
	result *synthesis.Result
	dirty  bool
}

func newSession(cfg *config.Config, logger *zap.Logger, out io.Writer) (*session, error) {
	cache, err := synthesis.NewCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		cache:  cache,
		logger: logger,
		out:    out,
		style:  synthesis.TableStyle(out),
	}, nil
}

// exec runs one line of input and reports whether the session is over.
func (s *session) exec(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		if trimmed != "" || s.source.Len() > 0 {
			s.source.WriteString(line)
			s.source.WriteByte('\n')
			s.dirty = true
		}
		return false
	}

	cmd, arg, _ := strings.Cut(trimmed[1:], " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "quit", "q", "exit":
		return true
	case "help", "h":
		fmt.Fprintln(s.out, help)
	case "load":
		s.load(arg)
	case "main":
		s.override(arg, "")
	case "strategy":
		s.override("", arg)
	case "sim":
		s.simulate(arg)
	case "stats":
		if s.compile() {
			synthesis.StatisticsTable(s.result, s.style).Print(s.out)
		}
	case "gates":
		if s.compile() {
			s.printGates()
		}
	case "lines":
		if s.compile() {
			synthesis.LinesTable(s.result.Circuit, s.style).Print(s.out)
		}
	case "source":
		fmt.Fprint(s.out, s.source.String())
	case "reset":
		s.source.Reset()
		s.result = nil
		s.dirty = false
	default:
		fmt.Fprintf(s.out, "unknown command :%s, :help lists the commands\n", cmd)
	}
	return false
}

func (s *session) load(path string) {
	if path == "" {
		fmt.Fprintln(s.out, "usage: :load FILE")
		return
	}
	src, fullPath, err := utils.ReadSource(path)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.source.Reset()
	s.source.WriteString(src)
	if !strings.HasSuffix(src, "\n") {
		s.source.WriteByte('\n')
	}
	s.dirty = true
	s.logger.Debug("loaded program", zap.String("path", fullPath), zap.Int("bytes", len(src)))
	s.compile()
}

func (s *session) override(mainModule, strategy string) {
	if mainModule == "" && strategy == "" {
		fmt.Fprintln(s.out, "missing argument")
		return
	}
	prev := s.cfg.Synthesis
	if err := s.cfg.Override(mainModule, strategy, ""); err != nil {
		s.cfg.Synthesis = prev
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.dirty = true
	if s.source.Len() > 0 {
		s.compile()
	}
}

// compile brings the result up to date with the buffer and settings.
func (s *session) compile() bool {
	if !s.dirty && s.result != nil {
		return true
	}
	if s.source.Len() == 0 {
		fmt.Fprintln(s.out, "the program buffer is empty")
		return false
	}
	synth, err := s.cfg.Synthesizer(s.logger)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return false
	}
	res, hit, err := s.cache.Compile(s.source.String(), s.cfg.ParserOptions(), synth)
	if err != nil {
		s.result = nil
		fmt.Fprintf(s.out, "error: %v\n", err)
		return false
	}
	s.result, s.dirty = res, false
	cached := ""
	if hit {
		cached = " (cached)"
	}
	fmt.Fprintf(s.out, "compiled %s with %s: %d lines, %d gates%s\n",
		res.MainModule.Name, res.Strategy, res.Statistics.Lines, res.Statistics.Gates, cached)
	return true
}

func (s *session) simulate(bits string) {
	if !s.compile() {
		return
	}
	input, err := simulation.FromString(bits)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	out, err := simulation.Simulate(s.result.Circuit, input)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, out.String())
}

func (s *session) printGates() {
	labels := s.result.Circuit.Labels()
	names := func(qs []circuit.Qubit) string {
		out := make([]string, len(qs))
		for i, q := range qs {
			out[i] = labels[q]
		}
		return strings.Join(out, " ")
	}
	for i, g := range s.result.Circuit.Gates {
		fmt.Fprintf(s.out, "%4d %-7s [%s] -> [%s]", i, g.Kind, names(g.Controls), names(g.Targets))
		if lno, ok := g.Annotations[circuit.LineNumberAnnotation]; ok {
			fmt.Fprintf(s.out, "  line %s", lno)
		}
		fmt.Fprintln(s.out)
	}
}
