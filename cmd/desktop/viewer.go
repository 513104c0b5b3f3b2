package main

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gosyrec/pkg/config"
	"gosyrec/pkg/grid"
	"gosyrec/pkg/simulation"
	"gosyrec/pkg/synthesis"
	"gosyrec/pkg/utils"
)

const (
	cellWidth  = 28
	cellHeight = 20
	charWidth  = 7
	// ticksPerGate paces the animation at 60 ticks per second.
	ticksPerGate = 15
)

// viewer is the state of the desktop window independent of drawing.
type viewer struct {
	cfg    *config.Config
	cache  *synthesis.Cache
	logger *zap.Logger

	path   string
	input  simulation.NBitValues
	result *synthesis.Result
	sim    *simulation.Simulator
	layout grid.Layout
	width  int

	running bool
	ticks   int
	status  string
}

func newViewer(cfg *config.Config, logger *zap.Logger, path string, input simulation.NBitValues) (*viewer, error) {
	cache, err := synthesis.NewCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	v := &viewer{cfg: cfg, cache: cache, logger: logger, path: path, input: input, width: 1024}
	if err := v.reload(); err != nil {
		return nil, err
	}
	return v, nil
}

// reload recompiles the program file. Unchanged sources come from the cache.
func (v *viewer) reload() error {
	src, _, err := utils.ReadSource(v.path)
	if err != nil {
		return err
	}
	synth, err := v.cfg.Synthesizer(v.logger)
	if err != nil {
		return err
	}
	res, hit, err := v.cache.Compile(src, v.cfg.ParserOptions(), synth)
	if err != nil {
		return err
	}
	dir := simulation.Forward
	if v.sim != nil {
		dir = v.sim.Direction
	}
	sim, err := simulation.NewSimulator(res.Circuit, v.input, dir)
	if err != nil {
		return err
	}
	v.result, v.sim = res, sim
	v.running = false
	v.relayout(v.width)
	v.logger.Info("circuit loaded",
		zap.String("path", v.path),
		zap.Int("lines", res.Statistics.Lines),
		zap.Int("gates", res.Statistics.Gates),
		zap.Bool("cached", hit))
	v.status = "loaded " + v.path
	return nil
}

func (v *viewer) relayout(width int) {
	v.width = width
	longest := 0
	for _, l := range v.result.Circuit.Lines {
		if len(l.Label) > longest {
			longest = len(l.Label)
		}
	}
	// label, '=' and the current bit
	labelWidth := (longest+3)*charWidth + 8
	v.layout = grid.Fit(v.result.Circuit.NumLines(), width, cellWidth, cellHeight, labelWidth)
}

// tick advances the animation by one frame.
func (v *viewer) tick() {
	if !v.running {
		return
	}
	v.ticks++
	if v.ticks < ticksPerGate {
		return
	}
	v.ticks = 0
	if !v.sim.Step() {
		v.running = false
		v.status = "done"
	}
}

func (v *viewer) toggleRun() {
	if v.sim.Done() {
		v.sim.Reset()
	}
	v.running = !v.running
	v.ticks = 0
}

func (v *viewer) step() {
	v.running = false
	v.sim.Step()
}

func (v *viewer) reset() {
	v.running = false
	v.sim.Reset()
	v.status = ""
}

// reverse restarts the simulation in the other direction from the
// current state, so stepping undoes the gates applied so far.
func (v *viewer) reverse() error {
	dir := simulation.Reverse
	if v.sim.Direction == simulation.Reverse {
		dir = simulation.Forward
	}
	sim, err := simulation.NewSimulator(v.result.Circuit, v.sim.State(), dir)
	if err != nil {
		return err
	}
	v.sim, v.running = sim, false
	return nil
}

func (v *viewer) snapshotPath() string {
	return utils.OutputPath(v.path, ".snapshot.yaml")
}

func (v *viewer) saveSnapshot() error {
	data, err := v.sim.MarshalSnapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(v.snapshotPath(), data, 0o644); err != nil {
		return errors.Wrap(err, "save snapshot")
	}
	v.status = "saved " + v.snapshotPath()
	return nil
}

func (v *viewer) restoreSnapshot() error {
	data, err := os.ReadFile(v.snapshotPath())
	if err != nil {
		return errors.Wrap(err, "restore snapshot")
	}
	if err := v.sim.RestoreSnapshot(data); err != nil {
		return err
	}
	v.running = false
	v.status = "restored " + v.snapshotPath()
	return nil
}
