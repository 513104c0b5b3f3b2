// Command desktop shows a compiled circuit and animates its simulation
// gate by gate.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"gosyrec/pkg/circuit"
	"gosyrec/pkg/config"
	"gosyrec/pkg/simulation"
)

var (
	background = color.RGBA{0x1e, 0x1e, 0x24, 0xff}
	wire       = color.RGBA{0x80, 0x80, 0x90, 0xff}
	wireHigh   = color.RGBA{0x60, 0xd0, 0x80, 0xff}
	gateColor  = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	nextColor  = color.RGBA{0xff, 0xb0, 0x30, 0xff}
	garbageCol = color.RGBA{0xc0, 0x60, 0x60, 0xff}
)

type Game struct {
	v      *viewer
	face   *text.GoXFace
	scroll int
}

func (g *Game) Update() error {
	v := g.v
	var err error
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.toggleRun()
	case inpututil.IsKeyJustPressed(ebiten.KeyN), inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		v.step()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		err = v.reverse()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		err = v.reload()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		err = v.saveSnapshot()
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		err = v.restoreSnapshot()
	}
	if err != nil {
		v.status = err.Error()
	}

	_, dy := ebiten.Wheel()
	g.scroll -= int(dy * cellHeight)
	if g.scroll < 0 {
		g.scroll = 0
	}

	v.tick()
	return nil
}

func (g *Game) label(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	v := g.v
	c := v.result.Circuit
	l := v.layout
	state := v.sim.State()
	gates := c.NumGates()
	w, _ := l.Size(gates)
	top := float32(-g.scroll)

	for band := 0; band < l.Bands(gates); band++ {
		for i, line := range c.Lines {
			y := float32(l.LineY(band, i)) + top
			clr := wire
			if state.Get(i) {
				clr = wireHigh
			}
			vector.StrokeLine(screen, float32(l.LabelWidth), y, float32(w), y, 1, clr, false)
			bit := 0
			if state.Get(i) {
				bit = 1
			}
			labelColor := color.Color(gateColor)
			if line.Garbage {
				labelColor = garbageCol
			}
			g.label(screen, fmt.Sprintf("%s=%d", line.Label, bit), 4, float64(y)-7, labelColor)
		}
	}

	next := v.sim.Current()
	for i, gate := range c.Gates {
		clr := gateColor
		if i == next {
			clr = nextColor
		}
		g.drawGate(screen, i, gate, top, clr)
	}

	dir := "forward"
	if v.sim.Direction == simulation.Reverse {
		dir = "reverse"
	}
	status := fmt.Sprintf("%s  gate %d/%d  %s  %s   [space] run  [n] step  [r] reset  [b] reverse  [l] reload  [s/o] snapshot",
		v.result.MainModule.Name, v.sim.PC(), gates, dir, v.status)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	vector.DrawFilledRect(screen, 0, float32(sh-18), float32(sw), 18, background, false)
	g.label(screen, status, 4, float64(sh-16), gateColor)
}

func (g *Game) drawGate(screen *ebiten.Image, index int, gate circuit.Gate, top float32, clr color.Color) {
	l := g.v.layout
	band, gx := l.GateX(index)
	x := float32(gx)
	y := func(q circuit.Qubit) float32 { return float32(l.LineY(band, int(q))) + top }

	minY, maxY := float32(1e9), float32(-1e9)
	for _, q := range append(append([]circuit.Qubit{}, gate.Controls...), gate.Targets...) {
		minY = min(minY, y(q))
		maxY = max(maxY, y(q))
	}
	vector.StrokeLine(screen, x, minY, x, maxY, 1, clr, false)

	for _, q := range gate.Controls {
		vector.DrawFilledCircle(screen, x, y(q), 3, clr, true)
	}
	const r = 6
	switch gate.Kind {
	case circuit.Toffoli:
		ty := y(gate.Targets[0])
		vector.StrokeCircle(screen, x, ty, r, 1, clr, true)
		vector.StrokeLine(screen, x-r, ty, x+r, ty, 1, clr, false)
		vector.StrokeLine(screen, x, ty-r, x, ty+r, 1, clr, false)
	case circuit.Fredkin:
		for _, q := range gate.Targets {
			ty := y(q)
			vector.StrokeLine(screen, x-4, ty-4, x+4, ty+4, 1.5, clr, true)
			vector.StrokeLine(screen, x-4, ty+4, x+4, ty-4, 1.5, clr, true)
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.v.width {
		g.v.relayout(outsideWidth)
	}
	return outsideWidth, outsideHeight
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	bits := flag.String("input", "", "initial line values (line 0 first)")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [flags] prog.src")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	logger, closer, err := cfg.CreateLogger(*debug)
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	defer closer.Close()
	defer logger.Sync()

	input, err := simulation.FromString(*bits)
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	v, err := newViewer(cfg, logger, flag.Arg(0), input)
	if err != nil {
		log.Fatalf("compilation failed: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1024, 640)
	ebiten.SetWindowTitle("gosyrec circuit viewer")

	game := &Game{v: v, face: text.NewGoXFace(basicfont.Face7x13)}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
