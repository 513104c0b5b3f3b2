package grid

// GetGridCoords maps a linear index onto a grid that is cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Layout places the gates of a circuit diagram on a grid. Gates are laid
// out left to right and wrap into a new band of all circuit lines once a
// band holds GatesPerBand gates.
type Layout struct {
	Lines        int
	GatesPerBand int
	CellWidth    int
	CellHeight   int
	LabelWidth   int // space left of every band for line labels
	BandGap      int
}

// Fit returns a layout whose bands are at most width pixels wide.
func Fit(lines, width, cellWidth, cellHeight, labelWidth int) Layout {
	perBand := (width - labelWidth) / cellWidth
	if perBand < 1 {
		perBand = 1
	}
	return Layout{
		Lines:        lines,
		GatesPerBand: perBand,
		CellWidth:    cellWidth,
		CellHeight:   cellHeight,
		LabelWidth:   labelWidth,
		BandGap:      cellHeight,
	}
}

func (l Layout) bandHeight() int {
	return l.Lines*l.CellHeight + l.BandGap
}

// Bands is the number of bands needed for gates gates. An empty circuit
// still shows its lines.
func (l Layout) Bands(gates int) int {
	if gates <= 0 {
		return 1
	}
	return (gates + l.GatesPerBand - 1) / l.GatesPerBand
}

// Size is the pixel size of the whole diagram.
func (l Layout) Size(gates int) (w, h int) {
	cols := l.GatesPerBand
	if gates < cols {
		cols = gates
	}
	return l.LabelWidth + cols*l.CellWidth, l.Bands(gates) * l.bandHeight()
}

// GateX returns the band of gate index and the x coordinate of its centre.
func (l Layout) GateX(index int) (band, x int) {
	col, band := GetGridCoords(index, l.GatesPerBand)
	return band, l.LabelWidth + col*l.CellWidth + l.CellWidth/2
}

// LineY is the y coordinate of line in band.
func (l Layout) LineY(band, line int) int {
	return band*l.bandHeight() + line*l.CellHeight + l.CellHeight/2
}
