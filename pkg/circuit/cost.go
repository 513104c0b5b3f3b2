package circuit

// mctQuantumCost returns the RevLib quantum cost of a Toffoli gate with
// the given number of controls on a circuit with lines lines. Unused lines
// can serve as helpers in the decomposition and lower the cost.
func mctQuantumCost(controls, lines int) uint64 {
	empty := lines - controls - 1
	if empty < 0 {
		empty = 0
	}
	switch controls {
	case 0, 1:
		return 1
	case 2:
		return 5
	case 3:
		return 13
	case 4:
		if empty >= 2 {
			return 26
		}
		return 29
	case 5:
		switch {
		case empty >= 3:
			return 38
		case empty >= 1:
			return 52
		}
		return 61
	case 6:
		switch {
		case empty >= 4:
			return 50
		case empty >= 1:
			return 80
		}
		return 125
	case 7:
		switch {
		case empty >= 5:
			return 62
		case empty >= 1:
			return 100
		}
		return 253
	}
	c := uint64(controls)
	switch {
	case empty >= controls-2:
		return 12*(c+1) - 34
	case empty >= 1:
		return 24*(c+1) - 88
	}
	return (uint64(1) << (c + 1)) - 3
}

// QuantumCost returns the RevLib quantum cost of a single gate. A Fredkin
// gate is counted as a Toffoli gate with one additional control framed by
// two CNOTs.
func (g Gate) QuantumCost(lines int) uint64 {
	switch g.Kind {
	case Fredkin:
		return mctQuantumCost(len(g.Controls)+1, lines) + 2
	default:
		return mctQuantumCost(len(g.Controls), lines)
	}
}

// TransistorCost returns the CMOS transistor cost of a single gate: eight
// transistors per control.
func (g Gate) TransistorCost() uint64 {
	controls := len(g.Controls)
	if g.Kind == Fredkin {
		controls++
	}
	return 8 * uint64(controls)
}

// QuantumCost sums the quantum cost of every gate.
func (c *Circuit) QuantumCost() uint64 {
	var total uint64
	for _, g := range c.Gates {
		total += g.QuantumCost(len(c.Lines))
	}
	return total
}

// TransistorCost sums the transistor cost of every gate.
func (c *Circuit) TransistorCost() uint64 {
	var total uint64
	for _, g := range c.Gates {
		total += g.TransistorCost()
	}
	return total
}
