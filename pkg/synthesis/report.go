package synthesis

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gosyrec/pkg/circuit"

	"github.com/markkurossi/tabulate"
	"github.com/mattn/go-isatty"
)

// TableStyle picks box drawing for terminals and CSV for pipes and files.
func TableStyle(w io.Writer) tabulate.Style {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return tabulate.Unicode
	}
	return tabulate.CSV
}

// StatisticsTable renders the statistics of res as a two column table.
func StatisticsTable(res *Result, style tabulate.Style) *tabulate.Tabulate {
	tab := tabulate.New(style)
	tab.Header("Metric").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)

	add := func(name string, value any) {
		row := tab.Row()
		row.Column(name)
		row.Column(fmt.Sprint(value))
	}
	add("module", res.MainModule.Name)
	add("strategy", res.Strategy)
	add("gates", res.Statistics.Gates)
	add("lines", res.Statistics.Lines)
	add("quantum cost", res.Statistics.QuantumCost)
	add("transistor cost", res.Statistics.TransistorCost)
	add("runtime", res.Statistics.Runtime)
	return tab
}

// LinesTable lists every line of c with its constant and garbage marks.
func LinesTable(c *circuit.Circuit, style tabulate.Style) *tabulate.Tabulate {
	tab := tabulate.New(style)
	tab.Header("#").SetAlign(tabulate.MR)
	tab.Header("Label").SetAlign(tabulate.ML)
	tab.Header("Constant").SetAlign(tabulate.MC)
	tab.Header("Garbage").SetAlign(tabulate.MC)
	tab.Header("Inlined in").SetAlign(tabulate.ML)

	for i, l := range c.Lines {
		row := tab.Row()
		row.Column(fmt.Sprint(i))
		label := l.Label
		if l.UserLabel != "" {
			label = fmt.Sprintf("%s (%s)", l.Label, l.UserLabel)
		}
		row.Column(label)
		constant := "-"
		if l.Constant != nil {
			constant = "0"
			if *l.Constant {
				constant = "1"
			}
		}
		row.Column(constant)
		garbage := ""
		if l.Garbage {
			garbage = "x"
		}
		row.Column(garbage)
		row.Column(strings.Join(l.InlineStack, " > "))
	}
	return tab
}
