package report

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotTop saves a bar chart of key counts. The format is chosen by
// the file extension (png, svg, pdf, ...).
func PlotTop(counts []KeyCount, title, path string) error {
	if len(counts) == 0 {
		return errors.New("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "count"

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, kc := range counts {
		values[i] = float64(kc.Count)
		names[i] = kc.Key
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -1.0

	width := vg.Points(float64(20*len(counts) + 80))
	if width < 4*vg.Inch {
		width = 4 * vg.Inch
	}
	return p.Save(width, 4*vg.Inch, path)
}
