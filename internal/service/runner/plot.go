package runner

import (
	"bytes"

	lua "github.com/yuin/gopher-lua"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Figure is a rendered plot, shipped to the frontend as inline SVG.
type Figure struct {
	Title string `json:"title,omitempty"`
	SVG   string `json:"svg"`
}

type seriesKind int

const (
	lineKind seriesKind = iota
	scatterKind
	barKind
)

// figureSpec is what a script builds through the plot module; rendering
// happens after the run so a half-built figure never reaches the caller.
type figureSpec struct {
	kind  seriesKind
	title string
	ys    []float64
}

type figureList struct {
	items []*figureSpec
}

// last returns the most recently created figure, mirroring the "current
// figure" notion of desktop plotting libraries.
func (f *figureList) last() *figureSpec {
	if len(f.items) == 0 {
		return nil
	}
	return f.items[len(f.items)-1]
}

// bindPlot exposes a plot module to the script: plot.line(values, title?),
// plot.scatter(values, title?) and plot.bar(values, title?), where values is
// an array of numbers plotted against their index.
func bindPlot(L *lua.LState) *figureList {
	figs := &figureList{}
	mod := L.NewTable()

	register := func(name string, kind seriesKind) {
		mod.RawSetString(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			spec := &figureSpec{kind: kind, title: L.OptString(2, "")}
			tbl.ForEach(func(_, v lua.LValue) {
				if n, ok := v.(lua.LNumber); ok {
					spec.ys = append(spec.ys, float64(n))
				}
			})
			figs.items = append(figs.items, spec)
			return 0
		}))
	}

	register("line", lineKind)
	register("scatter", scatterKind)
	register("bar", barKind)

	L.SetGlobal("plot", mod)
	return figs
}

func renderSVG(spec *figureSpec) (*Figure, error) {
	p := plot.New()
	p.Title.Text = spec.title

	pts := make(plotter.XYs, len(spec.ys))
	for i, y := range spec.ys {
		pts[i].X = float64(i)
		pts[i].Y = y
	}

	switch spec.kind {
	case scatterKind:
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		p.Add(sc)
	case barKind:
		vals := make(plotter.Values, len(spec.ys))
		copy(vals, spec.ys)
		bars, err := plotter.NewBarChart(vals, vg.Points(20))
		if err != nil {
			return nil, err
		}
		p.Add(bars)
	default:
		ln, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		p.Add(ln)
	}

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "svg")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}

	return &Figure{Title: spec.title, SVG: buf.String()}, nil
}
