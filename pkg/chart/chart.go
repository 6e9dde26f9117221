// Package chart renders one-dimensional model fits with gonum/plot.
//
// The training points are drawn as a scatter, the model prediction as a
// line over a dense grid, and split thresholds (if any) as dashed vertical
// lines.
package chart

import (
	"image/color"
	"io"

	"github.com/YuminosukeSato/polytree/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Predictor is any fitted model with a single output column.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Options controls the rendered figure. Zero values fall back to defaults.
type Options struct {
	Title      string
	XLabel     string
	YLabel     string
	Points     int       // prediction grid size, default 200
	Thresholds []float64 // split positions drawn as vertical lines
	Width      vg.Length // default 6 inches
	Height     vg.Length // default 4 inches
}

func (o Options) withDefaults() Options {
	if o.Points < 2 {
		o.Points = 200
	}
	if o.Width <= 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 4 * vg.Inch
	}
	if o.XLabel == "" {
		o.XLabel = "x"
	}
	if o.YLabel == "" {
		o.YLabel = "y"
	}
	return o
}

var (
	dataColor      = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	fitColor       = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	thresholdColor = color.RGBA{R: 127, G: 127, B: 127, A: 255}
)

// Fit builds the plot of a 1-D fit. X must have exactly one column.
func Fit(X, y mat.Matrix, m Predictor, opts Options) (*plot.Plot, error) {
	opts = opts.withDefaults()

	rows, cols := X.Dims()
	if cols != 1 {
		return nil, errors.NewDimensionError("chart.Fit", 1, cols, 1)
	}
	yRows, _ := y.Dims()
	if rows != yRows {
		return nil, errors.NewDimensionError("chart.Fit", rows, yRows, 0)
	}
	if rows == 0 {
		return nil, errors.NewModelError("chart.Fit", "empty data", errors.ErrEmptyData)
	}

	xs := mat.Col(nil, 0, X)
	ys := mat.Col(nil, 0, y)
	data := make(plotter.XYs, rows)
	for i := range data {
		data[i].X, data[i].Y = xs[i], ys[i]
	}

	grid := floats.Span(make([]float64, opts.Points), floats.Min(xs), floats.Max(xs))
	pred, err := m.Predict(mat.NewDense(len(grid), 1, grid))
	if err != nil {
		return nil, errors.Wrap(err, "predicting on plot grid")
	}
	curve := make(plotter.XYs, len(grid))
	for i, x := range grid {
		curve[i].X, curve[i].Y = x, pred.At(i, 0)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	scatter, err := plotter.NewScatter(data)
	if err != nil {
		return nil, errors.Wrap(err, "building scatter")
	}
	scatter.GlyphStyle.Color = dataColor
	scatter.GlyphStyle.Radius = vg.Points(2)

	line, err := plotter.NewLine(curve)
	if err != nil {
		return nil, errors.Wrap(err, "building fit line")
	}
	line.LineStyle.Color = fitColor
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(scatter, line)
	p.Legend.Add("data", scatter)
	p.Legend.Add("fit", line)

	all := append(ys, mat.Col(nil, 0, pred)...)
	lo, hi := floats.Min(all), floats.Max(all)
	for _, t := range opts.Thresholds {
		v, err := plotter.NewLine(plotter.XYs{{X: t, Y: lo}, {X: t, Y: hi}})
		if err != nil {
			return nil, errors.Wrap(err, "building threshold line")
		}
		v.LineStyle.Color = thresholdColor
		v.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(v)
	}
	return p, nil
}

// SaveFit renders the fit to path. The image format follows the file
// extension (png, svg, pdf, ...).
func SaveFit(path string, X, y mat.Matrix, m Predictor, opts Options) error {
	opts = opts.withDefaults()
	p, err := Fit(X, y, m, opts)
	if err != nil {
		return err
	}
	// vg の描画バックエンドは不正な座標で panic することがある
	err = errors.SafeExecute("chart.SaveFit", func() error {
		return p.Save(opts.Width, opts.Height, path)
	})
	if err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}

// WriteFit renders the fit to w in the given format ("png", "svg", ...).
func WriteFit(w io.Writer, format string, X, y mat.Matrix, m Predictor, opts Options) error {
	opts = opts.withDefaults()
	p, err := Fit(X, y, m, opts)
	if err != nil {
		return err
	}
	return errors.SafeExecute("chart.WriteFit", func() error {
		wt, err := p.WriterTo(opts.Width, opts.Height, format)
		if err != nil {
			return errors.Wrapf(err, "encoding plot as %s", format)
		}
		_, err = wt.WriteTo(w)
		return err
	})
}
