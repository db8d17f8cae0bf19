// Package render は多項式フィットの結果を gonum/plot で図にする
package render

import (
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
)

// 既定の図のサイズ
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// サポートする出力形式
var supportedFormats = map[string]bool{
	"png": true,
	"svg": true,
	"pdf": true,
}

// Curve はグリッド上で評価された1本の曲線
type Curve struct {
	Label string
	Y     []float64
}

// Figure は描画する内容一式
type Figure struct {
	Title string
	// Grid は Truth と Fits を評価した x 座標
	Grid []float64
	// Truth は真の関数。赤の破線で描く
	Truth Curve
	// SampleX, SampleT は観測点
	SampleX []float64
	SampleT []float64
	// Fits は次数ごとのフィット曲線
	Fits []Curve
}

// FormatFromPath は拡張子から出力形式を推定する
func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Plot は Figure から plot.Plot を組み立てる
func (f *Figure) Plot() (*plot.Plot, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "t"
	p.Legend.Top = true

	if f.Truth.Y != nil {
		truth, err := plotter.NewLine(xys(f.Grid, f.Truth.Y))
		if err != nil {
			return nil, errors.Wrap(err, "render: truth curve")
		}
		truth.LineStyle.Color = color.RGBA{R: 220, A: 255}
		truth.LineStyle.Width = vg.Points(1.5)
		truth.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(truth)
		p.Legend.Add(f.Truth.Label, truth)
	}

	if len(f.SampleX) > 0 {
		scatter, err := plotter.NewScatter(xys(f.SampleX, f.SampleT))
		if err != nil {
			return nil, errors.Wrap(err, "render: samples")
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Color = color.Black
		p.Add(scatter)
		p.Legend.Add("samples", scatter)
	}

	for i, fit := range f.Fits {
		line, err := plotter.NewLine(xys(f.Grid, fit.Y))
		if err != nil {
			return nil, errors.Wrapf(err, "render: fit %q", fit.Label)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fit.Label, line)
	}
	return p, nil
}

// Save は Figure を path に書き出す。形式は拡張子から決まる。
func (f *Figure) Save(path string, width, height vg.Length) error {
	format := FormatFromPath(path)
	if !supportedFormats[format] {
		return errors.NewValidationError("format", "unsupported output format", format)
	}
	p, err := f.Plot()
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "render: save %s", path)
	}
	return nil
}

// WriteTo は Figure を指定形式で w に書き出す
func (f *Figure) WriteTo(w io.Writer, format string, width, height vg.Length) (int64, error) {
	format = strings.ToLower(format)
	if !supportedFormats[format] {
		return 0, errors.NewValidationError("format", "unsupported output format", format)
	}
	p, err := f.Plot()
	if err != nil {
		return 0, err
	}
	var n int64
	// vg のバックエンドは不正なサイズで panic することがある
	err = errors.SafeExecute("render.WriteTo", func() error {
		wt, err := p.WriterTo(width, height, format)
		if err != nil {
			return errors.Wrap(err, "render: writer")
		}
		n, err = wt.WriteTo(w)
		return err
	})
	return n, err
}

func (f *Figure) validate() error {
	const op = "render.Figure"
	if len(f.SampleX) != len(f.SampleT) {
		return errors.NewDimensionError(op, len(f.SampleX), len(f.SampleT), 0)
	}
	if f.Truth.Y != nil && len(f.Truth.Y) != len(f.Grid) {
		return errors.NewDimensionError(op, len(f.Grid), len(f.Truth.Y), 0)
	}
	for _, fit := range f.Fits {
		if len(fit.Y) != len(f.Grid) {
			return errors.NewDimensionError(op, len(f.Grid), len(fit.Y), 0)
		}
	}
	return nil
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}
