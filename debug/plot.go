package debug

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg"
)

// 截面曲线条数
const plotProfiles = 6

// Plot 静态图片输出
type Plot struct {
	Record
	Format string // png、svg、pdf 等，默认 png
	Width  vg.Length
	Height vg.Length
}

// Render 各时间截面的价值曲线
func (p *Plot) Render(w io.Writer) error {
	if p.Len() == 0 {
		return ErrEmptyRecord
	}
	pl := plot.New()
	pl.Title.Text = "rollback"
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "value"
	pl.Add(plotter.NewGrid())
	for n, k := range p.profiles(plotProfiles) {
		xs := p.line(k)
		pts := make(plotter.XYs, len(xs))
		for i := range pts {
			pts[i].X, pts[i].Y = xs[i], p.Values[k][i]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("debug: profile t=%v: %w", p.Time[k], err)
		}
		l.Color = plotutil.Color(n)
		pl.Add(l)
		pl.Legend.Add(fmt.Sprintf("t=%.4g", p.Time[k]), l)
	}
	format, width, height := p.Format, p.Width, p.Height
	if format == "" {
		format = "png"
	}
	if width == 0 {
		width = 6 * vg.Inch
	}
	if height == 0 {
		height = 4 * vg.Inch
	}
	wt, err := pl.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
