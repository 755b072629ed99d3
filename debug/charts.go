package debug

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// 截面曲线条数
const chartProfiles = 8

// Charts 曲线绘制
type Charts struct {
	Record
}

func legend() charts.GlobalOpts {
	return charts.WithLegendOpts(opts.Legend{
		Type:   "scroll",
		Orient: "vertical",
		Right:  "10",
		Top:    "20",
		Bottom: "20",
	})
}

// Render 格式化：各时间截面的价值曲线与中心节点随时间的变化
func (c *Charts) Render(w io.Writer) error {
	if c.Len() == 0 {
		return ErrEmptyRecord
	}
	profile := charts.NewLine()
	profile.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "价值截面",
			Subtitle: "各时间点网格上的价值",
		}),
		legend(),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	xs := c.line(0)
	labels := make([]string, len(xs))
	for i, x := range xs {
		labels[i] = fmt.Sprintf("%.4g", x)
	}
	profile.SetXAxis(labels)
	for _, k := range c.profiles(chartProfiles) {
		items := make([]opts.LineData, len(c.Values[k]))
		for i, v := range c.Values[k] {
			items[i] = opts.LineData{Value: v}
		}
		profile.AddSeries(fmt.Sprintf("t=%.4g", c.Time[k]), items)
	}
	profile.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	history := charts.NewLine()
	history.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "中心节点",
			Subtitle: "中心节点价值随时间变化曲线",
		}),
		legend(),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	times := make([]string, c.Len())
	center := make([]opts.LineData, c.Len())
	for k, t := range c.Time {
		times[k] = fmt.Sprintf("%.4g", t)
		center[k] = opts.LineData{Value: c.Values[k][len(c.Values[k])/2]}
	}
	history.SetXAxis(times).AddSeries("center", center)

	page := components.NewPage()
	page.AddCharts(profile, history)
	return page.Render(w)
}

// Handler 发布到网页面，渲染失败时返回 500
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		c.Error(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
