package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"

	"fdm/boundary"
	"fdm/debug"
	"fdm/mesher"
	"fdm/operator"
	"fdm/payoff"
	"fdm/scheme"
	"fdm/solver"
	"fdm/step"
)

var schemes = map[string]func() scheme.Desc{
	"douglas":             scheme.DouglasDesc,
	"cranknicolson":       scheme.CrankNicolsonDesc,
	"impliciteuler":       scheme.ImplicitEulerDesc,
	"expliciteuler":       scheme.ExplicitEulerDesc,
	"craigsneyd":          scheme.CraigSneydDesc,
	"modifiedcraigsneyd":  scheme.ModifiedCraigSneydDesc,
	"hundsdorfer":         scheme.HundsdorferDesc,
	"modifiedhundsdorfer": scheme.ModifiedHundsdorferDesc,
	"methodoflines":       scheme.MethodOfLinesDesc,
	"trbdf2":              scheme.TrBDF2Desc,
}

type config struct {
	kind                  string
	spot, strike          float64
	rate, dividend, vol   float64
	maturity              float64
	nodes, steps, damping int
	scheme                string
	american              bool
	chart, plot, serve    string
	verbose               bool
}

func main() {
	var c config
	flag.StringVar(&c.kind, "type", "put", "call 或 put")
	flag.Float64Var(&c.spot, "spot", 36, "标的价格")
	flag.Float64Var(&c.strike, "strike", 40, "行权价")
	flag.Float64Var(&c.rate, "rate", 0.06, "无风险利率")
	flag.Float64Var(&c.dividend, "dividend", 0, "连续股息率")
	flag.Float64Var(&c.vol, "vol", 0.2, "波动率")
	flag.Float64Var(&c.maturity, "maturity", 1, "到期时间（年）")
	flag.IntVar(&c.nodes, "nodes", 201, "网格节点数")
	flag.IntVar(&c.steps, "steps", 200, "时间步数")
	flag.IntVar(&c.damping, "damping", 0, "隐式欧拉阻尼步数")
	flag.StringVar(&c.scheme, "scheme", "douglas", "差分格式")
	flag.BoolVar(&c.american, "american", false, "美式行权")
	flag.StringVar(&c.chart, "chart", "", "回滚过程 HTML 图表输出路径")
	flag.StringVar(&c.plot, "plot", "", "回滚过程 PNG 输出路径")
	flag.StringVar(&c.serve, "serve", "", "计算后在该地址发布回滚图表，如 :8080")
	flag.BoolVar(&c.verbose, "v", false, "输出调试日志")
	flag.Parse()

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := run(c, logger, os.Stdout); err != nil {
		logger.Error("pricing failed", "err", err)
		os.Exit(1)
	}
}

func run(c config, logger *slog.Logger, out io.Writer) error {
	newDesc, ok := schemes[strings.ToLower(c.scheme)]
	if !ok {
		return fmt.Errorf("unknown scheme %q", c.scheme)
	}
	var t payoff.Type
	switch strings.ToLower(c.kind) {
	case "put":
		t = payoff.Put
	case "call":
		t = payoff.Call
	default:
		return fmt.Errorf("unknown option type %q", c.kind)
	}

	halfWidth := math.Max(4*c.vol*math.Sqrt(c.maturity), 0.5)
	m1, err := mesher.NewCentered1D(math.Log(c.spot), halfWidth, c.nodes)
	if err != nil {
		return err
	}
	m, err := mesher.NewComposite(m1)
	if err != nil {
		return err
	}
	desc := solver.Desc{
		Mesher:       m,
		BCSet:        bounds(c, t, m),
		Calculator:   payoff.NewLogInner(payoff.Vanilla{Type: t, StrikePrice: c.strike}, m, 0),
		Maturity:     c.maturity,
		TimeSteps:    c.steps,
		DampingSteps: c.damping,
	}
	if c.american {
		desc.Condition = step.NewComposite(step.NewAmerican(desc.Calculator))
	}

	rec := &debug.Record{}
	rec.Init(m.Locations(0))
	s, err := solver.NewBlackScholesSolver(desc,
		operator.Params{Rate: c.rate, Dividend: c.dividend, Vol: c.vol},
		newDesc(), solver.WithLogger(logger), solver.WithRecorder(rec))
	if err != nil {
		return err
	}

	greeks := []struct {
		name string
		fn   func(float64) (float64, error)
	}{
		{"value", s.ValueAt},
		{"delta", s.DeltaAt},
		{"gamma", s.GammaAt},
		{"theta", s.ThetaAt},
	}
	for _, g := range greeks {
		v, err := g.fn(c.spot)
		if err != nil {
			return fmt.Errorf("%s: %w", g.name, err)
		}
		fmt.Fprintf(out, "%-6s %s\n", g.name, decimal.NewFromFloat(v).StringFixed(6))
	}
	if !c.american {
		fmt.Fprintf(out, "%-6s %s\n", "exact", decimal.NewFromFloat(analytic(c, t)).StringFixed(6))
	}

	if c.chart != "" {
		if err := render(c.chart, &debug.Charts{Record: *rec}); err != nil {
			return err
		}
	}
	if c.plot != "" {
		if err := render(c.plot, &debug.Plot{Record: *rec}); err != nil {
			return err
		}
	}
	if c.serve != "" {
		logger.Info("serving rollback charts", "addr", c.serve)
		return http.ListenAndServe(c.serve, chartsMux(rec))
	}
	return nil
}

// chartsMux 在 / 发布回滚图表
func chartsMux(rec *debug.Record) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", (&debug.Charts{Record: *rec}).Handler)
	return mux
}

// bounds 价格空间网格两端的狄利克雷边界
func bounds(c config, t payoff.Type, m *mesher.Composite) boundary.Set {
	layout := m.Layout()
	sMin := math.Exp(m.Location(0, 0))
	sMax := math.Exp(m.Location(layout.Size()-1, 0))
	forward := func(s float64) func(float64) float64 {
		return func(tm float64) float64 {
			tau := c.maturity - tm
			return s*math.Exp(-c.dividend*tau) - c.strike*math.Exp(-c.rate*tau)
		}
	}
	if t == payoff.Put {
		f := forward(sMin)
		return boundary.Set{
			boundary.NewTimeDependentDirichlet(m, func(tm float64) float64 { return -f(tm) }, 0, boundary.Lower),
			boundary.NewDirichlet(m, 0, 0, boundary.Upper),
		}
	}
	return boundary.Set{
		boundary.NewDirichlet(m, 0, 0, boundary.Lower),
		boundary.NewTimeDependentDirichlet(m, forward(sMax), 0, boundary.Upper),
	}
}

// analytic 欧式期权解析价
func analytic(c config, t payoff.Type) float64 {
	n := distuv.UnitNormal
	sq := c.vol * math.Sqrt(c.maturity)
	d1 := (math.Log(c.spot/c.strike) + (c.rate-c.dividend+0.5*c.vol*c.vol)*c.maturity) / sq
	d2 := d1 - sq
	fwd := c.spot * math.Exp(-c.dividend*c.maturity)
	k := c.strike * math.Exp(-c.rate*c.maturity)
	if t == payoff.Call {
		return fwd*n.CDF(d1) - k*n.CDF(d2)
	}
	return k*n.CDF(-d2) - fwd*n.CDF(-d1)
}

func render(path string, r debug.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Render(f)
}
