package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"fdm/boundary"
	"fdm/mesher"
	"fdm/operator"
	"fdm/payoff"
)

// blackScholesPut 欧式看跌解析价与 delta、gamma、theta
func blackScholesPut(s, k, r, q, vol, t float64) (price, delta, gamma, theta float64) {
	n := distuv.UnitNormal
	sq := vol * math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*vol*vol)*t) / sq
	d2 := d1 - sq
	df, dq := math.Exp(-r*t), math.Exp(-q*t)
	price = k*df*n.CDF(-d2) - s*dq*n.CDF(-d1)
	delta = -dq * n.CDF(-d1)
	gamma = dq * n.Prob(d1) / (s * sq)
	theta = -s*dq*n.Prob(d1)*vol/(2*math.Sqrt(t)) + r*k*df*n.CDF(-d2) - q*s*dq*n.CDF(-d1)
	return
}

// putDesc 以 ln(spot) 为中心的看跌期权描述
func putDesc(t *testing.T, spot, strike, rate, maturity float64, nodes, steps int) Desc {
	m1, err := mesher.NewCentered1D(math.Log(spot), 1.2, nodes)
	require.NoError(t, err)
	m, err := mesher.NewComposite(m1)
	require.NoError(t, err)
	sMin := math.Exp(m.Location(0, 0))
	return Desc{
		Mesher: m,
		BCSet: boundary.Set{
			boundary.NewTimeDependentDirichlet(m, func(tm float64) float64 {
				return strike*math.Exp(-rate*(maturity-tm)) - sMin
			}, 0, boundary.Lower),
			boundary.NewDirichlet(m, 0, 0, boundary.Upper),
		},
		Calculator: payoff.NewLogInner(payoff.Vanilla{Type: payoff.Put, StrikePrice: strike}, m, 0),
		Maturity:   maturity,
		TimeSteps:  steps,
	}
}

// countingOperator 统计算子调用次数
type countingOperator struct {
	operator.Operator
	calls int
}

func (c *countingOperator) Apply(r []float64) []float64 {
	c.calls++
	return c.Operator.Apply(r)
}

func (c *countingOperator) SolveSplitting(direction int, r []float64, s float64) ([]float64, error) {
	c.calls++
	return c.Operator.SolveSplitting(direction, r, s)
}

// pointwise 不做单元平均的计算器
type pointwise struct{ payoff.Calculator }

func (p pointwise) AvgInnerValue(index int, t float64) float64 { return p.InnerValue(index, t) }
