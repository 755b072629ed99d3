package operator

import (
	"gonum.org/v1/gonum/floats"

	"fdm/mesher"
)

// Params 对数正态因子的常数参数
type Params struct {
	Rate     float64 // 无风险利率 r
	Dividend float64 // 连续股息率 q
	Vol      float64 // 波动率 σ
}

// band 对数空间一维 BS 带状算子 (r-q-σ²/2)∂x + σ²/2 ∂xx - discount
func (p Params) band(direction int, m mesher.Mesher, discount float64) *TripleBand {
	drift := p.Rate - p.Dividend - 0.5*p.Vol*p.Vol
	diffusion := 0.5 * p.Vol * p.Vol
	band := FirstDerivative(direction, m).Scale(drift).Add(SecondDerivative(direction, m).Scale(diffusion))
	shift := make([]float64, m.Layout().Size())
	floats.AddConst(-discount, shift)
	return NewTripleBand(direction, m).Axpyb(nil, nil, band, shift)
}

// BlackScholes x = ln S 上的一维 Black-Scholes 算子
// L = (r-q-σ²/2)∂x + σ²/2 ∂xx - r
type BlackScholes struct {
	params    Params
	direction int
	band      *TripleBand
	t1, t2    float64
}

// NewBlackScholes 在网格第 direction 维上构造算子
func NewBlackScholes(m mesher.Mesher, direction int, p Params) *BlackScholes {
	return &BlackScholes{
		params:    p,
		direction: direction,
		band:      p.band(direction, m, p.Rate),
	}
}

func (b *BlackScholes) Size() int { return 1 }

// SetTime 常系数，只记录时间区间
func (b *BlackScholes) SetTime(t1, t2 float64) { b.t1, b.t2 = t1, t2 }

// Time 最近一次 SetTime 的时间区间
func (b *BlackScholes) Time() (float64, float64) { return b.t1, b.t2 }

func (b *BlackScholes) Apply(r []float64) []float64 { return b.band.Apply(r) }

func (b *BlackScholes) ApplyMixed(r []float64) []float64 { return zeros(r) }

func (b *BlackScholes) ApplyDirection(direction int, r []float64) []float64 {
	if err := checkDirection(direction, b.Size()); err != nil {
		panic(err)
	}
	return b.band.Apply(r)
}

func (b *BlackScholes) SolveSplitting(direction int, r []float64, s float64) ([]float64, error) {
	if err := checkDirection(direction, b.Size()); err != nil {
		return nil, err
	}
	return b.band.SolveSplitting(r, s)
}

func (b *BlackScholes) Preconditioner(r []float64, s float64) []float64 {
	x, err := b.band.SolveSplitting(r, s)
	if err != nil {
		return clone(r)
	}
	return x
}
