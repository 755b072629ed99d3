package operator

import (
	"gonum.org/v1/gonum/floats"

	"fdm/mesher"
)

// TwoAsset 两个相关对数正态因子 (x, y) = (ln S1, ln S2) 的二维算子
// A_0 = BS_1 - r/2，A_1 = BS_2 - r/2，A_mixed = ρσ1σ2 ∂x∂y
// 贴现项平分到两个方向
type TwoAsset struct {
	bands  [2]*TripleBand
	dx, dy *TripleBand
	corr   float64
	t1, t2 float64
}

// NewTwoAsset 网格第 0、1 维分别为两个因子的对数价格
// 两因子的 Rate 应一致，取 p1.Rate
func NewTwoAsset(m mesher.Mesher, p1, p2 Params, rho float64) *TwoAsset {
	p2.Rate = p1.Rate
	return &TwoAsset{
		bands: [2]*TripleBand{
			p1.band(0, m, 0.5*p1.Rate),
			p2.band(1, m, 0.5*p1.Rate),
		},
		dx:   FirstDerivative(0, m),
		dy:   FirstDerivative(1, m),
		corr: rho * p1.Vol * p2.Vol,
	}
}

func (o *TwoAsset) Size() int { return 2 }

// SetTime 常系数，只记录时间区间
func (o *TwoAsset) SetTime(t1, t2 float64) { o.t1, o.t2 = t1, t2 }

func (o *TwoAsset) Apply(r []float64) []float64 {
	y := o.bands[0].Apply(r)
	z := o.bands[1].Apply(r)
	floats.Add(y, z)
	floats.Add(y, o.ApplyMixed(r))
	return y
}

func (o *TwoAsset) ApplyMixed(r []float64) []float64 {
	y := o.dy.Apply(o.dx.Apply(r))
	floats.Scale(o.corr, y)
	return y
}

func (o *TwoAsset) ApplyDirection(direction int, r []float64) []float64 {
	if err := checkDirection(direction, o.Size()); err != nil {
		panic(err)
	}
	return o.bands[direction].Apply(r)
}

func (o *TwoAsset) SolveSplitting(direction int, r []float64, s float64) ([]float64, error) {
	if err := checkDirection(direction, o.Size()); err != nil {
		return nil, err
	}
	return o.bands[direction].SolveSplitting(r, s)
}

// Preconditioner 两个方向依次求解，失败时退化为恒等
func (o *TwoAsset) Preconditioner(r []float64, s float64) []float64 {
	x, err := o.bands[0].SolveSplitting(r, s)
	if err != nil {
		return clone(r)
	}
	if x, err = o.bands[1].SolveSplitting(x, s); err != nil {
		return clone(r)
	}
	return x
}
