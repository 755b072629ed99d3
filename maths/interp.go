package maths

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/interp"
)

// Cubic 一维自然三次样条（两端二阶导为零）
// 不检查查询范围，节点区间外的结果没有意义
type Cubic struct {
	xs     []float64
	spline interp.NaturalCubic
	step   float64 // 二阶导差分步长
}

// NewCubic 以严格递增的节点 xs 和节点值 ys 构造样条
func NewCubic(xs, ys []float64) (*Cubic, error) {
	if len(xs) != len(ys) {
		return nil, ErrDimensionMismatch
	}
	if len(xs) < 3 {
		return nil, ErrTooFewPoints
	}
	c := &Cubic{xs: append([]float64{}, xs...)}
	if err := c.spline.Fit(c.xs, ys); err != nil {
		return nil, fmt.Errorf("cubic fit: %w", err)
	}
	c.step = minSpacing(c.xs) * 1e-3
	return c, nil
}

// Value 样条值
func (c *Cubic) Value(x float64) float64 {
	return c.spline.Predict(x)
}

// Derivative 一阶导
func (c *Cubic) Derivative(x float64) float64 {
	return c.spline.PredictDerivative(x)
}

// SecondDerivative 二阶导
// 一阶导在每段内为二次多项式，中心差分在段内精确
func (c *Cubic) SecondDerivative(x float64) float64 {
	return fd.Derivative(c.spline.PredictDerivative, x, &fd.Settings{
		Formula: fd.Central,
		Step:    c.step,
	})
}

// Bicubic 二维样条，先沿 x 对每一行 y_j 做自然三次样条，再沿 y 插值
// 节点值 zs 按 x 方向最快变化排列：zs[i + j*len(xs)]
// 与 Cubic 相同，不检查查询范围
type Bicubic struct {
	xs, ys []float64
	rows   []interp.NaturalCubic
	stepX  float64
	stepY  float64
}

// NewBicubic 构造二维样条
func NewBicubic(xs, ys, zs []float64) (*Bicubic, error) {
	nx, ny := len(xs), len(ys)
	if len(zs) != nx*ny {
		return nil, ErrDimensionMismatch
	}
	if nx < 3 || ny < 3 {
		return nil, ErrTooFewPoints
	}
	b := &Bicubic{
		xs:    append([]float64{}, xs...),
		ys:    append([]float64{}, ys...),
		rows:  make([]interp.NaturalCubic, ny),
		stepX: minSpacing(xs) * 1e-3,
		stepY: minSpacing(ys) * 1e-3,
	}
	for j := 0; j < ny; j++ {
		if err := b.rows[j].Fit(b.xs, zs[j*nx:(j+1)*nx]); err != nil {
			return nil, fmt.Errorf("bicubic row %d: %w", j, err)
		}
	}
	return b, nil
}

// column 在给定 x 处沿 y 方向构造样条，derivative 为真时取行样条的 x 导数
func (b *Bicubic) column(x float64, derivative bool) *interp.NaturalCubic {
	vals := make([]float64, len(b.ys))
	for j := range b.rows {
		if derivative {
			vals[j] = b.rows[j].PredictDerivative(x)
		} else {
			vals[j] = b.rows[j].Predict(x)
		}
	}
	var col interp.NaturalCubic
	if err := col.Fit(b.ys, vals); err != nil {
		// 节点在构造时已校验
		panic(err)
	}
	return &col
}

// Value 样条值
func (b *Bicubic) Value(x, y float64) float64 {
	return b.column(x, false).Predict(y)
}

// DerivativeX ∂z/∂x
func (b *Bicubic) DerivativeX(x, y float64) float64 {
	return b.column(x, true).Predict(y)
}

// DerivativeY ∂z/∂y
func (b *Bicubic) DerivativeY(x, y float64) float64 {
	return b.column(x, false).PredictDerivative(y)
}

// DerivativeXY ∂²z/∂x∂y
func (b *Bicubic) DerivativeXY(x, y float64) float64 {
	return b.column(x, true).PredictDerivative(y)
}

// SecondDerivativeX ∂²z/∂x²
func (b *Bicubic) SecondDerivativeX(x, y float64) float64 {
	return fd.Derivative(func(u float64) float64 {
		return b.DerivativeX(u, y)
	}, x, &fd.Settings{Formula: fd.Central, Step: b.stepX})
}

// SecondDerivativeY ∂²z/∂y²
func (b *Bicubic) SecondDerivativeY(x, y float64) float64 {
	return fd.Derivative(func(v float64) float64 {
		return b.DerivativeY(x, v)
	}, y, &fd.Settings{Formula: fd.Central, Step: b.stepY})
}

// minSpacing 最小节点间距
func minSpacing(xs []float64) float64 {
	h := math.Inf(1)
	for i := 1; i < len(xs); i++ {
		h = math.Min(h, xs[i]-xs[i-1])
	}
	return h
}
