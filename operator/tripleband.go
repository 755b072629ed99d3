package operator

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"fdm/maths"
	"fdm/mesher"
)

// TripleBand 沿布局某一方向的三对角算子
// y[i] = lower[i]*r[i0[i]] + diag[i]*r[i] + upper[i]*r[i2[i]]
// 边界处邻居按布局反射取得
type TripleBand struct {
	direction int
	layout    *mesher.Layout
	i0, i2    []int
	lower     []float64
	diag      []float64
	upper     []float64
}

// NewTripleBand 创建全零的三对角算子
func NewTripleBand(direction int, m mesher.Mesher) *TripleBand {
	layout := m.Layout()
	n := layout.Size()
	t := &TripleBand{
		direction: direction,
		layout:    layout,
		i0:        make([]int, n),
		i2:        make([]int, n),
		lower:     make([]float64, n),
		diag:      make([]float64, n),
		upper:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		t.i0[i] = layout.Neighbourhood(i, direction, -1)
		t.i2[i] = layout.Neighbourhood(i, direction, 1)
	}
	return t
}

// FirstDerivative 非均匀网格中心差分一阶导，边界节点取单侧差分
func FirstDerivative(direction int, m mesher.Mesher) *TripleBand {
	t := NewTripleBand(direction, m)
	for i := range t.diag {
		hm, hp := m.Dminus(i, direction), m.Dplus(i, direction)
		switch {
		case t.layout.IsLower(i, direction):
			t.lower[i], t.diag[i], t.upper[i] = 0, -1/hp, 1/hp
		case t.layout.IsUpper(i, direction):
			t.lower[i], t.diag[i], t.upper[i] = -1/hm, 1/hm, 0
		default:
			t.lower[i] = -hp / (hm * (hm + hp))
			t.diag[i] = (hp - hm) / (hm * hp)
			t.upper[i] = hm / (hp * (hm + hp))
		}
	}
	return t
}

// SecondDerivative 非均匀网格二阶导，边界节点为零
func SecondDerivative(direction int, m mesher.Mesher) *TripleBand {
	t := NewTripleBand(direction, m)
	for i := range t.diag {
		if t.layout.IsLower(i, direction) || t.layout.IsUpper(i, direction) {
			continue
		}
		hm, hp := m.Dminus(i, direction), m.Dplus(i, direction)
		t.lower[i] = 2 / (hm * (hm + hp))
		t.diag[i] = -2 / (hm * hp)
		t.upper[i] = 2 / (hp * (hm + hp))
	}
	return t
}

// Direction 算子方向
func (t *TripleBand) Direction() int { return t.direction }

// copyShape 复制索引结构，系数清零
func (t *TripleBand) copyShape() *TripleBand {
	n := len(t.diag)
	return &TripleBand{
		direction: t.direction,
		layout:    t.layout,
		i0:        t.i0,
		i2:        t.i2,
		lower:     make([]float64, n),
		diag:      make([]float64, n),
		upper:     make([]float64, n),
	}
}

// Apply y = T r
func (t *TripleBand) Apply(r []float64) []float64 {
	y := make([]float64, len(r))
	for i := range y {
		y[i] = t.lower[i]*r[t.i0[i]] + t.diag[i]*r[i] + t.upper[i]*r[t.i2[i]]
	}
	return y
}

// Mult 按行缩放：diag(u)·T
func (t *TripleBand) Mult(u []float64) *TripleBand {
	out := t.copyShape()
	floats.MulTo(out.lower, u, t.lower)
	floats.MulTo(out.diag, u, t.diag)
	floats.MulTo(out.upper, u, t.upper)
	return out
}

// Scale 整体缩放 c·T
func (t *TripleBand) Scale(c float64) *TripleBand {
	out := t.copyShape()
	floats.ScaleTo(out.lower, c, t.lower)
	floats.ScaleTo(out.diag, c, t.diag)
	floats.ScaleTo(out.upper, c, t.upper)
	return out
}

// Add T + o，两者必须同方向
func (t *TripleBand) Add(o *TripleBand) *TripleBand {
	if o.direction != t.direction {
		panic(fmt.Sprintf("operator: add bands of direction %d and %d", t.direction, o.direction))
	}
	out := t.copyShape()
	floats.AddTo(out.lower, t.lower, o.lower)
	floats.AddTo(out.diag, t.diag, o.diag)
	floats.AddTo(out.upper, t.upper, o.upper)
	return out
}

// Axpyb diag(a)·x + y + diag(b)，a、y、b 均可为空
// 结果写入 t 并返回 t
func (t *TripleBand) Axpyb(a []float64, x, y *TripleBand, b []float64) *TripleBand {
	n := len(t.diag)
	lower, diag, upper := make([]float64, n), make([]float64, n), make([]float64, n)
	if y != nil {
		copy(lower, y.lower)
		copy(diag, y.diag)
		copy(upper, y.upper)
	}
	if a != nil {
		ax := make([]float64, n)
		floats.Add(lower, floats.MulTo(ax, a, x.lower))
		floats.Add(diag, floats.MulTo(ax, a, x.diag))
		floats.Add(upper, floats.MulTo(ax, a, x.upper))
	}
	if b != nil {
		floats.Add(diag, b)
	}
	t.lower, t.diag, t.upper = lower, diag, upper
	return t
}

// SolveSplitting 逐条网格线求解三对角方程 (I + s·T)x = r
func (t *TripleBand) SolveSplitting(r []float64, s float64) ([]float64, error) {
	if len(r) != len(t.diag) {
		return nil, fmt.Errorf("state %d, layout %d: %w", len(r), len(t.diag), maths.ErrDimensionMismatch)
	}
	x := make([]float64, len(r))
	n := t.layout.Dim(t.direction)
	lo, d, up, rhs := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for _, line := range t.layout.Lines(t.direction) {
		for k, idx := range line {
			lo[k] = s * t.lower[idx]
			d[k] = 1 + s*t.diag[idx]
			up[k] = s * t.upper[idx]
			rhs[k] = r[idx]
		}
		// 反射邻居折叠回线内
		up[0] += lo[0]
		lo[n-1] += up[n-1]
		sol, err := maths.SolveTridiagonal(lo, d, up, rhs)
		if err != nil {
			return nil, fmt.Errorf("direction %d: %w", t.direction, err)
		}
		for k, idx := range line {
			x[idx] = sol[k]
		}
	}
	return x, nil
}
