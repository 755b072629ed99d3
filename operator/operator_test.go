package operator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"fdm/mesher"
)

func nonUniform(t *testing.T) *mesher.Composite {
	xs := []float64{-1, -0.7, -0.5, -0.1, 0, 0.2, 0.6, 0.75, 1}
	m1, err := mesher.NewPredefined1D(xs)
	require.NoError(t, err)
	m, err := mesher.NewComposite(m1)
	require.NoError(t, err)
	return m
}

// TestDerivativesExactOnQuadratic 三点差分对二次函数精确
func TestDerivativesExactOnQuadratic(t *testing.T) {
	m := nonUniform(t)
	xs := m.Locations(0)
	u := make([]float64, len(xs))
	for i, x := range xs {
		u[i] = x*x + 3*x
	}
	d1 := FirstDerivative(0, m).Apply(u)
	d2 := SecondDerivative(0, m).Apply(u)
	for i := 1; i < len(xs)-1; i++ {
		require.InDelta(t, 2*xs[i]+3, d1[i], 1e-12)
		require.InDelta(t, 2, d2[i], 1e-11)
	}
	require.Zero(t, d2[0])
	require.Zero(t, d2[len(xs)-1])
	// 单侧差分
	require.InDelta(t, (u[1]-u[0])/(xs[1]-xs[0]), d1[0], 1e-12)
}

func TestTripleBandSolveSplitting(t *testing.T) {
	m := nonUniform(t)
	band := FirstDerivative(0, m).Scale(0.3).Add(SecondDerivative(0, m).Scale(0.02))
	r := make([]float64, m.Layout().Size())
	for i := range r {
		r[i] = math.Cos(float64(i))
	}
	s := -0.05
	x, err := band.SolveSplitting(r, s)
	require.NoError(t, err)
	tx := band.Apply(x)
	for i := range r {
		require.InDelta(t, r[i], x[i]+s*tx[i], 1e-12)
	}

	_, err = band.SolveSplitting(r[1:], s)
	require.Error(t, err)
}

func TestTripleBandAlgebra(t *testing.T) {
	m := nonUniform(t)
	n := m.Layout().Size()
	d1 := FirstDerivative(0, m)
	u := make([]float64, n)
	a := make([]float64, n)
	b := make([]float64, n)
	for i := range u {
		u[i], a[i], b[i] = float64(i*i), 2, -1
	}
	got := NewTripleBand(0, m).Axpyb(a, d1, d1, b).Apply(u)
	want := d1.Apply(u)
	for i := range want {
		require.InDelta(t, 3*want[i]-u[i], got[i], 1e-10)
	}
	scaled := d1.Mult(a).Apply(u)
	for i := range want {
		require.InDelta(t, 2*want[i], scaled[i], 1e-10)
	}
}

// TestBlackScholesOnExponential L(e^x) ≈ -q e^x
func TestBlackScholesOnExponential(t *testing.T) {
	m1, err := mesher.NewUniform1D(-1, 1, 401)
	require.NoError(t, err)
	m, err := mesher.NewComposite(m1)
	require.NoError(t, err)
	op := NewBlackScholes(m, 0, Params{Rate: 0.05, Dividend: 0.03, Vol: 0.2})
	require.Equal(t, 1, op.Size())
	xs := m.Locations(0)
	u := make([]float64, len(xs))
	for i, x := range xs {
		u[i] = math.Exp(x)
	}
	lu := op.Apply(u)
	for i := 1; i < len(xs)-1; i++ {
		require.InDelta(t, -0.03*u[i], lu[i], 1e-4)
	}
	require.Equal(t, lu, op.ApplyDirection(0, u))
	require.Equal(t, make([]float64, len(u)), op.ApplyMixed(u))

	op.SetTime(0.5, 1)
	t1, t2 := op.Time()
	require.Equal(t, 0.5, t1)
	require.Equal(t, 1.0, t2)

	_, err = op.SolveSplitting(1, u, -0.1)
	require.ErrorIs(t, err, ErrDirection)
	require.Panics(t, func() { op.ApplyDirection(1, u) })
}

func TestTwoAssetMixedTerm(t *testing.T) {
	mx, _ := mesher.NewUniform1D(-1, 1, 21)
	my, _ := mesher.NewUniform1D(-0.5, 0.5, 11)
	m, err := mesher.NewComposite(mx, my)
	require.NoError(t, err)
	p := Params{Rate: 0.04, Vol: 0.3}
	op := NewTwoAsset(m, p, Params{Rate: 0.04, Vol: 0.2}, 0.5)
	require.Equal(t, 2, op.Size())

	xs, ys := m.Locations(0), m.Locations(1)
	u := make([]float64, len(xs))
	for i := range u {
		u[i] = xs[i] * ys[i]
	}
	mixed := op.ApplyMixed(u)
	for i := range mixed {
		require.InDelta(t, 0.5*0.3*0.2, mixed[i], 1e-12)
	}

	full := op.Apply(u)
	a0, a1 := op.ApplyDirection(0, u), op.ApplyDirection(1, u)
	for i := range full {
		require.InDelta(t, a0[i]+a1[i]+mixed[i], full[i], 1e-12)
	}

	// 越界方向：ApplyDirection panic，SolveSplitting 返回 ErrDirection
	for _, d := range []int{-1, 2} {
		require.Panics(t, func() { op.ApplyDirection(d, u) })
		_, err := op.SolveSplitting(d, u, -0.01)
		require.ErrorIs(t, err, ErrDirection)
	}

	// 预条件为两个方向分裂求解的乘积
	s := -0.01
	pre := op.Preconditioner(u, s)
	x0, err := op.SolveSplitting(0, u, s)
	require.NoError(t, err)
	x1, err := op.SolveSplitting(1, x0, s)
	require.NoError(t, err)
	require.Equal(t, x1, pre)
}
