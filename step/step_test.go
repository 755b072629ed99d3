package step

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"fdm/mesher"
	"fdm/payoff"
)

func logMesh(t *testing.T, n int) *mesher.Composite {
	m1, err := mesher.NewCentered1D(math.Log(100), 1, n)
	require.NoError(t, err)
	m, err := mesher.NewComposite(m1)
	require.NoError(t, err)
	return m
}

func TestCompositeStoppingTimes(t *testing.T) {
	m := logMesh(t, 11)
	calc := payoff.NewLogInner(payoff.Vanilla{Type: payoff.Put, StrikePrice: 100}, m, 0)
	snap := NewSnapshot(0.01)
	c := NewComposite(NewBermudan(calc, 0.5, 0.25, 0.5), snap, nil)
	require.Equal(t, []float64{0.01, 0.25, 0.5}, c.StoppingTimes())
	require.Len(t, c.Conditions(), 2)

	joined := Join(c, NewSnapshot(0.75))
	require.Equal(t, []float64{0.01, 0.25, 0.5, 0.75}, joined.StoppingTimes())
	require.Len(t, Join(nil, snap).Conditions(), 1)
}

func TestSnapshot(t *testing.T) {
	s := NewSnapshot(0.5)
	a := []float64{1, 2, 3}
	s.ApplyTo(a, 0.4)
	require.Nil(t, s.Values())
	s.ApplyTo(a, 0.5)
	a[0] = 9
	require.Equal(t, []float64{1, 2, 3}, s.Values())
	require.Equal(t, 0.5, s.Time())
}

func TestExercise(t *testing.T) {
	m := logMesh(t, 11)
	calc := payoff.NewLogInner(payoff.Vanilla{Type: payoff.Put, StrikePrice: 100}, m, 0)
	a := make([]float64, 11)

	NewBermudan(calc, 0.5).ApplyTo(a, 0.3)
	require.Equal(t, make([]float64, 11), a)

	NewAmerican(calc).ApplyTo(a, 0.3)
	require.InDelta(t, 100-math.Exp(math.Log(100)-1), a[0], 1e-12)
	require.Zero(t, a[10])
}

func TestDividendShift(t *testing.T) {
	m := logMesh(t, 201)
	xs := m.Locations(0)
	a := make([]float64, len(xs))
	for i, x := range xs {
		a[i] = math.Exp(x)
	}
	d, err := NewDividend(m, 0, []float64{0.5}, []float64{2})
	require.NoError(t, err)
	require.Equal(t, []float64{0.5}, d.StoppingTimes())

	d.ApplyTo(a, 0.5)
	// V(S) = S 平移后 V(S) = S - D
	require.InDelta(t, 98, a[100], 1e-6)

	_, err = NewDividend(m, 0, []float64{0.5}, nil)
	require.Error(t, err)
}

func TestBarrier(t *testing.T) {
	m := logMesh(t, 11)
	a := make([]float64, 11)
	for i := range a {
		a[i] = 1
	}
	b := NewBarrier(m, 0, DownOut, 90, 0.5, 0.25)
	b.ApplyTo(a, 0.3)
	require.Equal(t, 1.0, a[0])
	b.ApplyTo(a, 0.25)
	// 障碍以下的节点置为返还金额
	for i := 0; i < 11; i++ {
		x := m.Location(i, 0)
		if x <= math.Log(90) {
			require.Equal(t, 0.5, a[i])
		} else {
			require.Equal(t, 1.0, a[i])
		}
	}
}
