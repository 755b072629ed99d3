package ode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCashKarpExponential(t *testing.T) {
	ck, err := NewCashKarp(1e-8, 0.01, 0)
	require.NoError(t, err)
	decay := func(_ float64, y []float64) []float64 {
		return []float64{-y[0], -2 * y[1]}
	}
	y, err := ck.Integrate(decay, []float64{1, 1}, 0, 2)
	require.NoError(t, err)
	require.InDelta(t, math.Exp(-2), y[0], 1e-7)
	require.InDelta(t, math.Exp(-4), y[1], 1e-7)
	require.Greater(t, ck.Steps(), 1)
}

// TestCashKarpBackward 反向积分 y' = t，从 1 到 0
func TestCashKarpBackward(t *testing.T) {
	ck, err := NewCashKarp(1e-6, 0.1, 0)
	require.NoError(t, err)
	y, err := ck.Integrate(func(t float64, _ []float64) []float64 { return []float64{t} }, []float64{0.5}, 1, 0)
	require.NoError(t, err)
	require.InDelta(t, 0, y[0], 1e-12)

	same, err := ck.Integrate(nil, []float64{3}, 1, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{3}, same)
}

func TestCashKarpLimits(t *testing.T) {
	_, err := NewCashKarp(0, 0.1, 0)
	require.ErrorIs(t, err, ErrInvalidTolerance)

	ck, err := NewCashKarp(1e-10, 1e-3, 0)
	require.NoError(t, err)
	require.NoError(t, ck.SetMaxSteps(3))
	_, err = ck.Integrate(func(_ float64, y []float64) []float64 { return []float64{y[0]} }, []float64{1}, 0, 10)
	require.ErrorIs(t, err, ErrTooManySteps)
}
