package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"fdm/mesher"
	"fdm/operator"
	"fdm/payoff"
	"fdm/scheme"
	"fdm/step"
)

func basketDesc(t *testing.T) Desc {
	mx, err := mesher.NewUniform1D(-1, 1, 31)
	require.NoError(t, err)
	my, err := mesher.NewUniform1D(-1, 1, 31)
	require.NoError(t, err)
	m, err := mesher.NewComposite(mx, my)
	require.NoError(t, err)
	return Desc{
		Mesher:     m,
		Calculator: payoff.NewBasket(payoff.Func(func(s float64) float64 { return s }), m, 1, 1),
		Maturity:   0.5,
		TimeSteps:  50,
	}
}

func TestBasketForward(t *testing.T) {
	p1 := operator.Params{Rate: 0.04, Dividend: 0.02, Vol: 0.25}
	p2 := operator.Params{Rate: 0.04, Dividend: 0.01, Vol: 0.2}
	desc := basketDesc(t)
	op := operator.NewTwoAsset(desc.Mesher, p1, p2, 0.4)

	for _, solverType := range []scheme.SolverType{scheme.BiCGStab, scheme.GMRES} {
		s, err := NewFdm2DimSolver(desc, scheme.DouglasDesc(), op,
			WithSchemeOptions(scheme.WithSolver(solverType)))
		require.NoError(t, err)

		// V = e^x·e^{-q1 T} + e^y·e^{-q2 T}
		d1, d2 := math.Exp(-p1.Dividend*desc.Maturity), math.Exp(-p2.Dividend*desc.Maturity)
		v, err := s.InterpolateAt(0, 0)
		require.NoError(t, err)
		require.InDelta(t, d1+d2, v, 1e-2*(d1+d2))

		dx, err := s.DerivativeX(0, 0)
		require.NoError(t, err)
		require.InDelta(t, d1, dx, 3e-2)
		dy, err := s.DerivativeY(0, 0)
		require.NoError(t, err)
		require.InDelta(t, d2, dy, 3e-2)
		dxx, err := s.DerivativeXX(0, 0)
		require.NoError(t, err)
		require.InDelta(t, d1, dxx, 5e-2)
		dyy, err := s.DerivativeYY(0, 0)
		require.NoError(t, err)
		require.InDelta(t, d2, dyy, 5e-2)
		dxy, err := s.DerivativeXY(0, 0)
		require.NoError(t, err)
		require.InDelta(t, 0, dxy, 5e-2)

		theta, err := s.ThetaAt(0, 0)
		require.NoError(t, err)
		require.InDelta(t, p1.Dividend*d1+p2.Dividend*d2, theta, 5e-3)
	}
}

func TestFdm2DimCaching(t *testing.T) {
	desc := basketDesc(t)
	p := operator.Params{Rate: 0.03, Vol: 0.2}
	op := &countingOperator{Operator: operator.NewTwoAsset(desc.Mesher, p, p, 0)}
	s, err := NewFdm2DimSolver(desc, scheme.CraigSneydDesc(), op)
	require.NoError(t, err)

	first, err := s.InterpolateAt(0.1, -0.2)
	require.NoError(t, err)
	calls := op.calls
	again, err := s.InterpolateAt(0.1, -0.2)
	require.NoError(t, err)
	require.Equal(t, first, again)
	require.Equal(t, calls, op.calls)

	s.Recalculate()
	_, err = s.DerivativeXY(0.1, -0.2)
	require.NoError(t, err)
	require.Equal(t, 2*calls, op.calls)
}

func TestFdm2DimQueriesOutsideMesh(t *testing.T) {
	desc := basketDesc(t)
	p := operator.Params{Rate: 0.03, Vol: 0.2}
	op := &countingOperator{Operator: operator.NewTwoAsset(desc.Mesher, p, p, 0)}
	s, err := NewFdm2DimSolver(desc, scheme.DouglasDesc(), op)
	require.NoError(t, err)

	queries := []func(x, y float64) (float64, error){
		s.InterpolateAt, s.DerivativeX, s.DerivativeY,
		s.DerivativeXX, s.DerivativeYY, s.DerivativeXY, s.ThetaAt,
	}
	for _, pt := range [][2]float64{{1.5, 0}, {0, -1.01}, {math.NaN(), 0}, {-2, 2}} {
		for _, q := range queries {
			_, err := q(pt[0], pt[1])
			require.ErrorIs(t, err, ErrOutOfRange, "at %v", pt)
		}
	}
	require.Zero(t, op.calls)

	_, err = s.InterpolateAt(1, -1)
	require.NoError(t, err)
}

func TestFdm2DimThetaUndefined(t *testing.T) {
	desc := basketDesc(t)
	desc.Condition = step.NewComposite(step.NewAmerican(desc.Calculator), step.NewBermudan(desc.Calculator, 0))
	p := operator.Params{Rate: 0.03, Vol: 0.2}
	s, err := NewFdm2DimSolver(desc, scheme.DouglasDesc(), operator.NewTwoAsset(desc.Mesher, p, p, 0))
	require.NoError(t, err)
	_, err = s.ThetaAt(0, 0)
	require.ErrorIs(t, err, ErrThetaUndefined)
}
