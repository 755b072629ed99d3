package solver

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"fdm/debug"
	"fdm/operator"
	"fdm/payoff"
	"fdm/scheme"
	"fdm/step"
)

func TestBackwardSolverDampingPartition(t *testing.T) {
	desc := putDesc(t, 36, 40, 0.06, 1, 41, 4)
	op := operator.NewBlackScholes(desc.Mesher, 0, operator.Params{Rate: 0.06, Vol: 0.2})
	want := []float64{5.0 / 6, 4.0 / 6, 3.0 / 6, 2.0 / 6, 1.0 / 6, 0}

	for _, sd := range []scheme.Desc{scheme.CrankNicolsonDesc(), scheme.ImplicitEulerDesc()} {
		rec := &debug.Record{}
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		bs := NewBackwardSolver(op, desc.BCSet, nil, sd, WithRecorder(rec), WithLogger(logger))

		a := desc.terminal()
		require.NoError(t, bs.Rollback(a, 1, 0, 4, 2))
		require.Len(t, rec.Time, len(want), sd.Type.String())
		for i := range want {
			require.InDelta(t, want[i], rec.Time[i], 1e-12)
		}
		require.Contains(t, logs.String(), "scheme="+sd.Type.String())
	}
}

// stopLog 记录应用时间并要求回滚在 at 停下
type stopLog struct {
	timeLog
	at float64
}

func (l *stopLog) StoppingTimes() []float64 { return []float64{l.at} }

func TestConditionAtDampingEndAppliedOnce(t *testing.T) {
	desc := putDesc(t, 36, 40, 0.06, 1, 41, 4)
	op := operator.NewBlackScholes(desc.Mesher, 0, operator.Params{Rate: 0.06, Vol: 0.2})
	from, to := 1.0, 0.0
	at := from - (from-to)*float64(2)/float64(4+2)
	log := &stopLog{at: at}
	bs := NewBackwardSolver(op, desc.BCSet, step.NewComposite(log), scheme.CrankNicolsonDesc())
	require.NoError(t, bs.Rollback(desc.terminal(), from, to, 4, 2))

	hits := 0
	for _, tm := range log.times {
		if tm == at {
			hits++
		}
	}
	require.Equal(t, 1, hits)
	require.Len(t, log.times, 6)
}

func TestBackwardSolverErrors(t *testing.T) {
	desc := putDesc(t, 36, 40, 0.06, 1, 41, 4)
	op := operator.NewBlackScholes(desc.Mesher, 0, operator.Params{Rate: 0.06, Vol: 0.2})
	bs := NewBackwardSolver(op, nil, nil, scheme.DouglasDesc())
	a := desc.terminal()
	require.ErrorIs(t, bs.Rollback(a, 0, 1, 10, 0), ErrInvalidRollback)
	require.ErrorIs(t, bs.Rollback(a, 1, 0, 10, -1), ErrInvalidRollback)

	bad := NewBackwardSolver(op, nil, nil, scheme.ImplicitEulerDesc(), WithSchemeOptions(scheme.WithSolver(scheme.SolverType(9))))
	require.ErrorIs(t, bad.Rollback(a, 1, 0, 10, 0), scheme.ErrUnknownSolver)

	require.Panics(t, func() { WithLogger(nil) })
}

// TestDampingReducesOscillation 数字期权在大时间步 Crank-Nicolson 下振荡，阻尼步抑制振荡
func TestDampingReducesOscillation(t *testing.T) {
	maxCurvature := func(damping int) float64 {
		desc := putDesc(t, 100, 100, 0.05, 1, 201, 10)
		desc.BCSet = nil
		desc.DampingSteps = damping
		desc.Calculator = pointwise{payoff.NewLogInner(
			payoff.CashOrNothing{Type: payoff.Call, StrikePrice: 100, Cash: 10}, desc.Mesher, 0)}
		s, err := NewFdm1DimSolver(desc, scheme.CrankNicolsonDesc(),
			operator.NewBlackScholes(desc.Mesher, 0, operator.Params{Rate: 0.05, Vol: 0.2}))
		require.NoError(t, err)
		v, err := s.Values()
		require.NoError(t, err)
		m := 0.0
		for i := 1; i < len(v)-1; i++ {
			m = math.Max(m, math.Abs(v[i+1]-2*v[i]+v[i-1]))
		}
		return m
	}
	require.Less(t, maxCurvature(2), maxCurvature(0))
}
