package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fdm/step"
)

// recordingScheme 只记录调用，不修改状态
type recordingScheme struct {
	dt    float64
	calls [][2]float64
}

func (r *recordingScheme) SetStep(dt float64) { r.dt = dt }

func (r *recordingScheme) Step(_ []float64, t float64) error {
	r.calls = append(r.calls, [2]float64{t, r.dt})
	return nil
}

type timeLog struct{ times []float64 }

func (l *timeLog) ApplyTo(_ []float64, t float64) { l.times = append(l.times, t) }

func TestModelSplitsAtStoppingTimes(t *testing.T) {
	s := &recordingScheme{}
	log := &timeLog{}
	m := NewModel(s, []float64{0.5, 0.3, 1})
	require.NoError(t, m.Rollback(make([]float64, 3), 1, 0, 4, log))

	require.Equal(t, []float64{1, 0.75, 0.5, 0.3, 0.25, 0}, log.times)
	want := [][2]float64{{1, 0.25}, {0.75, 0.25}, {0.5, 0.2}, {0.3, 0.05}, {0.25, 0.25}}
	require.Len(t, s.calls, len(want))
	for i, c := range want {
		require.InDelta(t, c[0], s.calls[i][0], 1e-12)
		require.InDelta(t, c[1], s.calls[i][1], 1e-12)
	}
}

func TestModelAppliesAtFromOnlyForLastStoppingTime(t *testing.T) {
	log := &timeLog{}
	m := NewModel(&recordingScheme{}, []float64{0.5, 1})
	require.NoError(t, m.Rollback(make([]float64, 2), 0.5, 0, 2, log))
	require.Equal(t, []float64{0.25, 0}, log.times)

	log.times = nil
	require.NoError(t, m.Rollback(make([]float64, 2), 1, 0.5, 2, log))
	require.Equal(t, []float64{1, 0.75, 0.5}, log.times)
}

func TestModelRejectsForwardRollback(t *testing.T) {
	m := NewModel(&recordingScheme{}, nil)
	require.ErrorIs(t, m.Rollback(nil, 0, 1, 4, nil), ErrInvalidRollback)
	require.ErrorIs(t, m.Rollback(nil, 1, 0, 0, nil), ErrInvalidRollback)
}

func TestModelAppliesSnapshot(t *testing.T) {
	snap := step.NewSnapshot(0.4)
	cond := step.NewComposite(snap)
	m := NewModel(&recordingScheme{}, cond.StoppingTimes())
	a := []float64{1, 2}
	require.NoError(t, m.Rollback(a, 1, 0, 3, cond))
	require.Equal(t, []float64{1, 2}, snap.Values())
}
