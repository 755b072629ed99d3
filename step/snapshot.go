package step

import "slices"

// Snapshot 在时间 t 记录状态副本，不修改状态
type Snapshot struct {
	t      float64
	values []float64
}

func NewSnapshot(t float64) *Snapshot { return &Snapshot{t: t} }

func (s *Snapshot) ApplyTo(a []float64, t float64) {
	if t == s.t {
		s.values = slices.Clone(a)
	}
}

func (s *Snapshot) StoppingTimes() []float64 { return []float64{s.t} }

// Time 快照时间
func (s *Snapshot) Time() float64 { return s.t }

// Values 快照值，尚未触发时为空
func (s *Snapshot) Values() []float64 { return s.values }
