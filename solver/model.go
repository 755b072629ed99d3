package solver

import (
	"fmt"
	"math"
	"slices"

	"fdm/scheme"
	"fdm/step"
)

// 时间对齐容差 sqrt(机器精度)
var timeSnap = math.Sqrt(2.220446049250313e-16)

// Model 有限差分回滚模型：按给定步数推进格式，遇到停止时间时切分时间步，
// 每步结束后在步末时间应用步进条件
type Model struct {
	evolver       scheme.Scheme
	stoppingTimes []float64
	onStep        func(t float64, a []float64)
}

// NewModel stoppingTimes 为升序的停止时间
func NewModel(evolver scheme.Scheme, stoppingTimes []float64) *Model {
	ts := slices.Clone(stoppingTimes)
	slices.Sort(ts)
	return &Model{evolver: evolver, stoppingTimes: slices.Compact(ts)}
}

// OnStep 每个子步结束并应用条件后调用
func (m *Model) OnStep(fn func(t float64, a []float64)) { m.onStep = fn }

// Rollback 从 from 回滚到 to，共 steps 步；cond 可为空
// from 为最后一个停止时间时先在 from 应用条件
func (m *Model) Rollback(a []float64, from, to float64, steps int, cond step.Condition) error {
	return m.rollback(a, from, to, steps, cond, true)
}

// rollback applyAtFrom 为假时 from 处的条件已由上一段回滚应用
func (m *Model) rollback(a []float64, from, to float64, steps int, cond step.Condition, applyAtFrom bool) error {
	if from < to {
		return fmt.Errorf("from %v to %v: %w", from, to, ErrInvalidRollback)
	}
	if steps <= 0 {
		return fmt.Errorf("%d steps: %w", steps, ErrInvalidRollback)
	}
	dt := (from - to) / float64(steps)
	m.evolver.SetStep(dt)

	if n := len(m.stoppingTimes); applyAtFrom && n > 0 && m.stoppingTimes[n-1] == from {
		m.apply(cond, a, from)
	}
	t := from
	for i := 0; i < steps; i, t = i+1, t-dt {
		now, next := t, t-dt
		if math.Abs(to-next) < timeSnap {
			next = to
		}
		hit := false
		for j := len(m.stoppingTimes) - 1; j >= 0; j-- {
			st := m.stoppingTimes[j]
			if next <= st && st < now {
				hit = true
				m.evolver.SetStep(now - st)
				if err := m.evolver.Step(a, now); err != nil {
					return err
				}
				m.apply(cond, a, st)
				now = st
			}
		}
		if hit {
			if now > next {
				m.evolver.SetStep(now - next)
				if err := m.evolver.Step(a, now); err != nil {
					return err
				}
				m.apply(cond, a, next)
			}
			m.evolver.SetStep(dt)
			continue
		}
		if err := m.evolver.Step(a, now); err != nil {
			return err
		}
		m.apply(cond, a, next)
	}
	return nil
}

func (m *Model) apply(cond step.Condition, a []float64, t float64) {
	if cond != nil {
		cond.ApplyTo(a, t)
	}
	if m.onStep != nil {
		m.onStep(t, a)
	}
}
