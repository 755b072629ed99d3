package solver

import (
	"fmt"
	"time"

	"fdm/boundary"
	"fdm/operator"
	"fdm/scheme"
	"fdm/step"
)

// BackwardSolver 从到期日回滚到估值日：先用隐式 Euler 做阻尼步，再用选定格式推进
type BackwardSolver struct {
	op   operator.Operator
	bcs  boundary.Set
	cond *step.Composite
	desc scheme.Desc
	opts options
}

// NewBackwardSolver cond 可为空
func NewBackwardSolver(op operator.Operator, bcs boundary.Set, cond *step.Composite, desc scheme.Desc, opts ...Option) *BackwardSolver {
	if cond == nil {
		cond = step.NewComposite()
	}
	return &BackwardSolver{op: op, bcs: bcs, cond: cond, desc: desc, opts: newOptions(opts)}
}

// Rollback 把 a 从时间 from 回滚到 to
// 前 dampingSteps 步覆盖 [from - (from-to)·damping/(steps+damping), from]
func (b *BackwardSolver) Rollback(a []float64, from, to float64, steps, dampingSteps int) error {
	if from < to {
		return fmt.Errorf("from %v to %v: %w", from, to, ErrInvalidRollback)
	}
	if steps <= 0 || dampingSteps < 0 {
		return fmt.Errorf("steps %d damping %d: %w", steps, dampingSteps, ErrInvalidRollback)
	}
	start := time.Now()
	allSteps := steps + dampingSteps
	dampingTo := from - (from-to)*float64(dampingSteps)/float64(allSteps)
	stops := b.cond.StoppingTimes()

	if dampingSteps > 0 && b.desc.Type != scheme.ImplicitEulerType {
		ie, err := scheme.NewImplicitEuler(b.op, b.bcs, b.opts.schemeOpts...)
		if err != nil {
			return err
		}
		if err := b.model(ie, stops).Rollback(a, from, dampingTo, dampingSteps, b.cond); err != nil {
			return fmt.Errorf("damping: %w", err)
		}
	}

	s, err := scheme.New(b.desc, b.op, b.bcs, b.opts.schemeOpts...)
	if err != nil {
		return err
	}
	if b.desc.Type == scheme.ImplicitEulerType {
		err = b.model(s, stops).Rollback(a, from, to, allSteps, b.cond)
	} else {
		// 阻尼段结束时已在 dampingTo 应用过条件
		err = b.model(s, stops).rollback(a, dampingTo, to, steps, b.cond, dampingSteps == 0)
	}
	if err != nil {
		return fmt.Errorf("%v rollback: %w", b.desc.Type, err)
	}

	attrs := []any{
		"scheme", b.desc.Type.String(),
		"from", from, "to", to,
		"steps", steps, "damping", dampingSteps,
		"elapsed", time.Since(start),
	}
	if c, ok := s.(interface{ NumberOfIterations() int }); ok {
		attrs = append(attrs, "iterations", c.NumberOfIterations())
	}
	b.opts.logger.Debug("rollback", attrs...)
	return nil
}

func (b *BackwardSolver) model(s scheme.Scheme, stops []float64) *Model {
	m := NewModel(s, stops)
	if r := b.opts.recorder; r != nil {
		m.OnStep(r.Update)
	}
	return m
}
