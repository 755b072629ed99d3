package scheme

import (
	"fmt"

	"fdm/boundary"
	"fdm/operator"
)

// ExplicitEuler a ← a + θ·dt·A(a)
type ExplicitEuler struct {
	stepper
	op  operator.Operator
	bcs boundary.Set
}

func NewExplicitEuler(op operator.Operator, bcs boundary.Set) *ExplicitEuler {
	return &ExplicitEuler{op: op, bcs: bcs}
}

func (e *ExplicitEuler) Step(a []float64, t float64) error {
	return e.StepWeighted(a, t, 1)
}

// StepWeighted 以权重 theta 推进一步
func (e *ExplicitEuler) StepWeighted(a []float64, t, theta float64) error {
	if err := e.check(t); err != nil {
		return err
	}
	e.op.SetTime(e.from(t), t)
	e.bcs.SetTime(e.from(t))
	e.bcs.ApplyBeforeApplying(e.op)
	y := axpy(a, theta*e.dt, e.op.Apply(a))
	e.bcs.ApplyAfterApplying(y)
	copy(a, y)
	return nil
}

// ImplicitEuler 求解 (I - θ·dt·A) a_new = a
type ImplicitEuler struct {
	stepper
	op         operator.Operator
	bcs        boundary.Set
	opts       options
	iterations int
}

// NewImplicitEuler 未知的求解器类型返回 ErrUnknownSolver
func NewImplicitEuler(op operator.Operator, bcs boundary.Set, opts ...Option) (*ImplicitEuler, error) {
	o, err := defaultOptions(opts)
	if err != nil {
		return nil, err
	}
	return &ImplicitEuler{op: op, bcs: bcs, opts: o}, nil
}

func (e *ImplicitEuler) Step(a []float64, t float64) error {
	return e.StepWeighted(a, t, 1)
}

// StepWeighted 以权重 theta 推进一步，Krylov 不收敛时 a 保持不变
func (e *ImplicitEuler) StepWeighted(a []float64, t, theta float64) error {
	if err := e.check(t); err != nil {
		return err
	}
	e.op.SetTime(e.from(t), t)
	e.bcs.SetTime(e.from(t))
	rhs := append([]float64{}, a...)
	e.bcs.ApplyBeforeSolving(e.op, rhs)
	x, iterations, err := implicitSolve(e.op, rhs, -theta*e.dt, e.opts)
	e.iterations += iterations
	if err != nil {
		return fmt.Errorf("implicit euler at t=%v: %w", t, err)
	}
	e.bcs.ApplyAfterSolving(x)
	copy(a, x)
	return nil
}

// NumberOfIterations 累计的 Krylov 迭代次数
func (e *ImplicitEuler) NumberOfIterations() int { return e.iterations }

// CrankNicolson 权重 1-θ 的显式步接权重 θ 的隐式步，失败时 a 保持不变
type CrankNicolson struct {
	theta    float64
	explicit *ExplicitEuler
	implicit *ImplicitEuler
}

func NewCrankNicolson(theta float64, op operator.Operator, bcs boundary.Set, opts ...Option) (*CrankNicolson, error) {
	implicit, err := NewImplicitEuler(op, bcs, opts...)
	if err != nil {
		return nil, err
	}
	return &CrankNicolson{
		theta:    theta,
		explicit: NewExplicitEuler(op, bcs),
		implicit: implicit,
	}, nil
}

func (c *CrankNicolson) SetStep(dt float64) {
	c.explicit.SetStep(dt)
	c.implicit.SetStep(dt)
}

func (c *CrankNicolson) Step(a []float64, t float64) error {
	if err := c.implicit.check(t); err != nil {
		return err
	}
	initial := append([]float64{}, a...)
	if c.theta != 1 {
		if err := c.explicit.StepWeighted(a, t, 1-c.theta); err != nil {
			copy(a, initial)
			return err
		}
	}
	if c.theta != 0 {
		if err := c.implicit.StepWeighted(a, t, c.theta); err != nil {
			copy(a, initial)
			return err
		}
	}
	return nil
}

// NumberOfIterations 隐式部分累计的 Krylov 迭代次数
func (c *CrankNicolson) NumberOfIterations() int { return c.implicit.NumberOfIterations() }
