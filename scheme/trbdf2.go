package scheme

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"fdm/boundary"
	"fdm/operator"
)

// TrBDF2 先用梯形格式推进 α·dt，再做 BDF2 隐式求解，失败时 a 保持不变
// (I - β·A) x = (f*/α - (1-α)²/α · a)/(2-α)，β = (1-α)/(2-α)·dt
type TrBDF2 struct {
	stepper
	alpha       float64
	beta        float64
	op          operator.Operator
	trapezoidal Scheme
	bcs         boundary.Set
	opts        options
	iterations  int
}

// NewTrBDF2 trapezoidal 为梯形阶段使用的格式，步长由 TrBDF2 设置
func NewTrBDF2(alpha float64, op operator.Operator, trapezoidal Scheme, bcs boundary.Set, opts ...Option) (*TrBDF2, error) {
	o, err := defaultOptions(opts)
	if err != nil {
		return nil, err
	}
	return &TrBDF2{alpha: alpha, op: op, trapezoidal: trapezoidal, bcs: bcs, opts: o}, nil
}

func (s *TrBDF2) SetStep(dt float64) {
	s.stepper.SetStep(dt)
	s.beta = (1 - s.alpha) / (2 - s.alpha) * dt
}

func (s *TrBDF2) Step(a []float64, t float64) error {
	if err := s.check(t); err != nil {
		return err
	}
	initial := append([]float64{}, a...)

	s.trapezoidal.SetStep(s.alpha * s.dt)
	if err := s.trapezoidal.Step(a, t); err != nil {
		copy(a, initial)
		return fmt.Errorf("trapezoidal stage: %w", err)
	}

	s.op.SetTime(s.from(t), math.Max(0, t-s.alpha*s.dt))
	s.bcs.SetTime(s.from(t))
	s.bcs.ApplyBeforeSolving(s.op, a)

	c := (1 - s.alpha) * (1 - s.alpha) / s.alpha
	f := floats.ScaleTo(make([]float64, len(a)), 1/s.alpha, a)
	floats.AddScaled(f, -c, initial)
	floats.Scale(1/(2-s.alpha), f)
	x, iterations, err := implicitSolve(s.op, f, -s.beta, s.opts)
	s.iterations += iterations
	if err != nil {
		copy(a, initial)
		return fmt.Errorf("bdf2 stage at t=%v: %w", t, err)
	}
	s.bcs.ApplyAfterSolving(x)
	copy(a, x)
	return nil
}

// NumberOfIterations 累计的 Krylov 迭代次数
func (s *TrBDF2) NumberOfIterations() int { return s.iterations }
