package scheme

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"fdm/maths"
	"fdm/operator"
)

// 格式错误
var (
	// ErrNegativeTime 时间步越过零点
	ErrNegativeTime = errors.New("scheme: a step towards negative time given")
	// ErrStepNotSet 未调用 SetStep 即调用 Step
	ErrStepNotSet = errors.New("scheme: step size not set")
	// ErrUnknownSolver 未知的线性求解器
	ErrUnknownSolver = errors.New("scheme: unknown linear solver")
	// ErrUnknownScheme 未知的格式类型
	ErrUnknownScheme = errors.New("scheme: unknown scheme type")
	// ErrBadTolerance 容差非正
	ErrBadTolerance = errors.New("scheme: tolerance must be > 0")
)

// 允许的负时间误差
const timeEpsilon = 1e-8

// Scheme 单步时间推进：Step 把时间 t 的解推进为 t-dt 的解
type Scheme interface {
	SetStep(dt float64)
	Step(a []float64, t float64) error
}

// stepper 各格式共用的步长状态
type stepper struct {
	dt      float64
	stepSet bool
}

func (s *stepper) SetStep(dt float64) {
	s.dt = dt
	s.stepSet = true
}

// check 校验步长已设置且 t-dt 不为负
func (s *stepper) check(t float64) error {
	if !s.stepSet {
		return ErrStepNotSet
	}
	if t-s.dt <= -timeEpsilon {
		return fmt.Errorf("t=%v dt=%v: %w", t, s.dt, ErrNegativeTime)
	}
	return nil
}

// from 步末时间 max(0, t-dt)
func (s *stepper) from(t float64) float64 { return math.Max(0, t-s.dt) }

// axpy x + c*y，返回新切片
func axpy(x []float64, c float64, y []float64) []float64 {
	return floats.AddScaledTo(make([]float64, len(x)), x, c, y)
}

// sub x - y，返回新切片
func sub(x, y []float64) []float64 { return floats.SubTo(make([]float64, len(x)), x, y) }

// directionalCorrection 依次沿各方向求解 y ← (I - θdt·A_i)^-1 (y - θdt·A_i(base))
func directionalCorrection(op operator.Operator, y, base []float64, theta, dt float64) ([]float64, error) {
	var err error
	for i := 0; i < op.Size(); i++ {
		rhs := axpy(y, -theta*dt, op.ApplyDirection(i, base))
		if y, err = op.SolveSplitting(i, rhs, -theta*dt); err != nil {
			return nil, fmt.Errorf("direction %d: %w", i, err)
		}
	}
	return y, nil
}

// implicitSolve 求解 (I + s·A)x = rhs：单方向算子直接分裂求解，否则用 Krylov 方法
// 返回解和 Krylov 迭代次数
func implicitSolve(op operator.Operator, rhs []float64, s float64, o options) ([]float64, int, error) {
	if op.Size() == 1 {
		x, err := op.SolveSplitting(0, rhs, s)
		return x, 0, err
	}
	apply := func(r []float64) []float64 { return axpy(r, s, op.Apply(r)) }
	precond := func(r []float64) []float64 { return op.Preconditioner(r, s) }
	n := len(rhs)
	switch o.solver {
	case BiCGStab:
		res, err := maths.NewBiCGStab(apply, max(10, n), o.relTol, precond).Solve(rhs, rhs)
		return res.X, res.Iterations, err
	case GMRES:
		res, err := maths.NewGMRES(apply, max(10, n/10), o.relTol, precond).SolveWithRestart(gmresRestarts, rhs, rhs)
		return res.X, len(res.Errors), err
	}
	return nil, 0, fmt.Errorf("%v: %w", o.solver, ErrUnknownSolver)
}
