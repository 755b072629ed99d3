package scheme

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"fdm/boundary"
	"fdm/ode"
	"fdm/operator"
)

// 右端项中算子 SetTime 的时间区间宽度
const rhsTimeWindow = 0.0001

// MethodOfLines 把半离散系统 dx/dt = -A(x) 交给自适应 Runge-Kutta 积分
type MethodOfLines struct {
	stepper
	eps     float64
	relInit float64
	op      operator.Operator
	bcs     boundary.Set
}

// NewMethodOfLines eps 为积分容差，relInit 为初始步长相对 dt 的比例
func NewMethodOfLines(eps, relInit float64, op operator.Operator, bcs boundary.Set) *MethodOfLines {
	return &MethodOfLines{eps: eps, relInit: relInit, op: op, bcs: bcs}
}

func (m *MethodOfLines) Step(a []float64, t float64) error {
	if err := m.check(t); err != nil {
		return err
	}
	rk, err := ode.NewCashKarp(m.eps, m.relInit*m.dt, 0)
	if err != nil {
		return fmt.Errorf("method of lines: %w", err)
	}
	y, err := rk.Integrate(m.rhs, a, t, m.from(t))
	if err != nil {
		return fmt.Errorf("method of lines at t=%v: %w", t, err)
	}
	m.bcs.ApplyAfterSolving(y)
	copy(a, y)
	return nil
}

// rhs dx/dt = -A(x)，边界节点先取边界值再应用算子
func (m *MethodOfLines) rhs(t float64, r []float64) []float64 {
	m.op.SetTime(t, t+rhsTimeWindow)
	m.bcs.SetTime(t)
	m.bcs.ApplyBeforeApplying(m.op)
	u := append([]float64{}, r...)
	m.bcs.ApplyAfterApplying(u)
	dxdt := m.op.Apply(u)
	floats.Scale(-1, dxdt)
	return dxdt
}
