package boundary

import (
	"fdm/mesher"
	"fdm/operator"
)

// Condition 边界条件，在格式计算的固定阶段被调用
type Condition interface {
	// SetTime 设置当前时间
	SetTime(t float64)
	// ApplyBeforeApplying 显式应用算子之前
	ApplyBeforeApplying(op operator.Operator)
	// ApplyAfterApplying 显式应用算子之后，修改状态
	ApplyAfterApplying(a []float64)
	// ApplyBeforeSolving 隐式求解之前，可修改右端项
	ApplyBeforeSolving(op operator.Operator, rhs []float64)
	// ApplyAfterSolving 隐式求解之后，修改状态
	ApplyAfterSolving(a []float64)
}

// Set 边界条件集合，按顺序依次调用
type Set []Condition

func (s Set) SetTime(t float64) {
	for _, c := range s {
		c.SetTime(t)
	}
}

func (s Set) ApplyBeforeApplying(op operator.Operator) {
	for _, c := range s {
		c.ApplyBeforeApplying(op)
	}
}

func (s Set) ApplyAfterApplying(a []float64) {
	for _, c := range s {
		c.ApplyAfterApplying(a)
	}
}

func (s Set) ApplyBeforeSolving(op operator.Operator, rhs []float64) {
	for _, c := range s {
		c.ApplyBeforeSolving(op, rhs)
	}
}

func (s Set) ApplyAfterSolving(a []float64) {
	for _, c := range s {
		c.ApplyAfterSolving(a)
	}
}

// Side 边界所在的一侧
type Side int

const (
	Lower Side = iota
	Upper
)

func (s Side) String() string {
	if s == Lower {
		return "lower"
	}
	return "upper"
}

// sideIndices 第 direction 维 side 侧边界上的扁平索引
func sideIndices(m mesher.Mesher, direction int, side Side) []int {
	layout := m.Layout()
	var out []int
	for i := 0; i < layout.Size(); i++ {
		if (side == Lower && layout.IsLower(i, direction)) || (side == Upper && layout.IsUpper(i, direction)) {
			out = append(out, i)
		}
	}
	return out
}

// noop 不需要时间或算子信息的条件共用的空实现
type noop struct{}

func (noop) SetTime(float64)                                 {}
func (noop) ApplyBeforeApplying(operator.Operator)           {}
func (noop) ApplyBeforeSolving(operator.Operator, []float64) {}
