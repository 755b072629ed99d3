package maths

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ApplyFunc 无矩阵形式的线性算子 y = A(x)，实现必须返回新切片
type ApplyFunc func(x []float64) []float64

// KrylovResult BiCGStab 求解结果
type KrylovResult struct {
	X          []float64 // 近似解（未收敛时为最后一次迭代值）
	Iterations int       // 已执行的迭代次数
	Error      float64   // 相对残差 ‖b-Ax‖/‖b‖
}

// GMRESResult GMRES 求解结果
type GMRESResult struct {
	X      []float64 // 近似解
	Errors []float64 // 每次迭代的相对残差估计
}

// LastError 最后一次相对残差
func (r GMRESResult) LastError() float64 {
	if len(r.Errors) == 0 {
		return math.Inf(1)
	}
	return r.Errors[len(r.Errors)-1]
}

// residual 计算 b - A(x)
func residual(a ApplyFunc, b, x []float64) []float64 {
	r := make([]float64, len(b))
	floats.SubTo(r, b, a(x))
	return r
}

// precondition 预条件为空时退化为恒等映射
func precondition(m ApplyFunc, x []float64) []float64 {
	if m == nil {
		out := make([]float64, len(x))
		copy(out, x)
		return out
	}
	return m(x)
}

// tiny 判断分母是否过小导致崩溃
func tiny(v float64) bool {
	return v == 0 || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) < dlamchE*dlamchE
}

// dlamchE 机器精度
const dlamchE = 1.0 / (1 << 53)
