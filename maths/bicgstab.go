package maths

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// BiCGStab 预条件双共轭梯度稳定法，求解非对称系统 Ax = b
// A 以无矩阵形式给出，预条件 M 近似 A 的逆，为空时不做预条件
type BiCGStab struct {
	a       ApplyFunc
	m       ApplyFunc
	maxIter int
	relTol  float64
}

// NewBiCGStab 创建 BiCGStab 求解器
// 参数：
//
//	a       - 线性算子
//	maxIter - 最大迭代次数（<=0 时取 2*维度）
//	relTol  - 相对残差容差
//	precond - 预条件算子，可为空
func NewBiCGStab(a ApplyFunc, maxIter int, relTol float64, precond ApplyFunc) *BiCGStab {
	if a == nil {
		panic("maths: nil linear operator")
	}
	return &BiCGStab{a: a, m: precond, maxIter: maxIter, relTol: relTol}
}

// Solve 从初始值 x0 出发求解 Ax = b，x0 为空时从零向量出发
// 未收敛时返回最后一次迭代值，错误包含 ErrNotConverged
func (s *BiCGStab) Solve(b, x0 []float64) (KrylovResult, error) {
	n := len(b)
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return KrylovResult{X: make([]float64, n)}, nil
	}
	x := make([]float64, n)
	if x0 != nil {
		if len(x0) != n {
			return KrylovResult{}, ErrDimensionMismatch
		}
		copy(x, x0)
	}
	maxIter := s.maxIter
	if maxIter <= 0 {
		maxIter = 2 * n
	}

	r := residual(s.a, b, x)
	rTld := make([]float64, n)
	copy(rTld, r)
	p := make([]float64, n)
	v := make([]float64, n)
	sv := make([]float64, n)

	omega, rhoTld, alpha := 1.0, 1.0, 0.0
	errNorm := floats.Norm(r, 2) / bnorm
	i := 0
	for ; i < maxIter && errNorm >= s.relTol; i++ {
		rho := floats.Dot(rTld, r)
		if tiny(rho) || tiny(omega) {
			return KrylovResult{X: x, Iterations: i, Error: errNorm},
				fmt.Errorf("rho/omega at iteration %d: %w", i, ErrBreakdown)
		}
		if i > 0 {
			// p = r + β(p - ωv)
			beta := (rho / rhoTld) * (alpha / omega)
			floats.AddScaled(p, -omega, v)
			floats.Scale(beta, p)
			floats.Add(p, r)
		} else {
			copy(p, r)
		}
		pTld := precondition(s.m, p)
		v = s.a(pTld)
		denom := floats.Dot(rTld, v)
		if tiny(denom) {
			return KrylovResult{X: x, Iterations: i, Error: errNorm},
				fmt.Errorf("(r~,v)=0 at iteration %d: %w", i, ErrBreakdown)
		}
		alpha = rho / denom
		// s = r - αv
		floats.AddScaledTo(sv, r, -alpha, v)
		if floats.Norm(sv, 2) < s.relTol*bnorm {
			floats.AddScaled(x, alpha, pTld)
			errNorm = floats.Norm(sv, 2) / bnorm
			i++
			break
		}
		sTld := precondition(s.m, sv)
		t := s.a(sTld)
		tt := floats.Dot(t, t)
		if tiny(tt) {
			return KrylovResult{X: x, Iterations: i, Error: errNorm},
				fmt.Errorf("(t,t)=0 at iteration %d: %w", i, ErrBreakdown)
		}
		omega = floats.Dot(t, sv) / tt
		floats.AddScaled(x, alpha, pTld)
		floats.AddScaled(x, omega, sTld)
		// r = s - ωt
		floats.AddScaledTo(r, sv, -omega, t)
		errNorm = floats.Norm(r, 2) / bnorm
		rhoTld = rho
	}

	res := KrylovResult{X: x, Iterations: i, Error: errNorm}
	if errNorm >= s.relTol {
		return res, fmt.Errorf("bicgstab: %d iterations, residual %.3e: %w", i, errNorm, ErrNotConverged)
	}
	return res, nil
}
