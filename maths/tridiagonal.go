package maths

import (
	"fmt"

	"gonum.org/v1/gonum/lapack/gonum"
)

// SolveTridiagonal 列主元高斯消元求解三对角线性方程组
// 参数：
//
//	lower - 下对角线，lower[0] 不参与计算
//	diag  - 主对角线
//	upper - 上对角线，upper[n-1] 不参与计算
//	rhs   - 右侧向量
//
// 返回：
//
//	新分配的解向量，输入不被修改；矩阵奇异时返回 ErrSingular
func SolveTridiagonal(lower, diag, upper, rhs []float64) ([]float64, error) {
	n := len(diag)
	if len(lower) != n || len(upper) != n || len(rhs) != n {
		return nil, ErrDimensionMismatch
	}
	if n == 0 {
		return []float64{}, nil
	}
	// Dgtsv 会覆盖三条对角线和右侧向量
	dl := append([]float64{}, lower[1:]...)
	d := append([]float64{}, diag...)
	du := append([]float64{}, upper[:n-1]...)
	x := append([]float64{}, rhs...)
	if !(gonum.Implementation{}).Dgtsv(n, 1, dl, d, du, x, 1) {
		return nil, fmt.Errorf("tridiagonal %dx%d: %w", n, n, ErrSingular)
	}
	return x, nil
}
