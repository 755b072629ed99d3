package maths

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GMRES 广义极小残差法，Arnoldi 正交化 + Givens 旋转
// 预条件按右预条件方式作用：A M y = b, x = x0 + M y
type GMRES struct {
	a       ApplyFunc
	m       ApplyFunc
	maxIter int // Krylov 子空间最大维度
	relTol  float64
}

// NewGMRES 创建 GMRES 求解器
// 参数：
//
//	a       - 线性算子
//	maxIter - Krylov 子空间最大维度（<=0 时取维度）
//	relTol  - 相对残差容差
//	precond - 预条件算子，可为空
func NewGMRES(a ApplyFunc, maxIter int, relTol float64, precond ApplyFunc) *GMRES {
	if a == nil {
		panic("maths: nil linear operator")
	}
	return &GMRES{a: a, m: precond, maxIter: maxIter, relTol: relTol}
}

// Solve 单轮 GMRES（不重启）
func (g *GMRES) Solve(b, x0 []float64) (GMRESResult, error) {
	res, err := g.solveImpl(b, x0)
	if err != nil {
		return res, err
	}
	if res.LastError() >= g.relTol {
		return res, fmt.Errorf("gmres: residual %.3e: %w", res.LastError(), ErrNotConverged)
	}
	return res, nil
}

// SolveWithRestart 以上一轮结果为初值重启，最多 restart 轮
func (g *GMRES) SolveWithRestart(restart int, b, x0 []float64) (GMRESResult, error) {
	res, err := g.solveImpl(b, x0)
	if err != nil {
		return res, err
	}
	errs := append([]float64{}, res.Errors...)
	for i := 0; i < restart-1 && res.LastError() >= g.relTol; i++ {
		if res, err = g.solveImpl(b, res.X); err != nil {
			res.Errors = append(errs, res.Errors...)
			return res, err
		}
		errs = append(errs, res.Errors...)
	}
	res.Errors = errs
	if res.LastError() >= g.relTol {
		return res, fmt.Errorf("gmres: %d restarts, residual %.3e: %w", restart, res.LastError(), ErrNotConverged)
	}
	return res, nil
}

// solveImpl 一轮 Arnoldi 过程
func (g *GMRES) solveImpl(b, x0 []float64) (GMRESResult, error) {
	n := len(b)
	bn := floats.Norm(b, 2)
	if bn == 0 {
		return GMRESResult{X: make([]float64, n), Errors: []float64{0}}, nil
	}
	x := make([]float64, n)
	if x0 != nil {
		if len(x0) != n {
			return GMRESResult{}, ErrDimensionMismatch
		}
		copy(x, x0)
	}
	r := residual(g.a, b, x)
	beta := floats.Norm(r, 2)
	if beta/bn < g.relTol {
		return GMRESResult{X: x, Errors: []float64{beta / bn}}, nil
	}
	m := g.maxIter
	if m <= 0 {
		m = n
	}

	v := make([][]float64, 1, m+1)
	v[0] = make([]float64, n)
	floats.ScaleTo(v[0], 1/beta, r)
	// h 按列存储 Hessenberg 矩阵：h[j][i] = H(i, j)
	h := make([][]float64, 0, m)
	c := make([]float64, m+1)
	s := make([]float64, m+1)
	z := make([]float64, m+1)
	z[0] = beta
	errs := []float64{beta / bn}

	k := 0
	for j := 0; j < m; j++ {
		col := make([]float64, j+2)
		w := g.a(precondition(g.m, v[j]))
		// 修正 Gram-Schmidt 正交化
		for i := 0; i <= j; i++ {
			col[i] = floats.Dot(w, v[i])
			floats.AddScaled(w, -col[i], v[i])
		}
		col[j+1] = floats.Norm(w, 2)
		lucky := col[j+1] < dlamchE*dlamchE
		if !lucky {
			next := make([]float64, n)
			floats.ScaleTo(next, 1/col[j+1], w)
			v = append(v, next)
		}
		// 应用之前的 Givens 旋转
		for i := 0; i < j; i++ {
			h0, h1 := col[i], col[i+1]
			col[i] = c[i]*h0 + s[i]*h1
			col[i+1] = -s[i]*h0 + c[i]*h1
		}
		nu := math.Hypot(col[j], col[j+1])
		if nu == 0 {
			// 对角元与次对角元同时为零，H 奇异
			break
		}
		c[j], s[j] = col[j]/nu, col[j+1]/nu
		col[j], col[j+1] = nu, 0
		z[j+1] = -s[j] * z[j]
		z[j] = c[j] * z[j]
		h = append(h, col)
		k = j + 1
		errs = append(errs, math.Abs(z[j+1]/bn))
		if lucky || errs[len(errs)-1] < g.relTol {
			break
		}
	}
	if k == 0 {
		return GMRESResult{X: x, Errors: errs}, fmt.Errorf("gmres: singular hessenberg: %w", ErrBreakdown)
	}

	// 上三角最小二乘 R y = z
	tri := mat.NewTriDense(k, mat.Upper, nil)
	for j := 0; j < k; j++ {
		for i := 0; i <= j; i++ {
			tri.SetTri(i, j, h[j][i])
		}
	}
	var y mat.VecDense
	if err := y.SolveVec(tri, mat.NewVecDense(k, append([]float64{}, z[:k]...))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return GMRESResult{X: x, Errors: errs}, fmt.Errorf("gmres: %v: %w", err, ErrBreakdown)
		}
	}
	update := make([]float64, n)
	for i := 0; i < k; i++ {
		floats.AddScaled(update, y.AtVec(i), v[i])
	}
	floats.Add(x, precondition(g.m, update))
	return GMRESResult{X: x, Errors: errs}, nil
}
