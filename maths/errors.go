package maths

import (
	"errors"
	"fmt"
)

// 包内哨兵错误，调用方通过 errors.Is 匹配
var (
	// ErrDimensionMismatch 向量或矩阵维度不一致
	ErrDimensionMismatch = errors.New("maths: dimension mismatch")
	// ErrSingular 三对角消元或三角回代遇到零主元
	ErrSingular = errors.New("maths: singular system")
	// ErrNotConverged 迭代求解器在最大迭代次数内未达到相对残差容差
	ErrNotConverged = errors.New("maths: solver did not converge")
	// ErrBreakdown 迭代求解器数值崩溃（ρ、ω 或 Hessenberg 主元为零）
	ErrBreakdown = fmt.Errorf("maths: solver breakdown: %w", ErrNotConverged)
	// ErrTooFewPoints 插值节点不足
	ErrTooFewPoints = errors.New("maths: too few interpolation points")
)
