package operator

import (
	"errors"
	"fmt"
)

// ErrDirection 方向超出算子维度
var ErrDirection = errors.New("operator: direction out of range")

// Operator 空间微分算子 A，按方向分裂 A = Σ A_i + A_mixed
// 所有方法返回新切片，不保留输入
type Operator interface {
	// Size 可分裂方向数
	Size() int
	// SetTime 设置当前时间区间，随时间变化的系数在此更新
	SetTime(t1, t2 float64)
	// Apply 完整算子 A(r)
	Apply(r []float64) []float64
	// ApplyMixed 混合导数部分
	ApplyMixed(r []float64) []float64
	// ApplyDirection 第 direction 方向的分量 A_i(r)，方向越界时 panic
	ApplyDirection(direction int, r []float64) []float64
	// SolveSplitting 求解 (I + s·A_i)x = r，方向越界时返回 ErrDirection
	SolveSplitting(direction int, r []float64, s float64) ([]float64, error)
	// Preconditioner 近似 (I + s·A)^-1 r
	Preconditioner(r []float64, s float64) []float64
}

// checkDirection direction 须在 [0, size) 内
func checkDirection(direction, size int) error {
	if direction < 0 || direction >= size {
		return fmt.Errorf("direction %d of %d: %w", direction, size, ErrDirection)
	}
	return nil
}

// zeros 与 r 等长的零向量
func zeros(r []float64) []float64 { return make([]float64, len(r)) }

// clone 复制 r
func clone(r []float64) []float64 { return append([]float64{}, r...) }
