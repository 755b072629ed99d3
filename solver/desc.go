package solver

import (
	"fmt"
	"log/slog"
	"math"

	"fdm/boundary"
	"fdm/mesher"
	"fdm/payoff"
	"fdm/step"
)

// Desc 外观求解器的输入
type Desc struct {
	Mesher       mesher.Mesher
	BCSet        boundary.Set
	Condition    *step.Composite // 可为空
	Calculator   payoff.Calculator
	Maturity     float64
	TimeSteps    int
	DampingSteps int
}

// 结果允许的最大绝对值
const maxResult = 1e300

func (d Desc) validate(rank int) error {
	if d.Mesher == nil || d.Calculator == nil {
		return fmt.Errorf("mesher or calculator: %w", ErrMissingInput)
	}
	if !(d.Maturity >= 0) {
		return fmt.Errorf("maturity %v: %w", d.Maturity, ErrMissingInput)
	}
	if got := d.Mesher.Layout().Rank(); got != rank {
		return fmt.Errorf("mesher rank %d, want %d: %w", got, rank, ErrDimensionMismatch)
	}
	return nil
}

// snapshotTime 快照时间 0.99·min(1/365, 第一个停止时间或到期时间)
func (d Desc) snapshotTime() float64 {
	first := d.Maturity
	if d.Condition != nil {
		if ts := d.Condition.StoppingTimes(); len(ts) > 0 {
			first = ts[0]
		}
	}
	return 0.99 * math.Min(1.0/365.0, first)
}

// terminal 到期时刻的单元平均内在价值
func (d Desc) terminal() []float64 {
	n := d.Mesher.Layout().Size()
	values := make([]float64, n)
	for i := range values {
		values[i] = d.Calculator.AvgInnerValue(i, d.Maturity)
	}
	return values
}

// checkRange v 须落在升序节点 xs 的闭区间内，NaN 视为越界
func checkRange(axis string, xs []float64, v float64) error {
	if lo, hi := xs[0], xs[len(xs)-1]; !(v >= lo && v <= hi) {
		return fmt.Errorf("%s=%v outside [%v, %v]: %w", axis, v, lo, hi, ErrOutOfRange)
	}
	return nil
}

// validateResult 任一节点非有限或绝对值超过 1e300 即为非法
func validateResult(values []float64, logger *slog.Logger) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxResult {
			logger.Warn("invalid rollback result", "node", i, "value", v)
			return fmt.Errorf("node %d value %v: %w", i, v, ErrInvalidResult)
		}
	}
	return nil
}
