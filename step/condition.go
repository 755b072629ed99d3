package step

import (
	"slices"
)

// Condition 回滚过程中在特定时间对状态向量的调整
// 实现不得保留 a 的引用
type Condition interface {
	ApplyTo(a []float64, t float64)
}

// Stopper 需要回滚在指定时间停下的条件
type Stopper interface {
	StoppingTimes() []float64
}

// Composite 有序的条件集合及其全部停止时间
type Composite struct {
	conditions    []Condition
	stoppingTimes []float64
}

// NewComposite 按顺序组合条件，停止时间升序去重
func NewComposite(conditions ...Condition) *Composite {
	c := &Composite{}
	for _, cond := range conditions {
		if cond == nil {
			continue
		}
		c.conditions = append(c.conditions, cond)
		if s, ok := cond.(Stopper); ok {
			c.stoppingTimes = append(c.stoppingTimes, s.StoppingTimes()...)
		}
	}
	slices.Sort(c.stoppingTimes)
	c.stoppingTimes = slices.Compact(c.stoppingTimes)
	return c
}

// Join 在已有组合之后追加条件
func Join(c *Composite, conditions ...Condition) *Composite {
	if c == nil {
		return NewComposite(conditions...)
	}
	return NewComposite(append(slices.Clone(c.conditions), conditions...)...)
}

// ApplyTo 依次应用全部条件
func (c *Composite) ApplyTo(a []float64, t float64) {
	for _, cond := range c.conditions {
		cond.ApplyTo(a, t)
	}
}

// StoppingTimes 升序的停止时间
func (c *Composite) StoppingTimes() []float64 { return slices.Clone(c.stoppingTimes) }

// Conditions 组合内的条件
func (c *Composite) Conditions() []Condition { return slices.Clone(c.conditions) }

// isStoppingTime t 是否恰为 times 之一
func isStoppingTime(times []float64, t float64) bool {
	_, ok := slices.BinarySearch(times, t)
	return ok
}
