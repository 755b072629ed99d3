package step

import (
	"math"
	"slices"

	"fdm/payoff"
)

// Exercise 提前行权：a = max(a, 内在价值)
// times 为空时每一步都可行权（美式），否则只在给定时间行权（百慕大）
type Exercise struct {
	calc  payoff.Calculator
	times []float64
}

// NewAmerican 任意时间可行权
func NewAmerican(calc payoff.Calculator) *Exercise {
	return &Exercise{calc: calc}
}

// NewBermudan 仅在 times 行权
func NewBermudan(calc payoff.Calculator, times ...float64) *Exercise {
	ts := slices.Clone(times)
	slices.Sort(ts)
	return &Exercise{calc: calc, times: slices.Compact(ts)}
}

func (e *Exercise) ApplyTo(a []float64, t float64) {
	if e.times != nil && !isStoppingTime(e.times, t) {
		return
	}
	for i := range a {
		a[i] = math.Max(a[i], e.calc.InnerValue(i, t))
	}
}

func (e *Exercise) StoppingTimes() []float64 { return slices.Clone(e.times) }
