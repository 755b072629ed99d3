package step

import (
	"fmt"
	"math"
	"slices"

	"fdm/maths"
	"fdm/mesher"
)

// Dividend 离散现金股息：除息时刻 V(S) ← V(S - D)
// 网格第 direction 维为 x = ln S
type Dividend struct {
	mesher    mesher.Mesher
	direction int
	times     []float64
	amounts   []float64
	x         []float64
}

// NewDividend times 与 amounts 一一对应
func NewDividend(m mesher.Mesher, direction int, times, amounts []float64) (*Dividend, error) {
	if len(times) != len(amounts) {
		return nil, fmt.Errorf("%d dates, %d amounts: %w", len(times), len(amounts), maths.ErrDimensionMismatch)
	}
	if n := m.Layout().Dim(direction); n < 3 {
		return nil, fmt.Errorf("direction %d has %d nodes: %w", direction, n, maths.ErrTooFewPoints)
	}
	d := &Dividend{mesher: m, direction: direction}
	// 按时间排序并保持金额对应
	order := make([]int, len(times))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(i, j int) int {
		switch {
		case times[i] < times[j]:
			return -1
		case times[i] > times[j]:
			return 1
		}
		return 0
	})
	for _, i := range order {
		d.times = append(d.times, times[i])
		d.amounts = append(d.amounts, amounts[i])
	}
	layout := m.Layout()
	line := layout.Line(0, direction)
	d.x = make([]float64, len(line))
	for k, idx := range line {
		d.x[k] = m.Location(idx, direction)
	}
	return d, nil
}

func (d *Dividend) StoppingTimes() []float64 { return slices.Clone(d.times) }

func (d *Dividend) ApplyTo(a []float64, t float64) {
	k, ok := slices.BinarySearch(d.times, t)
	if !ok {
		return
	}
	amount := d.amounts[k]
	layout := d.mesher.Layout()
	vals := make([]float64, len(d.x))
	for _, line := range layout.Lines(d.direction) {
		for j, idx := range line {
			vals[j] = a[idx]
		}
		spline, err := maths.NewCubic(d.x, vals)
		if err != nil {
			// 构造时已校验节点数
			panic(err)
		}
		for j, idx := range line {
			s := math.Exp(d.x[j]) - amount
			x := d.x[0]
			if s > 0 {
				x = math.Max(d.x[0], math.Log(s))
			}
			a[idx] = spline.Value(x)
		}
	}
}
