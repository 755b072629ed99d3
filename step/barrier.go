package step

import (
	"math"
	"slices"

	"fdm/mesher"
)

// BarrierType 敲出障碍方向
type BarrierType int

const (
	DownOut BarrierType = iota
	UpOut
)

// Barrier 敲出障碍：越过障碍的节点置为返还金额
// times 为空时连续监控，否则只在给定时间监控；网格第 direction 维为 x = ln S
type Barrier struct {
	kind    BarrierType
	level   float64
	rebate  float64
	times   []float64
	knocked []int
}

// NewBarrier level 为标的价格空间的障碍水平
func NewBarrier(m mesher.Mesher, direction int, kind BarrierType, level, rebate float64, times ...float64) *Barrier {
	b := &Barrier{kind: kind, level: level, rebate: rebate}
	if len(times) > 0 {
		b.times = slices.Clone(times)
		slices.Sort(b.times)
		b.times = slices.Compact(b.times)
	}
	logLevel := math.Log(level)
	for i := 0; i < m.Layout().Size(); i++ {
		x := m.Location(i, direction)
		if (kind == DownOut && x <= logLevel) || (kind == UpOut && x >= logLevel) {
			b.knocked = append(b.knocked, i)
		}
	}
	return b
}

func (b *Barrier) StoppingTimes() []float64 { return slices.Clone(b.times) }

func (b *Barrier) ApplyTo(a []float64, t float64) {
	if b.times != nil && !isStoppingTime(b.times, t) {
		return
	}
	for _, i := range b.knocked {
		a[i] = b.rebate
	}
}
