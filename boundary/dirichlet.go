package boundary

import (
	"fdm/mesher"
)

// Dirichlet 边界节点取固定值
type Dirichlet struct {
	noop
	indices []int
	value   float64
}

// NewDirichlet 第 direction 维 side 侧的节点在每次应用和求解后置为 value
func NewDirichlet(m mesher.Mesher, value float64, direction int, side Side) *Dirichlet {
	return &Dirichlet{indices: sideIndices(m, direction, side), value: value}
}

func (d *Dirichlet) ApplyAfterApplying(a []float64) { d.set(a) }

func (d *Dirichlet) ApplyAfterSolving(a []float64) { d.set(a) }

func (d *Dirichlet) set(a []float64) {
	for _, i := range d.indices {
		a[i] = d.value
	}
}

// TimeDependentDirichlet 边界值随时间变化
type TimeDependentDirichlet struct {
	noop
	indices []int
	valueAt func(t float64) float64
	current float64
}

// NewTimeDependentDirichlet valueAt(t) 为回滚时间坐标 t 处的边界值，t 与到期日同一坐标系，不是剩余期限
func NewTimeDependentDirichlet(m mesher.Mesher, valueAt func(t float64) float64, direction int, side Side) *TimeDependentDirichlet {
	return &TimeDependentDirichlet{
		indices: sideIndices(m, direction, side),
		valueAt: valueAt,
		current: valueAt(0),
	}
}

func (d *TimeDependentDirichlet) SetTime(t float64) { d.current = d.valueAt(t) }

func (d *TimeDependentDirichlet) ApplyAfterApplying(a []float64) { d.set(a) }

func (d *TimeDependentDirichlet) ApplyAfterSolving(a []float64) { d.set(a) }

func (d *TimeDependentDirichlet) set(a []float64) {
	for _, i := range d.indices {
		a[i] = d.current
	}
}
