package boundary

import (
	"fdm/mesher"
)

// Neumann 边界法向导数取固定值：u_b = u_inner ± slope·h
type Neumann struct {
	noop
	indices []int
	inner   []int
	offsets []float64
}

// NewNeumann 第 direction 维 side 侧的一阶导数为 slope
func NewNeumann(m mesher.Mesher, slope float64, direction int, side Side) *Neumann {
	indices := sideIndices(m, direction, side)
	n := &Neumann{
		indices: indices,
		inner:   make([]int, len(indices)),
		offsets: make([]float64, len(indices)),
	}
	layout := m.Layout()
	for k, i := range indices {
		if side == Lower {
			n.inner[k] = layout.Neighbourhood(i, direction, 1)
			n.offsets[k] = -slope * m.Dplus(i, direction)
		} else {
			n.inner[k] = layout.Neighbourhood(i, direction, -1)
			n.offsets[k] = slope * m.Dminus(i, direction)
		}
	}
	return n
}

func (n *Neumann) ApplyAfterApplying(a []float64) { n.set(a) }

func (n *Neumann) ApplyAfterSolving(a []float64) { n.set(a) }

func (n *Neumann) set(a []float64) {
	for k, i := range n.indices {
		a[i] = a[n.inner[k]] + n.offsets[k]
	}
}
