package mesher

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidMesh 网格点不足或非严格递增
var ErrInvalidMesh = errors.New("mesher: invalid mesh")

// Mesher 多维网格：节点坐标与相邻间距，创建后只读
type Mesher interface {
	Layout() *Layout
	// Dplus 下一节点间距，上边界为 NaN
	Dplus(index, direction int) float64
	// Dminus 上一节点间距，下边界为 NaN
	Dminus(index, direction int) float64
	// Location 节点在第 direction 维的坐标
	Location(index, direction int) float64
	// Locations 所有节点在第 direction 维的坐标，按扁平索引排列
	Locations(direction int) []float64
}

// Mesher1D 一维网格
type Mesher1D struct {
	locations []float64
	dplus     []float64
	dminus    []float64
}

// NewPredefined1D 由给定的严格递增坐标创建一维网格
func NewPredefined1D(xs []float64) (*Mesher1D, error) {
	if len(xs) < 2 {
		return nil, fmt.Errorf("%d points: %w", len(xs), ErrInvalidMesh)
	}
	if !sort.SliceIsSorted(xs, func(i, j int) bool { return xs[i] < xs[j] }) {
		return nil, fmt.Errorf("locations not ascending: %w", ErrInvalidMesh)
	}
	n := len(xs)
	m := &Mesher1D{
		locations: append([]float64{}, xs...),
		dplus:     make([]float64, n),
		dminus:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		m.dplus[i], m.dminus[i] = math.NaN(), math.NaN()
		if i < n-1 {
			m.dplus[i] = xs[i+1] - xs[i]
			if m.dplus[i] <= 0 {
				return nil, fmt.Errorf("duplicate location %v: %w", xs[i], ErrInvalidMesh)
			}
		}
		if i > 0 {
			m.dminus[i] = xs[i] - xs[i-1]
		}
	}
	return m, nil
}

// NewUniform1D [start, end] 上 size 个等距节点
func NewUniform1D(start, end float64, size int) (*Mesher1D, error) {
	if size < 2 || !(end > start) {
		return nil, fmt.Errorf("uniform [%v, %v] size %d: %w", start, end, size, ErrInvalidMesh)
	}
	xs := make([]float64, size)
	dx := (end - start) / float64(size-1)
	for i := range xs {
		xs[i] = start + float64(i)*dx
	}
	xs[size-1] = end
	return NewPredefined1D(xs)
}

// NewCentered1D 以 center 为中心、半宽 halfWidth 的等距网格，size 取奇数时 center 恰为节点
func NewCentered1D(center, halfWidth float64, size int) (*Mesher1D, error) {
	return NewUniform1D(center-halfWidth, center+halfWidth, size)
}

// Size 节点数
func (m *Mesher1D) Size() int { return len(m.locations) }

// Locations 节点坐标（副本）
func (m *Mesher1D) Locations() []float64 { return append([]float64{}, m.locations...) }

// Composite 由若干一维网格张量积组成的多维网格
type Composite struct {
	layout  *Layout
	meshers []*Mesher1D
}

// NewComposite 组合一维网格，第 i 个网格对应第 i 维
func NewComposite(meshers ...*Mesher1D) (*Composite, error) {
	dims := make([]int, len(meshers))
	for i, m := range meshers {
		if m == nil {
			return nil, fmt.Errorf("mesher %d is nil: %w", i, ErrInvalidMesh)
		}
		dims[i] = m.Size()
	}
	layout, err := NewLayout(dims...)
	if err != nil {
		return nil, err
	}
	return &Composite{layout: layout, meshers: append([]*Mesher1D{}, meshers...)}, nil
}

// Layout 网格布局
func (c *Composite) Layout() *Layout { return c.layout }

// Mesher1D 第 direction 维的一维网格
func (c *Composite) Mesher1D(direction int) *Mesher1D { return c.meshers[direction] }

// Dplus 下一节点间距
func (c *Composite) Dplus(index, direction int) float64 {
	return c.meshers[direction].dplus[c.layout.Coordinate(index, direction)]
}

// Dminus 上一节点间距
func (c *Composite) Dminus(index, direction int) float64 {
	return c.meshers[direction].dminus[c.layout.Coordinate(index, direction)]
}

// Location 节点坐标
func (c *Composite) Location(index, direction int) float64 {
	return c.meshers[direction].locations[c.layout.Coordinate(index, direction)]
}

// Locations 按扁平索引展开的坐标
func (c *Composite) Locations(direction int) []float64 {
	out := make([]float64, c.layout.Size())
	for i := range out {
		out[i] = c.Location(i, direction)
	}
	return out
}
