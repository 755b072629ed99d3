package mesher

import (
	"errors"
	"fmt"
)

// 布局相关错误
var (
	// ErrInvalidDimensions 维度为空或存在非正维度
	ErrInvalidDimensions = errors.New("mesher: dimensions must be > 0")
	// ErrOutOfRange 坐标或索引越界
	ErrOutOfRange = errors.New("mesher: index out of range")
)

// Layout 多维网格布局，多重坐标与一维扁平索引之间的双射
// 第 0 维变化最快：index = Σ coordinates[i]*spacing[i]
type Layout struct {
	dims    []int
	spacing []int
	size    int
}

// NewLayout 由各维节点数创建布局
func NewLayout(dims ...int) (*Layout, error) {
	if len(dims) == 0 {
		return nil, ErrInvalidDimensions
	}
	l := &Layout{
		dims:    append([]int{}, dims...),
		spacing: make([]int, len(dims)),
		size:    1,
	}
	for i, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("dimension %d=%d: %w", i, d, ErrInvalidDimensions)
		}
		l.spacing[i] = l.size
		l.size *= d
	}
	return l, nil
}

// Size 节点总数
func (l *Layout) Size() int { return l.size }

// Dims 各维节点数（副本）
func (l *Layout) Dims() []int { return append([]int{}, l.dims...) }

// Dim 第 direction 维节点数
func (l *Layout) Dim(direction int) int { return l.dims[direction] }

// Spacing 第 direction 维在扁平索引中的步长
func (l *Layout) Spacing(direction int) int { return l.spacing[direction] }

// Rank 维度数
func (l *Layout) Rank() int { return len(l.dims) }

// Index 多重坐标转扁平索引
func (l *Layout) Index(coordinates ...int) (int, error) {
	if len(coordinates) != len(l.dims) {
		return 0, fmt.Errorf("rank %d, got %d coordinates: %w", len(l.dims), len(coordinates), ErrOutOfRange)
	}
	index := 0
	for i, c := range coordinates {
		if c < 0 || c >= l.dims[i] {
			return 0, fmt.Errorf("coordinate %d=%d: %w", i, c, ErrOutOfRange)
		}
		index += c * l.spacing[i]
	}
	return index, nil
}

// Coordinate 扁平索引在第 direction 维上的坐标
func (l *Layout) Coordinate(index, direction int) int {
	return (index / l.spacing[direction]) % l.dims[direction]
}

// Coordinates 扁平索引转多重坐标
func (l *Layout) Coordinates(index int) []int {
	coords := make([]int, len(l.dims))
	for i := range l.dims {
		coords[i] = l.Coordinate(index, i)
	}
	return coords
}

// Neighbourhood 第 direction 维偏移 offset 的邻居索引，越界时按边界反射
func (l *Layout) Neighbourhood(index, direction, offset int) int {
	c := l.Coordinate(index, direction)
	base := index - c*l.spacing[direction]
	n := c + offset
	if n < 0 {
		n = -n
	} else if n >= l.dims[direction] {
		n = 2*(l.dims[direction]-1) - n
	}
	return base + n*l.spacing[direction]
}

// IsLower 是否位于第 direction 维的下边界
func (l *Layout) IsLower(index, direction int) bool {
	return l.Coordinate(index, direction) == 0
}

// IsUpper 是否位于第 direction 维的上边界
func (l *Layout) IsUpper(index, direction int) bool {
	return l.Coordinate(index, direction) == l.dims[direction]-1
}

// Line 包含 index 且沿 direction 方向的一条网格线上全部节点的扁平索引
func (l *Layout) Line(index, direction int) []int {
	start := index - l.Coordinate(index, direction)*l.spacing[direction]
	line := make([]int, l.dims[direction])
	for k := range line {
		line[k] = start + k*l.spacing[direction]
	}
	return line
}

// Lines 沿 direction 方向的所有网格线
func (l *Layout) Lines(direction int) [][]int {
	lines := make([][]int, 0, l.size/l.dims[direction])
	for index := 0; index < l.size; index++ {
		if l.IsLower(index, direction) {
			lines = append(lines, l.Line(index, direction))
		}
	}
	return lines
}
