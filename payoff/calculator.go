package payoff

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"fdm/mesher"
)

// Calculator 网格节点上的内在价值
type Calculator interface {
	// InnerValue 节点 index 在时间 t 的内在价值
	InnerValue(index int, t float64) float64
	// AvgInnerValue 节点所在单元上的平均内在价值，用于构造终值条件
	AvgInnerValue(index int, t float64) float64
}

// 单元积分的 Gauss-Legendre 节点数
const quadPoints = 32

// LogInner 网格第 direction 维为 x = ln S 时的内在价值
type LogInner struct {
	payoff    Payoff
	mesher    mesher.Mesher
	direction int
	avg       map[int]float64
}

// NewLogInner 创建对数空间内在价值计算器
func NewLogInner(p Payoff, m mesher.Mesher, direction int) *LogInner {
	return &LogInner{payoff: p, mesher: m, direction: direction}
}

func (l *LogInner) InnerValue(index int, _ float64) float64 {
	return l.payoff.Value(math.Exp(l.mesher.Location(index, l.direction)))
}

// AvgInnerValue 在 [x - dminus/2, x + dplus/2] 上对收益取平均
// 边界节点直接取内在价值；区间包含执行价时在执行价处分段积分
func (l *LogInner) AvgInnerValue(index int, t float64) float64 {
	coord := l.mesher.Layout().Coordinate(index, l.direction)
	if l.avg == nil {
		l.avg = make(map[int]float64)
	}
	if v, ok := l.avg[coord]; ok {
		return v
	}
	v := l.cellAverage(index, t)
	l.avg[coord] = v
	return v
}

func (l *LogInner) cellAverage(index int, t float64) float64 {
	layout := l.mesher.Layout()
	if layout.IsLower(index, l.direction) || layout.IsUpper(index, l.direction) {
		return l.InnerValue(index, t)
	}
	x := l.mesher.Location(index, l.direction)
	a := x - 0.5*l.mesher.Dminus(index, l.direction)
	b := x + 0.5*l.mesher.Dplus(index, l.direction)
	f := func(y float64) float64 { return l.payoff.Value(math.Exp(y)) }

	if s, ok := l.payoff.(Striker); ok && s.Strike() > 0 {
		if k := math.Log(s.Strike()); k > a && k < b {
			return (quad.Fixed(f, a, k, quadPoints, nil, 0) + quad.Fixed(f, k, b, quadPoints, nil, 0)) / (b - a)
		}
	}
	return quad.Fixed(f, a, b, quadPoints, nil, 0) / (b - a)
}

// Basket 多个对数价格因子加权和上的收益 payoff(Σ w_i·exp(x_i))
// 不做单元平均
type Basket struct {
	payoff  Payoff
	mesher  mesher.Mesher
	weights []float64
}

// NewBasket weights[i] 对应网格第 i 维
func NewBasket(p Payoff, m mesher.Mesher, weights ...float64) *Basket {
	return &Basket{payoff: p, mesher: m, weights: append([]float64{}, weights...)}
}

func (b *Basket) InnerValue(index int, _ float64) float64 {
	s := 0.0
	for d, w := range b.weights {
		s += w * math.Exp(b.mesher.Location(index, d))
	}
	return b.payoff.Value(s)
}

func (b *Basket) AvgInnerValue(index int, t float64) float64 {
	return b.InnerValue(index, t)
}
