package solver

import (
	"fmt"

	"fdm/maths"
	"fdm/mesher"
	"fdm/operator"
	"fdm/scheme"
	"fdm/step"
)

// Fdm2DimSolver 二维外观，结果用双三次样条插值
type Fdm2DimSolver struct {
	desc       Desc
	schemeDesc scheme.Desc
	op         operator.Operator
	opts       options

	snapshot   *step.Snapshot
	conditions *step.Composite
	x, y       []float64

	calculated bool
	err        error
	result     []float64
	spline     *maths.Bicubic
}

// NewFdm2DimSolver 网格必须是二维的
func NewFdm2DimSolver(desc Desc, schemeDesc scheme.Desc, op operator.Operator, opts ...Option) (*Fdm2DimSolver, error) {
	if err := desc.validate(2); err != nil {
		return nil, err
	}
	snapshot := step.NewSnapshot(desc.snapshotTime())
	return &Fdm2DimSolver{
		desc:       desc,
		schemeDesc: schemeDesc,
		op:         op,
		opts:       newOptions(opts),
		snapshot:   snapshot,
		conditions: step.Join(step.NewComposite(snapshot), conditionsOf(desc)...),
		x:          axis(desc.Mesher, 0),
		y:          axis(desc.Mesher, 1),
	}, nil
}

// axis 第 direction 维的一维坐标
func axis(m mesher.Mesher, direction int) []float64 {
	line := m.Layout().Line(0, direction)
	xs := make([]float64, len(line))
	for k, idx := range line {
		xs[k] = m.Location(idx, direction)
	}
	return xs
}

// Recalculate 丢弃缓存，下一次查询重新回滚
func (s *Fdm2DimSolver) Recalculate() {
	s.calculated = false
	s.err = nil
	s.result = nil
	s.spline = nil
}

func (s *Fdm2DimSolver) calculate() error {
	if s.calculated {
		return s.err
	}
	s.calculated = true
	s.err = s.performCalculations()
	return s.err
}

func (s *Fdm2DimSolver) performCalculations() error {
	rhs := s.desc.terminal()
	bs := NewBackwardSolver(s.op, s.desc.BCSet, s.conditions, s.schemeDesc, s.opts.forward()...)
	if err := bs.Rollback(rhs, s.desc.Maturity, 0, s.desc.TimeSteps, s.desc.DampingSteps); err != nil {
		return err
	}
	if err := validateResult(rhs, s.opts.logger); err != nil {
		return err
	}
	spline, err := maths.NewBicubic(s.x, s.y, rhs)
	if err != nil {
		return fmt.Errorf("interpolation: %w", err)
	}
	s.result, s.spline = rhs, spline
	return nil
}

// query 校验查询范围，计算后对样条求值
func (s *Fdm2DimSolver) query(x, y float64, f func(b *maths.Bicubic) float64) (float64, error) {
	if err := s.checkRange(x, y); err != nil {
		return 0, err
	}
	if err := s.calculate(); err != nil {
		return 0, err
	}
	return f(s.spline), nil
}

func (s *Fdm2DimSolver) checkRange(x, y float64) error {
	if err := checkRange("x", s.x, x); err != nil {
		return err
	}
	return checkRange("y", s.y, y)
}

// InterpolateAt (x, y) 处的价值
func (s *Fdm2DimSolver) InterpolateAt(x, y float64) (float64, error) {
	return s.query(x, y, func(b *maths.Bicubic) float64 { return b.Value(x, y) })
}

func (s *Fdm2DimSolver) DerivativeX(x, y float64) (float64, error) {
	return s.query(x, y, func(b *maths.Bicubic) float64 { return b.DerivativeX(x, y) })
}

func (s *Fdm2DimSolver) DerivativeY(x, y float64) (float64, error) {
	return s.query(x, y, func(b *maths.Bicubic) float64 { return b.DerivativeY(x, y) })
}

func (s *Fdm2DimSolver) DerivativeXX(x, y float64) (float64, error) {
	return s.query(x, y, func(b *maths.Bicubic) float64 { return b.SecondDerivativeX(x, y) })
}

func (s *Fdm2DimSolver) DerivativeYY(x, y float64) (float64, error) {
	return s.query(x, y, func(b *maths.Bicubic) float64 { return b.SecondDerivativeY(x, y) })
}

func (s *Fdm2DimSolver) DerivativeXY(x, y float64) (float64, error) {
	return s.query(x, y, func(b *maths.Bicubic) float64 { return b.DerivativeXY(x, y) })
}

// ThetaAt (快照插值 - 最终插值) / 快照时间
func (s *Fdm2DimSolver) ThetaAt(x, y float64) (float64, error) {
	if ts := s.conditions.StoppingTimes(); ts[0] == 0 {
		return 0, ErrThetaUndefined
	}
	if err := s.checkRange(x, y); err != nil {
		return 0, err
	}
	if err := s.calculate(); err != nil {
		return 0, err
	}
	snap, err := maths.NewBicubic(s.x, s.y, s.snapshot.Values())
	if err != nil {
		return 0, fmt.Errorf("snapshot interpolation: %w", err)
	}
	return (snap.Value(x, y) - s.spline.Value(x, y)) / s.snapshot.Time(), nil
}
