package solver

import (
	"fmt"

	"fdm/maths"
	"fdm/operator"
	"fdm/scheme"
	"fdm/step"
)

// Fdm1DimSolver 一维外观：首次查询时回滚并拟合自然三次样条，之后的查询只做插值
type Fdm1DimSolver struct {
	desc       Desc
	schemeDesc scheme.Desc
	op         operator.Operator
	opts       options

	snapshot   *step.Snapshot
	conditions *step.Composite
	x          []float64

	calculated bool
	err        error
	result     []float64
	spline     *maths.Cubic
}

// NewFdm1DimSolver 网格必须是一维的
func NewFdm1DimSolver(desc Desc, schemeDesc scheme.Desc, op operator.Operator, opts ...Option) (*Fdm1DimSolver, error) {
	if err := desc.validate(1); err != nil {
		return nil, err
	}
	snapshot := step.NewSnapshot(desc.snapshotTime())
	s := &Fdm1DimSolver{
		desc:       desc,
		schemeDesc: schemeDesc,
		op:         op,
		opts:       newOptions(opts),
		snapshot:   snapshot,
		conditions: step.Join(step.NewComposite(snapshot), conditionsOf(desc)...),
		x:          desc.Mesher.Locations(0),
	}
	return s, nil
}

// conditionsOf 描述中的用户条件
func conditionsOf(desc Desc) []step.Condition {
	if desc.Condition == nil {
		return nil
	}
	return desc.Condition.Conditions()
}

// Recalculate 丢弃缓存，下一次查询重新回滚
func (s *Fdm1DimSolver) Recalculate() {
	s.calculated = false
	s.err = nil
	s.result = nil
	s.spline = nil
}

func (s *Fdm1DimSolver) calculate() error {
	if s.calculated {
		return s.err
	}
	s.calculated = true
	s.err = s.performCalculations()
	return s.err
}

func (s *Fdm1DimSolver) performCalculations() error {
	rhs := s.desc.terminal()
	bs := NewBackwardSolver(s.op, s.desc.BCSet, s.conditions, s.schemeDesc, s.opts.forward()...)
	if err := bs.Rollback(rhs, s.desc.Maturity, 0, s.desc.TimeSteps, s.desc.DampingSteps); err != nil {
		return err
	}
	if err := validateResult(rhs, s.opts.logger); err != nil {
		return err
	}
	spline, err := maths.NewCubic(s.x, rhs)
	if err != nil {
		return fmt.Errorf("interpolation: %w", err)
	}
	s.result, s.spline = rhs, spline
	return nil
}

// query 校验查询范围并完成计算
func (s *Fdm1DimSolver) query(x float64) error {
	if err := checkRange("x", s.x, x); err != nil {
		return err
	}
	return s.calculate()
}

// InterpolateAt 坐标 x 处的价值
func (s *Fdm1DimSolver) InterpolateAt(x float64) (float64, error) {
	if err := s.query(x); err != nil {
		return 0, err
	}
	return s.spline.Value(x), nil
}

// DerivativeX 一阶导
func (s *Fdm1DimSolver) DerivativeX(x float64) (float64, error) {
	if err := s.query(x); err != nil {
		return 0, err
	}
	return s.spline.Derivative(x), nil
}

// DerivativeXX 二阶导
func (s *Fdm1DimSolver) DerivativeXX(x float64) (float64, error) {
	if err := s.query(x); err != nil {
		return 0, err
	}
	return s.spline.SecondDerivative(x), nil
}

// ThetaAt (快照插值 - 最终插值) / 快照时间
func (s *Fdm1DimSolver) ThetaAt(x float64) (float64, error) {
	if ts := s.conditions.StoppingTimes(); ts[0] == 0 {
		return 0, ErrThetaUndefined
	}
	if err := s.query(x); err != nil {
		return 0, err
	}
	snap, err := maths.NewCubic(s.x, s.snapshot.Values())
	if err != nil {
		return 0, fmt.Errorf("snapshot interpolation: %w", err)
	}
	return (snap.Value(x) - s.spline.Value(x)) / s.snapshot.Time(), nil
}

// Values 回滚后的节点值
func (s *Fdm1DimSolver) Values() ([]float64, error) {
	if err := s.calculate(); err != nil {
		return nil, err
	}
	return append([]float64{}, s.result...), nil
}
