package solver

import (
	"fmt"
	"math"

	"fdm/operator"
	"fdm/scheme"
)

// BlackScholesSolver 标的价格空间的一维外观，内部网格为 x = ln S
type BlackScholesSolver struct {
	*Fdm1DimSolver
}

// NewBlackScholesSolver desc.Mesher 的唯一维为对数价格
func NewBlackScholesSolver(desc Desc, p operator.Params, schemeDesc scheme.Desc, opts ...Option) (*BlackScholesSolver, error) {
	if desc.Mesher == nil {
		return nil, ErrMissingInput
	}
	op := operator.NewBlackScholes(desc.Mesher, 0, p)
	s, err := NewFdm1DimSolver(desc, schemeDesc, op, opts...)
	if err != nil {
		return nil, err
	}
	return &BlackScholesSolver{Fdm1DimSolver: s}, nil
}

// logSpot 标的价格须为正
func logSpot(spot float64) (float64, error) {
	if !(spot > 0) {
		return 0, fmt.Errorf("spot %v: %w", spot, ErrOutOfRange)
	}
	return math.Log(spot), nil
}

// ValueAt 标的价格 spot 处的价值
func (s *BlackScholesSolver) ValueAt(spot float64) (float64, error) {
	x, err := logSpot(spot)
	if err != nil {
		return 0, err
	}
	return s.InterpolateAt(x)
}

// DeltaAt ∂V/∂S = V_x / S
func (s *BlackScholesSolver) DeltaAt(spot float64) (float64, error) {
	x, err := logSpot(spot)
	if err != nil {
		return 0, err
	}
	dx, err := s.DerivativeX(x)
	if err != nil {
		return 0, err
	}
	return dx / spot, nil
}

// GammaAt ∂²V/∂S² = (V_xx - V_x) / S²
func (s *BlackScholesSolver) GammaAt(spot float64) (float64, error) {
	x, err := logSpot(spot)
	if err != nil {
		return 0, err
	}
	dx, err := s.DerivativeX(x)
	if err != nil {
		return 0, err
	}
	dxx, err := s.DerivativeXX(x)
	if err != nil {
		return 0, err
	}
	return (dxx - dx) / (spot * spot), nil
}

// ThetaAt 标的价格 spot 处的 theta
func (s *BlackScholesSolver) ThetaAt(spot float64) (float64, error) {
	x, err := logSpot(spot)
	if err != nil {
		return 0, err
	}
	return s.Fdm1DimSolver.ThetaAt(x)
}
