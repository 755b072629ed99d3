package scheme

import (
	"fmt"
	"math"

	"fdm/boundary"
	"fdm/operator"
)

// Type 格式类型
type Type int

const (
	DouglasType Type = iota
	CrankNicolsonType
	ImplicitEulerType
	ExplicitEulerType
	CraigSneydType
	ModifiedCraigSneydType
	HundsdorferType
	MethodOfLinesType
	TrBDF2Type
)

var typeNames = map[Type]string{
	DouglasType:            "Douglas",
	CrankNicolsonType:      "CrankNicolson",
	ImplicitEulerType:      "ImplicitEuler",
	ExplicitEulerType:      "ExplicitEuler",
	CraigSneydType:         "CraigSneyd",
	ModifiedCraigSneydType: "ModifiedCraigSneyd",
	HundsdorferType:        "Hundsdorfer",
	MethodOfLinesType:      "MethodOfLines",
	TrBDF2Type:             "TrBDF2",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Desc 格式描述
// MethodOfLines 的 Theta 为积分容差、Mu 为初始步长比例；TrBDF2 的 Theta 为 α、Mu 为相对容差
type Desc struct {
	Type  Type
	Theta float64
	Mu    float64
}

func DouglasDesc() Desc       { return Desc{DouglasType, 0.5, 0} }
func CrankNicolsonDesc() Desc { return Desc{CrankNicolsonType, 0.5, 0} }
func ImplicitEulerDesc() Desc { return Desc{ImplicitEulerType, 0, 0} }
func ExplicitEulerDesc() Desc { return Desc{ExplicitEulerType, 0, 0} }
func CraigSneydDesc() Desc    { return Desc{CraigSneydType, 0.5, 0.5} }

func ModifiedCraigSneydDesc() Desc {
	return Desc{ModifiedCraigSneydType, 1.0 / 3.0, 1.0 / 3.0}
}

func HundsdorferDesc() Desc {
	return Desc{HundsdorferType, 0.5 + math.Sqrt(3)/6, 0.5}
}

func ModifiedHundsdorferDesc() Desc {
	return Desc{HundsdorferType, 1 - math.Sqrt2/2, 0.5}
}

func MethodOfLinesDesc() Desc {
	return Desc{MethodOfLinesType, 1e-3, 1e-2}
}

func TrBDF2Desc() Desc {
	return Desc{TrBDF2Type, 2 - math.Sqrt2, 1e-8}
}

// New 按描述创建格式
func New(desc Desc, op operator.Operator, bcs boundary.Set, opts ...Option) (Scheme, error) {
	switch desc.Type {
	case DouglasType:
		return NewDouglas(desc.Theta, op, bcs), nil
	case CrankNicolsonType:
		cn, err := NewCrankNicolson(desc.Theta, op, bcs, opts...)
		if err != nil {
			return nil, err
		}
		return cn, nil
	case ImplicitEulerType:
		ie, err := NewImplicitEuler(op, bcs, opts...)
		if err != nil {
			return nil, err
		}
		return ie, nil
	case ExplicitEulerType:
		return NewExplicitEuler(op, bcs), nil
	case CraigSneydType:
		return NewCraigSneyd(desc.Theta, desc.Mu, op, bcs), nil
	case ModifiedCraigSneydType:
		return NewModifiedCraigSneyd(desc.Theta, desc.Mu, op, bcs), nil
	case HundsdorferType:
		return NewHundsdorfer(desc.Theta, desc.Mu, op, bcs), nil
	case MethodOfLinesType:
		return NewMethodOfLines(desc.Theta, desc.Mu, op, bcs), nil
	case TrBDF2Type:
		tr := CraigSneydDesc()
		trapezoidal := NewCraigSneyd(tr.Theta, tr.Mu, op, bcs)
		if desc.Mu > 0 {
			opts = append(append([]Option{}, opts...), WithRelTol(desc.Mu))
		}
		s, err := NewTrBDF2(desc.Theta, op, trapezoidal, bcs, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%v: %w", desc.Type, ErrUnknownScheme)
}
