package scheme

import "fmt"

// SolverType 隐式格式使用的 Krylov 求解器
type SolverType int

const (
	BiCGStab SolverType = iota
	GMRES
)

func (s SolverType) String() string {
	switch s {
	case BiCGStab:
		return "BiCGStab"
	case GMRES:
		return "GMRES"
	}
	return fmt.Sprintf("SolverType(%d)", int(s))
}

// 默认参数
const (
	defaultRelTol = 1e-8
	gmresRestarts = 5
)

type options struct {
	relTol float64
	solver SolverType
}

// Option 隐式格式配置
type Option func(*options)

func defaultOptions(opts []Option) (options, error) {
	o := options{relTol: defaultRelTol, solver: BiCGStab}
	for _, opt := range opts {
		opt(&o)
	}
	if o.solver != BiCGStab && o.solver != GMRES {
		return o, fmt.Errorf("%v: %w", o.solver, ErrUnknownSolver)
	}
	return o, nil
}

// WithRelTol Krylov 相对残差容差，必须大于 0
func WithRelTol(tol float64) Option {
	return func(o *options) {
		if !(tol > 0) {
			panic(ErrBadTolerance.Error())
		}
		o.relTol = tol
	}
}

// WithSolver 选择 Krylov 求解器，未知类型在构造时报 ErrUnknownSolver
func WithSolver(s SolverType) Option {
	return func(o *options) {
		o.solver = s
	}
}
