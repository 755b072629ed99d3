package solver

import "errors"

// 求解错误
var (
	// ErrInvalidRollback 回滚区间或步数非法（from < to、steps <= 0）
	ErrInvalidRollback = errors.New("solver: invalid rollback")
	// ErrDimensionMismatch 状态长度或网格维度与求解器不符
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")
	// ErrThetaUndefined 第一个停止时间为 0，无法由快照计算 theta
	ErrThetaUndefined = errors.New("solver: theta undefined at time zero")
	// ErrInvalidResult 回滚结果含 NaN、Inf 或超出范围的值
	ErrInvalidResult = errors.New("solver: invalid result")
	// ErrOutOfRange 查询点在网格范围之外，或标的价格非正
	ErrOutOfRange = errors.New("solver: query out of mesh range")
	// ErrMissingInput 描述缺少网格、计算器或到期时间
	ErrMissingInput = errors.New("solver: missing input")
)
