package scheme

import (
	"fdm/boundary"
	"fdm/operator"
)

// Douglas ADI 格式
// y = a + dt·A(a)，再逐方向 y ← (I - θdt·A_i)^-1 (y - θdt·A_i(a))
type Douglas struct {
	stepper
	theta float64
	op    operator.Operator
	bcs   boundary.Set
}

func NewDouglas(theta float64, op operator.Operator, bcs boundary.Set) *Douglas {
	return &Douglas{theta: theta, op: op, bcs: bcs}
}

func (d *Douglas) Step(a []float64, t float64) error {
	if err := d.check(t); err != nil {
		return err
	}
	d.op.SetTime(d.from(t), t)
	d.bcs.SetTime(d.from(t))
	d.bcs.ApplyBeforeApplying(d.op)
	y := axpy(a, d.dt, d.op.Apply(a))
	d.bcs.ApplyAfterApplying(y)

	y, err := directionalCorrection(d.op, y, a, d.theta, d.dt)
	if err != nil {
		return err
	}
	d.bcs.ApplyAfterSolving(y)
	copy(a, y)
	return nil
}

// craigSneydFamily Craig-Sneyd 类格式的公共预测-校正结构
// corrector 由 Douglas 结果 y 与预测值 y0 构造第二次预测
type craigSneydFamily struct {
	stepper
	theta, mu float64
	op        operator.Operator
	bcs       boundary.Set
	corrector func(a, y, y0 []float64) []float64
	// againstY 为真时第二次方向校正以 y 为基准，否则以 a 为基准
	againstY bool
}

func (c *craigSneydFamily) Step(a []float64, t float64) error {
	if err := c.check(t); err != nil {
		return err
	}
	c.op.SetTime(c.from(t), t)
	c.bcs.SetTime(c.from(t))
	c.bcs.ApplyBeforeApplying(c.op)
	y := axpy(a, c.dt, c.op.Apply(a))
	c.bcs.ApplyAfterApplying(y)
	y0 := append([]float64{}, y...)

	y, err := directionalCorrection(c.op, y, a, c.theta, c.dt)
	if err != nil {
		return err
	}

	c.bcs.ApplyBeforeApplying(c.op)
	yt := c.corrector(a, y, y0)
	c.bcs.ApplyAfterApplying(yt)

	base := a
	if c.againstY {
		base = y
	}
	if yt, err = directionalCorrection(c.op, yt, base, c.theta, c.dt); err != nil {
		return err
	}
	c.bcs.ApplyAfterSolving(yt)
	copy(a, yt)
	return nil
}

// CraigSneyd ŷ = y0 + μ·dt·A_mixed(y - a)
type CraigSneyd struct{ craigSneydFamily }

func NewCraigSneyd(theta, mu float64, op operator.Operator, bcs boundary.Set) *CraigSneyd {
	c := &CraigSneyd{craigSneydFamily{theta: theta, mu: mu, op: op, bcs: bcs}}
	c.corrector = func(a, y, y0 []float64) []float64 {
		return axpy(y0, c.mu*c.dt, c.op.ApplyMixed(sub(y, a)))
	}
	return c
}

// ModifiedCraigSneyd ŷ = y0 + μ·dt·A_mixed(y - a) + (1/2 - μ)·dt·A(y - a)
type ModifiedCraigSneyd struct{ craigSneydFamily }

func NewModifiedCraigSneyd(theta, mu float64, op operator.Operator, bcs boundary.Set) *ModifiedCraigSneyd {
	c := &ModifiedCraigSneyd{craigSneydFamily{theta: theta, mu: mu, op: op, bcs: bcs}}
	c.corrector = func(a, y, y0 []float64) []float64 {
		diff := sub(y, a)
		yt := axpy(y0, c.mu*c.dt, c.op.ApplyMixed(diff))
		return axpy(yt, (0.5-c.mu)*c.dt, c.op.Apply(diff))
	}
	return c
}

// Hundsdorfer ŷ = y0 + μ·dt·A(y - a)，第二次方向校正以 y 为基准
type Hundsdorfer struct{ craigSneydFamily }

func NewHundsdorfer(theta, mu float64, op operator.Operator, bcs boundary.Set) *Hundsdorfer {
	c := &Hundsdorfer{craigSneydFamily{theta: theta, mu: mu, op: op, bcs: bcs, againstY: true}}
	c.corrector = func(a, y, y0 []float64) []float64 {
		return axpy(y0, c.mu*c.dt, c.op.Apply(sub(y, a)))
	}
	return c
}
