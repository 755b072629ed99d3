package ode

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// 积分错误
var (
	// ErrStepUnderflow 步长缩小到无法推进时间
	ErrStepUnderflow = errors.New("ode: step size underflow")
	// ErrTooManySteps 超过最大步数
	ErrTooManySteps = errors.New("ode: too many steps")
	// ErrInvalidTolerance 容差非正
	ErrInvalidTolerance = errors.New("ode: tolerance must be > 0")
)

// 步长控制参数
const (
	defaultMaxSteps = 10000   // 默认最大积分步数
	safety          = 0.9     // 步长调整安全系数
	growExponent    = -0.2    // 步长增长指数 -1/(p+1)
	shrinkExponent  = -0.25   // 步长缩减指数 -1/p
	errCon          = 1.89e-4 // (5/safety)^(1/growExponent)，低于此误差时步长放大 5 倍
	maxStepScale    = 5.0     // 最大步长增长倍数
	minStepScale    = 0.1     // 最小步长缩减倍数
	tinyScale       = 1e-30   // 误差尺度下限
)

// Cash-Karp 5(4) 系数
var (
	ckA = [6]float64{0, 0.2, 0.3, 0.6, 1, 0.875}
	ckB = [6][5]float64{
		{},
		{0.2},
		{3.0 / 40.0, 9.0 / 40.0},
		{0.3, -0.9, 1.2},
		{-11.0 / 54.0, 2.5, -70.0 / 27.0, 35.0 / 27.0},
		{1631.0 / 55296.0, 175.0 / 512.0, 575.0 / 13824.0, 44275.0 / 110592.0, 253.0 / 4096.0},
	}
	ckC  = [6]float64{37.0 / 378.0, 0, 250.0 / 621.0, 125.0 / 594.0, 0, 512.0 / 1771.0}
	ckDC = [6]float64{
		37.0/378.0 - 2825.0/27648.0,
		0,
		250.0/621.0 - 18575.0/48384.0,
		125.0/594.0 - 13525.0/55296.0,
		-277.0 / 14336.0,
		512.0/1771.0 - 0.25,
	}
)

// Func 右端项 dy/dt = f(t, y)，返回新切片
type Func func(t float64, y []float64) []float64

// CashKarp 自适应步长五阶 Runge-Kutta 积分器（Cash-Karp 嵌入误差估计）
type CashKarp struct {
	eps      float64 // 相对误差容差
	h1       float64 // 初始步长
	hmin     float64 // 最小步长
	maxSteps int     // 最大步数

	steps int // 最近一次积分接受的步数
}

// NewCashKarp 创建积分器
// 参数：eps - 相对误差容差，h1 - 初始步长，hmin - 最小步长（0 表示不限制）
func NewCashKarp(eps, h1, hmin float64) (*CashKarp, error) {
	if eps <= 0 {
		return nil, fmt.Errorf("eps=%v: %w", eps, ErrInvalidTolerance)
	}
	return &CashKarp{eps: eps, h1: h1, hmin: hmin, maxSteps: defaultMaxSteps}, nil
}

// SetMaxSteps 配置最大步数
func (c *CashKarp) SetMaxSteps(n int) error {
	if n <= 0 {
		return fmt.Errorf("max steps %d: %w", n, ErrTooManySteps)
	}
	c.maxSteps = n
	return nil
}

// Steps 最近一次积分接受的步数
func (c *CashKarp) Steps() int { return c.steps }

// Integrate 从 t1 积分到 t2，t2 可小于 t1（反向积分）
func (c *CashKarp) Integrate(f Func, y0 []float64, t1, t2 float64) ([]float64, error) {
	y := append([]float64{}, y0...)
	c.steps = 0
	if t1 == t2 {
		return y, nil
	}
	n := len(y)
	scale := make([]float64, n)
	h := math.Copysign(math.Abs(c.h1), t2-t1)
	if h == 0 {
		h = t2 - t1
	}
	t := t1
	for c.steps < c.maxSteps {
		dydt := f(t, y)
		for i := range scale {
			scale[i] = math.Abs(y[i]) + math.Abs(h*dydt[i]) + tinyScale
		}
		// 最后一步不越过终点
		if (t+h-t2)*(t+h-t1) > 0 {
			h = t2 - t
		}
		var hNext float64
		var err error
		t, y, hNext, err = c.adaptiveStep(f, t, y, dydt, h, scale)
		if err != nil {
			return y, err
		}
		c.steps++
		if (t-t2)*(t2-t1) >= 0 {
			return y, nil
		}
		if math.Abs(hNext) <= c.hmin {
			return y, fmt.Errorf("step %v at t=%v: %w", hNext, t, ErrStepUnderflow)
		}
		h = hNext
	}
	return y, fmt.Errorf("%d steps from %v to %v: %w", c.maxSteps, t1, t2, ErrTooManySteps)
}

// adaptiveStep 尝试步长 h，误差超标时缩小重试
// 返回新时间、新状态和建议的下一步长
func (c *CashKarp) adaptiveStep(f Func, t float64, y, dydt []float64, h float64, scale []float64) (float64, []float64, float64, error) {
	for {
		yNew, yErr := c.stage(f, t, y, dydt, h)
		errMax := 0.0
		for i := range yErr {
			errMax = math.Max(errMax, math.Abs(yErr[i]/scale[i]))
		}
		errMax /= c.eps
		if errMax <= 1 {
			next := maxStepScale * h
			if errMax > errCon {
				next = safety * h * math.Pow(errMax, growExponent)
			}
			return t + h, yNew, next, nil
		}
		shrunk := safety * h * math.Pow(errMax, shrinkExponent)
		if h >= 0 {
			h = math.Max(shrunk, minStepScale*h)
		} else {
			h = math.Min(shrunk, minStepScale*h)
		}
		if t+h == t {
			return t, y, h, fmt.Errorf("t=%v: %w", t, ErrStepUnderflow)
		}
	}
}

// stage 单步 Cash-Karp，返回五阶解和四五阶差
func (c *CashKarp) stage(f Func, t float64, y, dydt []float64, h float64) ([]float64, []float64) {
	n := len(y)
	var k [6][]float64
	k[0] = dydt
	tmp := make([]float64, n)
	for s := 1; s < 6; s++ {
		copy(tmp, y)
		for j := 0; j < s; j++ {
			if b := ckB[s][j]; b != 0 {
				floats.AddScaled(tmp, h*b, k[j])
			}
		}
		k[s] = f(t+ckA[s]*h, tmp)
	}
	yNew := append([]float64{}, y...)
	yErr := make([]float64, n)
	for s := 0; s < 6; s++ {
		if ckC[s] != 0 {
			floats.AddScaled(yNew, h*ckC[s], k[s])
		}
		if ckDC[s] != 0 {
			floats.AddScaled(yErr, h*ckDC[s], k[s])
		}
	}
	return yNew, yErr
}
