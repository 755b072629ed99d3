package payoff

import (
	"fmt"
	"math"
)

// Type 期权方向
type Type int

const (
	Call Type = iota
	Put
)

func (t Type) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Payoff 标的价格 s 处的到期收益
type Payoff interface {
	Value(s float64) float64
}

// Striker 带执行价的收益，执行价处可能不光滑
type Striker interface {
	Strike() float64
}

// Vanilla 普通看涨/看跌
type Vanilla struct {
	Type        Type
	StrikePrice float64
}

func (v Vanilla) Value(s float64) float64 {
	if v.Type == Call {
		return math.Max(s-v.StrikePrice, 0)
	}
	return math.Max(v.StrikePrice-s, 0)
}

func (v Vanilla) Strike() float64 { return v.StrikePrice }

// CashOrNothing 数字期权，价内时支付固定金额
type CashOrNothing struct {
	Type        Type
	StrikePrice float64
	Cash        float64
}

func (c CashOrNothing) Value(s float64) float64 {
	if (c.Type == Call && s > c.StrikePrice) || (c.Type == Put && s < c.StrikePrice) {
		return c.Cash
	}
	return 0
}

func (c CashOrNothing) Strike() float64 { return c.StrikePrice }

// Func 任意收益函数
type Func func(s float64) float64

func (f Func) Value(s float64) float64 { return f(s) }
