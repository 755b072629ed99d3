package debug

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
)

// ErrEmptyRecord 没有可渲染的记录
var ErrEmptyRecord = errors.New("debug: empty record")

// Recorder 回滚过程记录器，每一步结束后接收当前时间和状态
type Recorder interface {
	Update(t float64, state []float64)
	Render(w io.Writer) error
}

// Record 记录历史状态
type Record struct {
	Locations []float64   // 网格第 0 维坐标
	Time      []float64   // 时间列
	Values    [][]float64 // 状态列
}

// Init 初始化网格坐标，清空历史
func (r *Record) Init(locations []float64) {
	r.Locations = append([]float64{}, locations...)
	r.Time = r.Time[:0]
	r.Values = r.Values[:0]
}

// Update 记录数据
func (r *Record) Update(t float64, state []float64) {
	r.Time = append(r.Time, t)
	r.Values = append(r.Values, append([]float64{}, state...))
}

// Render 格式和输出内容
func (r *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(r) }

// Len 已记录的步数
func (r *Record) Len() int { return len(r.Time) }

// Error 记录渲染错误
func (r *Record) Error(err error) { slog.Error("debug record", "err", err) }

// profiles 从记录中等间隔选取至多 n 条截面，总包含最后一条
func (r *Record) profiles(n int) []int {
	m := len(r.Time)
	if m == 0 {
		return nil
	}
	if m <= n {
		idx := make([]int, m)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, 0, n)
	for k := 0; k < n-1; k++ {
		idx = append(idx, k*(m-1)/(n-1))
	}
	return append(idx, m-1)
}

// line 第 k 条截面的横轴坐标，网格坐标缺失时按节点序号
func (r *Record) line(k int) []float64 {
	if len(r.Locations) == len(r.Values[k]) {
		return r.Locations
	}
	xs := make([]float64, len(r.Values[k]))
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}
