package solver

import (
	"log/slog"

	"fdm/debug"
	"fdm/scheme"
)

type options struct {
	logger     *slog.Logger
	recorder   debug.Recorder
	schemeOpts []scheme.Option
}

// Option 回滚与外观配置
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger 日志输出，默认 slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			panic("solver: nil logger")
		}
		o.logger = l
	}
}

// WithRecorder 每一步结束后把时间和状态交给 r
func WithRecorder(r debug.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithSchemeOptions 透传给隐式格式的配置（容差、Krylov 求解器）
func WithSchemeOptions(opts ...scheme.Option) Option {
	return func(o *options) {
		o.schemeOpts = append(o.schemeOpts, opts...)
	}
}

// forward 外观传给回滚求解器的配置
func (o options) forward() []Option {
	return []Option{
		WithLogger(o.logger),
		WithRecorder(o.recorder),
		WithSchemeOptions(o.schemeOpts...),
	}
}
