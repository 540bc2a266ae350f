package xrun

import (
	"os"

	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// Option 配置 Group 的选项函数。
type Option func(*groupOptions)

type groupOptions struct {
	logger          xlog.Logger
	name            string
	signals         []os.Signal
	noSignalHandler bool
}

func defaultOptions() *groupOptions {
	return &groupOptions{name: "xrun"}
}

// WithLogger 设置记录 worker 启停的日志门面。默认使用 xlog.Default()。
func WithLogger(logger xlog.Logger) Option {
	return func(o *groupOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 Group 名称，用于日志中区分不同的 Group。默认 "xrun"。
func WithName(name string) Option {
	return func(o *groupOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 设置 Run/RunWithOptions 监听的信号列表，默认 DefaultSignals()。
func WithSignals(signals []os.Signal) Option {
	// 创建时拷贝，调用方之后修改切片不影响配置
	copied := append([]os.Signal(nil), signals...)
	return func(o *groupOptions) {
		o.signals = copied
	}
}

// WithoutSignalHandler 禁用 Run/RunWithOptions 的信号监听。
func WithoutSignalHandler() Option {
	return func(o *groupOptions) {
		o.noSignalHandler = true
	}
}
