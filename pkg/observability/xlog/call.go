package xlog

import (
	"fmt"
	"log/slog"
)

// CallOption 配置单次日志调用，作为级别方法的 args 传入。
type CallOption interface {
	apply(*callConfig)
}

type callConfig struct {
	codepath       string
	activateViewer bool
	stack          bool
	stackPCs       []uintptr
}

type optionFunc func(*callConfig)

func (f optionFunc) apply(c *callConfig) { f(c) }

// Codepath 显式指定本次记录的 codepath，优先于自动解析。
func Codepath(cp string) CallOption {
	return optionFunc(func(c *callConfig) { c.codepath = cp })
}

// ActivateViewer 请求在写入前后通知实时日志查看器。安全模式下被忽略。
func ActivateViewer() CallOption {
	return optionFunc(func(c *callConfig) { c.activateViewer = true })
}

// WithStack 在消息后附加调用点的堆栈。
func WithStack() CallOption {
	return optionFunc(func(c *callConfig) { c.stack = true })
}

// WithStackPCs 在消息后附加一份先前捕获的堆栈（runtime.Callers 的结果）。
func WithStackPCs(pcs []uintptr) CallOption {
	return optionFunc(func(c *callConfig) {
		c.stack = true
		c.stackPCs = pcs
	})
}

// splitArgs 把 args 拆成调用选项、属性与格式化参数，并在需要时展开消息模板。
func splitArgs(cfg *callConfig, msg string, args []any) (string, []slog.Attr) {
	if len(args) == 0 {
		return msg, nil
	}
	var (
		attrs  []slog.Attr
		params []any
	)
	for _, arg := range args {
		switch v := arg.(type) {
		case CallOption:
			v.apply(cfg)
		case slog.Attr:
			// 头部字段只由门面填写
			if !reservedKey(v.Key) {
				attrs = append(attrs, v)
			}
		default:
			params = append(params, arg)
		}
	}
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return msg, attrs
}
