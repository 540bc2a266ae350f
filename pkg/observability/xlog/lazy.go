package xlog

import "log/slog"

// lazyValue 实现 slog.LogValuer，只有在记录真正格式化时才调用 fn。
type lazyValue struct {
	fn func() any
}

func (l lazyValue) LogValue() slog.Value {
	return slog.AnyValue(l.fn())
}

// Lazy 返回延迟求值的属性，适合 IO/DEBUG 级别中开销较大的参数：
//
//	logger.IO(ctx, "braille display packet", xlog.Lazy("bytes", func() any {
//	    return hex.EncodeToString(packet)
//	}))
func Lazy(key string, fn func() any) slog.Attr {
	if fn == nil {
		return slog.Any(key, nil)
	}
	return slog.Any(key, lazyValue{fn: fn})
}
