package xlog

import (
	"context"
	"log/slog"
)

// FilterHandler 丢弃第三方库产生的低于 WARNING 的记录。
//
// 应用自身的记录以 KeyLogger=name 属性标识（门面在 Build 时注入）；
// 没有该标识的记录低于 WARNING 时，只有 gate 返回 true 才放行。
// gate 每条记录调用一次，配置热更新后立即生效。
type FilterHandler struct {
	next     slog.Handler
	name     string
	gate     func() bool
	internal bool
}

// NewFilterHandler 创建 FilterHandler。gate 为 nil 时第三方低级别记录总是被丢弃。
func NewFilterHandler(next slog.Handler, name string, gate func() bool) (*FilterHandler, error) {
	if next == nil {
		return nil, ErrNilHandler
	}
	return &FilterHandler{next: next, name: name, gate: gate}, nil
}

// Enabled 委托给下游 handler
func (h *FilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle 过滤后交给下游 handler
func (h *FilterHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.Level(LevelWarning) && !h.internal && !h.hasLogger(r) {
		if h.gate == nil || !h.gate() {
			return nil
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *FilterHandler) hasLogger(r slog.Record) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == KeyLogger && a.Value.String() == h.name {
			found = true
			return false
		}
		return true
	})
	return found
}

// WithAttrs 返回带额外属性的新 handler；属性中包含本命名空间的 KeyLogger 时派生 handler 视为内部。
func (h *FilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	internal := h.internal
	for _, a := range attrs {
		if a.Key == KeyLogger && a.Value.String() == h.name {
			internal = true
		}
	}
	return &FilterHandler{next: h.next.WithAttrs(attrs), name: h.name, gate: h.gate, internal: internal}
}

// WithGroup 返回带分组的新 handler
func (h *FilterHandler) WithGroup(name string) slog.Handler {
	return &FilterHandler{next: h.next.WithGroup(name), name: h.name, gate: h.gate, internal: h.internal}
}
