package xlog

import (
	"context"
	"log/slog"
)

// AlertHandler 在写入前触发声音提示：
// CRITICAL 同步播放系统提示音；ERROR 及以上且 errorSound 返回 true 时广播错误通知。
type AlertHandler struct {
	next       slog.Handler
	alerter    Alerter
	errorSound func() bool
}

// NewAlertHandler 创建 AlertHandler。errorSound 为 nil 表示从不广播错误通知。
func NewAlertHandler(next slog.Handler, alerter Alerter, errorSound func() bool) (*AlertHandler, error) {
	if next == nil {
		return nil, ErrNilHandler
	}
	return &AlertHandler{next: next, alerter: alerter, errorSound: errorSound}, nil
}

// Enabled 委托给下游 handler
func (h *AlertHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle 提示后交给下游 handler
func (h *AlertHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.alerter != nil {
		switch {
		case r.Level >= slog.Level(LevelCritical):
			h.alerter.Beep()
		case r.Level >= slog.Level(LevelError) && h.errorSound != nil && h.errorSound():
			h.alerter.NotifyError()
		}
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs 返回带额外属性的新 handler
func (h *AlertHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AlertHandler{next: h.next.WithAttrs(attrs), alerter: h.alerter, errorSound: h.errorSound}
}

// WithGroup 返回带分组的新 handler
func (h *AlertHandler) WithGroup(name string) slog.Handler {
	return &AlertHandler{next: h.next.WithGroup(name), alerter: h.alerter, errorSound: h.errorSound}
}
