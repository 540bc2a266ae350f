package xlog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
)

// ErrNilHandler 当装饰 handler 的下游 handler 为 nil 时返回
var ErrNilHandler = errors.New("xlog: base handler is nil")

// ContextHandler 为不经过门面的记录（slog.Default、标准库 log 桥接等）补齐调用点与线程信息。
//
// 装饰模式实现：记录里已有的字段不会被覆盖，缺少时从 context 提取：
//   - codepath: xcaller.WithSite 设置的调用点
//   - thread, thread_id: WithThreadName 设置的名称与当前 goroutine ID
type ContextHandler struct {
	base slog.Handler
}

// NewContextHandler 创建 ContextHandler
func NewContextHandler(base slog.Handler) (*ContextHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &ContextHandler{base: base}, nil
}

// Enabled 委托给底层 handler
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// maxContextAttrs 最大注入属性数量（codepath + thread + thread_id）
const maxContextAttrs = 3

// Handle 在调用底层 handler 前补齐缺失字段
//
// 根据 slog 契约，必须 Clone record 后再修改，避免影响其他 handler。
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	var hasCodepath, hasThread bool
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case KeyCodepath:
			hasCodepath = true
		case KeyThread:
			hasThread = true
		}
		return !(hasCodepath && hasThread)
	})
	if hasCodepath && hasThread {
		return h.base.Handle(ctx, r)
	}

	var buf [maxContextAttrs]slog.Attr
	attrs := buf[:0]
	if !hasCodepath {
		if site, ok := xcaller.SiteFrom(ctx); ok {
			attrs = append(attrs, slog.String(KeyCodepath, site.Codepath()))
		}
	}
	if !hasThread {
		name, id := threadIdentity(ctx)
		attrs = append(attrs, slog.String(KeyThread, name), slog.Uint64(KeyThreadID, id))
	}
	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.base.Handle(ctx, r)
}

// WithAttrs 返回带额外属性的新 handler
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{base: h.base.WithAttrs(attrs)}
}

// WithGroup 返回带分组的新 handler
//
// 分组之后补齐的字段也会被归入分组，格式化器此时把它们当作普通属性输出。
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{base: h.base.WithGroup(name)}
}
