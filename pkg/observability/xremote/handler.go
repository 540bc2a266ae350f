package xremote

//go:generate mockgen -source=handler.go -destination=mock_bridge_test.go -package=xremote_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
	"github.com/omeyang/xdiag/pkg/util/xproc"
)

// Bridge 宿主进程提供的日志入口
type Bridge interface {
	LogMessage(level, pid int, msg string) error
}

// 熔断默认参数
const (
	defaultTripAfter   = 5
	defaultOpenTimeout = 10 * time.Second
)

type options struct {
	pid           int
	tripAfter     uint32
	openTimeout   time.Duration
	basePath      string
	resolver      *xcaller.Resolver
	onStateChange func(from, to gobreaker.State)
}

// Option Handler 配置选项
type Option func(*options)

// WithProcessID 覆盖上报的进程号，默认当前进程
func WithProcessID(pid int) Option {
	return func(o *options) { o.pid = pid }
}

// WithTripAfter 连续失败多少次后打开熔断器
func WithTripAfter(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.tripAfter = n
		}
	}
}

// WithOpenTimeout 熔断器打开后多久进入半开状态
func WithOpenTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.openTimeout = d
		}
	}
}

// WithBasePath 渲染堆栈时去掉的源码根目录
func WithBasePath(dir string) Option {
	return func(o *options) { o.basePath = dir }
}

// WithResolver 为缺少 codepath 的记录解析调用点
func WithResolver(r *xcaller.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithStateChange 熔断器状态变化回调。回调中不能写日志。
func WithStateChange(fn func(from, to gobreaker.State)) Option {
	return func(o *options) { o.onStateChange = fn }
}

// Handler 把记录转发给 Bridge 的 slog.Handler
type Handler struct {
	format  *xlog.FormatHandler
	bridge  Bridge
	pid     int
	cb      *gobreaker.CircuitBreaker[struct{}]
	dropped *atomic.Uint64
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler 创建 Handler。level 为动态阈值，nil 表示 INFO。
func NewHandler(bridge Bridge, level slog.Leveler, opts ...Option) (*Handler, error) {
	if bridge == nil {
		return nil, ErrNilBridge
	}
	o := options{
		pid:         xproc.ProcessID(),
		tripAfter:   defaultTripAfter,
		openTimeout: defaultOpenTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	format, err := xlog.NewFormatHandler(discard{}, &xlog.FormatOptions{
		Level:    level,
		Layout:   xlog.LayoutRemote,
		BasePath: o.basePath,
		Resolver: o.resolver,
	})
	if err != nil {
		return nil, err
	}

	st := gobreaker.Settings{
		Name:    "xremote",
		Timeout: o.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.tripAfter
		},
	}
	if o.onStateChange != nil {
		st.OnStateChange = func(_ string, from, to gobreaker.State) {
			o.onStateChange(from, to)
		}
	}

	return &Handler{
		format:  format,
		bridge:  bridge,
		pid:     o.pid,
		cb:      gobreaker.NewCircuitBreaker[struct{}](st),
		dropped: new(atomic.Uint64),
	}, nil
}

// Factory 返回供 xlog.Builder.SetHandlerFactory 使用的构造函数
func Factory(bridge Bridge, opts ...Option) xlog.HandlerFactory {
	return func(level slog.Leveler) (slog.Handler, error) {
		return NewHandler(bridge, level, opts...)
	}
}

// Enabled 按动态阈值判断
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.format.Enabled(ctx, level)
}

// Handle 渲染并转发记录。转发错误与熔断拒绝都只计数，返回值总是 nil。
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	msg := string(h.format.Format(r))
	_, err := h.cb.Execute(func() (struct{}, error) {
		return struct{}{}, h.send(int(r.Level), msg)
	})
	if err != nil {
		h.dropped.Add(1)
	}
	return nil
}

// send 调用 Bridge，panic 转为错误以便熔断器计数
func (h *Handler) send(level int, msg string) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%w: %v", ErrBridgePanic, v)
		}
	}()
	return h.bridge.LogMessage(level, h.pid, msg)
}

// WithAttrs 返回带额外属性的新 handler，熔断器与计数共享
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	if f, ok := h.format.WithAttrs(attrs).(*xlog.FormatHandler); ok {
		clone.format = f
	}
	return &clone
}

// WithGroup 返回带分组的新 handler
func (h *Handler) WithGroup(name string) slog.Handler {
	clone := *h
	if f, ok := h.format.WithGroup(name).(*xlog.FormatHandler); ok {
		clone.format = f
	}
	return &clone
}

// Dropped 返回未能送达的记录数
func (h *Handler) Dropped() uint64 {
	return h.dropped.Load()
}

// State 返回熔断器当前状态
func (h *Handler) State() gobreaker.State {
	return h.cb.State()
}

// discard FormatHandler 只用于渲染，不写任何地方
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
