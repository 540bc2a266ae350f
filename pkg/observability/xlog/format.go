package xlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
	"github.com/omeyang/xdiag/pkg/observability/xfault"
)

// ErrNilWriter 当 NewFormatHandler 的输出为 nil 时返回
var ErrNilWriter = errors.New("xlog: writer is nil")

// Layout 记录版式
type Layout uint8

const (
	// LayoutText 文件版式：
	//
	//	LEVEL - codepath (HH:MM:SS.mmm) - thread (id):
	//	message
	LayoutText Layout = iota

	// LayoutRemote 远程转发版式，级别与进程号由传输层单独携带：
	//
	//	codepath:
	//	message
	LayoutRemote
)

// timeLayout 记录头部的时间格式
const timeLayout = "15:04:05.000"

// unknownCodepath 既没有 codepath 属性也无法从 PC 解析时使用
const unknownCodepath = "unknown"

// FormatOptions FormatHandler 配置
type FormatOptions struct {
	// Level 最低输出级别，nil 表示 INFO
	Level slog.Leveler

	// Layout 记录版式
	Layout Layout

	// BasePath 源码根目录，从堆栈中去掉该前缀
	BasePath string

	// Resolver 为缺少 codepath 的外部记录按 PC 解析调用点，nil 使用 xcaller.Default()
	Resolver *xcaller.Resolver
}

// FormatHandler 把记录渲染为纯文本并整条写入 writer。
//
// 同一 writer 的所有派生 handler 共享一把锁，多行记录不会与其他记录交错。
type FormatHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   FormatOptions
	pre    []slog.Attr // WithAttrs 累积的属性，key 已带分组前缀
	prefix string      // WithGroup 累积的分组前缀，如 "request."
}

// NewFormatHandler 创建 FormatHandler
func NewFormatHandler(w io.Writer, opts *FormatOptions) (*FormatHandler, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	h := &FormatHandler{mu: new(sync.Mutex), w: w}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Resolver == nil {
		h.opts.Resolver = xcaller.Default()
	}
	return h, nil
}

// Enabled 按 Level 判断
func (h *FormatHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle 渲染并写入一条记录
func (h *FormatHandler) Handle(_ context.Context, r slog.Record) error {
	buf := h.Format(r)
	if h.opts.Layout == LayoutText {
		buf = append(buf, '\n')
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs 返回带额外属性的新 handler
func (h *FormatHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.pre = make([]slog.Attr, 0, len(h.pre)+len(attrs))
	clone.pre = append(clone.pre, h.pre...)
	for _, a := range attrs {
		clone.pre = appendQualified(clone.pre, h.prefix, a)
	}
	return &clone
}

// WithGroup 返回带分组的新 handler
func (h *FormatHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// header 是从属性中提取出的记录头部字段
type header struct {
	codepath string
	thread   string
	threadID string
	err      error
	extra    []slog.Attr
}

// Format 按配置的版式渲染记录（文本版式不含末尾换行）。
func (h *FormatHandler) Format(r slog.Record) []byte {
	hd := header{}
	for _, a := range h.pre {
		hd.collect(a, true)
	}
	top := h.prefix == ""
	r.Attrs(func(a slog.Attr) bool {
		if top {
			hd.collect(a, true)
		} else {
			hd.extra = appendQualified(hd.extra, h.prefix, a)
		}
		return true
	})
	if hd.codepath == "" {
		hd.codepath = h.opts.Resolver.FromPC(r.PC).Codepath()
		if hd.codepath == "" {
			hd.codepath = unknownCodepath
		}
	}
	if hd.thread == "" {
		name, id := threadIdentity(context.Background())
		hd.thread, hd.threadID = name, strconv.FormatUint(id, 10)
	}

	buf := make([]byte, 0, 256)
	switch h.opts.Layout {
	case LayoutRemote:
		buf = append(buf, hd.codepath...)
		buf = append(buf, ":\n"...)
	default:
		ts := r.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		buf = append(buf, Level(r.Level).String()...)
		buf = append(buf, " - "...)
		buf = append(buf, hd.codepath...)
		buf = append(buf, " ("...)
		buf = ts.AppendFormat(buf, timeLayout)
		buf = append(buf, ") - "...)
		buf = append(buf, hd.thread...)
		buf = append(buf, " ("...)
		buf = append(buf, hd.threadID...)
		buf = append(buf, "):\n"...)
	}
	buf = append(buf, r.Message...)
	for _, a := range hd.extra {
		buf = append(buf, ' ')
		buf = appendAttr(buf, a)
	}
	if hd.err != nil {
		buf = append(buf, '\n')
		buf = append(buf, hd.err.Error()...)
		if stack := xfault.StackOf(hd.err); len(stack) > 0 {
			buf = append(buf, '\n')
			buf = append(buf, h.trimStack(string(stack))...)
		}
	}
	return buf
}

// collect 把头部字段提取出来，其余属性留作普通属性。
func (hd *header) collect(a slog.Attr, top bool) {
	if a.Equal(slog.Attr{}) {
		return
	}
	if top {
		switch a.Key {
		case KeyCodepath:
			hd.codepath = a.Value.Resolve().String()
			return
		case KeyThread:
			hd.thread = a.Value.Resolve().String()
			return
		case KeyThreadID:
			hd.threadID = a.Value.Resolve().String()
			return
		case KeyLogger:
			return
		case KeyError:
			if err, ok := a.Value.Resolve().Any().(error); ok {
				hd.err = err
				return
			}
		}
	}
	hd.extra = appendQualified(hd.extra, "", a)
}

// appendQualified 展开分组属性并为 key 加上前缀。
func appendQualified(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		group := v.Group()
		if len(group) == 0 {
			return dst
		}
		sub := prefix
		if a.Key != "" {
			sub = prefix + a.Key + "."
		}
		for _, ga := range group {
			dst = appendQualified(dst, sub, ga)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, slog.Attr{Key: prefix + a.Key, Value: v})
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	s := a.Value.String()
	if needsQuote(s) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\n\r\"=")
}

// trimStack 去掉堆栈中的源码根目录前缀。
func (h *FormatHandler) trimStack(stack string) string {
	if h.opts.BasePath == "" {
		return stack
	}
	base := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(h.opts.BasePath)), "/")
	return strings.ReplaceAll(stack, base+"/", "")
}
