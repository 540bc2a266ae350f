package xlog

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
	"github.com/omeyang/xdiag/pkg/observability/xfault"
	"github.com/omeyang/xdiag/pkg/util/xfile"
)

// 编译时接口检查
var (
	_ Logger          = (*xlogger)(nil)
	_ Leveler         = (*xlogger)(nil)
	_ LoggerWithLevel = (*xlogger)(nil)
)

// maxStackDepth 附加堆栈时最多记录的帧数
const maxStackDepth = 64

// xlogger Logger 接口的实现
type xlogger struct {
	handler        slog.Handler // 带应用命名空间
	root           slog.Handler // 不带命名空间，供外部记录桥接
	levelVar       *slog.LevelVar
	resolver       *xcaller.Resolver
	viewer         Viewer
	secure         bool
	basePath       string
	fragment       *fragmentTracker // 派生 logger 共享
	onError        func(error)      // 内部错误回调
	errorCount     *atomic.Uint64   // 内部错误计数器，派生 logger 共享
	inErrorHandler *atomic.Bool     // 防止 onError 递归调用，派生 logger 共享
}

// logSkip 通用日志方法。
// extraSkip: 额外需要跳过的栈帧数（用于全局函数等间接调用场景）
//
//go:noinline
func (l *xlogger) logSkip(ctx context.Context, level Level, msg string, err error, args []any, extraSkip int) {
	if level >= LevelOff {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, slog.Level(level)) {
		return
	}

	var cfg callConfig
	msg, attrs := splitArgs(&cfg, msg, args)

	// 基础 skip=3: Callers(0) → logSkip(1) → 级别方法(2) → 业务代码(3)
	// 全局函数多一层 globalLog，extraSkip=1
	var pcs [1]uintptr
	runtime.Callers(3+extraSkip, pcs[:])

	codepath := cfg.codepath
	if codepath == "" {
		if site, ok := xcaller.SiteFrom(ctx); ok {
			codepath = site.Codepath()
		} else {
			codepath = l.resolver.FromPC(pcs[0]).Codepath()
		}
	}

	if cfg.stack {
		stackPCs := cfg.stackPCs
		if stackPCs == nil {
			var buf [maxStackDepth]uintptr
			n := runtime.Callers(3+extraSkip, buf[:])
			stackPCs = buf[:n]
		}
		msg += "\nStack trace:\n" + l.formatStack(stackPCs)
	}

	name, id := threadIdentity(ctx)
	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(
		slog.String(KeyCodepath, codepath),
		slog.String(KeyThread, name),
		slog.Uint64(KeyThreadID, id),
	)
	r.AddAttrs(attrs...)
	if err != nil {
		r.AddAttrs(Err(err))
	}

	activate := cfg.activateViewer && !l.secure && l.viewer != nil
	if activate {
		l.viewer.Activate()
	}
	if herr := l.handler.Handle(ctx, r); herr != nil {
		l.handleError(herr)
	}
	if activate {
		l.viewer.Refresh()
	}
}

// formatStack 按 runtime 堆栈的格式输出帧，并去掉源码根目录前缀。
func (l *xlogger) formatStack(pcs []uintptr) string {
	var b strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		if f.Function != "" {
			b.WriteString(f.Function)
			b.WriteString("()\n\t")
			b.WriteString(xfile.TrimBase(l.basePath, f.File))
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(f.Line))
			b.WriteByte('\n')
		}
		if !more {
			break
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// handleError 处理内部错误（Handler.Handle 失败）
// 内置递归保护：如果 onError 回调内部触发日志错误，不会导致无限递归。
// 内置 panic 隔离：回调 panic 不会扩散到业务调用链。
func (l *xlogger) handleError(err error) {
	if l.errorCount != nil {
		l.errorCount.Add(1)
	}
	if l.onError != nil && l.inErrorHandler != nil {
		if l.inErrorHandler.CompareAndSwap(false, true) {
			defer l.inErrorHandler.Store(false)
			l.safeOnError(err)
		}
	}
}

// safeOnError 安全执行 onError 回调，回调 panic 被捕获并计入错误计数
func (l *xlogger) safeOnError(err error) {
	defer func() {
		if r := recover(); r != nil {
			if l.errorCount != nil {
				l.errorCount.Add(1)
			}
		}
	}()
	l.onError(err)
}

// IO 记录 IO 级别日志（设备与外部进程的原始输入输出）
func (l *xlogger) IO(ctx context.Context, msg string, args ...any) {
	l.logSkip(ctx, LevelIO, msg, nil, args, 0)
}

// Debug 记录 Debug 级别日志
func (l *xlogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logSkip(ctx, LevelDebug, msg, nil, args, 0)
}

// DebugWarning 记录 DebugWarning 级别日志（预期内的小问题）
func (l *xlogger) DebugWarning(ctx context.Context, msg string, args ...any) {
	l.logSkip(ctx, LevelDebugWarning, msg, nil, args, 0)
}

// Info 记录 Info 级别日志
func (l *xlogger) Info(ctx context.Context, msg string, args ...any) {
	l.logSkip(ctx, LevelInfo, msg, nil, args, 0)
}

// Warning 记录 Warning 级别日志
func (l *xlogger) Warning(ctx context.Context, msg string, args ...any) {
	l.logSkip(ctx, LevelWarning, msg, nil, args, 0)
}

// Error 记录 Error 级别日志
func (l *xlogger) Error(ctx context.Context, msg string, args ...any) {
	l.logSkip(ctx, LevelError, msg, nil, args, 0)
}

// Critical 记录 Critical 级别日志
func (l *xlogger) Critical(ctx context.Context, msg string, args ...any) {
	l.logSkip(ctx, LevelCritical, msg, nil, args, 0)
}

// Log 以任意级别记录
func (l *xlogger) Log(ctx context.Context, level Level, msg string, args ...any) {
	l.logSkip(ctx, level, msg, nil, args, 0)
}

// Exception 按错误分类选择级别后记录
func (l *xlogger) Exception(ctx context.Context, msg string, err error, args ...any) {
	l.logSkip(ctx, exceptionLevel(err), msg, err, args, 0)
}

func exceptionLevel(err error) Level {
	if xfault.IsExpected(err) {
		return LevelDebugWarning
	}
	return LevelError
}

// With 返回带额外属性的派生 Logger
func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	child := *l
	child.handler = l.handler.WithAttrs(attrs)
	return &child
}

// Handler 返回不带应用命名空间的 handler 链，经它输出的记录按第三方记录过滤
func (l *xlogger) Handler() slog.Handler {
	return l.root
}

// MarkFragmentStart 记录日志文件当前末尾偏移
func (l *xlogger) MarkFragmentStart() bool {
	return l.fragment.mark()
}

// Fragment 返回标记之后写入日志文件的内容
func (l *xlogger) Fragment() (string, bool) {
	return l.fragment.read()
}

// SetLevel 动态设置日志级别（实现 Leveler 接口）
func (l *xlogger) SetLevel(level Level) {
	l.levelVar.Set(slog.Level(level))
}

// GetLevel 获取当前日志级别（实现 Leveler 接口）
func (l *xlogger) GetLevel() Level {
	return Level(l.levelVar.Level())
}

// Enabled 检查指定级别是否启用（实现 Leveler 接口）
func (l *xlogger) Enabled(ctx context.Context, level Level) bool {
	if level >= LevelOff {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return l.handler.Enabled(ctx, slog.Level(level))
}

// ErrorCount 返回内部错误计数（Handler.Handle 失败次数），用于监控与测试。
func (l *xlogger) ErrorCount() uint64 {
	if l.errorCount == nil {
		return 0
	}
	return l.errorCount.Load()
}
