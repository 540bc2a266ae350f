package xhook

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// current 当前安装的 Router
var current atomic.Pointer[Router]

// Current 返回当前安装的 Router，未安装时返回 nil
func Current() *Router {
	return current.Load()
}

type options struct {
	sinks           []Sink
	exit            func(int)
	stdStreams      bool
	crashOutput     string
	warningCapacity int
	resolver        *xcaller.Resolver
}

// Option Router 配置选项
type Option func(*options)

// WithSinks 替换默认的 LoggerSink
func WithSinks(sinks ...Sink) Option {
	return func(o *options) { o.sinks = sinks }
}

// WithExit 替换 RecoverMain 使用的退出函数，默认 os.Exit
func WithExit(fn func(int)) Option {
	return func(o *options) {
		if fn != nil {
			o.exit = fn
		}
	}
}

// WithStdStreams Install 时是否把 os.Stdout/os.Stderr 重定向到日志
func WithStdStreams(enabled bool) Option {
	return func(o *options) { o.stdStreams = enabled }
}

// WithCrashOutput 运行时致命错误追加写入的文件，通常是日志文件本身
func WithCrashOutput(path string) Option {
	return func(o *options) { o.crashOutput = path }
}

// WithWarningCapacity "每个位置只提示一次"注册表的容量
func WithWarningCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.warningCapacity = n
		}
	}
}

// WithResolver 解析 panic 位置与警告位置使用的解析器
func WithResolver(r *xcaller.Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// Router 拦截各类失败并分发给 Sink
type Router struct {
	logger   xlog.Logger
	sinks    []Sink
	exit     func(int)
	resolver *xcaller.Resolver
	warnings *warningFilter

	stdStreams  bool
	crashOutput string

	mu        sync.Mutex
	installed bool
	restores  []func()
}

// New 创建 Router。logger 用于默认 Sink 与 slog/log 桥接。
func New(logger xlog.Logger, opts ...Option) (*Router, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	o := options{
		exit:            os.Exit,
		warningCapacity: defaultWarningCapacity,
		resolver:        xcaller.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.sinks) == 0 {
		o.sinks = []Sink{NewLoggerSink(logger)}
	}
	warnings, err := newWarningFilter(o.warningCapacity)
	if err != nil {
		return nil, err
	}

	return &Router{
		logger:      logger,
		sinks:       o.sinks,
		exit:        o.exit,
		resolver:    o.resolver,
		warnings:    warnings,
		stdStreams:  o.stdStreams,
		crashOutput: o.crashOutput,
	}, nil
}

// Install 接管进程级输出通道，只能调用一次。部分步骤失败时已完成的步骤被撤销。
func (r *Router) Install() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.installed {
		return ErrAlreadyInstalled
	}

	// slog.SetDefault 会改写标准库 log 的输出与 flags，必须先保存
	prevLogOut, prevLogFlags, prevLogPrefix := log.Writer(), log.Flags(), log.Prefix()
	prevSlog := slog.Default()
	slog.SetDefault(slog.New(r.logger.Handler()))
	log.SetOutput(&lineWriter{router: r, kind: KindLog, level: xlog.LevelWarning, codepath: CodepathLog})
	log.SetFlags(0)
	log.SetPrefix("")
	r.restores = append(r.restores, func() {
		slog.SetDefault(prevSlog)
		log.SetOutput(prevLogOut)
		log.SetFlags(prevLogFlags)
		log.SetPrefix(prevLogPrefix)
	})

	r.restores = append(r.restores, r.warnings.push(ActionDefault, CategoryDeprecation))

	if r.stdStreams {
		restore, err := r.redirectStdStreams()
		if err != nil {
			r.undo()
			return err
		}
		r.restores = append(r.restores, restore)
	}

	if r.crashOutput != "" {
		restore, err := setCrashOutput(r.crashOutput)
		if err != nil {
			r.undo()
			return err
		}
		r.restores = append(r.restores, restore)
	}

	prev := current.Swap(r)
	r.restores = append(r.restores, func() {
		current.CompareAndSwap(r, prev)
	})
	r.installed = true
	return nil
}

// Restore 撤销 Install 的全部替换，可重复调用。
func (r *Router) Restore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.installed {
		return
	}
	r.undo()
	r.installed = false
}

// undo 逆序执行撤销函数，调用方持有 mu
func (r *Router) undo() {
	for i := len(r.restores) - 1; i >= 0; i-- {
		r.restores[i]()
	}
	r.restores = nil
}

// report 分发事件。Sink 的 panic 被吞掉，失败通道本身不能再产生失败。
func (r *Router) report(ctx context.Context, ev Event) {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, s := range r.sinks {
		func() {
			defer func() { _ = recover() }()
			s.Report(ctx, ev)
		}()
	}
}

// setCrashOutput 以追加方式打开 path 作为运行时崩溃输出
func setCrashOutput(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("xhook: open crash output: %w", err)
	}
	if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xhook: set crash output: %w", err)
	}
	// SetCrashOutput 持有自己的 fd 副本
	_ = f.Close()
	return func() {
		_ = debug.SetCrashOutput(nil, debug.CrashOptions{})
	}, nil
}
