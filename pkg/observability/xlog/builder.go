package xlog

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
	"github.com/omeyang/xdiag/pkg/observability/xrotate"
)

// DefaultName 默认的应用日志命名空间
const DefaultName = "xdiag"

// HandlerFactory 创建替代 FormatHandler 的输出 handler（如远程转发）。
// level 是 logger 的动态阈值，返回的 handler 必须据此实现 Enabled。
type HandlerFactory func(level slog.Leveler) (slog.Handler, error)

// ErrBuilderUsed Builder 重复调用 Build 时返回
var ErrBuilderUsed = errors.New("xlog: builder already built")

// Builder 日志配置构建器
//
// first-error-wins：遇到第一个配置错误后，后续 Set 操作不再覆盖该错误。
// Builder 为一次性使用，Build 后不可复用。
type Builder struct {
	output     io.Writer
	fileSink   FileSink
	factory    HandlerFactory
	levelVar   *slog.LevelVar
	layout     Layout
	secure     bool
	viewer     Viewer
	resolver   *xcaller.Resolver
	name       string
	basePath   string
	gate       func() bool
	alerter    Alerter
	errorSound func() bool
	closer     io.Closer
	onError    func(error)
	built      bool
	err        error
}

// New 创建配置构建器（默认输出到 stderr，INFO 级别，文本版式）
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)

	return &Builder{
		output:   os.Stderr,
		levelVar: levelVar,
		name:     DefaultName,
	}
}

func (b *Builder) setErr(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetOutput 设置日志输出目标。实现 FileSink 的 writer 同时启用片段标记。
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w == nil {
		return b.setErr(ErrNilWriter)
	}
	b.output = w
	b.fileSink = nil
	if fs, ok := w.(FileSink); ok {
		b.fileSink = fs
	}
	return b
}

// SetRotation 设置轮转的日志文件作为输出目标
func (b *Builder) SetRotation(filename string, opts ...xrotate.Option) *Builder {
	rotator, err := xrotate.NewLumberjack(filename, opts...)
	if err != nil {
		return b.setErr(err)
	}
	b.closer = rotator
	return b.SetOutput(rotator)
}

// SetHandlerFactory 用自定义 handler 替代文本输出（如远程转发），此时没有文件日志。
func (b *Builder) SetHandlerFactory(fn HandlerFactory) *Builder {
	b.factory = fn
	b.fileSink = nil
	return b
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过名称设置日志级别
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		return b.setErr(err)
	}
	return b.SetLevel(level)
}

// SetLevelVar 使用外部的 LevelVar 作为阈值，多个 logger 可以共享同一阈值
func (b *Builder) SetLevelVar(v *slog.LevelVar) *Builder {
	if v != nil {
		v.Set(b.levelVar.Level())
		b.levelVar = v
	}
	return b
}

// SetLayout 设置记录版式
func (b *Builder) SetLayout(layout Layout) *Builder {
	b.layout = layout
	return b
}

// SetSecure 设置安全模式：禁用实时查看器通知与片段标记
func (b *Builder) SetSecure(secure bool) *Builder {
	b.secure = secure
	return b
}

// SetViewer 设置实时日志查看器
func (b *Builder) SetViewer(v Viewer) *Builder {
	b.viewer = v
	return b
}

// SetResolver 设置调用点解析器，默认 xcaller.Default()
func (b *Builder) SetResolver(r *xcaller.Resolver) *Builder {
	b.resolver = r
	return b
}

// SetName 设置应用日志命名空间
func (b *Builder) SetName(name string) *Builder {
	name = strings.TrimSpace(name)
	if name == "" {
		return b.setErr(errors.New("xlog: logger name is required"))
	}
	b.name = name
	return b
}

// SetBasePath 设置源码根目录，堆栈中的该前缀会被去掉
func (b *Builder) SetBasePath(dir string) *Builder {
	b.basePath = dir
	return b
}

// SetExternalGate 设置第三方库低级别记录的放行开关，见 FilterHandler
func (b *Builder) SetExternalGate(gate func() bool) *Builder {
	b.gate = gate
	return b
}

// SetAlerter 设置声音提示，errorSound 决定 ERROR 记录是否广播错误通知
func (b *Builder) SetAlerter(a Alerter, errorSound func() bool) *Builder {
	b.alerter = a
	b.errorSound = errorSound
	return b
}

// SetOnError 设置内部错误回调
//
// 当 Handler.Handle() 失败时（如磁盘满、writer 异常）调用。
// 回调在热路径同步执行，应保持轻量；内置递归保护与 panic 隔离。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// Build 构建 Logger 实例
//
// 返回值：
//   - LoggerWithLevel: 日志实例，同时支持动态级别控制
//   - func() error: 清理函数，用于释放资源（如关闭文件）
//   - error: 配置错误
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.built {
		return nil, nil, ErrBuilderUsed
	}
	if b.err != nil {
		return nil, nil, b.err
	}
	b.built = true

	resolver := b.resolver
	if resolver == nil {
		resolver = xcaller.Default()
	}

	var (
		sink slog.Handler
		err  error
	)
	if b.factory != nil {
		sink, err = b.factory(b.levelVar)
	} else {
		sink, err = NewFormatHandler(b.output, &FormatOptions{
			Level:    b.levelVar,
			Layout:   b.layout,
			BasePath: b.basePath,
			Resolver: resolver,
		})
	}
	if err != nil {
		return nil, nil, err
	}
	if sink == nil {
		return nil, nil, ErrNilHandler
	}

	root := sink
	if b.alerter != nil {
		if root, err = NewAlertHandler(root, b.alerter, b.errorSound); err != nil {
			return nil, nil, err
		}
	}
	if root, err = NewFilterHandler(root, b.name, b.gate); err != nil {
		return nil, nil, err
	}
	if root, err = NewContextHandler(root); err != nil {
		return nil, nil, err
	}

	var fileSink FileSink
	if b.factory == nil {
		fileSink = b.fileSink
	}

	logger := &xlogger{
		handler:        root.WithAttrs([]slog.Attr{slog.String(KeyLogger, b.name)}),
		root:           root,
		levelVar:       b.levelVar,
		resolver:       resolver,
		viewer:         b.viewer,
		secure:         b.secure,
		basePath:       b.basePath,
		fragment:       newFragmentTracker(fileSink, b.secure),
		onError:        b.onError,
		errorCount:     new(atomic.Uint64),
		inErrorHandler: new(atomic.Bool),
	}

	return logger, b.createCleanup(), nil
}

// createCleanup 创建清理函数
func (b *Builder) createCleanup() func() error {
	var once sync.Once
	closer := b.closer

	return func() error {
		var err error
		once.Do(func() {
			if closer != nil {
				err = closer.Close()
			}
		})
		return err
	}
}
