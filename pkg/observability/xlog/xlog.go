// xlog.go 定义核心接口：Logger、Leveler、LoggerWithLevel，以及门面依赖的外部协作者。
//
// 设计理念：
//   - 组合而非继承：Logger 包装一个 slog.Handler 链，只暴露增强后的 API
//   - 每条记录都带 codepath：显式指定 > context 调用点 > 堆栈解析
//   - 动态级别控制，阈值是单个原子更新的值
//   - 日志本身永远不导致进程崩溃：内部错误只计数并回调
package xlog

import (
	"context"
	"io"
	"log/slog"
)

// Logger 日志接口
//
// 级别方法的 args 按类型区分：
//   - CallOption（[Codepath]、[ActivateViewer]、[WithStack]、[WithStackPCs]）配置本次调用
//   - slog.Attr 作为结构化属性
//   - 其余值是 msg 的格式化参数，仅在级别启用后才执行 fmt.Sprintf
type Logger interface {
	IO(ctx context.Context, msg string, args ...any)
	Debug(ctx context.Context, msg string, args ...any)
	DebugWarning(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warning(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	Critical(ctx context.Context, msg string, args ...any)

	// Log 以任意级别记录。level >= LevelOff 的调用被忽略。
	Log(ctx context.Context, level Level, msg string, args ...any)

	// Exception 记录一个被捕获的错误：预期故障（见 xfault）以 DEBUGWARNING 记录，
	// 其余以 ERROR 记录。对应级别未启用时直接返回。
	Exception(ctx context.Context, msg string, err error, args ...any)

	// With 返回带额外属性的派生 Logger，共享级别、片段标记与错误计数。
	With(attrs ...slog.Attr) Logger

	// Handler 返回底层 handler 链，用于桥接 slog.Default 等外部入口。
	// 经它输出的记录不带应用命名空间，低于 WARNING 时受第三方记录过滤约束。
	Handler() slog.Handler

	// MarkFragmentStart 记录日志文件当前末尾偏移，见 [Logger.Fragment]。
	// 安全模式、没有文件日志或日志目标不是文件时返回 false。
	MarkFragmentStart() bool

	// Fragment 返回标记之后写入日志文件的内容。
	// 只有读到非空内容时才清除标记；失败条件与 MarkFragmentStart 相同，另加"未标记"。
	Fragment() (string, bool)
}

// Leveler 级别控制接口
type Leveler interface {
	// SetLevel 动态设置日志级别，运行时生效
	SetLevel(level Level)

	// GetLevel 获取当前日志级别
	GetLevel() Level

	// Enabled 检查指定级别是否启用
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 组合接口：Logger + Leveler
//
// Build() 返回此接口，避免业务代码频繁类型断言。
type LoggerWithLevel interface {
	Logger
	Leveler
}

// Viewer 实时日志查看器。
//
// 门面在写入前调用 Activate 让查看器预先定位光标，写入后调用 Refresh
// 让它显示刚写入的记录。安全模式下两者都不会被调用。
type Viewer interface {
	Activate()
	Refresh()
}

// FileSink 标记以追加方式写入的日志文件目标。只有 FileSink 才支持片段标记。
type FileSink interface {
	io.Writer
	Path() string
}

// Alerter 声音提示子系统。
type Alerter interface {
	// Beep 同步播放系统提示音，返回时声音已经触发
	Beep()

	// NotifyError 广播"出现错误"通知，不等待接收方
	NotifyError()
}
