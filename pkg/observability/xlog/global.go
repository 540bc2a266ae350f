package xlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
)

// =============================================================================
// 全局 Logger
//
// 进程只有一个诊断日志流，故障钩子、标准库 log 桥接与全局函数都写入这里。
// =============================================================================

// globalLogger 全局 Logger 实例（并发安全）
var globalLogger atomic.Pointer[LoggerWithLevel]

// globalMu 保护 globalOnce 及其 Do 执行（也用于 ResetDefault）
var globalMu sync.Mutex

// globalOnce 确保默认 Logger 只初始化一次
var globalOnce sync.Once

// newBuilder 创建默认 Logger 的构建器，测试中可替换以覆盖降级路径
var newBuilder = New

// defaultLogger 创建默认 Logger（惰性初始化）
//
// 在持锁状态下执行 once.Do，ResetDefault（重置 globalOnce）与 once.Do 之间不会发生竞争。
func defaultLogger() LoggerWithLevel {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalOnce.Do(func() {
		logger, _, err := newBuilder().Build()
		if err != nil {
			// 默认参数不应失败；失败则降级为最小可用 logger，构造不 panic
			fmt.Fprintf(os.Stderr, "xlog: failed to build default logger: %v, using fallback\n", err)
			levelVar := new(slog.LevelVar)
			fallbackHandler, _ := NewFormatHandler(os.Stderr, &FormatOptions{Level: levelVar})
			var fallback LoggerWithLevel = &xlogger{
				handler:        fallbackHandler,
				root:           fallbackHandler,
				levelVar:       levelVar,
				resolver:       xcaller.Default(),
				errorCount:     new(atomic.Uint64),
				inErrorHandler: new(atomic.Bool),
			}
			globalLogger.Store(&fallback)
			return
		}
		globalLogger.Store(&logger)
	})
	return *globalLogger.Load()
}

// Default 返回全局默认 Logger
//
// 懒初始化：首次调用时创建默认 Logger（stderr，INFO 级别，文本版式）。
func Default() LoggerWithLevel {
	if l := globalLogger.Load(); l != nil {
		return *l
	}
	return defaultLogger()
}

// SetDefault 替换全局默认 Logger。传入 nil 会被忽略。
func SetDefault(l LoggerWithLevel) {
	if l == nil {
		return
	}
	globalLogger.Store(&l)
}

// ResetDefault 重置全局 Logger 为未初始化状态（仅用于测试）
func ResetDefault() {
	globalMu.Lock()
	globalLogger.Store(nil)
	globalOnce = sync.Once{}
	globalMu.Unlock()
}

// =============================================================================
// 便利函数
// =============================================================================

// globalLog 全局函数比实例方法多一层调用，需要额外跳过 1 帧
func globalLog(ctx context.Context, level Level, msg string, args []any) {
	l := Default()
	if xl, ok := l.(*xlogger); ok {
		xl.logSkip(ctx, level, msg, nil, args, 1)
		return
	}
	// 非 xlogger 实现（如测试替身），codepath 由其自行决定
	l.Log(ctx, level, msg, args...)
}

// IO 使用全局 Logger 记录 IO 级别日志
func IO(ctx context.Context, msg string, args ...any) {
	globalLog(ctx, LevelIO, msg, args)
}

// Debug 使用全局 Logger 记录 Debug 级别日志
func Debug(ctx context.Context, msg string, args ...any) {
	globalLog(ctx, LevelDebug, msg, args)
}

// DebugWarning 使用全局 Logger 记录 DebugWarning 级别日志
func DebugWarning(ctx context.Context, msg string, args ...any) {
	globalLog(ctx, LevelDebugWarning, msg, args)
}

// Info 使用全局 Logger 记录 Info 级别日志
func Info(ctx context.Context, msg string, args ...any) {
	globalLog(ctx, LevelInfo, msg, args)
}

// Warning 使用全局 Logger 记录 Warning 级别日志
func Warning(ctx context.Context, msg string, args ...any) {
	globalLog(ctx, LevelWarning, msg, args)
}

// Error 使用全局 Logger 记录 Error 级别日志
func Error(ctx context.Context, msg string, args ...any) {
	globalLog(ctx, LevelError, msg, args)
}

// Critical 使用全局 Logger 记录 Critical 级别日志
func Critical(ctx context.Context, msg string, args ...any) {
	globalLog(ctx, LevelCritical, msg, args)
}

// Exception 使用全局 Logger 按错误分类记录
func Exception(ctx context.Context, msg string, err error, args ...any) {
	l := Default()
	if xl, ok := l.(*xlogger); ok {
		// 直接调用 logSkip，调用链与实例方法相同
		xl.logSkip(ctx, exceptionLevel(err), msg, err, args, 0)
		return
	}
	l.Exception(ctx, msg, err, args...)
}

// MarkFragmentStart 在全局 Logger 上标记片段起点
func MarkFragmentStart() bool {
	return Default().MarkFragmentStart()
}

// Fragment 读取全局 Logger 的片段
func Fragment() (string, bool) {
	return Default().Fragment()
}
