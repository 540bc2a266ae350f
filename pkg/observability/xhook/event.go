package xhook

import (
	"context"

	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// Kind 失败事件的来源
type Kind uint8

const (
	// KindUncaught 主 goroutine 未捕获的 panic
	KindUncaught Kind = iota + 1
	// KindGoroutine 其他 goroutine 中的 panic
	KindGoroutine
	// KindUnraisable 无法返回给调用方的错误（关闭、清理）
	KindUnraisable
	// KindWarning 运行期警告
	KindWarning
	// KindLog 标准库 log 的输出
	KindLog
	// KindStdout 写入 os.Stdout 的内容
	KindStdout
	// KindStderr 写入 os.Stderr 的内容
	KindStderr
)

var kindNames = map[Kind]string{
	KindUncaught:   "uncaught",
	KindGoroutine:  "goroutine",
	KindUnraisable: "unraisable",
	KindWarning:    "warning",
	KindLog:        "log",
	KindStdout:     "stdout",
	KindStderr:     "stderr",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// 固定的 codepath
const (
	CodepathUncaught = "unhandled exception"
	CodepathWarning  = "Go warning"
	CodepathLog      = "log"
	CodepathStdout   = "stdout"
	CodepathStderr   = "stderr"
)

// Event 一次被拦截的失败或输出
type Event struct {
	Kind     Kind
	Level    xlog.Level // Err 为 nil 时使用
	Codepath string
	Message  string
	Err      error // 非 nil 时按 xfault 分类决定级别
	Thread   string
}

// Sink 接收事件。Report 不能 panic 到调用方（Router 会隔离）。
type Sink interface {
	Report(ctx context.Context, ev Event)
}

// LoggerSink 把事件写入日志门面
type LoggerSink struct {
	logger xlog.Logger
}

// NewLoggerSink 创建 LoggerSink
func NewLoggerSink(logger xlog.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

// Report 带错误的事件走 Exception，其余按事件级别记录
func (s *LoggerSink) Report(ctx context.Context, ev Event) {
	if ev.Thread != "" {
		ctx = xlog.WithThreadName(ctx, ev.Thread)
	}
	if ev.Err != nil {
		s.logger.Exception(ctx, ev.Message, ev.Err, xlog.Codepath(ev.Codepath))
		return
	}
	s.logger.Log(ctx, ev.Level, ev.Message, xlog.Codepath(ev.Codepath))
}
