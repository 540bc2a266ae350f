package xhook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/omeyang/xdiag/pkg/observability/xfault"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// exitCodeUncaught 未捕获 panic 后的退出码
const exitCodeUncaught = 2

// RecoverMain 在 main 中 defer 调用：记录未捕获的 panic 后以退出码 2 退出。
//
//	func main() {
//	    defer router.RecoverMain()
//	    ...
//	}
func (r *Router) RecoverMain() {
	v := recover()
	if v == nil {
		return
	}
	var exit ExitSignal
	if asExitSignal(v, &exit) {
		r.exit(exit.Code)
		return
	}
	r.report(context.Background(), Event{
		Kind:     KindUncaught,
		Level:    xlog.LevelError,
		Codepath: CodepathUncaught,
		Err:      xfault.Recovered(v, debug.Stack()),
	})
	r.exit(exitCodeUncaught)
}

// Go 在新 goroutine 中运行 fn，fn 的 panic 被记录而不是让进程崩溃。
func (r *Router) Go(ctx context.Context, name string, fn func(ctx context.Context)) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = xlog.WithThreadName(ctx, name)
	go func() {
		defer r.RecoverGoroutine(ctx, name)
		fn(ctx)
	}()
}

// RecoverGoroutine 在 goroutine 入口 defer 调用，记录该 goroutine 的 panic。
//
// ExitSignal 与 runtime.Goexit 不产生记录。
func (r *Router) RecoverGoroutine(ctx context.Context, name string) {
	r.handleGoroutinePanic(ctx, name, recover())
}

// RecoverGoroutine 与 Router.RecoverGoroutine 相同，使用当前安装的 Router；
// 未安装时把 panic 写到 os.Stderr。
func RecoverGoroutine(ctx context.Context, name string) {
	ReportPanic(ctx, name, recover())
}

// ReportPanic 上报调用方自行 recover 得到的 goroutine panic 值，
// 必须在该 panic 的 defer 调用链中执行（codepath 取自 panic 位置）。
func ReportPanic(ctx context.Context, name string, v any) {
	if r := Current(); r != nil {
		r.handleGoroutinePanic(ctx, name, v)
		return
	}
	if v == nil || asExitSignal(v, new(ExitSignal)) {
		return
	}
	fmt.Fprintf(os.Stderr, "%s%v\n%s", threadHeader(name), v, debug.Stack())
}

func (r *Router) handleGoroutinePanic(ctx context.Context, name string, v any) {
	if v == nil || asExitSignal(v, new(ExitSignal)) {
		return
	}
	stack := debug.Stack()
	r.report(ctx, Event{
		Kind:     KindGoroutine,
		Level:    xlog.LevelError,
		Codepath: r.panicSite(),
		Message:  strings.TrimSuffix(threadHeader(name), "\n"),
		Err:      xfault.Recovered(v, stack),
		Thread:   name,
	})
}

func threadHeader(name string) string {
	if name == "" {
		return ""
	}
	return "Exception in thread " + name + ":\n"
}

// IsExitSignal 报告 recover 得到的值是否为 ExitSignal
func IsExitSignal(v any) bool {
	return asExitSignal(v, new(ExitSignal))
}

func asExitSignal(v any, target *ExitSignal) bool {
	switch e := v.(type) {
	case ExitSignal:
		*target = e
		return true
	case *ExitSignal:
		if e != nil {
			*target = *e
			return true
		}
	case error:
		return errors.As(e, target)
	}
	return false
}

// maxPanicDepth 查找 panic 位置时最多检查的帧数
const maxPanicDepth = 48

// panicSite 返回引发 panic 的函数的 codepath：跳过 runtime 的 panic 帧后第一个帧。
// 必须在 defer 的 recover 调用链中执行。
func (r *Router) panicSite() string {
	var pcs [maxPanicDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	inRuntime := false
	for {
		f, more := frames.Next()
		isRuntime := strings.HasPrefix(f.Function, "runtime.")
		switch {
		case isRuntime:
			inRuntime = true
		case inRuntime && f.Function != "":
			return r.resolver.FromFrame(f).Codepath()
		}
		if !more {
			return CodepathUncaught
		}
	}
}
