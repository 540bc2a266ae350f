package xhook

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"runtime/debug"

	"github.com/omeyang/xdiag/pkg/observability/xfault"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// ReportUnraisable 记录一个无法返回给调用方的错误（关闭失败、清理失败等）。
//
// codepath 为 "<errMsg>: <obj>"，errMsg 为空时为 "Exception ignored in: <obj>"。
func (r *Router) ReportUnraisable(ctx context.Context, err error, errMsg string, obj any) {
	if err == nil {
		return
	}
	r.report(ctx, Event{
		Kind:     KindUnraisable,
		Level:    xlog.LevelError,
		Codepath: unraisableCodepath(errMsg, describe(obj)),
		Err:      err,
	})
}

func unraisableCodepath(errMsg, obj string) string {
	if errMsg != "" {
		return errMsg + ": " + obj
	}
	return "Exception ignored in: " + obj
}

// Close 关闭 c，错误与 panic 都作为无法返回的错误记录。用于 defer：
//
//	defer router.Close(ctx, conn)
func (r *Router) Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			r.ReportUnraisable(ctx, xfault.Recovered(v, debug.Stack()), "", c)
		}
	}()
	if err := c.Close(); err != nil {
		r.ReportUnraisable(ctx, err, "", c)
	}
}

// AddCleanup 在 ptr 被回收后调用 fn(arg)，fn 的错误与 panic 经 r 记录。
//
// 与 runtime.AddCleanup 的约束相同：arg 不能引用 ptr，否则 ptr 永远不会被回收。
func AddCleanup[T, S any](r *Router, ptr *T, fn func(S) error, arg S) runtime.Cleanup {
	obj := describe(ptr)
	return runtime.AddCleanup(ptr, func(a S) {
		defer func() {
			if v := recover(); v != nil {
				r.ReportUnraisable(context.Background(), xfault.Recovered(v, debug.Stack()), "Exception ignored in cleanup", obj)
			}
		}()
		if err := fn(a); err != nil {
			r.ReportUnraisable(context.Background(), err, "Exception ignored in cleanup", obj)
		}
	}, arg)
}

// describe 生成对象的简短描述，不保留对象本身的引用
func describe(obj any) string {
	switch v := obj.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Pointer {
		return fmt.Sprintf("<%T at %p>", obj, obj)
	}
	return fmt.Sprintf("%T", obj)
}
