package xlog

import (
	"context"

	"github.com/omeyang/xdiag/pkg/util/xproc"
)

type threadKey struct{}

// WithThreadName 返回携带 goroutine 名称的 context，记录的线程段显示该名称。
func WithThreadName(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, threadKey{}, name)
}

// ThreadName 返回 ctx 中的 goroutine 名称；未设置时主 goroutine 为 "main"，其他为 "goroutine"。
func ThreadName(ctx context.Context) string {
	name, _ := threadIdentity(ctx)
	return name
}

// threadIdentity 返回当前 goroutine 的名称与 ID。
func threadIdentity(ctx context.Context) (string, uint64) {
	id := xproc.GoroutineID()
	if ctx != nil {
		if name, ok := ctx.Value(threadKey{}).(string); ok && name != "" {
			return name, id
		}
	}
	if id == 1 {
		return "main", id
	}
	return "goroutine", id
}
