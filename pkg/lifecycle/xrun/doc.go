// Package xrun 管理诊断子系统的后台 worker：配置监听、周期刷新、信号退出。
//
// # 概述
//
// xrun 基于 [errgroup] 构建。任一 worker 返回错误、panic 或收到终止信号时，
// 共享的 context 被取消，其余 worker 监听 ctx.Done() 退出。
//
// worker 的 panic 不会让进程崩溃：它经当前安装的 xhook Router 记录为
// goroutine 异常（线程名为 GoWithName 的 name），然后作为包装了
// ErrWorkerPanic 的错误从 Wait 返回。
//
// # 快速开始
//
//	g, ctx := xrun.NewGroup(ctx, xrun.WithName("xdiag"))
//	g.GoWithName("config-watch", func(ctx context.Context) error {
//	    <-ctx.Done()
//	    return watcher.Stop()
//	})
//	g.GoWithName("level-refresh", xrun.Ticker(time.Minute, false, refresh))
//	if err := g.Wait(); err != nil {
//	    ...
//	}
//
// 监听信号运行直到退出：
//
//	err := xrun.Run(ctx, worker)
//	var sigErr *xrun.SignalError
//	if errors.As(err, &sigErr) {
//	    ...
//	}
//
// # 取消原因
//
// Wait 过滤普通的 context.Canceled，但保留 Cancel(cause) 与信号处理设置的原因；
// 信号退出返回 *SignalError，满足 errors.Is(err, ErrSignal)。
//
// [errgroup]: https://pkg.go.dev/golang.org/x/sync/errgroup
package xrun
