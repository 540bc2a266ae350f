package xrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xdiag/pkg/observability/xfault"
	"github.com/omeyang/xdiag/pkg/observability/xhook"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// Group 基于 errgroup + context 管理一组后台 worker 的并发运行和协调关闭。
//
// 任一 worker 返回错误、panic 或 context 被取消时，所有 worker 都会收到取消信号。
// worker 的 panic 经当前安装的 xhook Router 记录为 goroutine 异常，
// 并以 *xfault.PanicError 作为该 worker 的返回值。
//
// Go、GoWithName、Cancel 可安全地从多个 goroutine 并发调用。
// Wait 应仅调用一次。
//
//	g, ctx := xrun.NewGroup(ctx)
//	g.GoWithName("config-watch", watchConfig)
//	g.GoWithName("speech", runSpeech)
//	if err := g.Wait(); err != nil {
//	    ...
//	}
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建新的 Group，返回 Group 和派生的 context。
// 任一 worker 返回错误时返回的 context 会被取消。nil ctx 视为 context.Background()。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(options)
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)

	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     options,
	}, egCtx
}

// Go 启动一个匿名 worker。fn 应监听 ctx.Done() 以响应取消。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		return g.run(g.ctx, "", fn)
	})
}

// GoWithName 与 Go 相同，name 作为该 worker 的线程名写入它产生的每条记录，
// 启停写 DEBUG 记录，非取消错误写 WARNING 记录。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		ctx := xlog.WithThreadName(g.ctx, name)
		logger := g.logger()
		attrs := []any{slog.String("group", g.opts.name), slog.String("worker", name)}
		logger.Debug(ctx, "worker starting", attrs...)
		err := g.run(ctx, name, fn)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warning(ctx, "worker exited with error", append(attrs, slog.Any("error", err))...)
		} else {
			logger.Debug(ctx, "worker stopped", attrs...)
		}
		return err
	})
}

// run 执行 fn 并把 panic 转为错误；ExitSignal 视为正常结束
func (g *Group) run(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	if fn == nil {
		return ErrNilFunc
	}
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if xhook.IsExitSignal(v) {
			err = nil
			return
		}
		xhook.ReportPanic(ctx, threadName(name), v)
		err = fmt.Errorf("%w: %w", ErrWorkerPanic, xfault.Recovered(v, debug.Stack()))
	}()
	return fn(ctx)
}

func threadName(name string) string {
	if name == "" {
		return "worker"
	}
	return name
}

func (g *Group) logger() xlog.Logger {
	if g.opts.logger != nil {
		return g.opts.logger
	}
	return xlog.Default()
}

// Wait 等待所有 worker 完成，返回第一个非 nil 错误。
//
// 错误是 context.Canceled 时优先返回 context.Cause，
// Cancel(cause) 或信号处理设置的退出原因不会丢失；没有显式原因时返回 nil。
// 所有 worker 返回 nil 时 Cancel(cause) 设置的原因仍会被返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()

	// 通过 causeCtx（而非 errgroup 的 ctx）判断取消来源：
	// causeCtx 被取消说明是 Group 主动取消或父 context 取消
	if errors.Is(err, context.Canceled) {
		if g.causeCtx.Err() != nil {
			if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
				return cause
			}
			return nil
		}
		return err
	}

	if err == nil && g.causeCtx.Err() != nil {
		if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
	}

	return err
}

// Cancel 主动取消所有 worker，cause 作为 Wait 的返回值。
//
// cause 不应包装 context.Canceled，否则 Wait 会把它当作普通取消过滤掉。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}

// runGroup 是 Run/RunWithOptions 的共享实现。
//
// 默认注册信号监听 worker：收到配置的信号（默认 DefaultSignals）时
// 通过 Cancel(&SignalError{Signal: sig}) 传播退出原因。
func runGroup(ctx context.Context, opts []Option, setup func(g *Group)) error {
	g, _ := NewGroup(ctx, opts...)

	if !g.opts.noSignalHandler {
		signals := g.opts.signals
		// 空切片与 nil 等价；signal.Notify(ch) 无参会订阅所有信号
		if len(signals) == 0 {
			signals = DefaultSignals()
		}

		g.Go(func(ctx context.Context) error {
			testc := testSigChan(ctx)
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, signals...)
			defer signal.Stop(sigCh)

			var sig os.Signal
			select {
			case sig = <-testc:
			case sig = <-sigCh:
			case <-ctx.Done():
				return ctx.Err()
			}

			g.logger().Info(ctx, "received signal %s", sig.String(), slog.String("group", g.opts.name))
			g.cancel(&SignalError{Signal: sig})
			return nil
		})
	}

	setup(g)
	return g.Wait()
}

// Run 监听信号并运行 workers。收到 DefaultSignals 中的信号时 ctx 被取消，
// 返回 *SignalError。
//
//	err := xrun.Run(ctx, func(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	})
//	if errors.Is(err, xrun.ErrSignal) {
//	    ...
//	}
func Run(ctx context.Context, workers ...func(ctx context.Context) error) error {
	return RunWithOptions(ctx, nil, workers...)
}

// RunWithOptions 与 Run 相同，但支持配置选项。
func RunWithOptions(ctx context.Context, opts []Option, workers ...func(ctx context.Context) error) error {
	return runGroup(ctx, opts, func(g *Group) {
		for _, w := range workers {
			g.Go(w)
		}
	})
}
