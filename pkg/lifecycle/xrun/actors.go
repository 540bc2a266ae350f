package xrun

import (
	"context"
	"os"
	"syscall"
	"time"
)

// DefaultSignals 返回默认监听的系统信号：SIGHUP、SIGINT、SIGTERM、SIGQUIT。
// 每次调用返回新的切片。
func DefaultSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

// testSigChanKey 在测试中通过 context 注入信号通道，避免发送真实信号
type testSigChanKey struct{}

// testSigChan 从 context 中获取测试信号通道（生产环境返回 nil）。
func testSigChan(ctx context.Context) <-chan os.Signal {
	c, ok := ctx.Value(testSigChanKey{}).(<-chan os.Signal)
	if !ok {
		return nil
	}
	return c
}

// withTestSigChan 在 context 中注入测试信号通道。
func withTestSigChan(ctx context.Context, c <-chan os.Signal) context.Context {
	return context.WithValue(ctx, testSigChanKey{}, c)
}

// Ticker 返回周期性执行 fn 的 worker，用于定期重读配置、刷新外部开关等。
//
// interval 必须为正数，否则 worker 返回 ErrInvalidInterval。
// immediate 为 true 时启动后先执行一次。fn 返回错误时 worker 以该错误结束，
// ctx 被取消时返回 ctx.Err()。
//
//	g.GoWithName("level-refresh", xrun.Ticker(time.Minute, true, func(ctx context.Context) error {
//	    return engine.SetLevelFromConfig(ctx, store)
//	}))
func Ticker(interval time.Duration, immediate bool, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}

		// 已取消的 context 不触发 fn
		if immediate {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := fn(ctx); err != nil {
				return err
			}
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// WaitForDone 返回一直阻塞到 ctx 取消的 worker，用于保持 Group 运行。
func WaitForDone() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
}
