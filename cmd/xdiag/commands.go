package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xdiag/pkg/config/xconf"
	"github.com/omeyang/xdiag/pkg/lifecycle/xrun"
	"github.com/omeyang/xdiag/pkg/observability/xdiag"
	"github.com/omeyang/xdiag/pkg/observability/xfault"
	"github.com/omeyang/xdiag/pkg/observability/xhook"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
	"github.com/omeyang/xdiag/pkg/observability/xpolicy"
)

// usageError 参数错误，退出码 2
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func createCommands(out io.Writer) []*cli.Command {
	return []*cli.Command{
		createRunCommand(),
		createClassifyCommand(out),
		createLevelsCommand(out),
	}
}

// launchArgs 把全局选项转换为启动参数
func launchArgs(cmd *cli.Command) (xpolicy.LaunchArgs, error) {
	args := xpolicy.LaunchArgs{
		Secure:       cmd.Bool("secure"),
		DebugLogging: cmd.Bool("debug-logging"),
		NoLogging:    cmd.Bool("no-logging"),
		LogFileName:  cmd.String("log-file"),
	}
	if cmd.IsSet("log-level") {
		level, err := xlog.ParseLevel(cmd.String("log-level"))
		if err != nil {
			return args, usagef("%v", err)
		}
		args.LogLevel, args.HasLogLevel = level, true
	}
	return args, nil
}

// openStore 打开 --config 指定的配置；文件不存在时按空配置处理，保存时创建
func openStore(cmd *cli.Command) (*xconf.Store, error) {
	path := cmd.String("config")
	if path == "" {
		return xconf.NewStore(nil), nil
	}
	cfg, err := xconf.Open(path)
	if err != nil {
		return nil, err
	}
	return xconf.NewStore(cfg), nil
}

func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "初始化日志子系统并运行直到收到信号",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "once", Usage: "写完示例记录后立即退出"},
			&cli.DurationFlag{Name: "heartbeat", Usage: "心跳记录间隔，0 表示关闭"},
			&cli.BoolFlag{Name: "std-streams", Usage: "把标准输出/错误重定向到日志"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := launchArgs(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			return cmdRun(ctx, runOptions{
				diag: xdiag.Options{
					Args:        args,
					Store:       store,
					StdStreams:  cmd.Bool("std-streams"),
					WatchConfig: !cmd.Bool("once"),
				},
				once:      cmd.Bool("once"),
				heartbeat: cmd.Duration("heartbeat"),
			})
		},
	}
}

type runOptions struct {
	diag      xdiag.Options
	once      bool
	heartbeat time.Duration
	// samples 替换示例记录，nil 为 emitSamples
	samples func(context.Context, *xdiag.Diag)
}

func cmdRun(ctx context.Context, opts runOptions) (err error) {
	d, err := xdiag.Initialize(ctx, opts.diag)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := d.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	// 先于 Close 执行，记录写入时日志文件仍然打开
	defer d.Router().RecoverMain()

	samples := opts.samples
	if samples == nil {
		samples = emitSamples
	}
	samples(ctx, d)
	if opts.once {
		return nil
	}

	logger := d.Logger()
	workers := []func(context.Context) error{xrun.WaitForDone()}
	if opts.heartbeat > 0 {
		workers = append(workers, xrun.Ticker(opts.heartbeat, false, func(ctx context.Context) error {
			logger.Debug(ctx, "heartbeat", slog.String("level", logger.GetLevel().String()))
			return nil
		}))
	}
	err = xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithLogger(logger), xrun.WithName("xdiag")}, workers...)
	if errors.Is(err, xrun.ErrSignal) {
		return nil
	}
	return err
}

// emitSamples 覆盖每类记录各写一条
func emitSamples(ctx context.Context, d *xdiag.Diag) {
	logger := d.Logger()
	ctx = xlog.WithThreadName(ctx, "main")

	logger.IO(ctx, "braille display packet %x", []byte{0x1b, 0x02})
	logger.Debug(ctx, "speech synthesizer ready")
	logger.Info(ctx, "log file: %s", d.LogFile())
	logger.Warning(ctx, "focus lost", xlog.Codepath("xdiag.samples"))

	// 窗口句柄失效属于预期故障，以 DEBUGWARNING 记录
	logger.Exception(ctx, "query window title", &xfault.PlatformError{Op: "GetWindowText", Code: xfault.CodeInvalidWindowHandle})
	logger.Exception(ctx, "call add-on", errors.New("add-on raised"))

	d.Router().Warn(xhook.CategoryUser, "sample warning from the diagnostics tool")

	g, _ := xrun.NewGroup(ctx, xrun.WithLogger(logger))
	g.GoWithName("sample-worker", func(context.Context) error {
		panic("sample goroutine failure")
	})
	_ = g.Wait()
}

func createClassifyCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "按异常分类表判定错误码",
		ArgsUsage: "<platform|com> <code>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return usagef("classify 需要 <platform|com> <code> 两个参数")
			}
			v, err := classify(cmd.Args().Get(0), cmd.Args().Get(1))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "origin=%s code=%d expected=%t\n", v.Origin, v.Code, v.Expected)
			return nil
		},
	}
}

// classify 构造对应来源的错误并分类。code 支持十进制与 0x 前缀十六进制，
// COM 结果码按 32 位补码解释（0x80004005 = -2147467259）。
func classify(kind, code string) (xfault.Verdict, error) {
	switch strings.ToLower(kind) {
	case "platform":
		n, err := strconv.ParseInt(code, 0, 32)
		if err != nil {
			return xfault.Verdict{}, usagef("invalid platform code %q", code)
		}
		return xfault.Classify(&xfault.PlatformError{Code: int(n)}), nil
	case "com":
		if n, err := strconv.ParseInt(code, 0, 32); err == nil {
			return xfault.Classify(&xfault.COMError{HResult: int32(n)}), nil
		}
		n, err := strconv.ParseUint(code, 0, 32)
		if err != nil {
			return xfault.Verdict{}, usagef("invalid COM result %q", code)
		}
		return xfault.Classify(&xfault.COMError{HResult: int32(uint32(n))}), nil
	default:
		return xfault.Verdict{}, usagef("unknown kind %q, want platform or com", kind)
	}
}

// allLevels 按严重度排列
var allLevels = []xlog.Level{
	xlog.LevelIO,
	xlog.LevelDebug,
	xlog.LevelDebugWarning,
	xlog.LevelInfo,
	xlog.LevelWarning,
	xlog.LevelError,
	xlog.LevelCritical,
	xlog.LevelOff,
}

func createLevelsCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "列出日志级别；标记 * 的可以写在配置文件中",
		Action: func(context.Context, *cli.Command) error {
			for _, l := range allLevels {
				mark := " "
				if _, ok := xpolicy.ParseConfigLevel(l.String()); ok {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-12s %d\n", mark, l, int(l))
			}
			return nil
		},
	}
}
