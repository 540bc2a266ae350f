// xdiag 演示并检查进程级诊断日志子系统。
//
// 用法:
//
//	xdiag [全局选项] <命令> [命令参数]
//
// 全局选项（与被诊断进程的启动参数一致）:
//
//	--secure          安全模式，关闭日志
//	--debug-logging   以 DEBUG 级别记录
//	--log-level       显式指定级别 (IO/DEBUG/DEBUGWARNING/INFO/WARNING/ERROR/CRITICAL/OFF)
//	--no-logging      关闭日志（被 --debug-logging/--log-level 覆盖）
//	--log-file        日志文件路径 (默认: <tmp>/xdiag.log)
//	--config          持久化配置文件 (yaml/json)
//
// 命令:
//
//	run                   初始化日志子系统，写示例记录，监听配置直到收到信号
//	classify <kind> <code> 按异常分类表判定错误码，kind 为 platform 或 com
//	levels                列出日志级别
//
// 退出码:
//
//	0: 成功
//	1: 命令执行失败
//	2: 参数错误
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout))
}

// createApp 创建 CLI 应用，命令输出写到 out。
func createApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "xdiag",
		Usage:   "进程级诊断日志工具",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "secure", Usage: "安全模式，关闭日志"},
			&cli.BoolFlag{Name: "debug-logging", Usage: "以 DEBUG 级别记录"},
			&cli.StringFlag{Name: "log-level", Usage: "显式指定日志级别"},
			&cli.BoolFlag{Name: "no-logging", Usage: "关闭日志"},
			&cli.StringFlag{Name: "log-file", Usage: "日志文件路径"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "持久化配置文件"},
		},
		Commands: createCommands(out),
		// 由 run 统一映射退出码，不让 urfave/cli 直接 os.Exit
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, out io.Writer) int {
	if err := createApp(out).Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
