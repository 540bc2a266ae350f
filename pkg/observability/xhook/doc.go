// Package xhook 把进程中所有失败通道汇入诊断日志。
//
// [Router.Install] 之后：
//   - slog.Default 的输出经过应用的 handler 链（按第三方记录过滤）
//   - 标准库 log 的输出以 WARNING 记录，codepath 为 "log"
//   - 可选：os.Stdout 以 WARNING、os.Stderr 以 ERROR 记录，codepath 为 "stdout"/"stderr"
//   - 可选：运行时致命错误（不可恢复的崩溃）通过 debug.SetCrashOutput 追加到日志文件
//
// 不经过 Install 也可以使用的入口：
//   - defer r.RecoverMain(): 主 goroutine 未捕获的 panic，codepath "unhandled exception"，随后以退出码 2 退出
//   - r.Go / RecoverGoroutine: goroutine 中的 panic，消息 "Exception in thread <name>:"
//   - r.ReportUnraisable / r.Close / AddCleanup: 无法向调用方返回的清理错误
//   - r.Warn / Warn: 运行期警告，DEBUGWARNING 级别，codepath "Go warning"
//
// panic 值为 [ExitSignal] 或 goroutine 调用 runtime.Goexit 时不产生记录。
//
// 以 panic 形式捕获的失败都经过 xfault 分类：预期故障以 DEBUGWARNING 记录，其余以 ERROR 记录。
package xhook
