// Package xdiag 组装进程级诊断日志：日志门面、级别策略、故障钩子与配置热更新。
//
// [Initialize] 在进程启动时调用一次：
//
//	diag, err := xdiag.Initialize(ctx, xdiag.Options{
//	    Args:  xpolicy.LaunchArgs{DebugLogging: *debug},
//	    Store: xconf.NewStore(cfg),
//	})
//	if err != nil {
//	    ...
//	}
//	defer diag.Close()
//	defer diag.Router().RecoverMain()
//
// 组装顺序：
//
//  1. 选择输出：远程进程转发到宿主（xremote）；日志被关闭时丢弃；
//     否则备份上一次运行的日志文件并打开新的轮转文件，失败时降级为丢弃并记录一条 ERROR。
//  2. 构建 xlog Logger（声音提示、第三方记录过滤由配置决定）并设为全局默认。
//  3. 创建 xpolicy.Engine，安装 xhook.Router（文件日志时运行时崩溃输出追加到同一文件）。
//  4. 从配置读取级别；开启 WatchConfig 时配置文件变化后重新应用。
//  5. 写一条带本次运行 run_id 的启动记录。
package xdiag
