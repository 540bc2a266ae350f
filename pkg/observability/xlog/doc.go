// Package xlog 进程级诊断日志门面，基于 log/slog。
//
// # 记录格式
//
// 文件版式（[LayoutText]）每条记录两行起：
//
//	LEVEL - codepath (HH:MM:SS.mmm) - thread (id):
//	message
//
// 远程版式（[LayoutRemote]）省略级别、时间与线程，由传输层单独携带。
// 带错误的记录在消息后附加错误文本；错误携带堆栈（xfault.Recovered）时一并输出，
// 并去掉 [Builder.SetBasePath] 指定的源码根目录前缀。
//
// # 日志级别
//
// IO(-6) < DEBUG(-4) < DEBUGWARNING(-2) < INFO(0) < WARNING(4) < ERROR(8) < CRITICAL(12)，
// [LevelOff] 高于一切，设为阈值即关闭日志。阈值与级别比较只按数值。
//
// # codepath
//
// 每条记录都有 codepath，来源优先级：
//   - 调用时传入的 [Codepath] 选项
//   - context 中 xcaller.WithSite 设置的调用点
//   - 从调用者栈帧解析（xcaller.Resolver）
//
// # 调用参数
//
// 级别方法的 args 可以混合 [CallOption]、slog.Attr 与格式化参数：
//
//	logger.Info(ctx, "opened %s", path, xlog.Component("speech"), xlog.ActivateViewer())
//
// 格式化只在级别启用后执行。
//
// # 第三方记录
//
// [Logger.Handler] 返回不带应用命名空间的 handler，可桥接 slog.Default。
// 经它输出的低于 WARNING 的记录只在 [Builder.SetExternalGate] 的开关为 true 时保留。
//
// # 片段
//
// [Logger.MarkFragmentStart] 与 [Logger.Fragment] 取回一段时间内写入日志文件的内容，
// 只在输出是文件（实现 [FileSink]，如 [Builder.SetRotation]）且非安全模式时可用。
//
// # 全局 Logger
//
// [Default] 惰性创建（stderr、INFO 级别、文本版式），[SetDefault] 替换。
// 包级函数 [IO]、[Debug]、[Info] 等使用全局 Logger，codepath 指向包级函数的调用者。
package xlog
