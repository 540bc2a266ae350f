// Package observability 提供进程级诊断日志相关的子包。
//
// 子包列表：
//   - xlog: 日志门面与 handler 链，基于 log/slog 扩展
//   - xcaller: 调用点解析，从堆栈推导 codepath
//   - xfault: 异常分类，识别预期的平台与 COM 故障
//   - xpolicy: 日志级别决策（启动参数、持久化配置、强制状态）
//   - xhook: 进程级故障钩子（未捕获 panic、goroutine 异常、警告、标准输出）
//   - xalert: 声音提示
//   - xremote: 远程进程的日志转发
//   - xrotate: 日志文件轮转与上次运行备份
//   - xdiag: 组装以上各包的初始化入口
//
// 设计原则：
//   - 每条记录都带 codepath
//   - 日志本身永远不导致进程崩溃
//   - 动态级别控制，配置热更新立即生效
package observability
