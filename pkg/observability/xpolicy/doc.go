// Package xpolicy 决定进程的日志级别。
//
// 启动时由命令行参数计算初始级别，并判断级别是否"强制"：
// 安全模式、--debug-logging、--log-level 与 --no-logging 任一出现即为强制，
// 此后来自配置文件的级别修改全部无效。
//
// --debug-logging 与 --log-level 优先于 --no-logging，反之不成立：
//
//	--no-logging                  → 关闭日志，强制
//	--no-logging --debug-logging  → DEBUG，强制
//	--secure --debug-logging      → 关闭日志，强制
//
// 非强制时 [Engine.SetLevelFromConfig] 读取配置中的级别名称，
// 只接受 IO、DEBUG、DEBUGWARNING、INFO 与 OFF；其他值记录一条警告，
// 级别回到 INFO，并把配置改写为 "INFO"。
package xpolicy
