// Package xremote 把日志记录转发给宿主进程。
//
// 运行在受控子进程中时（如插件宿主），日志不写本地文件，
// 而是以 (level, pid, message) 三元组交给 [Bridge]。
// message 使用 xlog.LayoutRemote 渲染："codepath:\nmessage"。
//
// 转发失败一律吞掉，日志永远不会因为宿主不可用而影响业务。
// 连续失败后熔断器打开，一段时间内直接丢弃记录，不再逐条尝试。
package xremote
