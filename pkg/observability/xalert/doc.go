// Package xalert 提供日志门面使用的声音提示。
//
// [System] 实现 xlog.Alerter：
//   - Beep 同步播放系统错误提示音（Windows 为 MessageBeep(MB_ICONHAND)，其他平台向终端写 BEL）
//   - NotifyError 异步通知 [Action] 上注册的监听者，不等待其完成
//
// 是否为 ERROR 记录广播通知由 [ShouldPlayErrorSound] 决定。
package xalert
