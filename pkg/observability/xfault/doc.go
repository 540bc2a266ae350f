// Package xfault 判定一个被捕获的错误属于"预期的低严重度故障"还是"真正的错误"。
//
// 判定依据是一张固定的允许列表：部分平台错误码（无效窗口句柄、超时、RPC 服务不可用等）
// 与 COM HRESULT（拒绝访问、对象未连接、调用被拒绝、连接断开等）被视为预期故障，
// 日志门面会以 DEBUGWARNING 级别记录；其余一律视为错误（fail-safe）。
//
// 外部错误类型只需实现以下任一接口即可参与判定：
//
//	interface{ PlatformCode() int }
//	interface{ HRESULT() int32 }
//
// 在 Windows 上，[syscall.Errno] 直接按平台错误码处理。
//
// 本包还提供 panic 捕获：[Recovered] 把 recover() 的返回值连同 goroutine 堆栈
// 转换为 *PanicError，供故障钩子统一记录。
package xfault
