package xfault

// 平台错误码（Win32）。
const (
	CodeInvalidWindowHandle   = 1400 // ERROR_INVALID_WINDOW_HANDLE
	CodeTimeout               = 1460 // ERROR_TIMEOUT
	CodeRPCServerUnavailable  = 1722 // RPC_S_SERVER_UNAVAILABLE
	CodeRPCCallFailedDNE      = 1727 // RPC_S_CALL_FAILED_DNE
	CodeEndpointNotRegistered = 1753 // EPT_S_NOT_REGISTERED
	CodeRPCCallCancelled      = 1818 // RPC_S_CALL_CANCELLED
)

// COM HRESULT（按有符号 32 位存储，与 Windows 头文件中的 HRESULT 一致）。
const (
	HResultAccessDenied         int32 = -2147024891 // E_ACCESSDENIED 0x80070005
	HResultObjectNotConnected   int32 = -2147220995 // CO_E_OBJNOTCONNECTED 0x800401FD
	HResultAllSubscribersFailed int32 = -2147220991 // EVENT_E_ALL_SUBSCRIBERS_FAILED 0x80040201
	HResultCallRejected         int32 = -2147418111 // RPC_E_CALL_REJECTED 0x80010001
	HResultCallCancelled        int32 = CodeRPCCallCancelled
	HResultDisconnected         int32 = -2147417848 // RPC_E_DISCONNECTED 0x80010108
)

// key 是分类表的键：来源 + 数值码。
type key struct {
	origin Origin
	code   int64
}

// expected 是预期故障允许列表，包初始化后只读。
var expected = map[key]struct{}{
	{OriginPlatform, CodeInvalidWindowHandle}:   {},
	{OriginPlatform, CodeTimeout}:               {},
	{OriginPlatform, CodeRPCServerUnavailable}:  {},
	{OriginPlatform, CodeRPCCallFailedDNE}:      {},
	{OriginPlatform, CodeEndpointNotRegistered}: {},
	{OriginPlatform, CodeRPCCallCancelled}:      {},

	{OriginCOM, int64(HResultAccessDenied)}:         {},
	{OriginCOM, int64(HResultObjectNotConnected)}:   {},
	{OriginCOM, int64(HResultAllSubscribersFailed)}: {},
	{OriginCOM, int64(HResultCallRejected)}:         {},
	{OriginCOM, int64(HResultCallCancelled)}:        {},
	{OriginCOM, int64(HResultDisconnected)}:         {},
}

// isExpected 查表；COM 结果码低 16 位为 RPC 服务不可用时同样视为预期。
func isExpected(origin Origin, code int64) bool {
	if _, ok := expected[key{origin, code}]; ok {
		return true
	}
	return origin == OriginCOM && code&0xFFFF == CodeRPCServerUnavailable
}
