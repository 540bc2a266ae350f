package xfault

import (
	"context"
	"errors"
)

// Origin 标识错误码的来源。
type Origin uint8

const (
	// OriginUnknown 表示无法识别的错误。
	OriginUnknown Origin = iota
	// OriginPlatform 表示平台（Win32）错误码。
	OriginPlatform
	// OriginCOM 表示 COM HRESULT。
	OriginCOM
	// OriginCancelled 表示调用被取消。
	OriginCancelled
)

func (o Origin) String() string {
	switch o {
	case OriginPlatform:
		return "platform"
	case OriginCOM:
		return "com"
	case OriginCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Verdict 是一次分类的结果。
type Verdict struct {
	// Expected 为 true 表示预期故障，应以低严重度记录。
	Expected bool
	Origin   Origin
	Code     int64
}

// Classify 对 err 进行分类。nil 与无法识别的错误都返回 Expected=false。
//
// 判定顺序：取消 → COM 结果码 → 平台错误码。错误链中的第一个匹配生效。
func Classify(err error) Verdict {
	if err == nil {
		return Verdict{}
	}
	if errors.Is(err, ErrCallCancelled) || errors.Is(err, context.Canceled) {
		return Verdict{Expected: true, Origin: OriginCancelled}
	}
	var hr hresulter
	if errors.As(err, &hr) {
		code := int64(hr.HRESULT())
		return Verdict{Expected: isExpected(OriginCOM, code), Origin: OriginCOM, Code: code}
	}
	var pc platformCoder
	if errors.As(err, &pc) {
		code := int64(pc.PlatformCode())
		return Verdict{Expected: isExpected(OriginPlatform, code), Origin: OriginPlatform, Code: code}
	}
	if code, ok := platformErrno(err); ok {
		return Verdict{Expected: isExpected(OriginPlatform, code), Origin: OriginPlatform, Code: code}
	}
	return Verdict{}
}

// IsExpected 是 Classify(err).Expected 的简写。
func IsExpected(err error) bool {
	return Classify(err).Expected
}
