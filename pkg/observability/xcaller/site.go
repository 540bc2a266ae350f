package xcaller

import (
	"context"
	"strings"
)

// ExternalPrefix 标记应用自身源码树之外的代码。
const ExternalPrefix = "external:"

// Site 描述一个调用点。
type Site struct {
	Module   string
	Type     string
	Function string
	File     string
	Line     int
	External bool
}

// IsZero 报告 s 是否为空调用点。
func (s Site) IsZero() bool {
	return s.Module == "" && s.Type == "" && s.Function == ""
}

// Codepath 返回点分 codepath，空段被跳过。
func (s Site) Codepath() string {
	var b strings.Builder
	if s.External {
		b.WriteString(ExternalPrefix)
	}
	first := true
	for _, part := range [...]string{s.Module, s.Type, s.Function} {
		if part == "" {
			continue
		}
		if !first {
			b.WriteByte('.')
		}
		b.WriteString(part)
		first = false
	}
	return b.String()
}

func (s Site) String() string { return s.Codepath() }

type siteKey struct{}

// WithSite 返回携带调用点 s 的 context。
func WithSite(ctx context.Context, s Site) context.Context {
	return context.WithValue(ctx, siteKey{}, s)
}

// SiteFrom 返回 ctx 中由 [WithSite] 设置的调用点。
func SiteFrom(ctx context.Context) (Site, bool) {
	if ctx == nil {
		return Site{}, false
	}
	s, ok := ctx.Value(siteKey{}).(Site)
	return s, ok && !s.IsZero()
}
