package xcaller

import (
	"strings"
)

// symbol 是从运行时函数名中拆出的各段。
type symbol struct {
	pkgPath  string
	typeName string
	function string
}

// parseSymbol 解析 runtime.Frame.Function，例如：
//
//	github.com/omeyang/xdiag/pkg/a.(*Reader).Read.func1 -> pkg/a, Reader, Read
//	github.com/omeyang/xdiag/pkg/a.Buffer[...].Len       -> pkg/a, Buffer, Len
//	github.com/omeyang/xdiag/pkg/a.glob..func1            -> pkg/a, "", ""
//	gopkg.in/yaml%2ev3.Unmarshal                          -> gopkg.in/yaml.v3, "", Unmarshal
func parseSymbol(fn string) symbol {
	if fn == "" {
		return symbol{}
	}
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return symbol{pkgPath: unescape(fn)}
	}
	dot += slash + 1
	sym := symbol{pkgPath: unescape(fn[:dot])}

	rest := strings.ReplaceAll(fn[dot+1:], "[...]", "")
	rest = strings.TrimSuffix(rest, "-fm")
	parts := strings.Split(rest, ".")

	switch {
	case strings.HasPrefix(parts[0], "("):
		sym.typeName = strings.TrimSuffix(strings.TrimPrefix(parts[0], "("), ")")
		sym.typeName = strings.TrimPrefix(sym.typeName, "*")
		parts = parts[1:]
	case parts[0] == "glob" && len(parts) > 1 && parts[1] == "":
		// 包级变量初始化中的闭包
		return sym
	case len(parts) > 1 && !isClosure(parts[1]):
		sym.typeName = parts[0]
		parts = parts[1:]
	}
	if len(parts) > 0 {
		sym.function = parts[0]
	}
	return sym
}

// isClosure 报告 s 是否为编译器生成的闭包段："func1"、"2"、"gowrap1"、"deferwrap1"。
func isClosure(s string) bool {
	for _, prefix := range [...]string{"func", "gowrap", "deferwrap"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok && rest != "" && allDigits(rest) {
			return true
		}
	}
	return s != "" && allDigits(s)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// unescape 还原导入路径最后一段中被转义的 "."。
func unescape(p string) string {
	return strings.ReplaceAll(p, "%2e", ".")
}
