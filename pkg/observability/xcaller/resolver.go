package xcaller

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xdiag/pkg/util/xfile"
)

// selfPackage 是本包在模块内的相对路径，用于推导默认的应用模块与根目录。
const selfPackage = "pkg/observability/xcaller"

// maxDepth 是 Caller 向上查找的最大帧数。
const maxDepth = 16

// Resolver 把程序计数器或堆栈帧解析为 [Site]。并发安全。
type Resolver struct {
	appModule string
	appRoot   string
	configDir atomic.Pointer[string]
}

// Option 配置 Resolver。
type Option func(*Resolver)

// WithAppModule 设置应用模块的导入路径，如 "github.com/omeyang/xdiag"。
func WithAppModule(importPath string) Option {
	return func(r *Resolver) { r.appModule = strings.TrimSuffix(importPath, "/") }
}

// WithAppRoot 设置应用源码根目录。
func WithAppRoot(dir string) Option {
	return func(r *Resolver) {
		if dir != "" {
			r.appRoot = filepath.Clean(dir)
		}
	}
}

// WithConfigDir 设置用户可写的配置目录，其中的代码视为外部代码。
func WithConfigDir(dir string) Option {
	return func(r *Resolver) { r.SetConfigDir(dir) }
}

// NewResolver 创建 Resolver。默认的应用模块与根目录取自本模块自身。
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	r.appModule, r.appRoot = selfLocation()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = sync.OnceValue(func() *Resolver { return NewResolver() })

// Default 返回进程级默认 Resolver。
func Default() *Resolver {
	return defaultResolver()
}

// selfLocation 从本函数的符号和源文件推导模块导入路径与模块根目录。
func selfLocation() (module, root string) {
	pc, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", ""
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		module = strings.TrimSuffix(parseSymbol(fn.Name()).pkgPath, "/"+selfPackage)
	}
	dir := path.Dir(filepath.ToSlash(file))
	if trimmed, ok := strings.CutSuffix(dir, "/"+selfPackage); ok && filepath.IsAbs(filepath.FromSlash(trimmed)) {
		root = filepath.FromSlash(trimmed)
	}
	return module, root
}

// AppModule 返回应用模块导入路径。
func (r *Resolver) AppModule() string { return r.appModule }

// AppRoot 返回应用源码根目录。
func (r *Resolver) AppRoot() string { return r.appRoot }

// SetConfigDir 设置（或用空字符串清除）用户可写的配置目录。
// 配置目录通常在配置初始化时才确定，可在 Resolver 创建后调用。
func (r *Resolver) SetConfigDir(dir string) {
	if dir == "" {
		r.configDir.Store(nil)
		return
	}
	clean := filepath.Clean(dir)
	r.configDir.Store(&clean)
}

// ConfigDir 返回当前的配置目录，未设置时为空。
func (r *Resolver) ConfigDir() string {
	if dir := r.configDir.Load(); dir != nil {
		return *dir
	}
	return ""
}

// IsExternal 报告源文件是否属于外部代码。
func (r *Resolver) IsExternal(file string) bool {
	if file == "" {
		return false
	}
	native := filepath.FromSlash(file)
	if !filepath.IsAbs(native) {
		// -trimpath 构建：文件路径以导入路径开头
		return r.appModule != "" && !strings.HasPrefix(file, r.appModule+"/")
	}
	if dir := r.configDir.Load(); dir != nil && xfile.IsWithin(*dir, native) {
		return true
	}
	return r.appRoot != "" && !xfile.IsWithin(r.appRoot, native)
}

// Caller 返回调用栈上的调用点：skip=0 为调用 Caller 的函数，skip=1 为它的调用者，依此类推。
// 编译器生成的包装帧被跳过。
func (r *Resolver) Caller(skip int) Site {
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.Function != "" && f.File != "<autogenerated>" {
			return r.FromFrame(f)
		}
		if !more {
			return Site{}
		}
	}
}

// FromPC 解析单个程序计数器（如 slog.Record.PC）。内联的调用取最内层函数。
func (r *Resolver) FromPC(pc uintptr) Site {
	if pc == 0 {
		return Site{}
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return r.FromFrame(f)
}

// FromFrame 解析一个堆栈帧。
func (r *Resolver) FromFrame(f runtime.Frame) Site {
	s := Site{File: f.File, Line: f.Line, External: r.IsExternal(f.File)}
	sym := parseSymbol(f.Function)
	if sym.pkgPath == "" {
		// 没有符号信息时回退到原始文件路径
		s.Module = f.File
		return s
	}
	s.Module = r.moduleName(sym.pkgPath)
	s.Type = sym.typeName
	if s.Type != "" {
		if name, ok := registeredType(sym.pkgPath, s.Type); ok {
			s.Type = name
		}
	}
	s.Function = sym.function
	return s
}

func (r *Resolver) moduleName(pkgPath string) string {
	if name, ok := registeredModule(pkgPath); ok {
		return name
	}
	if r.appModule == "" {
		return pkgPath
	}
	if pkgPath == r.appModule {
		return path.Base(pkgPath)
	}
	if rel, ok := strings.CutPrefix(pkgPath, r.appModule+"/"); ok {
		return strings.ReplaceAll(rel, "/", ".")
	}
	return pkgPath
}
