package xcaller

import (
	"reflect"
	"strings"
	"sync"
)

// registry 保存显式注册的显示名称，键为导入路径或 "导入路径.类型名"。
var registry struct {
	mu      sync.RWMutex
	modules map[string]string
	types   map[string]string
}

// RegisterModule 为导入路径 importPath 指定 codepath 中显示的模块名。
// name 为空时取消注册。
func RegisterModule(importPath, name string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if name == "" {
		delete(registry.modules, importPath)
		return
	}
	if registry.modules == nil {
		registry.modules = make(map[string]string)
	}
	registry.modules[importPath] = name
}

// RegisterType 为类型 T 的方法指定 codepath 中显示的类型名。
// T 可以是指针类型，注册的是其元素类型。name 为空时取消注册。
func RegisterType[T any](name string) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	typeName := t.Name()
	if i := strings.IndexByte(typeName, '['); i >= 0 {
		typeName = typeName[:i]
	}
	if typeName == "" {
		return
	}
	k := t.PkgPath() + "." + typeName

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if name == "" {
		delete(registry.types, k)
		return
	}
	if registry.types == nil {
		registry.types = make(map[string]string)
	}
	registry.types[k] = name
}

func registeredModule(importPath string) (string, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	name, ok := registry.modules[importPath]
	return name, ok
}

func registeredType(importPath, typeName string) (string, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	name, ok := registry.types[importPath+"."+typeName]
	return name, ok
}
