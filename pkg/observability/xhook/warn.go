package xhook

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/omeyang/xdiag/pkg/observability/xlog"
	"github.com/omeyang/xdiag/pkg/util/xfile"
)

// Category 警告类别
type Category string

// 内置类别
const (
	CategoryUser               Category = "UserWarning"
	CategoryDeprecation        Category = "DeprecationWarning"
	CategoryPendingDeprecation Category = "PendingDeprecationWarning"
	CategoryRuntime            Category = "RuntimeWarning"
	CategoryResource           Category = "ResourceWarning"
)

// Action 警告过滤动作
type Action string

const (
	// ActionDefault 每个位置（文件、行号、类别、消息）首次出现时提示
	ActionDefault Action = "default"
	// ActionAlways 每次都提示
	ActionAlways Action = "always"
	// ActionIgnore 从不提示
	ActionIgnore Action = "ignore"
	// ActionOnce 同一类别与消息只提示一次，不论位置
	ActionOnce Action = "once"
)

// defaultWarningCapacity 已提示位置注册表的默认容量
const defaultWarningCapacity = 1024

type filterEntry struct {
	id       uint64
	action   Action
	category Category // 空表示匹配所有类别
}

// warningFilter 过滤表与已提示注册表
type warningFilter struct {
	mu       sync.Mutex
	nextID   uint64
	filters  []filterEntry // 前面的优先
	registry *lru.Cache[uint64, struct{}]
}

func newWarningFilter(capacity int) (*warningFilter, error) {
	registry, err := lru.New[uint64, struct{}](capacity)
	if err != nil {
		return nil, fmt.Errorf("xhook: create warning registry: %w", err)
	}
	f := &warningFilter{registry: registry}
	// 弃用与资源类警告默认不提示
	for _, c := range []Category{CategoryResource, CategoryPendingDeprecation, CategoryDeprecation} {
		f.push(ActionIgnore, c)
	}
	return f, nil
}

// push 在过滤表最前面插入一条规则，返回删除该规则的函数
func (f *warningFilter) push(action Action, category Category) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.filters = append([]filterEntry{{id: id, action: action, category: category}}, f.filters...)
	f.registry.Purge()
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, e := range f.filters {
			if e.id == id {
				f.filters = append(f.filters[:i], f.filters[i+1:]...)
				break
			}
		}
		f.registry.Purge()
	}
}

func (f *warningFilter) action(category Category) Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.filters {
		if e.category == "" || e.category == category {
			return e.action
		}
	}
	return ActionDefault
}

// shouldShow 决定这次警告是否提示，并登记已提示的位置
func (f *warningFilter) shouldShow(category Category, msg, file string, line int) bool {
	var key uint64
	switch f.action(category) {
	case ActionIgnore:
		return false
	case ActionAlways:
		return true
	case ActionOnce:
		key = locationKey("once", category, msg, "", 0)
	default:
		key = locationKey("default", category, msg, file, line)
	}
	seen, _ := f.registry.ContainsOrAdd(key, struct{}{})
	return !seen
}

func locationKey(action string, category Category, msg, file string, line int) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(action)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(string(category))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(msg)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(file)
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(strconv.Itoa(line))
	return d.Sum64()
}

// SimpleFilter 在过滤表最前面插入规则。category 为空匹配所有类别。
// 返回删除该规则的函数。
func (r *Router) SimpleFilter(action Action, category Category) (remove func()) {
	return r.warnings.push(action, category)
}

// Warn 发出一条警告，位置为 Warn 的调用者。
func (r *Router) Warn(category Category, msg string) {
	r.warn(category, msg, 2)
}

// WarnSkip 与 Warn 相同，skip 为额外跳过的调用层数，用于在库函数中把位置归到其调用者。
func (r *Router) WarnSkip(category Category, msg string, skip int) {
	r.warn(category, msg, 2+skip)
}

func (r *Router) warn(category Category, msg string, skip int) {
	if category == "" {
		category = CategoryUser
	}
	_, file, line, _ := runtime.Caller(skip)
	if !r.warnings.shouldShow(category, msg, file, line) {
		return
	}
	r.report(context.Background(), Event{
		Kind:     KindWarning,
		Level:    xlog.LevelDebugWarning,
		Codepath: CodepathWarning,
		Message:  formatWarning(xfile.TrimBase(r.resolver.AppRoot(), file), line, category, msg),
	})
}

// formatWarning 渲染为 "file:line: Category: msg"
func formatWarning(file string, line int, category Category, msg string) string {
	return file + ":" + strconv.Itoa(line) + ": " + string(category) + ": " + msg
}

// Warn 使用当前安装的 Router 发出警告；未安装时写到 os.Stderr。
func Warn(category Category, msg string) {
	if r := Current(); r != nil {
		r.warn(category, msg, 2)
		return
	}
	if category == "" {
		category = CategoryUser
	}
	_, file, line, _ := runtime.Caller(1)
	fmt.Fprintln(os.Stderr, formatWarning(file, line, category, msg))
}
