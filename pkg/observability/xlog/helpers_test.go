package xlog_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// syncBuffer 并发安全的 bytes.Buffer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// records 按记录头部切分输出，每条记录一个元素
func (b *syncBuffer) records() []string {
	var out []string
	for _, line := range strings.SplitAfter(b.String(), "\n") {
		if line == "" {
			continue
		}
		if isHeader(line) || len(out) == 0 {
			out = append(out, line)
			continue
		}
		out[len(out)-1] += line
	}
	return out
}

func isHeader(line string) bool {
	for _, lvl := range []string{"IO", "DEBUG", "DEBUGWARNING", "INFO", "WARNING", "ERROR", "CRITICAL"} {
		if strings.HasPrefix(line, lvl+" - ") {
			return true
		}
	}
	return false
}

func newTestLogger(t *testing.T, level xlog.Level) (xlog.LoggerWithLevel, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	logger, cleanup, err := xlog.New().SetOutput(buf).SetLevel(level).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return logger, buf
}

// fakeViewer 记录调用顺序
type fakeViewer struct {
	mu    sync.Mutex
	calls []string
	out   *syncBuffer
}

func (v *fakeViewer) Activate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, "activate:"+v.out.String())
}

func (v *fakeViewer) Refresh() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, "refresh")
}

// fakeAlerter 统计提示次数
type fakeAlerter struct {
	mu     sync.Mutex
	beeps  int
	errors int
}

func (a *fakeAlerter) Beep() {
	a.mu.Lock()
	a.beeps++
	a.mu.Unlock()
}

func (a *fakeAlerter) NotifyError() {
	a.mu.Lock()
	a.errors++
	a.mu.Unlock()
}

func (a *fakeAlerter) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.beeps, a.errors
}
