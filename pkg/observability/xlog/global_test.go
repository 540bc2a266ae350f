package xlog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xdiag/pkg/observability/xfault"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

func useGlobal(t *testing.T, level xlog.Level) *syncBuffer {
	t.Helper()
	logger, buf := newTestLogger(t, level)
	xlog.SetDefault(logger)
	t.Cleanup(xlog.ResetDefault)
	return buf
}

func TestGlobalCodepath(t *testing.T) {
	buf := useGlobal(t, xlog.LevelIO)
	ctx := context.Background()

	xlog.IO(ctx, "io")
	xlog.Debug(ctx, "debug")
	xlog.DebugWarning(ctx, "debugwarning")
	xlog.Info(ctx, "info")
	xlog.Warning(ctx, "warning")
	xlog.Error(ctx, "error")
	xlog.Critical(ctx, "critical")
	xlog.Exception(ctx, "exception", errors.New("x"))

	recs := buf.records()
	require.Len(t, recs, 8)
	for _, r := range recs {
		assert.Contains(t, r, " - "+testModule+".TestGlobalCodepath (", r)
	}
}

func TestGlobalExceptionExpected(t *testing.T) {
	buf := useGlobal(t, xlog.LevelDebugWarning)
	xlog.Exception(context.Background(), "cancelled", xfault.ErrCallCancelled)
	assert.True(t, strings.HasPrefix(buf.String(), "DEBUGWARNING - "), buf.String())
}

func TestDefaultLazy(t *testing.T) {
	xlog.ResetDefault()
	t.Cleanup(xlog.ResetDefault)

	l := xlog.Default()
	require.NotNil(t, l)
	assert.Same(t, l, xlog.Default())
	assert.Equal(t, xlog.LevelInfo, l.GetLevel())

	xlog.SetDefault(nil)
	assert.Same(t, l, xlog.Default())
}

func TestDefaultFallback(t *testing.T) {
	xlog.ResetDefault()
	restore := xlog.SetNewBuilderForTest(func() *xlog.Builder {
		return xlog.New().SetLevelString("invalid")
	})
	t.Cleanup(func() {
		restore()
		xlog.ResetDefault()
	})

	l := xlog.Default()
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info(context.Background(), "fallback works") })
}

func TestGlobalFragmentWithoutFile(t *testing.T) {
	useGlobal(t, xlog.LevelInfo)
	assert.False(t, xlog.MarkFragmentStart())
	_, ok := xlog.Fragment()
	assert.False(t, ok)
}
