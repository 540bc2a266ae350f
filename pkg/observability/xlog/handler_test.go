package xlog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

func record(level xlog.Level, msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Date(2026, 1, 2, 13, 4, 5, 678_000_000, time.UTC), slog.Level(level), msg, 0)
	r.AddAttrs(attrs...)
	return r
}

func TestFormatHandlerText(t *testing.T) {
	h, err := xlog.NewFormatHandler(&bytes.Buffer{}, nil)
	require.NoError(t, err)

	got := string(h.Format(record(xlog.LevelWarning, "volume low",
		slog.String(xlog.KeyCodepath, "audio.mixer"),
		slog.String(xlog.KeyThread, "main"),
		slog.Uint64(xlog.KeyThreadID, 1),
		slog.Int("volume", 3),
		slog.String("device", "usb headset"),
	)))
	assert.Equal(t, "WARNING - audio.mixer (13:04:05.678) - main (1):\nvolume low volume=3 device=\"usb headset\"", got)
}

func TestFormatHandlerRemote(t *testing.T) {
	h, err := xlog.NewFormatHandler(&bytes.Buffer{}, &xlog.FormatOptions{Layout: xlog.LayoutRemote})
	require.NoError(t, err)

	got := string(h.Format(record(xlog.LevelError, "gone",
		slog.String(xlog.KeyCodepath, "addon.worker"),
		xlog.Err(errors.New("pipe closed")),
	)))
	assert.Equal(t, "addon.worker:\ngone\npipe closed", got)
}

func TestFormatHandlerMissingCodepath(t *testing.T) {
	h, err := xlog.NewFormatHandler(&bytes.Buffer{}, nil)
	require.NoError(t, err)

	got := string(h.Format(record(xlog.LevelInfo, "no pc")))
	assert.True(t, strings.HasPrefix(got, "INFO - unknown ("), got)
}

func TestFormatHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	h, err := xlog.NewFormatHandler(&buf, nil)
	require.NoError(t, err)

	grouped := h.WithAttrs([]slog.Attr{slog.String("a", "1")}).WithGroup("req").WithAttrs([]slog.Attr{slog.String("b", "2")})
	require.NoError(t, grouped.Handle(context.Background(), record(xlog.LevelInfo, "m",
		slog.String(xlog.KeyCodepath, "x"),
		slog.Group("inner", slog.Int("c", 3)),
	)))
	assert.Contains(t, buf.String(), "\nm a=1 req.b=2 req.codepath=x req.inner.c=3\n")
}

func TestFormatHandlerEnabled(t *testing.T) {
	var lv slog.LevelVar
	lv.Set(slog.Level(xlog.LevelDebug))
	h, err := xlog.NewFormatHandler(&bytes.Buffer{}, &xlog.FormatOptions{Level: &lv})
	require.NoError(t, err)

	assert.False(t, h.Enabled(context.Background(), slog.Level(xlog.LevelIO)))
	assert.True(t, h.Enabled(context.Background(), slog.Level(xlog.LevelDebug)))

	_, err = xlog.NewFormatHandler(nil, nil)
	assert.ErrorIs(t, err, xlog.ErrNilWriter)
}

type captureHandler struct {
	records []slog.Record
	attrs   []slog.Attr
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.attrs = append(h.attrs, attrs...)
	return h
}

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func TestFilterHandler(t *testing.T) {
	ctx := context.Background()
	gateOpen := false
	sink := &captureHandler{}
	h, err := xlog.NewFilterHandler(sink, "xdiag", func() bool { return gateOpen })
	require.NoError(t, err)

	// 第三方低级别记录被丢弃
	require.NoError(t, h.Handle(ctx, record(xlog.LevelInfo, "external info")))
	assert.Empty(t, sink.records)

	// 第三方 WARNING 及以上总是保留
	require.NoError(t, h.Handle(ctx, record(xlog.LevelWarning, "external warning")))
	assert.Len(t, sink.records, 1)

	// 应用记录总是保留
	internal := h.WithAttrs([]slog.Attr{slog.String(xlog.KeyLogger, "xdiag")})
	require.NoError(t, internal.Handle(ctx, record(xlog.LevelDebug, "internal debug")))
	require.NoError(t, h.Handle(ctx, record(xlog.LevelIO, "tagged", slog.String(xlog.KeyLogger, "xdiag"))))
	assert.Len(t, sink.records, 3)

	// 开关打开后第三方低级别记录放行，无需重建 handler
	gateOpen = true
	require.NoError(t, h.Handle(ctx, record(xlog.LevelDebug, "external debug")))
	assert.Len(t, sink.records, 4)

	_, err = xlog.NewFilterHandler(nil, "xdiag", nil)
	assert.ErrorIs(t, err, xlog.ErrNilHandler)
}

func TestFilterHandlerOtherNamespace(t *testing.T) {
	sink := &captureHandler{}
	h, err := xlog.NewFilterHandler(sink, "xdiag", nil)
	require.NoError(t, err)

	other := h.WithAttrs([]slog.Attr{slog.String(xlog.KeyLogger, "comtypes")})
	require.NoError(t, other.Handle(context.Background(), record(xlog.LevelInfo, "other")))
	assert.Empty(t, sink.records)
}

func TestAlertHandler(t *testing.T) {
	ctx := context.Background()
	sound := false
	alerter := &fakeAlerter{}
	sink := &captureHandler{}
	h, err := xlog.NewAlertHandler(sink, alerter, func() bool { return sound })
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, record(xlog.LevelWarning, "w")))
	require.NoError(t, h.Handle(ctx, record(xlog.LevelError, "e")))
	beeps, errs := alerter.counts()
	assert.Zero(t, beeps)
	assert.Zero(t, errs)

	sound = true
	require.NoError(t, h.Handle(ctx, record(xlog.LevelError, "e")))
	require.NoError(t, h.Handle(ctx, record(xlog.LevelCritical, "c")))
	beeps, errs = alerter.counts()
	assert.Equal(t, 1, beeps)
	assert.Equal(t, 1, errs)
	assert.Len(t, sink.records, 4)
}

func TestContextHandlerFillsMissing(t *testing.T) {
	sink := &captureHandler{}
	h, err := xlog.NewContextHandler(sink)
	require.NoError(t, err)

	ctx := xlog.WithThreadName(context.Background(), "pump")
	require.NoError(t, h.Handle(ctx, record(xlog.LevelInfo, "m")))

	require.Len(t, sink.records, 1)
	got := map[string]string{}
	sink.records[0].Attrs(func(a slog.Attr) bool {
		got[a.Key] = a.Value.String()
		return true
	})
	assert.Equal(t, "pump", got[xlog.KeyThread])
	assert.NotEmpty(t, got[xlog.KeyThreadID])
	_, hasCodepath := got[xlog.KeyCodepath]
	assert.False(t, hasCodepath)
}

func TestBridgeExternalRecords(t *testing.T) {
	buf := &syncBuffer{}
	gate := false
	logger, _, err := xlog.New().SetOutput(buf).SetExternalGate(func() bool { return gate }).Build()
	require.NoError(t, err)

	ext := slog.New(logger.Handler())
	ext.Info("dropped")
	ext.Warn("kept")
	gate = true
	ext.Info("now kept")

	recs := buf.records()
	require.Len(t, recs, 2)
	assert.True(t, strings.HasPrefix(recs[0], "WARNING - "+testModule+".TestBridgeExternalRecords ("), recs[0])
	assert.Contains(t, recs[1], "now kept")
}

func TestBuilderErrors(t *testing.T) {
	_, _, err := xlog.New().SetLevelString("loud").Build()
	assert.Error(t, err)

	_, _, err = xlog.New().SetOutput(nil).SetName("x").Build()
	assert.ErrorIs(t, err, xlog.ErrNilWriter)

	_, _, err = xlog.New().SetName(" ").Build()
	assert.Error(t, err)

	b := xlog.New().SetOutput(&syncBuffer{})
	_, _, err = b.Build()
	require.NoError(t, err)
	_, _, err = b.Build()
	assert.ErrorIs(t, err, xlog.ErrBuilderUsed)
}

func TestBuilderHandlerFactory(t *testing.T) {
	sink := &captureHandler{}
	var gotLevel slog.Leveler
	logger, _, err := xlog.New().SetLevel(xlog.LevelDebug).SetHandlerFactory(func(level slog.Leveler) (slog.Handler, error) {
		gotLevel = level
		return sink, nil
	}).Build()
	require.NoError(t, err)

	logger.Debug(context.Background(), "forwarded")
	require.Len(t, sink.records, 1)
	assert.Equal(t, slog.Level(xlog.LevelDebug), gotLevel.Level())
	assert.False(t, logger.MarkFragmentStart())

	_, _, err = xlog.New().SetHandlerFactory(func(slog.Leveler) (slog.Handler, error) {
		return nil, errors.New("no bridge")
	}).Build()
	assert.EqualError(t, err, "no bridge")
}
