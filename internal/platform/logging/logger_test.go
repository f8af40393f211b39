package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw     string
		want    Level
		wantErr bool
	}{
		{raw: "", want: LevelInfo},
		{raw: "DEBUG", want: LevelDebug},
		{raw: "warning", want: LevelWarn},
		{raw: " error ", want: LevelError},
		{raw: "verbose", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseLevel(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLogger_KeyValueFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Info("selection done", "event_id", "evt-1", "assigned_count", 3, "err", errors.New("boom"), "dangling")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "evt-1", fields["event_id"])
	require.EqualValues(t, 3, fields["assigned_count"])
	require.Equal(t, "boom", fields["err"])
	require.Contains(t, fields, "dangling")
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "request")
	logger.DebugContext(ctx, "filtered")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, traceID.String(), fields["trace_id"])
	require.Equal(t, spanID.String(), fields["span_id"])
}

func TestLogger_NilFallsBackToDefault(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	previous := Default()
	SetDefault(FromZap(zap.New(core)))
	t.Cleanup(func() { SetDefault(previous) })

	var logger *Logger
	logger.Warn("from nil")

	require.Equal(t, 1, logs.Len())
}
