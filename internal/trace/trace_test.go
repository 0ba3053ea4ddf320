package trace

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	enabled = false
	tracer = nil
	tracerProvider = nil
}

func TestInitDisabledByDefault(t *testing.T) {
	t.Cleanup(reset)
	t.Setenv("LOG_TRACING_ENABLED", "")

	require.NoError(t, Init())
	assert.False(t, Enabled())

	ctx, span := StartSpan(context.Background(), "advisor.scoring")
	span.End()
	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)
}

func TestInitWithWriterExportsSpans(t *testing.T) {
	t.Cleanup(reset)
	var buf bytes.Buffer

	require.NoError(t, InitWithWriter(&buf))
	assert.True(t, Enabled())

	ctx, span := StartSpan(context.Background(), "advisor.pricing")
	traceID, spanID, ok := GetTraceFields(ctx)
	span.End()
	require.True(t, ok)
	assert.NotEmpty(t, traceID)
	assert.NotEmpty(t, spanID)

	require.NoError(t, Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "advisor.pricing")
}
