package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerInterface tests the TestLogger implementation
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", ErrAttrKey, fmt.Errorf("test error"))

	require.NotEmpty(t, buffer.String())

	assert.True(t, testLogger.ContainsMessage("debug message"))
	assert.True(t, testLogger.ContainsMessage("info message"))
	assert.True(t, testLogger.ContainsMessage("warning message"))
	assert.True(t, testLogger.ContainsMessage("error message"))

	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0)) // JSON numbers are float64
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "test error"))
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "PolyTree",
		ComponentKey, "tree.polytree",
	)
	contextLogger.Info("contextual message", OperationKey, OperationFit)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "PolyTree"))
	assert.True(t, testLogger.ContainsField(ComponentKey, "tree.polytree"))
	assert.True(t, testLogger.ContainsField(OperationKey, OperationFit))
}

// TestLoggerEnabled tests level filtering
func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))
	assert.Equal(t, 1, testLogger.CountMessages("this should appear"))
}

func TestSetProvider(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)
	restore := SetProvider(provider)
	defer restore()

	GetLoggerWithName("tree.polytree").Info("named logger message", DepthKey, 2)

	assert.Contains(t, buffer.String(), "named logger message")
	assert.True(t, provider.Logger().ContainsField(ComponentKey, "tree.polytree"))
	assert.True(t, provider.Logger().ContainsField(DepthKey, 2.0))
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologJSONProvider(&buf, LevelInfo)

	logger := provider.GetLoggerWithName("poly").With(ModelNameKey, "LeastSquares")
	logger.Debug("dropped")
	logger.Info("fitted", SamplesKey, 12, LossKey, 0.25)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fitted", entry["message"])
	assert.Equal(t, "poly", entry[ComponentKey])
	assert.Equal(t, "LeastSquares", entry[ModelNameKey])
	assert.Equal(t, 12.0, entry[SamplesKey])
	assert.Equal(t, 0.25, entry[LossKey])

	// SetLevel applies to loggers created before the call.
	provider.SetLevel(LevelDebug)
	assert.True(t, logger.Enabled(context.Background(), LevelDebug))
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

type fitFailure struct{ samples int }

func (f *fitFailure) Error() string { return "singular basis" }

func (f *fitFailure) MarshalZerologObject(e *zerolog.Event) {
	e.Int("samples", f.samples)
}

func TestZerologErrorDetails(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologJSONProvider(&buf, LevelDebug)

	err := errors.Wrap(errors.WithStack(&fitFailure{samples: 3}), "evaluating split")
	provider.GetLogger().Error("fit failed", err, OperationKey, OperationFit)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "evaluating split: singular basis", entry[ErrAttrKey])
	assert.Equal(t, OperationFit, entry[OperationKey])

	detail, ok := entry["detail"].(map[string]interface{})
	require.True(t, ok, "structured error details should be attached")
	assert.Equal(t, 3.0, detail["samples"])
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		got, err := ToLogLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ToLogLevel("verbose")
	assert.Error(t, err)
}

// BenchmarkLogging benchmarks logging performance
func BenchmarkLogging(b *testing.B) {
	var buf bytes.Buffer
	logger := NewZerologJSONProvider(&buf, LevelInfo).GetLogger()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message",
			"iteration", i,
			OperationKey, OperationPredict,
			SamplesKey, 1000,
		)
	}
}
