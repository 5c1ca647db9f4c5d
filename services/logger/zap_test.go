package logsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/shusseki/core"
)

func TestNewZap(t *testing.T) {
	tests := []struct {
		name    string
		conf    core.LogConfig
		wantErr bool
	}{
		{name: "console", conf: core.LogConfig{Name: "api", Level: "debug", Format: "console"}},
		{name: "json", conf: core.LogConfig{Name: "api", Level: "warn", Format: "json"}},
		{name: "invalid level", conf: core.LogConfig{Level: "loud", Format: "json"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zl, err := NewZap(tt.conf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewZap() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && zl == nil {
				t.Errorf("NewZap() returned a nil logger")
			}
		})
	}
}

func TestZapLogger_fields(t *testing.T) {
	zcore, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(zcore))

	boom := errors.New("boom")
	logger.Warn("import", boom, map[string]interface{}{"class_id": "class-1-A"}, 42)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "import", entries[0].Message)
	assert.Equal(t, map[string]interface{}{
		"error":    "boom",
		"class_id": "class-1-A",
		"arg2":     int64(42),
	}, entries[0].ContextMap())
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := RollbarLogger{std: NewNopLogger()}
	boom := errors.New("boom")
	extra := map[string]interface{}{"k": "v"}

	got := l.prepare("msg", []interface{}{boom, "ignored", extra, 3})
	assert.Equal(t, []interface{}{"msg", boom, extra}, got)
}
