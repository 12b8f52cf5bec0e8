package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		level        string
		debugEnabled bool
		infoEnabled  bool
	}{
		{"", false, true},
		{"debug", true, true},
		{"error", false, false},
	}

	for _, tcase := range cases {
		t.Run("level="+tcase.level, func(t *testing.T) {
			logg := NewLogger(tcase.level)
			core := logg.Desugar().Core()

			assert.Equal(t, tcase.debugEnabled, core.Enabled(zapcore.DebugLevel))
			assert.Equal(t, tcase.infoEnabled, core.Enabled(zapcore.InfoLevel))
		})
	}
}
