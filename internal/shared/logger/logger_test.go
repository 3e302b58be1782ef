package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		debug bool
		level zapcore.Level
		want  bool
	}{
		{debug: true, level: zapcore.DebugLevel, want: true},
		{debug: false, level: zapcore.DebugLevel, want: false},
		{debug: false, level: zapcore.InfoLevel, want: true},
	}

	for _, tt := range tests {
		if got := New(tt.debug).Core().Enabled(tt.level); got != tt.want {
			t.Errorf("New(%v).Enabled(%v) = %v, want %v", tt.debug, tt.level, got, tt.want)
		}
	}
}
