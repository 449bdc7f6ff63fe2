package dieselvk

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestDebugLevel(t *testing.T) {
	tests := []struct {
		flags vk.DebugReportFlagBits
		want  slog.Level
	}{
		{vk.DebugReportErrorBit | vk.DebugReportWarningBit, slog.LevelError},
		{vk.DebugReportWarningBit, slog.LevelWarn},
		{vk.DebugReportPerformanceWarningBit, slog.LevelWarn},
		{vk.DebugReportDebugBit, slog.LevelDebug},
		{vk.DebugReportInformationBit, slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, debugLevel(vk.DebugReportFlags(tt.flags)), "flags %#x", tt.flags)
	}
}

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
