package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 8, 3, 14, 22, 5, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "drillbook-logs",
			appName: "drillbook",
			want:    filepath.Join("drillbook-logs", "drillbook.20260803_142205.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./drillbook-logs",
			appName: "drillbook",
			want:    filepath.Join(".", "drillbook-logs", "drillbook.20260803_142205.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "drillbook"),
			appName: "drillbook",
			want:    filepath.Join("/var", "log", "drillbook", "drillbook.20260803_142205.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.appName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}
