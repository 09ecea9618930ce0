package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"DrillRecord", &DrillRecord{}, "drills"},
		{"FrameRecord", &FrameRecord{}, "frames"},
		{"HorseRecord", &HorseRecord{}, "horses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModels_ContainsAllTables(t *testing.T) {
	assert.Len(t, DatabaseModels, 3)
}
