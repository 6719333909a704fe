package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmployeeID(t *testing.T) {
	tests := map[string]string{
		"1001.0":    "1001",
		" 1001.00 ": "1001",
		"1001":      "1001",
		"1001.5":    "1001.5",
		"EMP-7":     "EMP-7",
		"":          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeEmployeeID(in), in)
	}
}

func TestSourceKindValid(t *testing.T) {
	assert.True(t, SourceKindGateLog.Valid())
	assert.True(t, SourceKindStatusExport.Valid())
	assert.False(t, SourceKind("fax").Valid())
}
