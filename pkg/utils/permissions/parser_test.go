package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOctalString(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		{"755", 0o755},
		{"0755", 0o755},
		{"0o755", 0o755},
		{"644", 0o644},
		{"0", 0},
		{"", FileMode},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			val, err := ParseOctalString(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, val)
		})
	}
}

func TestParseOctalStringInvalid(t *testing.T) {
	_, err := ParseOctalString("78x")
	assert.Error(t, err)
}

func TestFormatOctal(t *testing.T) {
	assert.Equal(t, "0755", FormatOctal(ExecMode))
	assert.Equal(t, "0644", FormatOctal(FileMode))
}

func TestIsExecutable(t *testing.T) {
	assert.True(t, IsExecutable(ExecMode))
	assert.False(t, IsExecutable(FileMode))
}
