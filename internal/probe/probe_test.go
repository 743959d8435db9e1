package probe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name          string
		out           string
		expected      int
		expectedError bool
	}{
		{name: "fractional", out: "12.345000\n", expected: 12},
		{name: "rounds up", out: "59.6", expected: 60},
		{name: "multiple lines", out: "93.1\n93.0\n", expected: 93},
		{name: "empty", out: "", expectedError: true},
		{name: "not available", out: "N/A\n", expectedError: true},
		{name: "garbage", out: "duration", expectedError: true},
		{name: "negative", out: "-1.0", expectedError: true},
		{name: "first line not available", out: "N/A\n42.4\n", expected: 42},
		{name: "only not available lines", out: "N/A\nN/A\n", expectedError: true},
		{name: "NaN", out: "nan", expectedError: true},
		{name: "beyond int32", out: "1e20", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutput(tt.out)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// writeScript creates an executable that stands in for ffprobe
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestFFprobe_Duration(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		bin := writeScript(t, `echo "125.4"`)
		p := NewFFprobe(bin, 5*time.Second)

		seconds, err := p.Duration(context.Background(), strings.NewReader("fake video"))
		require.NoError(t, err)
		assert.Equal(t, 125, seconds)
	})

	t.Run("probe error", func(t *testing.T) {
		bin := writeScript(t, `echo "moov atom not found" >&2; exit 1`)
		p := NewFFprobe(bin, 5*time.Second)

		_, err := p.Duration(context.Background(), strings.NewReader("not a video"))
		assert.ErrorContains(t, err, "moov atom not found")
	})

	t.Run("missing binary", func(t *testing.T) {
		p := NewFFprobe(filepath.Join(t.TempDir(), "does-not-exist"), time.Second)

		_, err := p.Duration(context.Background(), strings.NewReader("x"))
		assert.Error(t, err)
	})

	t.Run("receives spooled file", func(t *testing.T) {
		// The script prints the payload size, proving the file argument holds the payload
		bin := writeScript(t, `for last; do :; done; wc -c < "$last"`)
		p := NewFFprobe(bin, 5*time.Second)

		seconds, err := p.Duration(context.Background(), strings.NewReader("0123456789"))
		require.NoError(t, err)
		assert.Equal(t, 10, seconds)
	})
}
