// Package probe extracts playback duration from media payloads with ffprobe
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FFprobe runs the ffprobe binary against a spooled copy of the payload
type FFprobe struct {
	binary  string
	timeout time.Duration
	tempDir string
}

// NewFFprobe creates a duration extractor; binary defaults to "ffprobe" on PATH
func NewFFprobe(binary string, timeout time.Duration) *FFprobe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFprobe{
		binary:  binary,
		timeout: timeout,
	}
}

// Duration returns the playback duration of the payload in whole seconds (rounded).
// The payload is written to a temporary file because container indexes (mp4 moov atoms)
// are often at the end of the file and cannot be read from a pipe.
func (p *FFprobe) Duration(ctx context.Context, payload io.Reader) (int, error) {
	tmp, err := os.CreateTemp(p.tempDir, "probe-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, payload); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to spool payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to spool payload: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		tmp.Name(),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return ParseOutput(stdout.String())
}

// ParseOutput parses ffprobe's "format=duration" output (e.g. "12.345000").
// Some containers print one line per stream; the first numeric line wins.
func ParseOutput(out string) (int, error) {
	var lastErr error
	for _, line := range strings.Split(out, "\n") {
		raw := strings.TrimSpace(line)
		if raw == "" || raw == "N/A" {
			continue
		}

		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			lastErr = fmt.Errorf("invalid ffprobe duration %q: %w", raw, err)
			continue
		}
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds > math.MaxInt32 {
			lastErr = fmt.Errorf("invalid ffprobe duration %q", raw)
			continue
		}
		return int(math.Round(seconds)), nil
	}

	if lastErr != nil {
		return 0, lastErr
	}
	return 0, fmt.Errorf("ffprobe reported no duration")
}
