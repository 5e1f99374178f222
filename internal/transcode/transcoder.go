// Package transcode normalizes recorded browser clips into a
// broadly-playable MP4 via an external ffmpeg invocation. Conversion is
// synchronous and request-scoped: no queue, no shared state, temp files
// are removed unconditionally before returning.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"intake_backend/internal/logger"
)

// ErrConversionFailed is returned for any failure between writing the
// input and reading the produced MP4. Callers must fall back to the
// original clip bytes instead of blocking the user.
var ErrConversionFailed = errors.New("video conversion failed")

// MP4ContentType is the canonical content type of converted output.
const MP4ContentType = "video/mp4"

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

// Run executes one command and captures stdout/stderr and exit code.
func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}

	return result, nil
}

// Transcoder invokes ffmpeg with a fixed web-playback profile.
type Transcoder struct {
	ffmpegPath string
	tempDir    string
	runner     commandRunner
}

// New constructs the production transcoder.
func New(ffmpegPath, tempDir string) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Transcoder{
		ffmpegPath: ffmpegPath,
		tempDir:    tempDir,
		runner:     &execRunner{},
	}
}

// NewForTests constructs a transcoder with an injectable runner.
func NewForTests(ffmpegPath, tempDir string, runner commandRunner) *Transcoder {
	t := New(ffmpegPath, tempDir)
	t.runner = runner
	return t
}

// Convert writes the raw clip to a uniquely-named temp file, runs ffmpeg
// with the fixed target profile (H.264 fast/crf 23, AAC 128k, faststart
// MP4) and returns the produced bytes. Both temp files are removed on
// success and on failure; cleanup errors are logged, not escalated.
// Concurrent calls are independent: names never collide.
func (t *Transcoder) Convert(ctx context.Context, raw []byte, srcExt string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrConversionFailed)
	}

	ext := strings.TrimPrefix(srcExt, ".")
	if ext == "" {
		ext = "webm"
	}

	stamp := fmt.Sprintf("%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
	inputPath := filepath.Join(t.tempDir, fmt.Sprintf("input_%s.%s", stamp, ext))
	outputPath := filepath.Join(t.tempDir, fmt.Sprintf("output_%s.mp4", stamp))

	defer t.cleanup(ctx, inputPath, outputPath)

	if err := os.WriteFile(inputPath, raw, 0644); err != nil {
		return nil, fmt.Errorf("%w: write input: %v", ErrConversionFailed, err)
	}

	args := buildFFmpegArgs(inputPath, outputPath)
	logger.CtxDebug(ctx, "converting video", "input", inputPath, "output", outputPath)

	result, runErr := t.runner.Run(ctx, t.ffmpegPath, args...)
	if runErr != nil {
		logger.CtxWarn(ctx, "ffmpeg invocation failed",
			"exit_code", result.ExitCode,
			"stderr", tail(result.Stderr, 512),
		)
		return nil, fmt.Errorf("%w: ffmpeg: %v", ErrConversionFailed, runErr)
	}

	converted, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read output: %v", ErrConversionFailed, err)
	}

	logger.CtxInfo(ctx, "conversion completed", "input_bytes", len(raw), "output_bytes", len(converted))
	return converted, nil
}

// cleanup removes both temp files; missing files are fine.
func (t *Transcoder) cleanup(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.CtxWarn(ctx, "temp file cleanup failed", "path", p, "error", err.Error())
		}
	}
}

// buildFFmpegArgs builds the fixed target profile: H.264 video (fast
// preset, crf 23), AAC audio 128kbps, MP4 container with faststart so
// playback can begin before the whole file is downloaded.
func buildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "faststart",
		"-f", "mp4",
		outputPath,
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
