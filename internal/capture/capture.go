// Package capture models camera/microphone acquisition and clip
// recording as an explicit state machine. Device access goes through
// the DeviceSource interface so the controller is testable without
// real hardware.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrRecorderBusy is returned when starting a recording while one is active.
var ErrRecorderBusy = errors.New("recording already in progress")

// ErrNotRecording is returned when stopping without an active recording.
var ErrNotRecording = errors.New("no active recording")

// ErrNoActiveStream is returned when recording without an acquired device.
var ErrNoActiveStream = errors.New("no active media stream")

// ErrNoSupportedFormat is returned when no probe format is recordable.
// Recording must fail fast here rather than silently degrade.
var ErrNoSupportedFormat = errors.New("no supported recording format")

// ErrPermissionDenied is returned by sources when device access is refused.
var ErrPermissionDenied = errors.New("device permission denied")

// ErrDeviceUnavailable is returned by sources when no device is present.
var ErrDeviceUnavailable = errors.New("device unavailable")

// formatPreference is the capability probe order. H.264 first: downstream
// conversion and playback compatibility favor it, and browser support for
// the rest varies.
var formatPreference = []string{
	"video/webm;codecs=h264",
	"video/mp4;codecs=h264",
	"video/webm;codecs=vp9,opus",
	"video/webm;codecs=vp8,opus",
	"video/webm",
}

// Clip is a finalized recording. Zero-byte clips are failure-equivalent:
// callers must not pass them on to conversion or upload.
type Clip struct {
	Data     []byte
	MimeType string
}

// Stream is an open audio+video device stream.
type Stream interface {
	// Stop stops all tracks of the stream.
	Stop()
}

// Recorder buffers encoded chunks for one recording.
type Recorder interface {
	// Stop finalizes buffered chunks into a single clip.
	Stop() (Clip, error)
}

// DeviceSource abstracts the media layer: acquisition, capability
// probing and recorder construction.
type DeviceSource interface {
	// Acquire requests combined audio+video access.
	Acquire(ctx context.Context) (Stream, error)

	// Supports reports whether the given mime type is recordable.
	Supports(mimeType string) bool

	// NewRecorder starts buffering chunks from the stream.
	NewRecorder(stream Stream, mimeType string) (Recorder, error)
}

// Controller owns the single allowed stream and recorder per session.
type Controller struct {
	mu          sync.Mutex
	source      DeviceSource
	stream      Stream
	recorder    Recorder
	previewURLs map[string]struct{}
}

func NewController(source DeviceSource) *Controller {
	return &Controller{
		source:      source,
		previewURLs: make(map[string]struct{}),
	}
}

// AcquireDevice opens the device stream. Re-acquisition reuses the
// already-open stream rather than opening a second one.
func (c *Controller) AcquireDevice(ctx context.Context) (Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		return c.stream, nil
	}

	stream, err := c.source.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire device: %w", err)
	}
	c.stream = stream
	return stream, nil
}

// StartRecording begins buffering a new clip using the first supported
// probe format. Starting while a recording is active is an error; the
// caller must stop first. Starting over a previously *recorded clip* is
// allowed and supersedes it.
func (c *Controller) StartRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream == nil {
		return ErrNoActiveStream
	}
	if c.recorder != nil {
		return ErrRecorderBusy
	}

	mimeType, ok := c.pickFormat()
	if !ok {
		return ErrNoSupportedFormat
	}

	recorder, err := c.source.NewRecorder(c.stream, mimeType)
	if err != nil {
		return fmt.Errorf("start recorder: %w", err)
	}
	c.recorder = recorder
	return nil
}

// StopRecording finalizes the active recording into a clip. The clip may
// be zero bytes when nothing was captured; callers treat that as failure.
func (c *Controller) StopRecording() (Clip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recorder == nil {
		return Clip{}, ErrNotRecording
	}

	clip, err := c.recorder.Stop()
	c.recorder = nil
	if err != nil {
		return Clip{}, fmt.Errorf("stop recorder: %w", err)
	}
	return clip, nil
}

// IsRecording reports whether a recording is active.
func (c *Controller) IsRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recorder != nil
}

// CreatePreviewURL registers a local preview URL for a clip. All preview
// URLs are revoked on ReleaseDevice to avoid leaking them.
func (c *Controller) CreatePreviewURL(clip Clip) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	url := "blob:" + uuid.NewString()
	c.previewURLs[url] = struct{}{}
	return url
}

// RevokePreviewURL releases one preview URL.
func (c *Controller) RevokePreviewURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.previewURLs, url)
}

// PreviewURLCount returns the number of live preview URLs.
func (c *Controller) PreviewURLCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.previewURLs)
}

// ReleaseDevice stops the stream, drops any active recorder and revokes
// all preview URLs. Idempotent, safe to call when nothing is active.
// Must run on mode switch, teardown, successful submission and error
// recovery paths.
func (c *Controller) ReleaseDevice() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recorder != nil {
		// Discard whatever was buffered
		_, _ = c.recorder.Stop()
		c.recorder = nil
	}
	if c.stream != nil {
		c.stream.Stop()
		c.stream = nil
	}
	c.previewURLs = make(map[string]struct{})
}

// pickFormat returns the first supported format from the probe order.
func (c *Controller) pickFormat() (string, bool) {
	for _, mimeType := range formatPreference {
		if c.source.Supports(mimeType) {
			return mimeType, true
		}
	}
	return "", false
}
