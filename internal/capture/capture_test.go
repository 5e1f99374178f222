package capture

import (
	"context"
	"errors"
	"testing"
)

type fakeStream struct {
	stopped int
}

func (s *fakeStream) Stop() { s.stopped++ }

type fakeRecorder struct {
	clip Clip
}

func (r *fakeRecorder) Stop() (Clip, error) { return r.clip, nil }

type fakeSource struct {
	supported  map[string]bool
	acquireErr error
	acquired   int
	lastFormat string
	clipData   []byte
}

func (s *fakeSource) Acquire(ctx context.Context) (Stream, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.acquired++
	return &fakeStream{}, nil
}

func (s *fakeSource) Supports(mimeType string) bool {
	return s.supported[mimeType]
}

func (s *fakeSource) NewRecorder(stream Stream, mimeType string) (Recorder, error) {
	s.lastFormat = mimeType
	return &fakeRecorder{clip: Clip{Data: s.clipData, MimeType: mimeType}}, nil
}

func newTestSource() *fakeSource {
	return &fakeSource{
		supported: map[string]bool{"video/webm": true},
		clipData:  []byte("chunks"),
	}
}

// TestAcquireReusesOpenStream verifies re-acquisition never opens a
// second stream.
func TestAcquireReusesOpenStream(t *testing.T) {
	src := newTestSource()
	c := NewController(src)

	first, err := c.AcquireDevice(context.Background())
	if err != nil {
		t.Fatalf("AcquireDevice: %v", err)
	}
	second, err := c.AcquireDevice(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("second acquire must reuse the open stream")
	}
	if src.acquired != 1 {
		t.Fatalf("acquired = %d, want 1", src.acquired)
	}
}

// TestAcquireFailurePropagates verifies device errors surface unchanged.
func TestAcquireFailurePropagates(t *testing.T) {
	src := newTestSource()
	src.acquireErr = ErrPermissionDenied
	c := NewController(src)

	if _, err := c.AcquireDevice(context.Background()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

// TestFormatProbeOrder verifies the first supported format wins, H.264
// variants first.
func TestFormatProbeOrder(t *testing.T) {
	src := newTestSource()
	src.supported = map[string]bool{
		"video/webm;codecs=vp9,opus": true,
		"video/mp4;codecs=h264":      true,
		"video/webm":                 true,
	}
	c := NewController(src)
	if _, err := c.AcquireDevice(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if src.lastFormat != "video/mp4;codecs=h264" {
		t.Fatalf("format = %s, want video/mp4;codecs=h264", src.lastFormat)
	}
}

// TestNoSupportedFormatFailsFast verifies recording never silently
// degrades when every probe fails.
func TestNoSupportedFormatFailsFast(t *testing.T) {
	src := newTestSource()
	src.supported = map[string]bool{}
	c := NewController(src)
	if _, err := c.AcquireDevice(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := c.StartRecording(); !errors.Is(err, ErrNoSupportedFormat) {
		t.Fatalf("err = %v, want ErrNoSupportedFormat", err)
	}
}

// TestRecordingLifecycle verifies start/stop and the busy guard.
func TestRecordingLifecycle(t *testing.T) {
	src := newTestSource()
	c := NewController(src)

	if err := c.StartRecording(); !errors.Is(err, ErrNoActiveStream) {
		t.Fatalf("err = %v, want ErrNoActiveStream", err)
	}

	if _, err := c.AcquireDevice(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.StartRecording(); err != nil {
		t.Fatal(err)
	}
	if err := c.StartRecording(); !errors.Is(err, ErrRecorderBusy) {
		t.Fatalf("err = %v, want ErrRecorderBusy", err)
	}

	clip, err := c.StopRecording()
	if err != nil {
		t.Fatalf("StopRecording: %v", err)
	}
	if string(clip.Data) != "chunks" {
		t.Fatalf("clip = %q, want chunks", clip.Data)
	}

	if _, err := c.StopRecording(); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("err = %v, want ErrNotRecording", err)
	}

	// A new recording supersedes the previous clip without error
	if err := c.StartRecording(); err != nil {
		t.Fatalf("re-record: %v", err)
	}
}

// TestZeroByteClipIsReturned verifies empty captures come back as-is;
// rejecting them is the caller's job.
func TestZeroByteClipIsReturned(t *testing.T) {
	src := newTestSource()
	src.clipData = nil
	c := NewController(src)
	if _, err := c.AcquireDevice(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.StartRecording(); err != nil {
		t.Fatal(err)
	}

	clip, err := c.StopRecording()
	if err != nil {
		t.Fatal(err)
	}
	if len(clip.Data) != 0 {
		t.Fatalf("clip size = %d, want 0", len(clip.Data))
	}
}

// TestReleaseDeviceIsIdempotent verifies release stops tracks, revokes
// previews and is safe to repeat.
func TestReleaseDeviceIsIdempotent(t *testing.T) {
	src := newTestSource()
	c := NewController(src)

	// Safe with nothing active
	c.ReleaseDevice()

	stream, err := c.AcquireDevice(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.StartRecording(); err != nil {
		t.Fatal(err)
	}
	url := c.CreatePreviewURL(Clip{Data: []byte("x")})
	if url == "" || c.PreviewURLCount() != 1 {
		t.Fatal("preview URL not registered")
	}

	c.ReleaseDevice()

	fs := stream.(*fakeStream)
	if fs.stopped != 1 {
		t.Fatalf("stream stopped %d times, want 1", fs.stopped)
	}
	if c.PreviewURLCount() != 0 {
		t.Fatal("release must revoke all preview URLs")
	}
	if c.IsRecording() {
		t.Fatal("release must drop the active recorder")
	}

	c.ReleaseDevice() // still safe
	if fs.stopped != 1 {
		t.Fatalf("second release must not stop tracks again, got %d", fs.stopped)
	}

	// A fresh acquire opens a new stream
	if _, err := c.AcquireDevice(context.Background()); err != nil {
		t.Fatal(err)
	}
	if src.acquired != 2 {
		t.Fatalf("acquired = %d, want 2", src.acquired)
	}
}
