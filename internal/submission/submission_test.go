package submission

import (
	"bytes"
	"errors"
	"testing"
)

// TestStageRecordedRejectsEmptyClip verifies zero-byte clips are
// failure-equivalent.
func TestStageRecordedRejectsEmptyClip(t *testing.T) {
	tr := NewTracker(0)
	if err := tr.StageRecorded("q1", nil, true); !errors.Is(err, ErrEmptyClip) {
		t.Fatalf("err = %v, want ErrEmptyClip", err)
	}
	if tr.State("q1") != StateEmpty {
		t.Fatalf("state = %s, want empty", tr.State("q1"))
	}
}

// TestRecordedClipAlwaysLabeledMP4 verifies the label invariant on both
// the converted and the fallback path.
func TestRecordedClipAlwaysLabeledMP4(t *testing.T) {
	tr := NewTracker(0)

	if err := tr.StageRecorded("q1", []byte("converted"), true); err != nil {
		t.Fatal(err)
	}
	a := tr.Artifact("q1")
	if a.MimeType != MP4ContentType || !a.Converted {
		t.Fatalf("artifact = %+v, want converted MP4", a)
	}

	// Fallback: original bytes, same label, Converted=false
	if err := tr.StageRecorded("q1", []byte("original-webm"), false); err != nil {
		t.Fatal(err)
	}
	a = tr.Artifact("q1")
	if a.MimeType != MP4ContentType {
		t.Fatalf("mime = %s, want %s", a.MimeType, MP4ContentType)
	}
	if a.Converted {
		t.Fatal("fallback artifact must carry Converted=false")
	}
	if !bytes.Equal(a.Data, []byte("original-webm")) {
		t.Fatal("fallback must keep original bytes unchanged")
	}
}

// TestStageUploadGates verifies the MP4-only and size gates.
func TestStageUploadGates(t *testing.T) {
	tr := NewTracker(8)

	if err := tr.StageUpload("q1", "a.webm", []byte("x"), "video/webm"); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("err = %v, want ErrInvalidFileType", err)
	}
	if err := tr.StageUpload("q1", "a.mp4", []byte("123456789"), "video/mp4"); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
	if err := tr.StageUpload("q1", "a.mp4", []byte("12345678"), "video/mp4"); err != nil {
		t.Fatalf("StageUpload: %v", err)
	}
	if tr.State("q1") != StatePending {
		t.Fatalf("state = %s, want pending", tr.State("q1"))
	}
}

// TestUploadLifecycle verifies Pending -> Uploading -> Completed and
// that completion drops the artifact.
func TestUploadLifecycle(t *testing.T) {
	tr := NewTracker(0)
	if err := tr.StageRecorded("q1", []byte("clip"), true); err != nil {
		t.Fatal(err)
	}

	a, err := tr.Begin("q1")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if a.Kind != KindRecorded {
		t.Fatalf("kind = %s, want recorded", a.Kind)
	}
	if tr.State("q1") != StateUploading {
		t.Fatalf("state = %s, want uploading", tr.State("q1"))
	}

	// Staging mid-upload is rejected
	if err := tr.StageRecorded("q1", []byte("x"), true); !errors.Is(err, ErrUploadInProgress) {
		t.Fatalf("err = %v, want ErrUploadInProgress", err)
	}

	if err := tr.Complete("q1"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if tr.State("q1") != StateCompleted {
		t.Fatalf("state = %s, want completed", tr.State("q1"))
	}
	if tr.Artifact("q1") != nil {
		t.Fatal("completion must clear the transient artifact")
	}
}

// TestFailureKeepsArtifactForRetry verifies Uploading -> Pending keeps
// the staged bytes so resubmission needs no re-capture.
func TestFailureKeepsArtifactForRetry(t *testing.T) {
	tr := NewTracker(0)
	if err := tr.StageRecorded("q1", []byte("clip"), true); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Begin("q1"); err != nil {
		t.Fatal(err)
	}

	if err := tr.Fail("q1"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if tr.State("q1") != StatePending {
		t.Fatalf("state = %s, want pending", tr.State("q1"))
	}
	a := tr.Artifact("q1")
	if a == nil || !bytes.Equal(a.Data, []byte("clip")) {
		t.Fatal("artifact must survive a failed upload")
	}

	// Retry works from the same artifact
	if _, err := tr.Begin("q1"); err != nil {
		t.Fatalf("retry Begin: %v", err)
	}
}

// TestBeginWithoutArtifact verifies submit with nothing staged fails.
func TestBeginWithoutArtifact(t *testing.T) {
	tr := NewTracker(0)
	if _, err := tr.Begin("q1"); !errors.Is(err, ErrNoArtifact) {
		t.Fatalf("err = %v, want ErrNoArtifact", err)
	}
}

// TestArtifactReplacement verifies Pending -> Pending supersedes the
// previous artifact, including switching input modes.
func TestArtifactReplacement(t *testing.T) {
	tr := NewTracker(0)
	if err := tr.StageRecorded("q1", []byte("recorded"), true); err != nil {
		t.Fatal(err)
	}
	if err := tr.StageUpload("q1", "pick.mp4", []byte("picked"), "video/mp4"); err != nil {
		t.Fatal(err)
	}

	a := tr.Artifact("q1")
	if a.Kind != KindUploaded || !bytes.Equal(a.Data, []byte("picked")) {
		t.Fatalf("artifact = %+v, want the picked file", a)
	}
}

// TestResubmissionAfterCompletion verifies a completed question can be
// re-staged (overwrite semantics).
func TestResubmissionAfterCompletion(t *testing.T) {
	tr := NewTracker(0)
	if err := tr.StageRecorded("q1", []byte("clip"), true); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Begin("q1"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Complete("q1"); err != nil {
		t.Fatal(err)
	}

	if err := tr.StageRecorded("q1", []byte("take-two"), true); err != nil {
		t.Fatalf("re-stage after completion: %v", err)
	}
	if tr.State("q1") != StatePending {
		t.Fatalf("state = %s, want pending", tr.State("q1"))
	}
}
