// Package submission tracks the per-question upload state machine:
// Empty -> Pending (local artifact) -> Uploading -> Completed, with
// Uploading -> Pending on failure so the user can retry without
// re-capturing, and Pending -> Pending on artifact replacement.
package submission

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// State is the upload state of one question.
type State string

const (
	StateEmpty     State = "empty"
	StatePending   State = "pending"
	StateUploading State = "uploading"
	StateCompleted State = "completed"
)

// ArtifactKind distinguishes recorded clips from picked files.
type ArtifactKind string

const (
	KindRecorded ArtifactKind = "recorded"
	KindUploaded ArtifactKind = "uploaded"
)

// MP4ContentType is the label recorded clips always carry after the
// conversion step.
const MP4ContentType = "video/mp4"

// ErrEmptyClip rejects zero-byte recordings: equivalent to no artifact.
var ErrEmptyClip = errors.New("recorded clip is empty")

// ErrNoArtifact is returned when submitting a question with nothing staged.
var ErrNoArtifact = errors.New("no pending artifact")

// ErrUploadInProgress is returned when mutating a question mid-upload.
var ErrUploadInProgress = errors.New("upload already in progress")

// ErrInvalidFileType rejects non-MP4 picked files.
var ErrInvalidFileType = errors.New("only MP4 uploads are accepted")

// ErrFileTooLarge rejects files over the configured limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// Artifact is the pending submission payload for one question. Exactly
// one artifact exists per question at a time: staging a new one
// discards the previous.
type Artifact struct {
	Kind     ArtifactKind
	Data     []byte
	MimeType string
	Filename string

	// Converted is false when the conversion fallback path was taken
	// and Data still holds the original (non-MP4) bytes under an MP4
	// label. Callers that care about the mismatch can check this.
	Converted bool
}

type questionState struct {
	state    State
	artifact *Artifact
}

// Tracker holds the upload state machine for every question in a session.
type Tracker struct {
	mu        sync.Mutex
	maxSize   int64
	questions map[string]*questionState
}

// NewTracker creates a tracker; maxSize bounds picked-file uploads.
func NewTracker(maxSize int64) *Tracker {
	return &Tracker{
		maxSize:   maxSize,
		questions: make(map[string]*questionState),
	}
}

func (t *Tracker) get(questionID string) *questionState {
	qs, ok := t.questions[questionID]
	if !ok {
		qs = &questionState{state: StateEmpty}
		t.questions[questionID] = qs
	}
	return qs
}

// State returns the current upload state for a question.
func (t *Tracker) State(questionID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.get(questionID).state
}

// Artifact returns the staged artifact, or nil.
func (t *Tracker) Artifact(questionID string) *Artifact {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.get(questionID).artifact
}

// StageRecorded stages a recorded clip. The clip is always labeled MP4:
// either the conversion step normalized it, or the fallback original
// bytes travel under the same label with Converted=false.
func (t *Tracker) StageRecorded(questionID string, data []byte, converted bool) error {
	if len(data) == 0 {
		return ErrEmptyClip
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	qs := t.get(questionID)
	if err := checkTransition(qs.state, StatePending); err != nil {
		return err
	}

	qs.artifact = &Artifact{
		Kind:      KindRecorded,
		Data:      data,
		MimeType:  MP4ContentType,
		Filename:  "recording.mp4",
		Converted: converted,
	}
	qs.state = StatePending
	return nil
}

// StageUpload stages a picked file. MP4 only, bounded by maxSize.
func (t *Tracker) StageUpload(questionID, filename string, data []byte, mimeType string) error {
	if len(data) == 0 {
		return ErrEmptyClip
	}
	if !strings.EqualFold(mimeType, MP4ContentType) {
		return ErrInvalidFileType
	}
	if t.maxSize > 0 && int64(len(data)) > t.maxSize {
		return ErrFileTooLarge
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	qs := t.get(questionID)
	if err := checkTransition(qs.state, StatePending); err != nil {
		return err
	}

	qs.artifact = &Artifact{
		Kind:     KindUploaded,
		Data:     data,
		MimeType: mimeType,
		Filename: filename,
	}
	qs.state = StatePending
	return nil
}

// Begin moves a question to Uploading and hands back its artifact.
func (t *Tracker) Begin(questionID string) (*Artifact, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	qs := t.get(questionID)
	if qs.artifact == nil {
		return nil, ErrNoArtifact
	}
	if err := checkTransition(qs.state, StateUploading); err != nil {
		return nil, err
	}

	qs.state = StateUploading
	return qs.artifact, nil
}

// Fail returns a question to Pending after an upload error. The
// artifact stays staged so resubmission needs no re-capture.
func (t *Tracker) Fail(questionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	qs := t.get(questionID)
	if qs.state != StateUploading {
		return fmt.Errorf("invalid transition: %s -> %s", qs.state, StatePending)
	}
	qs.state = StatePending
	return nil
}

// Complete marks a question uploaded and drops its transient artifact.
func (t *Tracker) Complete(questionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	qs := t.get(questionID)
	if err := checkTransition(qs.state, StateCompleted); err != nil {
		return err
	}
	qs.state = StateCompleted
	qs.artifact = nil
	return nil
}

// Reset clears all per-question state (full wizard reset).
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.questions = make(map[string]*questionState)
}

// checkTransition enforces the allowed state machine edges.
func checkTransition(from, to State) error {
	ok := false
	switch from {
	case StateEmpty:
		ok = to == StatePending
	case StatePending:
		// Pending -> Pending is artifact replacement (re-record/re-pick)
		ok = to == StatePending || to == StateUploading
	case StateUploading:
		ok = to == StatePending || to == StateCompleted
	case StateCompleted:
		// Re-submission overwrites the stored video reference
		ok = to == StatePending
	}
	if !ok {
		if from == StateUploading {
			return ErrUploadInProgress
		}
		return fmt.Errorf("invalid transition: %s -> %s", from, to)
	}
	return nil
}
