// Package wizard sequences the three intake steps (basic info, video
// questions, review) and tracks per-question completion. Progression is
// strictly forward; the only way back is a full reset.
package wizard

import (
	"errors"
	"sync"
)

// Step identifies a wizard screen.
type Step int

const (
	StepBasicInfo Step = 1
	StepVideo     Step = 2
	StepReview    Step = 3
)

// ErrCandidateRequired is returned when advancing past basic info
// without a persisted candidate record.
var ErrCandidateRequired = errors.New("candidate record required")

// ErrStepLocked is returned for operations on a step not yet reached.
var ErrStepLocked = errors.New("step not accessible yet")

// ErrQuestionLocked is returned when completing an inaccessible question.
var ErrQuestionLocked = errors.New("question not accessible yet")

// ErrUnknownQuestion is returned for question ids outside the sequence.
var ErrUnknownQuestion = errors.New("unknown question id")

// ErrQuestionsIncomplete is returned when entering review early.
var ErrQuestionsIncomplete = errors.New("not all questions completed")

// ErrAcknowledgementRequired is returned on submit without explicit consent.
var ErrAcknowledgementRequired = errors.New("authorization acknowledgment required")

// ErrVideoReferenceRequired is returned on submit when the refreshed
// candidate record carries no video.
var ErrVideoReferenceRequired = errors.New("candidate has no video reference")

// ErrAlreadySubmitted is returned for any mutation after the terminal state.
var ErrAlreadySubmitted = errors.New("wizard already submitted")

// CompletionSet tracks question ids with a server-confirmed upload.
// It only grows; the sole way to empty it is building a new one on
// wizard reset.
type CompletionSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewCompletionSet() *CompletionSet {
	return &CompletionSet{ids: make(map[string]struct{})}
}

func (s *CompletionSet) Add(questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[questionID] = struct{}{}
}

func (s *CompletionSet) Has(questionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[questionID]
	return ok
}

func (s *CompletionSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Machine is the wizard state machine for one intake session.
type Machine struct {
	mu          sync.Mutex
	step        Step
	submitted   bool
	questionIDs []string
	completed   *CompletionSet
	activeIdx   int
	candidateID string
}

// NewMachine creates a wizard at step 1 for an ordered question sequence.
func NewMachine(questionIDs []string) *Machine {
	return &Machine{
		step:        StepBasicInfo,
		questionIDs: questionIDs,
		completed:   NewCompletionSet(),
	}
}

// Step returns the current step.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Submitted reports whether the terminal state was reached.
func (m *Machine) Submitted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitted
}

// CandidateID returns the persisted candidate id, empty before step 1
// completes.
func (m *Machine) CandidateID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.candidateID
}

// Completed exposes the completion set for read access.
func (m *Machine) Completed() *CompletionSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed
}

// ActiveQuestion returns the index of the question currently being
// answered.
func (m *Machine) ActiveQuestion() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeIdx
}

// CompleteBasicInfo records the persisted candidate and advances to the
// video step.
func (m *Machine) CompleteBasicInfo(candidateID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.submitted {
		return ErrAlreadySubmitted
	}
	if candidateID == "" {
		return ErrCandidateRequired
	}
	if m.step != StepBasicInfo {
		return ErrStepLocked
	}

	m.candidateID = candidateID
	m.step = StepVideo
	return nil
}

// Accessible reports whether question k is enterable: all of 0..k-1
// must be in the completion set.
func (m *Machine) Accessible(k int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessibleLocked(k)
}

func (m *Machine) accessibleLocked(k int) bool {
	if k < 0 || k >= len(m.questionIDs) {
		return false
	}
	for i := 0; i < k; i++ {
		if !m.completed.Has(m.questionIDs[i]) {
			return false
		}
	}
	return true
}

// MarkCompleted adds a question to the completion set, advances the
// active pointer to the first not-yet-completed question, and moves to
// review when the whole sequence is done.
func (m *Machine) MarkCompleted(questionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.submitted {
		return ErrAlreadySubmitted
	}
	if m.step != StepVideo {
		return ErrStepLocked
	}

	idx := -1
	for i, id := range m.questionIDs {
		if id == questionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrUnknownQuestion
	}
	if !m.accessibleLocked(idx) {
		return ErrQuestionLocked
	}

	m.completed.Add(questionID)

	if m.completed.Size() == len(m.questionIDs) {
		m.step = StepReview
		return nil
	}

	for i, id := range m.questionIDs {
		if !m.completed.Has(id) {
			m.activeIdx = i
			break
		}
	}
	return nil
}

// CheckSubmit runs the terminal guards without transitioning: review
// step reached, explicit acknowledgment, non-empty video reference on
// the server-refreshed candidate record. Each guard is independently
// insufficient.
func (m *Machine) CheckSubmit(acknowledged bool, videoRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkSubmitLocked(acknowledged, videoRef)
}

func (m *Machine) checkSubmitLocked(acknowledged bool, videoRef string) error {
	if m.submitted {
		return ErrAlreadySubmitted
	}
	if m.step != StepReview {
		if m.completed.Size() != len(m.questionIDs) {
			return ErrQuestionsIncomplete
		}
		return ErrStepLocked
	}
	if !acknowledged {
		return ErrAcknowledgementRequired
	}
	if videoRef == "" {
		return ErrVideoReferenceRequired
	}
	return nil
}

// Submit moves the wizard to its terminal state after the guards pass.
// The terminal state is one-way; the only exit is Reset.
func (m *Machine) Submit(acknowledged bool, videoRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkSubmitLocked(acknowledged, videoRef); err != nil {
		return err
	}

	m.submitted = true
	return nil
}

// Reset discards all in-session state and returns to step 1. The
// persisted candidate record is untouched.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.step = StepBasicInfo
	m.submitted = false
	m.completed = NewCompletionSet()
	m.activeIdx = 0
	m.candidateID = ""
}
