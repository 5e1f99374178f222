package wizard

import (
	"errors"
	"testing"
)

func threeQuestions() *Machine {
	return NewMachine([]string{"q1", "q2", "q3"})
}

// TestBasicInfoGate verifies step 1 -> 2 requires a candidate id.
func TestBasicInfoGate(t *testing.T) {
	m := threeQuestions()

	if err := m.CompleteBasicInfo(""); !errors.Is(err, ErrCandidateRequired) {
		t.Fatalf("err = %v, want ErrCandidateRequired", err)
	}
	if m.Step() != StepBasicInfo {
		t.Fatalf("step = %d, want %d", m.Step(), StepBasicInfo)
	}

	if err := m.CompleteBasicInfo("cand-1"); err != nil {
		t.Fatalf("CompleteBasicInfo: %v", err)
	}
	if m.Step() != StepVideo {
		t.Fatalf("step = %d, want %d", m.Step(), StepVideo)
	}
}

// TestQuestionAccessibility verifies question k needs 0..k-1 complete,
// both the positive and the negative case.
func TestQuestionAccessibility(t *testing.T) {
	m := threeQuestions()
	if err := m.CompleteBasicInfo("cand-1"); err != nil {
		t.Fatal(err)
	}

	if !m.Accessible(0) {
		t.Fatal("question 0 must be accessible from the start")
	}
	if m.Accessible(1) || m.Accessible(2) {
		t.Fatal("later questions must be locked before earlier ones complete")
	}

	if err := m.MarkCompleted("q1"); err != nil {
		t.Fatalf("MarkCompleted q1: %v", err)
	}
	if !m.Accessible(1) {
		t.Fatal("question 1 must unlock after q1")
	}
	if m.Accessible(2) {
		t.Fatal("question 2 must stay locked with q2 incomplete")
	}

	// Skipping ahead is rejected
	if err := m.MarkCompleted("q3"); !errors.Is(err, ErrQuestionLocked) {
		t.Fatalf("err = %v, want ErrQuestionLocked", err)
	}

	if err := m.MarkCompleted("q2"); err != nil {
		t.Fatal(err)
	}
	if !m.Accessible(2) {
		t.Fatal("question 2 must unlock after q1 and q2")
	}
}

// TestActivePointerAdvances verifies the active question moves to the
// first incomplete index on each completion.
func TestActivePointerAdvances(t *testing.T) {
	m := threeQuestions()
	if err := m.CompleteBasicInfo("cand-1"); err != nil {
		t.Fatal(err)
	}

	if m.ActiveQuestion() != 0 {
		t.Fatalf("active = %d, want 0", m.ActiveQuestion())
	}
	if err := m.MarkCompleted("q1"); err != nil {
		t.Fatal(err)
	}
	if m.ActiveQuestion() != 1 {
		t.Fatalf("active = %d, want 1", m.ActiveQuestion())
	}
}

// TestCompletionAdvancesToReview verifies all-complete moves to step 3.
func TestCompletionAdvancesToReview(t *testing.T) {
	m := threeQuestions()
	if err := m.CompleteBasicInfo("cand-1"); err != nil {
		t.Fatal(err)
	}

	for _, q := range []string{"q1", "q2", "q3"} {
		if err := m.MarkCompleted(q); err != nil {
			t.Fatalf("MarkCompleted %s: %v", q, err)
		}
	}
	if m.Step() != StepReview {
		t.Fatalf("step = %d, want %d", m.Step(), StepReview)
	}
}

// TestCompletionSetMonotonic verifies ids are never removed short of a
// full reset.
func TestCompletionSetMonotonic(t *testing.T) {
	m := threeQuestions()
	if err := m.CompleteBasicInfo("cand-1"); err != nil {
		t.Fatal(err)
	}
	if err := m.MarkCompleted("q1"); err != nil {
		t.Fatal(err)
	}

	// Re-completing is harmless and keeps the id
	_ = m.MarkCompleted("q1")
	if !m.Completed().Has("q1") {
		t.Fatal("q1 disappeared from the completion set")
	}

	m.Reset()
	if m.Completed().Has("q1") {
		t.Fatal("reset must clear the completion set")
	}
	if m.Step() != StepBasicInfo {
		t.Fatalf("step after reset = %d, want %d", m.Step(), StepBasicInfo)
	}
}

// TestSubmitGuards verifies acknowledgment alone and video alone are
// each insufficient for the terminal state.
func TestSubmitGuards(t *testing.T) {
	m := NewMachine([]string{"q1"})
	if err := m.CompleteBasicInfo("cand-1"); err != nil {
		t.Fatal(err)
	}

	// Review not reached yet
	if err := m.Submit(true, "video.mp4"); !errors.Is(err, ErrQuestionsIncomplete) {
		t.Fatalf("err = %v, want ErrQuestionsIncomplete", err)
	}

	if err := m.MarkCompleted("q1"); err != nil {
		t.Fatal(err)
	}

	if err := m.Submit(false, "video.mp4"); !errors.Is(err, ErrAcknowledgementRequired) {
		t.Fatalf("err = %v, want ErrAcknowledgementRequired", err)
	}
	if err := m.Submit(true, ""); !errors.Is(err, ErrVideoReferenceRequired) {
		t.Fatalf("err = %v, want ErrVideoReferenceRequired", err)
	}
	if m.Submitted() {
		t.Fatal("failed guards must not reach the terminal state")
	}

	if err := m.Submit(true, "video.mp4"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !m.Submitted() {
		t.Fatal("wizard should be submitted")
	}

	// Terminal state is one-way
	if err := m.Submit(true, "video.mp4"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted", err)
	}
	if err := m.MarkCompleted("q1"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted", err)
	}
}

// TestResetExitsTerminalState verifies the only exit from Submitted.
func TestResetExitsTerminalState(t *testing.T) {
	m := NewMachine([]string{"q1"})
	if err := m.CompleteBasicInfo("cand-1"); err != nil {
		t.Fatal(err)
	}
	if err := m.MarkCompleted("q1"); err != nil {
		t.Fatal(err)
	}
	if err := m.Submit(true, "video.mp4"); err != nil {
		t.Fatal(err)
	}

	m.Reset()
	if m.Submitted() {
		t.Fatal("reset must clear the terminal state")
	}
	if m.CandidateID() != "" {
		t.Fatal("reset must clear the candidate id")
	}
}
