package portal

import (
	"context"
	"errors"
	"fmt"

	"intake_backend/internal/capture"
	"intake_backend/internal/logger"
	"intake_backend/internal/models"
	"intake_backend/internal/submission"
	"intake_backend/internal/wizard"
)

// Session drives one candidate through the whole intake flow. It owns
// the wizard state machine, the capture controller and the per-question
// upload tracker, and talks to the server through the Client.
type Session struct {
	client    *Client
	capture   *capture.Controller
	wizard    *wizard.Machine
	tracker   *submission.Tracker
	candidate *models.Candidate
	questions []models.Question
}

// NewSession fetches the question sequence and builds the session state.
func NewSession(ctx context.Context, client *Client, source capture.DeviceSource, maxVideoSize int64) (*Session, error) {
	questions, err := client.Questions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	return &Session{
		client:    client,
		capture:   capture.NewController(source),
		wizard:    wizard.NewMachine(ids),
		tracker:   submission.NewTracker(maxVideoSize),
		questions: questions,
	}, nil
}

// Wizard exposes the state machine for read access.
func (s *Session) Wizard() *wizard.Machine { return s.wizard }

// Capture exposes the media controller.
func (s *Session) Capture() *capture.Controller { return s.capture }

// Tracker exposes the per-question upload tracker.
func (s *Session) Tracker() *submission.Tracker { return s.tracker }

// Candidate returns the last server-confirmed candidate record.
func (s *Session) Candidate() *models.Candidate { return s.candidate }

// Questions returns the ordered question sequence for this session.
func (s *Session) Questions() []models.Question { return s.questions }

// SubmitBasicInfo runs step 1. On an email collision without override
// the caller receives ErrOverrideRequired, confirms with the user and
// calls again with override=true.
func (s *Session) SubmitBasicInfo(ctx context.Context, name, email, mobile, resumeName string, resumeData []byte, override bool) error {
	candidate, err := s.client.SubmitBasicInfo(ctx, name, email, mobile, resumeName, resumeData, override)
	if err != nil {
		return err
	}

	s.candidate = candidate
	return s.wizard.CompleteBasicInfo(candidate.ID)
}

// FinishRecording stops the active recording, normalizes the clip via
// the conversion endpoint and stages it for the question. Conversion is
// best-effort: on failure the original bytes are staged under the MP4
// label with Converted=false, never blocking the user.
func (s *Session) FinishRecording(ctx context.Context, questionID string) error {
	clip, err := s.capture.StopRecording()
	if err != nil {
		return err
	}
	if len(clip.Data) == 0 {
		return submission.ErrEmptyClip
	}

	converted := true
	data, err := s.client.ConvertVideo(ctx, "recording.webm", clip.Data)
	if err != nil {
		logger.CtxWarn(ctx, "conversion failed, falling back to original clip", "question_id", questionID, "error", err.Error())
		data = clip.Data
		converted = false
	}

	return s.tracker.StageRecorded(questionID, data, converted)
}

// StageUpload stages a picked MP4 file for the question. Switching from
// a recorded clip discards it and releases the device.
func (s *Session) StageUpload(questionID, filename string, data []byte, mimeType string) error {
	if err := s.tracker.StageUpload(questionID, filename, data, mimeType); err != nil {
		return err
	}
	s.capture.ReleaseDevice()
	return nil
}

// SubmitQuestion uploads the staged artifact. On success the question
// joins the completion set, its artifact is cleared, the device is
// released and the wizard advances. On failure the artifact stays
// Pending for a retry.
func (s *Session) SubmitQuestion(ctx context.Context, questionID string) error {
	if s.candidate == nil {
		return wizard.ErrCandidateRequired
	}

	artifact, err := s.tracker.Begin(questionID)
	if err != nil {
		return err
	}

	videoURL, err := s.client.UploadVideo(ctx, s.candidate.ID, artifact.Filename, artifact.Data, artifact.MimeType)
	if err != nil {
		if failErr := s.tracker.Fail(questionID); failErr != nil {
			logger.CtxError(ctx, "failed to roll back upload state", "question_id", questionID, "error", failErr.Error())
		}
		return fmt.Errorf("upload video: %w", err)
	}

	if err := s.tracker.Complete(questionID); err != nil {
		return err
	}
	if err := s.wizard.MarkCompleted(questionID); err != nil {
		return err
	}

	s.capture.ReleaseDevice()
	logger.CtxInfo(ctx, "question submitted", "question_id", questionID, "video_url", videoURL)
	return nil
}

// FinalizeReview re-fetches the candidate record (never trusting stale
// local state), runs the wizard's terminal guards and posts the final
// submission.
func (s *Session) FinalizeReview(ctx context.Context, acknowledged bool) error {
	if s.candidate == nil {
		return wizard.ErrCandidateRequired
	}

	fresh, err := s.client.LookupCandidate(ctx, s.candidate.ID, "")
	if err != nil {
		return fmt.Errorf("refresh candidate: %w", err)
	}
	s.candidate = fresh

	if err := s.wizard.CheckSubmit(acknowledged, fresh.VideoPath); err != nil {
		return err
	}

	if err := s.client.FinalSubmit(ctx, fresh.ID); err != nil {
		// Wizard stays in review so the user can retry
		return fmt.Errorf("final submit: %w", err)
	}

	return s.wizard.Submit(acknowledged, fresh.VideoPath)
}

// Reset discards all in-session transient state: wizard back to step 1,
// upload tracker cleared, device released. The persisted candidate
// record is untouched.
func (s *Session) Reset() {
	s.wizard.Reset()
	s.tracker.Reset()
	s.capture.ReleaseDevice()
	s.candidate = nil
}

// IsConflict reports whether an error is the email-collision signal.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOverrideRequired)
}
