package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"

	"github.com/abhisek/quizcraft/internal/spacedrep"
	"github.com/abhisek/quizcraft/internal/stats"
	"github.com/abhisek/quizcraft/internal/store"
)

// ErrSessionNotFound reports an operation on an unknown session id. It is a
// caller-recoverable condition, distinct from storage failures.
var ErrSessionNotFound = errors.New("quiz: session not found")

// Service drives a quiz session from start to scored completion. Every
// recorded answer synchronously updates the review schedule, so modes that
// re-query mastery mid-session see fresh state.
type Service struct {
	sessions   *store.SessionRepo
	scheduler  *spacedrep.Scheduler
	aggregator *stats.Aggregator
	now        func() time.Time
}

// NewService creates a session service. A nil now defaults to time.Now.
func NewService(st *store.Store, scheduler *spacedrep.Scheduler, aggregator *stats.Aggregator, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		sessions:   st.Sessions(),
		scheduler:  scheduler,
		aggregator: aggregator,
		now:        now,
	}
}

// StartSession creates and persists a new in-progress session.
// filters is an optional serialized description of the assembly filters,
// kept for history display only.
func (s *Service) StartSession(ctx context.Context, mode store.QuizMode, totalQuestions int, timeLimitSeconds *int, filters datatypes.JSON) (*store.QuizSession, error) {
	session := &store.QuizSession{
		PublicID:         uuid.New().String(),
		Mode:             mode,
		Status:           store.StatusInProgress,
		StartedAt:        s.now().UTC(),
		TotalQuestions:   totalQuestions,
		TimeLimitSeconds: timeLimitSeconds,
		Filters:          filters,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Answer carries one submitted answer.
type Answer struct {
	QuestionID      uint
	Selected        datatypes.JSON
	IsCorrect       bool
	TimeSeconds     int
	MarkedForReview bool
	Position        int
}

// RecordAnswer appends one answered item to a session and immediately
// updates the question's mastery schedule. Callers re-answering during
// backward navigation should use ReplaceAnswer instead.
func (s *Service) RecordAnswer(ctx context.Context, sessionID uint, ans Answer) error {
	item := &store.QuizSessionItem{
		SessionID:       sessionID,
		QuestionID:      ans.QuestionID,
		SelectedAnswer:  ans.Selected,
		IsCorrect:       ans.IsCorrect,
		TimeSeconds:     ans.TimeSeconds,
		MarkedForReview: ans.MarkedForReview,
		Position:        ans.Position,
	}
	if err := s.sessions.AppendItem(ctx, item); err != nil {
		return err
	}
	return s.scheduler.UpdateMastery(ctx, ans.QuestionID, ans.IsCorrect, ans.TimeSeconds)
}

// ReplaceAnswer upserts the answer for (session, question), overwriting a
// prior item for the same question if one exists, then updates mastery.
// This makes the authoritative "current answer" explicit when the same
// question is answered twice in one session.
func (s *Service) ReplaceAnswer(ctx context.Context, sessionID uint, ans Answer) error {
	item := &store.QuizSessionItem{
		SessionID:       sessionID,
		QuestionID:      ans.QuestionID,
		SelectedAnswer:  ans.Selected,
		IsCorrect:       ans.IsCorrect,
		TimeSeconds:     ans.TimeSeconds,
		MarkedForReview: ans.MarkedForReview,
		Position:        ans.Position,
	}
	if err := s.sessions.ReplaceItem(ctx, item); err != nil {
		return err
	}
	return s.scheduler.UpdateMastery(ctx, ans.QuestionID, ans.IsCorrect, ans.TimeSeconds)
}

// FinishSession completes a session: sets the final status, scores it and
// records today's study activity for streak tracking. Returns the updated
// session, or ErrSessionNotFound for an unknown id.
func (s *Service) FinishSession(ctx context.Context, sessionID uint) (*store.QuizSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrapf(ErrSessionNotFound, "session %d", sessionID)
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	correct := 0
	for _, item := range session.Items {
		if item.IsCorrect {
			correct++
		}
	}

	session.Status = store.StatusCompleted
	session.EndedAt = &now
	session.CorrectCount = correct
	session.DurationSeconds = int(now.Sub(session.StartedAt).Seconds())

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	if err := s.aggregator.RecordStudyDay(ctx, len(session.Items), correct, session.DurationSeconds); err != nil {
		return nil, err
	}

	return session, nil
}

// Abandon marks an in-progress session as abandoned. No scoring happens;
// already-recorded answers keep their mastery effects.
func (s *Service) Abandon(ctx context.Context, sessionID uint) error {
	err := s.sessions.SetStatus(ctx, sessionID, store.StatusAbandoned)
	if errors.Is(err, store.ErrNotFound) {
		return errors.Wrapf(ErrSessionNotFound, "session %d", sessionID)
	}
	return err
}

// Pause marks an in-progress session as paused. Pausing is a status flag
// only; there is no special handling of in-flight work.
func (s *Service) Pause(ctx context.Context, sessionID uint) error {
	err := s.sessions.SetStatus(ctx, sessionID, store.StatusPaused)
	if errors.Is(err, store.ErrNotFound) {
		return errors.Wrapf(ErrSessionNotFound, "session %d", sessionID)
	}
	return err
}
