package spacedrep

import (
	"context"
	"time"

	"github.com/abhisek/quizcraft/internal/store"
)

// Scheduler owns per-question mastery state and decides when each question
// should be reviewed next. All mutations of mastery records go through it.
type Scheduler struct {
	cfg       Config
	masteries *store.MasteryRepo
	questions *store.QuestionRepo
	now       func() time.Time
}

// NewScheduler creates a scheduler over the given store. A nil now defaults
// to time.Now; tests inject a fixed clock.
func NewScheduler(st *store.Store, cfg Config, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		cfg:       cfg,
		masteries: st.Masteries(),
		questions: st.Questions(),
		now:       now,
	}
}

// UpdateMastery records the outcome of one answer for a question, creating
// the mastery record on the first attempt. It advances or demotes the level,
// maintains the right/wrong streaks and reschedules the next review.
func (s *Scheduler) UpdateMastery(ctx context.Context, questionID uint, correct bool, timeSeconds int) error {
	m, err := s.masteries.GetByQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if m == nil {
		m = &store.Mastery{QuestionID: questionID}
	}

	now := s.now().UTC()
	m.TotalAttempts++
	m.LastAttemptAt = &now

	if correct {
		m.TotalCorrect++
		m.RightStreak++
		m.WrongStreak = 0
	} else {
		m.WrongStreak++
		m.RightStreak = 0
	}
	m.Level = NextLevel(m.Level, correct)
	m.NextReviewAt = s.cfg.NextReview(m.Level, correct, now)

	return s.masteries.Save(ctx, m)
}

// ReviewQueue returns up to limit questions due for review, soonest-due
// first, optionally restricted to one subject. Questions never answered are
// not due.
func (s *Scheduler) ReviewQueue(ctx context.Context, subjectID *uint, limit int) ([]store.Question, error) {
	return s.questions.GetDueForReview(ctx, s.now().UTC(), subjectID, limit)
}

// DueCount returns the number of questions currently due for review.
func (s *Scheduler) DueCount(ctx context.Context, subjectID *uint) (int64, error) {
	return s.questions.CountDue(ctx, s.now().UTC(), subjectID)
}
