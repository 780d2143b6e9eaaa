package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/quizcraft/internal/spacedrep"
	"github.com/abhisek/quizcraft/internal/stats"
	"github.com/abhisek/quizcraft/internal/store"
)

func testService(t *testing.T, now *time.Time) (*store.Store, *Service) {
	t.Helper()
	s := testStore(t)
	clock := func() time.Time { return *now }
	sched := spacedrep.NewScheduler(s, spacedrep.DefaultConfig(), clock)
	agg := stats.NewAggregator(s, sched, clock)
	return s, NewService(s, sched, agg, clock)
}

func TestStartSession(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	_, svc := testService(t, &now)

	limit := 600
	session, err := svc.StartSession(context.Background(), store.ModeExam, 10, &limit, nil)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if session.ID == 0 {
		t.Error("expected a persisted id")
	}
	if session.PublicID == "" {
		t.Error("expected a public id")
	}
	if session.Status != store.StatusInProgress {
		t.Errorf("status = %q, want %q", session.Status, store.StatusInProgress)
	}
	if !session.StartedAt.Equal(now) {
		t.Errorf("started at = %v, want %v", session.StartedAt, now)
	}
}

func TestRecordAnswer_UpdatesMasteryImmediately(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s, svc := testService(t, &now)
	ids := seedQuestions(t, s, 1)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, store.ModeTraining, 1, nil, nil)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	err = svc.RecordAnswer(ctx, session.ID, Answer{
		QuestionID:  ids[0],
		IsCorrect:   true,
		TimeSeconds: 9,
		Position:    0,
	})
	if err != nil {
		t.Fatalf("record answer: %v", err)
	}

	// Mastery must be updated synchronously, not at session finish.
	m, err := s.Masteries().GetByQuestion(ctx, ids[0])
	if err != nil {
		t.Fatalf("get mastery: %v", err)
	}
	if m == nil {
		t.Fatal("expected mastery record right after the answer")
	}
	if m.Level != 1 {
		t.Errorf("level = %d, want 1", m.Level)
	}
}

func TestFinishSession_ScoresAndRecordsStudyDay(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s, svc := testService(t, &now)
	ids := seedQuestions(t, s, 3)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, store.ModeTraining, 3, nil, nil)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	answers := []bool{true, true, false}
	for i, correct := range answers {
		err := svc.RecordAnswer(ctx, session.ID, Answer{
			QuestionID:  ids[i],
			IsCorrect:   correct,
			TimeSeconds: 10,
			Position:    i,
		})
		if err != nil {
			t.Fatalf("record answer %d: %v", i, err)
		}
	}

	now = now.Add(90 * time.Second)
	finished, err := svc.FinishSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("finish session: %v", err)
	}

	if finished.Status != store.StatusCompleted {
		t.Errorf("status = %q, want %q", finished.Status, store.StatusCompleted)
	}
	if finished.CorrectCount != 2 {
		t.Errorf("correct count = %d, want 2", finished.CorrectCount)
	}
	if finished.DurationSeconds != 90 {
		t.Errorf("duration = %d, want 90", finished.DurationSeconds)
	}
	if finished.EndedAt == nil || !finished.EndedAt.Equal(now) {
		t.Errorf("ended at = %v, want %v", finished.EndedAt, now)
	}

	// Finishing must record today's study activity.
	days, err := s.Streaks().Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent streaks: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("streak records = %d, want 1", len(days))
	}
	if days[0].QuestionsAnswered != 3 || days[0].CorrectAnswers != 2 || days[0].StudyTimeSeconds != 90 {
		t.Errorf("study day = (%d,%d,%d), want (3,2,90)",
			days[0].QuestionsAnswered, days[0].CorrectAnswers, days[0].StudyTimeSeconds)
	}
}

func TestFinishSession_UnknownID(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	_, svc := testService(t, &now)

	_, err := svc.FinishSession(context.Background(), 9999)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestAbandonAndPause(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s, svc := testService(t, &now)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, store.ModeTraining, 1, nil, nil)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	if err := svc.Pause(ctx, session.ID); err != nil {
		t.Fatalf("pause: %v", err)
	}
	got, err := s.Sessions().Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Status != store.StatusPaused {
		t.Errorf("status = %q, want %q", got.Status, store.StatusPaused)
	}

	if err := svc.Abandon(ctx, session.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if err := svc.Abandon(ctx, 9999); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("abandon unknown: err = %v, want ErrSessionNotFound", err)
	}
}
