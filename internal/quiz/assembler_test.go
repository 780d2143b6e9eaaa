package quiz

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/quizcraft/internal/spacedrep"
	"github.com/abhisek/quizcraft/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedQuestions creates n questions under one subject/topic and returns their ids.
func seedQuestions(t *testing.T, s *store.Store, n int) []uint {
	t.Helper()
	subject := store.Subject{Name: "Math"}
	if err := s.DB().Create(&subject).Error; err != nil {
		t.Fatalf("create subject: %v", err)
	}
	topic := store.Topic{SubjectID: subject.ID, Name: "Algebra"}
	if err := s.DB().Create(&topic).Error; err != nil {
		t.Fatalf("create topic: %v", err)
	}

	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		q := store.Question{
			TopicID:    topic.ID,
			Statement:  "q",
			Difficulty: 1,
			Choices: []store.Choice{
				{Text: "a", IsCorrect: true, Position: 0},
				{Text: "b", Position: 1},
				{Text: "c", Position: 2},
				{Text: "d", Position: 3},
			},
		}
		if err := s.Questions().Create(context.Background(), &q); err != nil {
			t.Fatalf("create question: %v", err)
		}
		ids = append(ids, q.ID)
	}
	return ids
}

func setLevel(t *testing.T, s *store.Store, questionID uint, level int) {
	t.Helper()
	m := store.Mastery{QuestionID: questionID, Level: level, NextReviewAt: time.Now().UTC()}
	if err := s.Masteries().Save(context.Background(), &m); err != nil {
		t.Fatalf("save mastery: %v", err)
	}
}

func TestBuild_ErrorReviewSkipsMastered(t *testing.T) {
	s := testStore(t)
	ids := seedQuestions(t, s, 7)
	ctx := context.Background()

	// Three questions mastered (level >= 3), two weak, two never answered.
	setLevel(t, s, ids[0], 3)
	setLevel(t, s, ids[1], 4)
	setLevel(t, s, ids[2], 5)
	setLevel(t, s, ids[3], 0)
	setLevel(t, s, ids[4], 2)

	sched := spacedrep.NewScheduler(s, spacedrep.DefaultConfig(), nil)
	a := NewAssembler(s, sched, rand.New(rand.NewSource(1)))

	got, err := a.Build(ctx, Request{Mode: store.ModeErrorReview, Count: 5})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4 (the eligible pool, never padded)", len(got))
	}
	for _, q := range got {
		if q.Mastery != nil && q.Mastery.Level >= 3 {
			t.Errorf("question %d has level %d, mastered questions must be excluded", q.ID, q.Mastery.Level)
		}
	}
}

func TestBuild_ErrorReviewTruncatesToCount(t *testing.T) {
	s := testStore(t)
	seedQuestions(t, s, 6) // all unanswered, hence all weak

	sched := spacedrep.NewScheduler(s, spacedrep.DefaultConfig(), nil)
	a := NewAssembler(s, sched, rand.New(rand.NewSource(1)))

	got, err := a.Build(context.Background(), Request{Mode: store.ModeErrorReview, Count: 4})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
}

func TestBuild_SpacedReviewDelegatesToQueue(t *testing.T) {
	s := testStore(t)
	ids := seedQuestions(t, s, 3)
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// Only ids[1] is due.
	m := store.Mastery{QuestionID: ids[1], Level: 1, NextReviewAt: now.Add(-time.Hour)}
	if err := s.Masteries().Save(ctx, &m); err != nil {
		t.Fatalf("save mastery: %v", err)
	}

	sched := spacedrep.NewScheduler(s, spacedrep.DefaultConfig(), func() time.Time { return now })
	a := NewAssembler(s, sched, rand.New(rand.NewSource(1)))

	got, err := a.Build(ctx, Request{Mode: store.ModeSpacedReview, Count: 10})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(got) != 1 || got[0].ID != ids[1] {
		t.Fatalf("got %d questions, want exactly the due one (%d)", len(got), ids[1])
	}
}

func TestBuild_EmptyResultIsNotAnError(t *testing.T) {
	s := testStore(t)
	sched := spacedrep.NewScheduler(s, spacedrep.DefaultConfig(), nil)
	a := NewAssembler(s, sched, rand.New(rand.NewSource(1)))

	got, err := a.Build(context.Background(), Request{Mode: store.ModeTraining, Count: 10})
	if err != nil {
		t.Fatalf("build on empty bank: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestBuild_ShuffleChoicesKeepsCorrectnessAndRenumbers(t *testing.T) {
	s := testStore(t)
	seedQuestions(t, s, 3)

	sched := spacedrep.NewScheduler(s, spacedrep.DefaultConfig(), nil)
	a := NewAssembler(s, sched, rand.New(rand.NewSource(42)))

	got, err := a.Build(context.Background(), Request{
		Mode:           store.ModeTraining,
		Count:          3,
		ShuffleChoices: true,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, q := range got {
		correct := 0
		for i, c := range q.Choices {
			if c.Position != i {
				t.Errorf("question %d: choice at index %d has position %d", q.ID, i, c.Position)
			}
			if c.IsCorrect {
				correct++
				if c.Text != "a" {
					t.Errorf("question %d: correctness flag moved to %q", q.ID, c.Text)
				}
			}
		}
		if correct != 1 {
			t.Errorf("question %d: %d correct choices after shuffle, want 1", q.ID, correct)
		}
	}
}
