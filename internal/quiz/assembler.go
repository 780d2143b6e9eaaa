package quiz

import (
	"context"
	"math/rand"
	"time"

	"github.com/abhisek/quizcraft/internal/spacedrep"
	"github.com/abhisek/quizcraft/internal/store"
)

// weakLevelCeiling is the mastery level below which a question counts as
// weak for error-review selection. Unanswered questions are weak by default.
const weakLevelCeiling = 3

// Request describes one quiz to assemble.
type Request struct {
	Mode           store.QuizMode
	SubjectID      *uint
	TopicID        *uint
	TagIDs         []uint
	MinDifficulty  *int
	MaxDifficulty  *int
	Count          int
	RandomizeOrder bool
	ShuffleChoices bool
}

// Assembler selects and orders questions for a requested quiz mode.
// An empty result is a valid outcome, not an error; callers must check
// before starting a session.
type Assembler struct {
	questions *store.QuestionRepo
	scheduler *spacedrep.Scheduler
	rng       *rand.Rand
}

// NewAssembler creates an assembler. A nil rng gets a time-seeded source;
// tests inject a seeded one for deterministic shuffles.
func NewAssembler(st *store.Store, scheduler *spacedrep.Scheduler, rng *rand.Rand) *Assembler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Assembler{
		questions: st.Questions(),
		scheduler: scheduler,
		rng:       rng,
	}
}

// Build assembles the question list for a quiz request.
//
// Training and Exam draw from the filtered question bank, randomized or in
// stable id order. ErrorReview over-fetches twice the requested count and
// keeps only weak questions (mastery absent or level < 3); the result may
// be shorter than Count when mastered questions dominate the pool — it is
// never padded. SpacedReview delegates to the review queue and honors only
// the subject filter.
func (a *Assembler) Build(ctx context.Context, req Request) ([]store.Question, error) {
	filter := store.QuestionFilter{
		SubjectID:     req.SubjectID,
		TopicID:       req.TopicID,
		TagIDs:        req.TagIDs,
		MinDifficulty: req.MinDifficulty,
		MaxDifficulty: req.MaxDifficulty,
	}

	var questions []store.Question
	var err error

	switch req.Mode {
	case store.ModeErrorReview:
		candidates, ferr := a.questions.GetForQuiz(ctx, filter, req.Count*2, false)
		if ferr != nil {
			return nil, ferr
		}
		for _, q := range candidates {
			if q.Mastery == nil || q.Mastery.Level < weakLevelCeiling {
				questions = append(questions, q)
				if len(questions) == req.Count {
					break
				}
			}
		}
	case store.ModeSpacedReview:
		questions, err = a.scheduler.ReviewQueue(ctx, req.SubjectID, req.Count)
		if err != nil {
			return nil, err
		}
	default:
		questions, err = a.questions.GetForQuiz(ctx, filter, req.Count, req.RandomizeOrder)
		if err != nil {
			return nil, err
		}
	}

	if req.ShuffleChoices {
		for i := range questions {
			a.shuffleChoices(questions[i].Choices)
		}
	}

	return questions, nil
}

// shuffleChoices permutes choices uniformly and renumbers their display
// positions 0..n-1. The correctness flag travels with each choice.
func (a *Assembler) shuffleChoices(choices []store.Choice) {
	a.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	for i := range choices {
		choices[i].Position = i
	}
}
