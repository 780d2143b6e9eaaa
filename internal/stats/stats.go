package stats

import (
	"context"
	"sort"
	"time"

	"github.com/abhisek/quizcraft/internal/spacedrep"
	"github.com/abhisek/quizcraft/internal/store"
)

// streakLookback caps how many daily records the streak walk examines.
const streakLookback = 60

// weakTopicMinAttempts is the sample-size floor below which a topic is not
// ranked as weak.
const weakTopicMinAttempts = 3

// Dashboard is the consolidated metric set shown on the dashboard.
type Dashboard struct {
	TotalQuestions   int64
	QuestionsStudied int64
	Accuracy7d       float64
	Accuracy30d      float64
	AvgTimeSeconds   float64
	CurrentStreak    int
	TotalSessions    int64
	DueForReview     int64
}

// TopicPerformance is accuracy over all completed-session answers for one topic.
type TopicPerformance struct {
	TopicName     string
	SubjectName   string
	Accuracy      float64
	TotalAttempts int
}

// DailyPerformance is accuracy and volume for one calendar day.
type DailyPerformance struct {
	Date              time.Time
	Accuracy          float64
	QuestionsAnswered int
}

// Aggregator computes dashboard metrics from historical session data and
// records per-day study activity. Reads race benignly with in-progress
// writes; isolation is whatever the storage layer provides.
type Aggregator struct {
	questions *store.QuestionRepo
	sessions  *store.SessionRepo
	streaks   *store.StreakRepo
	scheduler *spacedrep.Scheduler
	now       func() time.Time
}

// NewAggregator creates an aggregator. A nil now defaults to time.Now.
func NewAggregator(st *store.Store, scheduler *spacedrep.Scheduler, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		questions: st.Questions(),
		sessions:  st.Sessions(),
		streaks:   st.Streaks(),
		scheduler: scheduler,
		now:       now,
	}
}

// Dashboard computes the consolidated dashboard metrics.
func (a *Aggregator) Dashboard(ctx context.Context) (*Dashboard, error) {
	totalQuestions, err := a.questions.Count(ctx)
	if err != nil {
		return nil, err
	}
	studied, err := a.sessions.DistinctQuestionsStudied(ctx)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	acc7, err := a.accuracySince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	acc30, err := a.accuracySince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	avgTime, err := a.sessions.AverageItemTime(ctx)
	if err != nil {
		return nil, err
	}
	streak, err := a.CurrentStreak(ctx)
	if err != nil {
		return nil, err
	}
	totalSessions, err := a.sessions.CountCompleted(ctx)
	if err != nil {
		return nil, err
	}
	due, err := a.scheduler.DueCount(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalQuestions:   totalQuestions,
		QuestionsStudied: studied,
		Accuracy7d:       acc7,
		Accuracy30d:      acc30,
		AvgTimeSeconds:   avgTime,
		CurrentStreak:    streak,
		TotalSessions:    totalSessions,
		DueForReview:     due,
	}, nil
}

// WeakestTopics ranks topics by ascending accuracy over completed sessions,
// skipping topics with fewer than three recorded attempts so that tiny
// samples don't rank as weak.
func (a *Aggregator) WeakestTopics(ctx context.Context, count int) ([]TopicPerformance, error) {
	all, err := a.PerformanceByTopic(ctx, nil)
	if err != nil {
		return nil, err
	}
	var weak []TopicPerformance
	for _, p := range all {
		if p.TotalAttempts >= weakTopicMinAttempts {
			weak = append(weak, p)
		}
	}
	if len(weak) > count {
		weak = weak[:count]
	}
	return weak, nil
}

// PerformanceByTopic groups completed-session answers by topic and returns
// per-topic accuracy, weakest first, optionally scoped to one subject.
func (a *Aggregator) PerformanceByTopic(ctx context.Context, subjectID *uint) ([]TopicPerformance, error) {
	rows, err := a.sessions.CompletedItemsByTopic(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		subject string
		total   int
		correct int
	}
	buckets := make(map[string]*bucket)
	for _, row := range rows {
		b := buckets[row.TopicName]
		if b == nil {
			b = &bucket{subject: row.SubjectName}
			buckets[row.TopicName] = b
		}
		b.total++
		if row.IsCorrect {
			b.correct++
		}
	}

	result := make([]TopicPerformance, 0, len(buckets))
	for name, b := range buckets {
		result = append(result, TopicPerformance{
			TopicName:     name,
			SubjectName:   b.subject,
			Accuracy:      percentage(b.correct, b.total),
			TotalAttempts: b.total,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Accuracy != result[j].Accuracy {
			return result[i].Accuracy < result[j].Accuracy
		}
		return result[i].TopicName < result[j].TopicName
	})
	return result, nil
}

// DailyPerformance groups completed-session answers of the trailing days
// (from midnight UTC) by calendar date, ascending.
func (a *Aggregator) DailyPerformance(ctx context.Context, days int) ([]DailyPerformance, error) {
	from := store.DayOf(a.now()).AddDate(0, 0, -days)
	rows, err := a.sessions.CompletedItemsSince(ctx, from)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		total   int
		correct int
	}
	buckets := make(map[time.Time]*bucket)
	for _, row := range rows {
		day := store.DayOf(row.StartedAt)
		b := buckets[day]
		if b == nil {
			b = &bucket{}
			buckets[day] = b
		}
		b.total++
		if row.IsCorrect {
			b.correct++
		}
	}

	result := make([]DailyPerformance, 0, len(buckets))
	for day, b := range buckets {
		result = append(result, DailyPerformance{
			Date:              day,
			Accuracy:          percentage(b.correct, b.total),
			QuestionsAnswered: b.total,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// RecordStudyDay accumulates today's study activity. Sessions finishing on
// the same UTC day add up rather than overwrite.
func (a *Aggregator) RecordStudyDay(ctx context.Context, questionsAnswered, correctAnswers, timeSeconds int) error {
	return a.streaks.UpsertDay(ctx, a.now(), questionsAnswered, correctAnswers, timeSeconds)
}

// CurrentStreak counts consecutive days of study ending today or yesterday.
// The first counted record may be today or yesterday (the user may simply
// not have studied yet today); each subsequent record must be exactly one
// day before the previously counted date.
func (a *Aggregator) CurrentStreak(ctx context.Context) (int, error) {
	days, err := a.streaks.Recent(ctx, streakLookback)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	// The newest record may be today or yesterday; after that, each record
	// must be exactly one day before the previously counted date.
	first := store.DayOf(days[0].Date)
	today := store.DayOf(a.now())
	if !first.Equal(today) && !first.Equal(today.AddDate(0, 0, -1)) {
		return 0, nil
	}

	streak := 1
	expected := first.AddDate(0, 0, -1)
	for _, day := range days[1:] {
		d := store.DayOf(day.Date)
		if !d.Equal(expected) {
			break
		}
		streak++
		expected = d.AddDate(0, 0, -1)
	}
	return streak, nil
}

// accuracySince computes percent-correct over completed-session answers
// whose session started on or after from. Zero when there are no answers.
func (a *Aggregator) accuracySince(ctx context.Context, from time.Time) (float64, error) {
	rows, err := a.sessions.CompletedItemsSince(ctx, from)
	if err != nil {
		return 0, err
	}
	correct := 0
	for _, row := range rows {
		if row.IsCorrect {
			correct++
		}
	}
	return percentage(correct, len(rows)), nil
}

func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
