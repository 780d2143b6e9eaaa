package store

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionType identifies how a question is answered.
type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeTrueFalse    QuestionType = "true_false"
	TypeShortAnswer  QuestionType = "short_answer"
	TypeMultiSelect  QuestionType = "multi_select"
)

// QuizMode selects how a quiz is assembled and scored.
type QuizMode string

const (
	ModeTraining     QuizMode = "training"
	ModeExam         QuizMode = "exam"
	ModeErrorReview  QuizMode = "error_review"
	ModeSpacedReview QuizMode = "spaced_review"
)

// SessionStatus is the lifecycle state of a quiz session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
	StatusPaused     SessionStatus = "paused"
)

// Subject groups topics under one discipline.
type Subject struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null;uniqueIndex"`
	Description string
	Color       string
	CreatedAt   time.Time

	Topics []Topic `gorm:"constraint:OnDelete:CASCADE"`
}

// Topic is a subdivision of a subject; every question belongs to one topic.
type Topic struct {
	ID        uint   `gorm:"primaryKey"`
	SubjectID uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time

	Subject   *Subject   `gorm:"constraint:OnDelete:CASCADE"`
	Questions []Question `gorm:"constraint:OnDelete:CASCADE"`
}

// Tag is a free-form label attached to questions for filtering.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null;uniqueIndex"`
}

// Question is one study item. Choices and the mastery record are owned by
// the question and are removed with it.
type Question struct {
	ID          uint         `gorm:"primaryKey"`
	TopicID     uint         `gorm:"not null;index"`
	Type        QuestionType `gorm:"not null;default:single_choice"`
	Statement   string       `gorm:"not null"`
	Explanation string
	Difficulty  int `gorm:"not null;default:1"`
	Source      string
	ImagePath   string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Topic   *Topic   `gorm:"constraint:OnDelete:CASCADE"`
	Choices []Choice `gorm:"constraint:OnDelete:CASCADE"`
	Tags    []Tag    `gorm:"many2many:question_tags;constraint:OnDelete:CASCADE"`
	Mastery *Mastery `gorm:"constraint:OnDelete:CASCADE"`
}

// Choice is one answer option of a question. Position is the 0-based
// display order; it is renumbered when choices are shuffled.
type Choice struct {
	ID         uint   `gorm:"primaryKey"`
	QuestionID uint   `gorm:"not null;index"`
	Text       string `gorm:"not null"`
	IsCorrect  bool   `gorm:"not null"`
	Position   int    `gorm:"not null"`
}

// Mastery tracks long-term retention of one question. Created lazily on the
// first recorded answer; level stays within [0, 5] and NextReviewAt is
// always set after an update.
type Mastery struct {
	ID            uint      `gorm:"primaryKey"`
	QuestionID    uint      `gorm:"not null;uniqueIndex"`
	Level         int       `gorm:"not null;default:0"`
	NextReviewAt  time.Time `gorm:"not null;index"`
	LastAttemptAt *time.Time
	RightStreak   int `gorm:"not null;default:0"`
	WrongStreak   int `gorm:"not null;default:0"`
	TotalAttempts int `gorm:"not null;default:0"`
	TotalCorrect  int `gorm:"not null;default:0"`
}

// QuizSession is one quiz attempt from start to completion.
type QuizSession struct {
	ID               uint          `gorm:"primaryKey"`
	PublicID         string        `gorm:"size:36;uniqueIndex"`
	Mode             QuizMode      `gorm:"not null"`
	Status           SessionStatus `gorm:"not null;default:in_progress;index"`
	StartedAt        time.Time     `gorm:"not null;index"`
	EndedAt          *time.Time
	TotalQuestions   int `gorm:"not null"`
	CorrectCount     int `gorm:"not null;default:0"`
	DurationSeconds  int `gorm:"not null;default:0"`
	TimeLimitSeconds *int
	Filters          datatypes.JSON

	Items []QuizSessionItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// QuizSessionItem records one answered question within a session.
// Immutable once the session is finalized.
type QuizSessionItem struct {
	ID              uint `gorm:"primaryKey"`
	SessionID       uint `gorm:"not null;index"`
	QuestionID      uint `gorm:"not null;index"`
	SelectedAnswer  datatypes.JSON
	IsCorrect       bool `gorm:"not null"`
	TimeSeconds     int  `gorm:"not null;default:0"`
	MarkedForReview bool `gorm:"not null;default:false"`
	Position        int  `gorm:"not null"`

	Question *Question `gorm:"constraint:OnDelete:CASCADE"`
}

// StudyStreak accumulates study activity for one UTC calendar day.
type StudyStreak struct {
	ID                uint      `gorm:"primaryKey"`
	Date              time.Time `gorm:"not null;uniqueIndex"`
	QuestionsAnswered int       `gorm:"not null;default:0"`
	CorrectAnswers    int       `gorm:"not null;default:0"`
	StudyTimeSeconds  int       `gorm:"not null;default:0"`
}

// DayOf truncates t to its UTC calendar day, the key used by StudyStreak.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
