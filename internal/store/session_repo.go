package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SessionRepo persists quiz sessions and their answered items.
type SessionRepo struct {
	db *gorm.DB
}

// Create persists a new session.
func (r *SessionRepo) Create(ctx context.Context, s *QuizSession) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return errors.Wrap(err, "create session")
	}
	return nil
}

// Get loads a session with its items in presentation order.
// Returns ErrNotFound for an unknown id.
func (r *SessionRepo) Get(ctx context.Context, id uint) (*QuizSession, error) {
	var s QuizSession
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_session_items.position")
		}).
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	return &s, nil
}

// Update persists changes to a session's own columns (not its items).
func (r *SessionRepo) Update(ctx context.Context, s *QuizSession) error {
	if err := r.db.WithContext(ctx).Omit("Items").Save(s).Error; err != nil {
		return errors.Wrap(err, "update session")
	}
	return nil
}

// SetStatus updates only the lifecycle status of a session. Used for the
// externally driven Abandoned/Paused transitions.
func (r *SessionRepo) SetStatus(ctx context.Context, id uint, status SessionStatus) error {
	res := r.db.WithContext(ctx).Model(&QuizSession{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return errors.Wrap(res.Error, "set session status")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendItem adds one answered item to a session.
func (r *SessionRepo) AppendItem(ctx context.Context, item *QuizSessionItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "append session item")
	}
	return nil
}

// ReplaceItem upserts the item for (session, question): if the question was
// already answered in this session the existing row is overwritten in
// place, otherwise the item is appended. Used when the caller navigates
// back and re-answers.
func (r *SessionRepo) ReplaceItem(ctx context.Context, item *QuizSessionItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing QuizSessionItem
		err := tx.Where("session_id = ? AND question_id = ?", item.SessionID, item.QuestionID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(item).Error
		}
		if err != nil {
			return err
		}
		item.ID = existing.ID
		return tx.Save(item).Error
	})
	if err != nil {
		return errors.Wrap(err, "replace session item")
	}
	return nil
}

// CountCompleted returns the number of completed sessions.
func (r *SessionRepo) CountCompleted(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&QuizSession{}).
		Where("status = ?", StatusCompleted).
		Count(&n).Error
	if err != nil {
		return 0, errors.Wrap(err, "count completed sessions")
	}
	return n, nil
}

// DistinctQuestionsStudied counts distinct questions that appear in any
// session item, regardless of session status.
func (r *SessionRepo) DistinctQuestionsStudied(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&QuizSessionItem{}).
		Distinct("question_id").
		Count(&n).Error
	if err != nil {
		return 0, errors.Wrap(err, "count studied questions")
	}
	return n, nil
}

// AverageItemTime returns the mean time per answered item across completed
// sessions, in seconds. Zero when there are no items.
func (r *SessionRepo) AverageItemTime(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&QuizSessionItem{}).
		Joins("JOIN quiz_sessions ON quiz_sessions.id = quiz_session_items.session_id").
		Where("quiz_sessions.status = ?", StatusCompleted).
		Select("AVG(quiz_session_items.time_seconds)").
		Scan(&avg).Error
	if err != nil {
		return 0, errors.Wrap(err, "average item time")
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// CompletedItemsSince returns items of completed sessions whose session
// started on or after from, with the session start time attached.
func (r *SessionRepo) CompletedItemsSince(ctx context.Context, from time.Time) ([]ItemWithStart, error) {
	var rows []ItemWithStart
	err := r.db.WithContext(ctx).Model(&QuizSessionItem{}).
		Joins("JOIN quiz_sessions ON quiz_sessions.id = quiz_session_items.session_id").
		Where("quiz_sessions.status = ? AND quiz_sessions.started_at >= ?", StatusCompleted, from).
		Select("quiz_session_items.is_correct, quiz_sessions.started_at").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "completed items since")
	}
	return rows, nil
}

// ItemWithStart is a projection of one answered item joined with its
// session's start time, used by the statistics aggregator.
type ItemWithStart struct {
	IsCorrect bool
	StartedAt time.Time
}

// TopicItem is a projection of one answered item joined with its topic and
// subject labels, used for per-topic performance grouping.
type TopicItem struct {
	TopicName   string
	SubjectName string
	IsCorrect   bool
}

// CompletedItemsByTopic returns items of completed sessions labeled with
// topic and subject names, optionally scoped to one subject.
func (r *SessionRepo) CompletedItemsByTopic(ctx context.Context, subjectID *uint) ([]TopicItem, error) {
	tx := r.db.WithContext(ctx).Model(&QuizSessionItem{}).
		Joins("JOIN quiz_sessions ON quiz_sessions.id = quiz_session_items.session_id").
		Joins("JOIN questions ON questions.id = quiz_session_items.question_id").
		Joins("JOIN topics ON topics.id = questions.topic_id").
		Joins("JOIN subjects ON subjects.id = topics.subject_id").
		Where("quiz_sessions.status = ?", StatusCompleted).
		Select("topics.name AS topic_name, subjects.name AS subject_name, quiz_session_items.is_correct")

	if subjectID != nil {
		tx = tx.Where("topics.subject_id = ?", *subjectID)
	}

	var rows []TopicItem
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "completed items by topic")
	}
	return rows, nil
}
