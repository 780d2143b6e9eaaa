package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// QuestionFilter narrows question queries. Nil/zero fields are ignored.
type QuestionFilter struct {
	SubjectID     *uint
	TopicID       *uint
	TagIDs        []uint
	MinDifficulty *int
	MaxDifficulty *int
	Search        string
}

// QuestionRepo provides question persistence and the specialized queries
// used by quiz assembly and review scheduling.
type QuestionRepo struct {
	db *gorm.DB
}

// Create persists a question together with its owned choices.
func (r *QuestionRepo) Create(ctx context.Context, q *Question) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return errors.Wrap(err, "create question")
	}
	return nil
}

// Update persists changes to a question and its choices.
func (r *QuestionRepo) Update(ctx context.Context, q *Question) error {
	if err := r.db.WithContext(ctx).Save(q).Error; err != nil {
		return errors.Wrap(err, "update question")
	}
	return nil
}

// Delete removes a question; choices, mastery and session item references
// cascade at the database level.
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&Question{}, id).Error; err != nil {
		return errors.Wrap(err, "delete question")
	}
	return nil
}

// GetWithDetails loads one question with ordered choices, tags, topic,
// subject and mastery state. Returns ErrNotFound for an unknown id.
func (r *QuestionRepo) GetWithDetails(ctx context.Context, id uint) (*Question, error) {
	var q Question
	err := r.db.WithContext(ctx).
		Preload("Choices", orderChoices).
		Preload("Tags").
		Preload("Topic.Subject").
		Preload("Mastery").
		First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get question")
	}
	return &q, nil
}

// GetByTopic returns all questions of a topic, newest first.
func (r *QuestionRepo) GetByTopic(ctx context.Context, topicID uint) ([]Question, error) {
	var qs []Question
	err := r.db.WithContext(ctx).
		Preload("Choices", orderChoices).
		Preload("Tags").
		Where("topic_id = ?", topicID).
		Order("created_at DESC").
		Find(&qs).Error
	if err != nil {
		return nil, errors.Wrap(err, "questions by topic")
	}
	return qs, nil
}

// Search returns a page of questions matching the filter, most recently
// updated first. Free text matches statement, explanation and choice text.
func (r *QuestionRepo) Search(ctx context.Context, f QuestionFilter, page, pageSize int) ([]Question, error) {
	if page < 1 {
		page = 1
	}
	var qs []Question
	err := r.applyFilter(r.db.WithContext(ctx).Model(&Question{}), f).
		Preload("Choices", orderChoices).
		Preload("Tags").
		Preload("Topic.Subject").
		Order("questions.updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&qs).Error
	if err != nil {
		return nil, errors.Wrap(err, "search questions")
	}
	return qs, nil
}

// SearchCount returns the total number of matches for the same filter,
// for pagination.
func (r *QuestionRepo) SearchCount(ctx context.Context, f QuestionFilter) (int64, error) {
	var n int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&Question{}), f).Count(&n).Error
	if err != nil {
		return 0, errors.Wrap(err, "count questions")
	}
	return n, nil
}

// Count returns the total number of questions in the bank.
func (r *QuestionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Question{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count questions")
	}
	return n, nil
}

// GetForQuiz returns up to count candidate questions for quiz assembly,
// with choices and mastery eagerly loaded. Randomized order is produced by
// the database; the stable order is ascending id.
func (r *QuestionRepo) GetForQuiz(ctx context.Context, f QuestionFilter, count int, randomize bool) ([]Question, error) {
	tx := r.applyFilter(r.db.WithContext(ctx).Model(&Question{}), f).
		Preload("Choices", orderChoices).
		Preload("Tags").
		Preload("Topic.Subject").
		Preload("Mastery")

	if randomize {
		tx = tx.Order("RANDOM()")
	} else {
		tx = tx.Order("questions.id")
	}

	var qs []Question
	if err := tx.Limit(count).Find(&qs).Error; err != nil {
		return nil, errors.Wrap(err, "questions for quiz")
	}
	return qs, nil
}

// GetDueForReview returns questions whose mastery review date has passed,
// soonest-due first. Questions never answered have no mastery record and
// are not due.
func (r *QuestionRepo) GetDueForReview(ctx context.Context, asOf time.Time, subjectID *uint, count int) ([]Question, error) {
	tx := r.db.WithContext(ctx).Model(&Question{}).
		Joins("JOIN masteries ON masteries.question_id = questions.id").
		Where("masteries.next_review_at <= ?", asOf).
		Preload("Choices", orderChoices).
		Preload("Tags").
		Preload("Topic.Subject").
		Preload("Mastery")

	if subjectID != nil {
		tx = tx.Joins("JOIN topics ON topics.id = questions.topic_id").
			Where("topics.subject_id = ?", *subjectID)
	}

	var qs []Question
	err := tx.Order("masteries.next_review_at").Limit(count).Find(&qs).Error
	if err != nil {
		return nil, errors.Wrap(err, "due questions")
	}
	return qs, nil
}

// CountDue returns how many questions are currently due for review.
func (r *QuestionRepo) CountDue(ctx context.Context, asOf time.Time, subjectID *uint) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&Mastery{}).
		Where("masteries.next_review_at <= ?", asOf)

	if subjectID != nil {
		tx = tx.Joins("JOIN questions ON questions.id = masteries.question_id").
			Joins("JOIN topics ON topics.id = questions.topic_id").
			Where("topics.subject_id = ?", *subjectID)
	}

	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count due")
	}
	return n, nil
}

// applyFilter translates a QuestionFilter into query conditions.
func (r *QuestionRepo) applyFilter(tx *gorm.DB, f QuestionFilter) *gorm.DB {
	if f.SubjectID != nil {
		tx = tx.Joins("JOIN topics ON topics.id = questions.topic_id").
			Where("topics.subject_id = ?", *f.SubjectID)
	}
	if f.TopicID != nil {
		tx = tx.Where("questions.topic_id = ?", *f.TopicID)
	}
	if len(f.TagIDs) > 0 {
		tx = tx.Where("questions.id IN (?)",
			r.db.Table("question_tags").Select("question_id").Where("tag_id IN ?", f.TagIDs))
	}
	if f.MinDifficulty != nil {
		tx = tx.Where("questions.difficulty >= ?", *f.MinDifficulty)
	}
	if f.MaxDifficulty != nil {
		tx = tx.Where("questions.difficulty <= ?", *f.MaxDifficulty)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		tx = tx.Where(
			"questions.statement LIKE ? OR questions.explanation LIKE ? OR questions.id IN (?)",
			like, like,
			r.db.Table("choices").Select("question_id").Where("text LIKE ?", like))
	}
	return tx
}

func orderChoices(db *gorm.DB) *gorm.DB {
	return db.Order("choices.position")
}
