package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MasteryRepo persists per-question mastery state. Records are created
// lazily by the scheduler on the first answer.
type MasteryRepo struct {
	db *gorm.DB
}

// GetByQuestion returns the mastery record for a question, or nil when the
// question has never been answered.
func (r *MasteryRepo) GetByQuestion(ctx context.Context, questionID uint) (*Mastery, error) {
	var m Mastery
	err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get mastery")
	}
	return &m, nil
}

// Save creates or updates a mastery record.
func (r *MasteryRepo) Save(ctx context.Context, m *Mastery) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return errors.Wrap(err, "save mastery")
	}
	return nil
}
