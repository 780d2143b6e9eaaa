package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// StreakRepo persists per-day study activity.
type StreakRepo struct {
	db *gorm.DB
}

// UpsertDay accumulates study activity for the given UTC calendar day.
// Multiple sessions finishing the same day add up rather than overwrite.
func (r *StreakRepo) UpsertDay(ctx context.Context, day time.Time, answered, correct, seconds int) error {
	day = DayOf(day)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing StudyStreak
		err := tx.Where("date = ?", day).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&StudyStreak{
				Date:              day,
				QuestionsAnswered: answered,
				CorrectAnswers:    correct,
				StudyTimeSeconds:  seconds,
			}).Error
		}
		if err != nil {
			return err
		}
		existing.QuestionsAnswered += answered
		existing.CorrectAnswers += correct
		existing.StudyTimeSeconds += seconds
		return tx.Save(&existing).Error
	})
	if err != nil {
		return errors.Wrap(err, "upsert study day")
	}
	return nil
}

// Recent returns up to limit streak records, most recent day first.
func (r *StreakRepo) Recent(ctx context.Context, limit int) ([]StudyStreak, error) {
	var days []StudyStreak
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Limit(limit).
		Find(&days).Error
	if err != nil {
		return nil, errors.Wrap(err, "recent study days")
	}
	return days, nil
}
