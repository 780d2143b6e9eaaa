package store

import (
	"context"

	"github.com/pkg/errors"
)

// Seed populates an empty database with sample subjects, topics, tags and
// questions. Returns the number of questions created; zero means data was
// already present and nothing was touched.
func Seed(ctx context.Context, st *Store) (int, error) {
	db := st.DB().WithContext(ctx)

	var subjects int64
	if err := db.Model(&Subject{}).Count(&subjects).Error; err != nil {
		return 0, errors.Wrap(err, "seed: count subjects")
	}
	if subjects > 0 {
		return 0, nil
	}

	math := Subject{Name: "Mathematics", Description: "Numbers, algebra, geometry and calculus", Color: "#2196F3"}
	history := Subject{Name: "History", Description: "World and national history", Color: "#FF9800"}
	science := Subject{Name: "Science", Description: "Physics, chemistry and biology", Color: "#9C27B0"}
	if err := db.Create(&[]*Subject{&math, &history, &science}).Error; err != nil {
		return 0, errors.Wrap(err, "seed: subjects")
	}

	arithmetic := Topic{SubjectID: math.ID, Name: "Arithmetic"}
	geometry := Topic{SubjectID: math.ID, Name: "Geometry"}
	ancient := Topic{SubjectID: history.ID, Name: "Ancient Civilizations"}
	physics := Topic{SubjectID: science.ID, Name: "Physics"}
	if err := db.Create(&[]*Topic{&arithmetic, &geometry, &ancient, &physics}).Error; err != nil {
		return 0, errors.Wrap(err, "seed: topics")
	}

	basics := Tag{Name: "basics"}
	examPrep := Tag{Name: "exam-prep"}
	if err := db.Create(&[]*Tag{&basics, &examPrep}).Error; err != nil {
		return 0, errors.Wrap(err, "seed: tags")
	}

	questions := []Question{
		{
			TopicID:    arithmetic.ID,
			Type:       TypeSingleChoice,
			Statement:  "What is 12 × 8?",
			Difficulty: 1,
			Tags:       []Tag{basics},
			Choices: []Choice{
				{Text: "88", Position: 0},
				{Text: "96", IsCorrect: true, Position: 1},
				{Text: "104", Position: 2},
				{Text: "112", Position: 3},
			},
		},
		{
			TopicID:     arithmetic.ID,
			Type:        TypeTrueFalse,
			Statement:   "Every prime number greater than 2 is odd.",
			Explanation: "2 is the only even prime; any other even number is divisible by 2.",
			Difficulty:  2,
			Tags:        []Tag{basics},
			Choices: []Choice{
				{Text: "True", IsCorrect: true, Position: 0},
				{Text: "False", Position: 1},
			},
		},
		{
			TopicID:    geometry.ID,
			Type:       TypeSingleChoice,
			Statement:  "How many degrees do the interior angles of a triangle sum to?",
			Difficulty: 1,
			Tags:       []Tag{basics, examPrep},
			Choices: []Choice{
				{Text: "90", Position: 0},
				{Text: "180", IsCorrect: true, Position: 1},
				{Text: "270", Position: 2},
				{Text: "360", Position: 3},
			},
		},
		{
			TopicID:    geometry.ID,
			Type:       TypeShortAnswer,
			Statement:  "Name the longest side of a right triangle.",
			Difficulty: 2,
			Choices: []Choice{
				{Text: "hypotenuse", IsCorrect: true, Position: 0},
			},
		},
		{
			TopicID:    ancient.ID,
			Type:       TypeSingleChoice,
			Statement:  "Which civilization built the pyramids of Giza?",
			Difficulty: 1,
			Source:     "General knowledge",
			Tags:       []Tag{examPrep},
			Choices: []Choice{
				{Text: "Roman", Position: 0},
				{Text: "Egyptian", IsCorrect: true, Position: 1},
				{Text: "Greek", Position: 2},
				{Text: "Persian", Position: 3},
			},
		},
		{
			TopicID:    physics.ID,
			Type:       TypeMultiSelect,
			Statement:  "Which of the following are SI base units?",
			Difficulty: 3,
			Tags:       []Tag{examPrep},
			Choices: []Choice{
				{Text: "Meter", IsCorrect: true, Position: 0},
				{Text: "Kilogram", IsCorrect: true, Position: 1},
				{Text: "Newton", Position: 2},
				{Text: "Second", IsCorrect: true, Position: 3},
			},
		},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			return 0, errors.Wrap(err, "seed: questions")
		}
	}

	return len(questions), nil
}
