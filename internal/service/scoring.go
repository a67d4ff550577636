package service

import (
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/model"
)

// ScoredAttempt is the graded form of one submission, ready to persist.
type ScoredAttempt struct {
	Score               float64
	TotalQuestions      int
	CorrectAnswers      int
	WrongAnswers        int
	UnansweredQuestions int
	Questions           []model.AttemptQuestion
}

// ScoreAttempt grades the submitted questions and builds their snapshot rows.
// A question counts as correct only when something was selected and it matches
// the correct label; no selection counts as unanswered. Score is the number of
// correct answers. Negative marks are not applied.
func ScoreAttempt(questions []dto.AttemptQuestionInput) ScoredAttempt {
	scored := ScoredAttempt{
		TotalQuestions: len(questions),
		Questions:      make([]model.AttemptQuestion, 0, len(questions)),
	}

	for i, q := range questions {
		selected := selectedLabel(q.Options)
		isCorrect := selected != nil && *selected == q.CorrectAnswer

		switch {
		case selected == nil:
			scored.UnansweredQuestions++
		case isCorrect:
			scored.CorrectAnswers++
		default:
			scored.WrongAnswers++
		}

		snapshot := model.AttemptQuestion{
			OriginalQuestionID:  q.QuestionID,
			QuestionOrder:       i + 1,
			QuestionText:        q.QuestionText,
			QuestionImageURL:    q.QuestionImageURL,
			QuestionImageID:     q.QuestionImageID,
			CorrectOptionLabel:  q.CorrectAnswer,
			SelectedOptionLabel: selected,
			IsCorrect:           isCorrect,
			Marks:               1,
		}
		if q.QuestionOrder != nil {
			snapshot.QuestionOrder = *q.QuestionOrder
		}
		if q.Marks != nil {
			snapshot.Marks = *q.Marks
		}
		for _, label := range model.OptionLabels {
			if opt, ok := findOption(q.Options, label); ok {
				snapshot.SetOption(label, model.SnapshotOption{
					Text:     opt.OptionText,
					ImageURL: opt.OptionImageURL,
					ImageID:  opt.OptionImageID,
				})
			}
		}
		scored.Questions = append(scored.Questions, snapshot)
	}

	scored.Score = float64(scored.CorrectAnswers)
	return scored
}

// selectedLabel returns the letter of the first option the examinee marked.
func selectedLabel(options []dto.AttemptOptionInput) *string {
	for _, opt := range options {
		if opt.SelectedByUser {
			label := opt.OptionLetter
			return &label
		}
	}
	return nil
}

func findOption(options []dto.AttemptOptionInput, label string) (dto.AttemptOptionInput, bool) {
	for _, opt := range options {
		if opt.OptionLetter == label {
			return opt, true
		}
	}
	return dto.AttemptOptionInput{}, false
}
