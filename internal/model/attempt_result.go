package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptResult is one examinee's scored pass through an exam. Exam metadata is
// copied in at submission time so the record survives edits to or deletion of the exam.
type AttemptResult struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"attempt_exam_id"`
	ExamineeID uuid.UUID `gorm:"type:uuid;not null;index" json:"examinee_id"`
	ExamID     uuid.UUID `gorm:"type:uuid;not null;index" json:"exam_id"`

	ExamName           string   `gorm:"size:255" json:"exam_name"`
	Subject            string   `gorm:"size:255" json:"subject"`
	Chapter            string   `gorm:"size:255" json:"chapter"`
	ClassName          string   `gorm:"size:255" json:"class_name"`
	TotalMarks         int      `json:"total_marks"`
	TotalTimeMinutes   int      `json:"total_time_minutes"`
	NegativeMarksValue *float64 `json:"negative_marks_value,omitempty"`
	ExaminerName       string   `gorm:"size:255" json:"examiner_name,omitempty"`

	Score               float64           `gorm:"not null" json:"score"`
	TotalQuestions      int               `gorm:"not null" json:"total_questions"`
	CorrectAnswers      int               `gorm:"not null" json:"correct_answers"`
	WrongAnswers        int               `gorm:"not null" json:"wrong_answers"`
	UnansweredQuestions int               `gorm:"not null" json:"unanswered_questions"`
	TimeTakenMinutes    float64           `gorm:"not null" json:"time_taken_minutes"`
	Questions           []AttemptQuestion `gorm:"foreignKey:AttemptResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"questions,omitempty"`
	CreatedAt           time.Time         `gorm:"index" json:"created_at"`
}

func (a *AttemptResult) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
