package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exam is an examiner-authored exam. It exclusively owns its Questions.
type Exam struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"exam_id"`
	ExamCode           string     `gorm:"size:20;not null;uniqueIndex" json:"exam_code"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ExamName           string     `gorm:"size:255;not null" json:"exam_name"`
	Subject            string     `gorm:"size:255;not null" json:"subject"`
	Chapter            string     `gorm:"size:255;not null" json:"chapter"`
	ClassName          string     `gorm:"size:255;not null" json:"class_name"`
	Description        string     `gorm:"type:text" json:"description,omitempty"`
	TotalMarks         int        `gorm:"not null" json:"total_marks"`
	PassingMarks       string     `gorm:"size:100" json:"passing_marks,omitempty"`
	TotalTimeMinutes   int        `gorm:"not null" json:"total_time_minutes"`
	StartDatetime      *time.Time `json:"start_datetime,omitempty"`
	EndDatetime        *time.Time `json:"end_datetime,omitempty"`
	AttemptsAllowed    string     `gorm:"size:20;default:'single'" json:"attempts_allowed"`
	NegativeMarksValue *float64   `json:"negative_marks_value,omitempty"`
	ExaminerName       string     `gorm:"size:255" json:"examiner_name,omitempty"`
	Questions          []Question `gorm:"foreignKey:ExamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"questions,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (e *Exam) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
