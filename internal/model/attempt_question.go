package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptQuestion is a frozen copy of a question as it was attempted, plus the
// examinee's selection. OriginalQuestionID is cleared when the live question is removed.
type AttemptQuestion struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"attempt_question_id"`
	AttemptResultID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"attempt_exam_id"`
	OriginalQuestionID *uuid.UUID `gorm:"type:uuid;index" json:"original_question_id,omitempty"`
	QuestionOrder      int        `json:"question_order"`
	QuestionText       string     `gorm:"type:text;not null" json:"question_text"`
	QuestionImageURL   *string    `gorm:"type:text" json:"question_image_url,omitempty"`
	QuestionImageID    *string    `gorm:"size:255" json:"question_image_id,omitempty"`

	OptionAText     *string `gorm:"type:text" json:"option_a_text,omitempty"`
	OptionAImageURL *string `gorm:"type:text" json:"option_a_image_url,omitempty"`
	OptionAImageID  *string `gorm:"size:255" json:"option_a_image_id,omitempty"`
	OptionBText     *string `gorm:"type:text" json:"option_b_text,omitempty"`
	OptionBImageURL *string `gorm:"type:text" json:"option_b_image_url,omitempty"`
	OptionBImageID  *string `gorm:"size:255" json:"option_b_image_id,omitempty"`
	OptionCText     *string `gorm:"type:text" json:"option_c_text,omitempty"`
	OptionCImageURL *string `gorm:"type:text" json:"option_c_image_url,omitempty"`
	OptionCImageID  *string `gorm:"size:255" json:"option_c_image_id,omitempty"`
	OptionDText     *string `gorm:"type:text" json:"option_d_text,omitempty"`
	OptionDImageURL *string `gorm:"type:text" json:"option_d_image_url,omitempty"`
	OptionDImageID  *string `gorm:"size:255" json:"option_d_image_id,omitempty"`

	CorrectOptionLabel  string    `gorm:"size:5;not null" json:"correct_option_label"`
	SelectedOptionLabel *string   `gorm:"size:5" json:"selected_option_label,omitempty"`
	IsCorrect           bool      `gorm:"not null;default:false" json:"is_correct"`
	Marks               float64   `gorm:"default:1" json:"marks"`
	CreatedAt           time.Time `json:"created_at"`
}

func (a *AttemptQuestion) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// SnapshotOption is the frozen content of one answer slot.
type SnapshotOption struct {
	Text     *string
	ImageURL *string
	ImageID  *string
}

func (a *AttemptQuestion) Option(label string) SnapshotOption {
	switch label {
	case "A":
		return SnapshotOption{Text: a.OptionAText, ImageURL: a.OptionAImageURL, ImageID: a.OptionAImageID}
	case "B":
		return SnapshotOption{Text: a.OptionBText, ImageURL: a.OptionBImageURL, ImageID: a.OptionBImageID}
	case "C":
		return SnapshotOption{Text: a.OptionCText, ImageURL: a.OptionCImageURL, ImageID: a.OptionCImageID}
	case "D":
		return SnapshotOption{Text: a.OptionDText, ImageURL: a.OptionDImageURL, ImageID: a.OptionDImageID}
	}
	return SnapshotOption{}
}

func (a *AttemptQuestion) SetOption(label string, opt SnapshotOption) {
	switch label {
	case "A":
		a.OptionAText, a.OptionAImageURL, a.OptionAImageID = opt.Text, opt.ImageURL, opt.ImageID
	case "B":
		a.OptionBText, a.OptionBImageURL, a.OptionBImageID = opt.Text, opt.ImageURL, opt.ImageID
	case "C":
		a.OptionCText, a.OptionCImageURL, a.OptionCImageID = opt.Text, opt.ImageURL, opt.ImageID
	case "D":
		a.OptionDText, a.OptionDImageURL, a.OptionDImageID = opt.Text, opt.ImageURL, opt.ImageID
	}
}
