package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionLabels are the four answer slots every question carries, in display order.
var OptionLabels = []string{"A", "B", "C", "D"}

// IsOptionLabel reports whether label names one of the four answer slots.
func IsOptionLabel(label string) bool {
	for _, l := range OptionLabels {
		if l == label {
			return true
		}
	}
	return false
}

// OptionContent is the text and optional image of one answer slot.
type OptionContent struct {
	Text     string
	ImageURL *string
	ImageID  *string
}

type Question struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"question_id"`
	ExamID           uuid.UUID `gorm:"type:uuid;not null;index" json:"exam_id"`
	QuestionText     string    `gorm:"type:text;not null" json:"question_text"`
	QuestionImageURL *string   `gorm:"type:text" json:"question_image_url,omitempty"`
	QuestionImageID  *string   `gorm:"size:255" json:"question_image_id,omitempty"`

	OptionAText     string  `gorm:"type:text;not null" json:"option_a_text"`
	OptionAImageURL *string `gorm:"type:text" json:"option_a_image_url,omitempty"`
	OptionAImageID  *string `gorm:"size:255" json:"option_a_image_id,omitempty"`
	OptionBText     string  `gorm:"type:text;not null" json:"option_b_text"`
	OptionBImageURL *string `gorm:"type:text" json:"option_b_image_url,omitempty"`
	OptionBImageID  *string `gorm:"size:255" json:"option_b_image_id,omitempty"`
	OptionCText     string  `gorm:"type:text;not null" json:"option_c_text"`
	OptionCImageURL *string `gorm:"type:text" json:"option_c_image_url,omitempty"`
	OptionCImageID  *string `gorm:"size:255" json:"option_c_image_id,omitempty"`
	OptionDText     string  `gorm:"type:text;not null" json:"option_d_text"`
	OptionDImageURL *string `gorm:"type:text" json:"option_d_image_url,omitempty"`
	OptionDImageID  *string `gorm:"size:255" json:"option_d_image_id,omitempty"`

	CorrectAnswer string    `gorm:"size:10;not null" json:"correct_answer"`
	Marks         float64   `gorm:"default:1" json:"marks"`
	QuestionOrder int       `gorm:"not null" json:"question_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// Option returns the content of the slot with the given label.
func (q *Question) Option(label string) OptionContent {
	switch label {
	case "A":
		return OptionContent{Text: q.OptionAText, ImageURL: q.OptionAImageURL, ImageID: q.OptionAImageID}
	case "B":
		return OptionContent{Text: q.OptionBText, ImageURL: q.OptionBImageURL, ImageID: q.OptionBImageID}
	case "C":
		return OptionContent{Text: q.OptionCText, ImageURL: q.OptionCImageURL, ImageID: q.OptionCImageID}
	case "D":
		return OptionContent{Text: q.OptionDText, ImageURL: q.OptionDImageURL, ImageID: q.OptionDImageID}
	}
	return OptionContent{}
}

// SetOption replaces the content of the slot with the given label. Unknown labels are ignored.
func (q *Question) SetOption(label string, opt OptionContent) {
	switch label {
	case "A":
		q.OptionAText, q.OptionAImageURL, q.OptionAImageID = opt.Text, opt.ImageURL, opt.ImageID
	case "B":
		q.OptionBText, q.OptionBImageURL, q.OptionBImageID = opt.Text, opt.ImageURL, opt.ImageID
	case "C":
		q.OptionCText, q.OptionCImageURL, q.OptionCImageID = opt.Text, opt.ImageURL, opt.ImageID
	case "D":
		q.OptionDText, q.OptionDImageURL, q.OptionDImageID = opt.Text, opt.ImageURL, opt.ImageID
	}
}
