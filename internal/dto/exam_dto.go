package dto

import (
	"time"

	"github.com/google/uuid"
)

// QuestionInput is one authored question. Option texts use the optX_text keys
// the exam editor has always sent.
type QuestionInput struct {
	QuestionText  string   `json:"question_text" binding:"required"`
	OptAText      string   `json:"optA_text" binding:"required"`
	OptBText      string   `json:"optB_text" binding:"required"`
	OptCText      string   `json:"optC_text" binding:"required"`
	OptDText      string   `json:"optD_text" binding:"required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,option_label"`
	Marks         *float64 `json:"marks" binding:"omitempty,gt=0"`
	QuestionOrder *int     `json:"question_order" binding:"omitempty,min=1"`

	// Image references carried over unchanged when an exam is edited without re-uploading.
	QuestionImageURL *string             `json:"question_image_url,omitempty"`
	QuestionImageID  *string             `json:"question_image_id,omitempty"`
	OptionImages     map[string]ImageRef `json:"option_images,omitempty"`
}

type ExamInput struct {
	ExamName           string          `json:"exam_name" binding:"required,max=255"`
	Subject            string          `json:"subject" binding:"required,max=255"`
	Chapter            string          `json:"chapter" binding:"required,max=255"`
	ClassName          string          `json:"class_name" binding:"required,max=255"`
	Description        string          `json:"description"`
	TotalMarks         int             `json:"total_marks" binding:"required,gt=0"`
	PassingMarks       string          `json:"passing_marks"`
	TotalTimeMinutes   int             `json:"total_time_minutes" binding:"required,gt=0"`
	StartDatetime      *time.Time      `json:"start_datetime"`
	EndDatetime        *time.Time      `json:"end_datetime"`
	AttemptsAllowed    string          `json:"attempts_allowed"`
	NegativeMarksValue *float64        `json:"negative_marks_value"`
	ExaminerName       string          `json:"examiner_name"`
	Questions          []QuestionInput `json:"questions" binding:"dive"`
}

// ImageRef is a stored image as returned by the blob store.
type ImageRef struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// ExamImages maps the multipart field names of uploaded images to their stored location.
type ExamImages map[string]ImageRef

type CreateExamResponse struct {
	Status   string    `json:"status" example:"success"`
	ExamID   uuid.UUID `json:"exam_id"`
	ExamCode string    `json:"exam_code"`
}

type OptionResponse struct {
	Text     string  `json:"text"`
	ImageURL *string `json:"image_url"`
	ImageID  *string `json:"image_id"`
}

type QuestionResponse struct {
	QuestionID       uuid.UUID                 `json:"question_id"`
	QuestionText     string                    `json:"question_text"`
	QuestionImageURL *string                   `json:"question_image_url"`
	QuestionImageID  *string                   `json:"question_image_id"`
	Marks            float64                   `json:"marks"`
	QuestionOrder    int                       `json:"question_order"`
	Options          map[string]OptionResponse `json:"options"`
	CorrectAnswer    string                    `json:"correct_answer"`
}

type ExamResponse struct {
	ExamID             uuid.UUID          `json:"exam_id"`
	ExamName           string             `json:"exam_name"`
	ExamCode           string             `json:"exam_code"`
	Subject            string             `json:"subject"`
	Chapter            string             `json:"chapter"`
	ClassName          string             `json:"class_name"`
	Description        string             `json:"description"`
	TotalMarks         int                `json:"total_marks"`
	PassingMarks       string             `json:"passing_marks"`
	TotalTimeMinutes   int                `json:"total_time_minutes"`
	StartDatetime      *time.Time         `json:"start_datetime"`
	EndDatetime        *time.Time         `json:"end_datetime"`
	AttemptsAllowed    string             `json:"attempts_allowed"`
	NegativeMarksValue *float64           `json:"negative_marks_value"`
	ExaminerName       string             `json:"examiner_name"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Questions          []QuestionResponse `json:"questions"`
}

type ExamSummaryResponse struct {
	ExamID           uuid.UUID `json:"exam_id"`
	ExamName         string    `json:"exam_name"`
	ExamCode         string    `json:"exam_code"`
	Subject          string    `json:"subject"`
	Chapter          string    `json:"chapter"`
	ClassName        string    `json:"class_name"`
	TotalMarks       int       `json:"total_marks"`
	TotalTimeMinutes int       `json:"total_time_minutes"`
	QuestionCount    int       `json:"question_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type ExamListResponse struct {
	Status     string                `json:"status" example:"success"`
	Exams      []ExamSummaryResponse `json:"exams"`
	Pagination Pagination            `json:"pagination"`
}

type ExamEnvelope struct {
	Status string       `json:"status" example:"success"`
	Exam   ExamResponse `json:"exam"`
}

type EnterExamCodeRequest struct {
	ExamCode string `json:"exam_code" binding:"required"`
}

type EnterExamCodeResponse struct {
	Status   string       `json:"status" example:"success"`
	Message  string       `json:"message"`
	ExamData ExamResponse `json:"exam_data"`
}
