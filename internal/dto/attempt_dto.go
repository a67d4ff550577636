package dto

import (
	"time"

	"github.com/google/uuid"
)

type AttemptOptionInput struct {
	OptionLetter   string  `json:"option_letter" binding:"required,option_label"`
	OptionText     *string `json:"option_text"`
	OptionImageURL *string `json:"option_image_url"`
	OptionImageID  *string `json:"option_image_id"`
	SelectedByUser bool    `json:"selected_by_user"`
}

type AttemptQuestionInput struct {
	QuestionID       *uuid.UUID           `json:"question_id"`
	QuestionText     string               `json:"question_text"`
	QuestionImageURL *string              `json:"question_image_url"`
	QuestionImageID  *string              `json:"question_image_id"`
	Marks            *float64             `json:"marks"`
	QuestionOrder    *int                 `json:"question_order"`
	CorrectAnswer    string               `json:"correct_answer" binding:"required,option_label"`
	Options          []AttemptOptionInput `json:"options" binding:"dive"`
}

type SubmitAttemptRequest struct {
	ExamID           *uuid.UUID             `json:"exam_id"`
	Questions        []AttemptQuestionInput `json:"questions" binding:"dive"`
	TimeTakenMinutes float64                `json:"time_taken_minutes" binding:"min=0"`
}

type SubmitAttemptResponse struct {
	Status              string    `json:"status" example:"success"`
	Message             string    `json:"message"`
	AttemptResultID     uuid.UUID `json:"attempt_result_id"`
	TotalQuestions      int       `json:"total_questions"`
	Score               float64   `json:"score"`
	CorrectAnswers      int       `json:"correct_answers"`
	WrongAnswers        int       `json:"wrong_answers"`
	UnansweredQuestions int       `json:"unanswered_questions"`
}

type AttemptSummaryResponse struct {
	AttemptExamID       uuid.UUID `json:"attempt_exam_id"`
	ExamID              uuid.UUID `json:"exam_id"`
	ExamName            string    `json:"exam_name"`
	Subject             string    `json:"subject"`
	ClassName           string    `json:"class_name"`
	Chapter             string    `json:"chapter"`
	TotalMarks          int       `json:"total_marks"`
	TotalTimeMinutes    int       `json:"total_time_minutes"`
	NegativeMarksValue  *float64  `json:"negative_marks_value"`
	ExaminerName        string    `json:"examiner_name"`
	Score               float64   `json:"score"`
	TotalQuestions      int       `json:"total_questions"`
	CorrectAnswers      int       `json:"correct_answers"`
	WrongAnswers        int       `json:"wrong_answers"`
	UnansweredQuestions int       `json:"unanswered_questions"`
	TimeTakenMinutes    float64   `json:"time_taken_minutes"`
	CreatedAt           time.Time `json:"created_at"`
}

type AttemptQuestionResponse struct {
	QuestionID         uuid.UUID                         `json:"question_id"`
	OriginalQuestionID *uuid.UUID                        `json:"original_question_id"`
	QuestionText       string                            `json:"question_text"`
	QuestionImageURL   *string                           `json:"question_image_url"`
	QuestionImageID    *string                           `json:"question_image_id"`
	Marks              float64                           `json:"marks"`
	QuestionOrder      int                               `json:"question_order"`
	SelectedAnswer     *string                           `json:"selected_answer"`
	CorrectAnswer      string                            `json:"correct_answer"`
	IsCorrect          bool                              `json:"is_correct"`
	Options            map[string]SnapshotOptionResponse `json:"options"`
}

type SnapshotOptionResponse struct {
	Text     *string `json:"text"`
	ImageURL *string `json:"image_url"`
	ImageID  *string `json:"image_id"`
}

type AttemptDetailResponse struct {
	AttemptSummaryResponse
	Questions []AttemptQuestionResponse `json:"questions"`
}

type AttemptListResponse struct {
	Status     string                   `json:"status" example:"success"`
	Exams      []AttemptSummaryResponse `json:"exams"`
	Pagination Pagination               `json:"pagination"`
}

type AttemptEnvelope struct {
	Status string                `json:"status" example:"success"`
	Exam   AttemptDetailResponse `json:"exam"`
}
