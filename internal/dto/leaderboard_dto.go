package dto

import (
	"time"

	"github.com/google/uuid"
)

type LeaderboardExam struct {
	ExamID             uuid.UUID `json:"exam_id"`
	ExamName           string    `json:"exam_name"`
	Subject            string    `json:"subject"`
	Chapter            string    `json:"chapter"`
	ClassName          string    `json:"class_name"`
	TotalQuestions     int       `json:"total_questions"`
	TotalMarks         int       `json:"total_marks"`
	TotalTimeMinutes   int       `json:"total_time_minutes"`
	NegativeMarksValue *float64  `json:"negative_marks_value"`
	ExaminerName       string    `json:"examiner_name"`
}

type LeaderboardEntry struct {
	AttemptExamID       uuid.UUID  `json:"attempt_exam_id"`
	Rank                int        `json:"rank"`
	ExamineeID          *uuid.UUID `json:"examinee_id"`
	Name                string     `json:"name"`
	Score               float64    `json:"score"`
	CorrectAnswers      int        `json:"correct_answers"`
	WrongAnswers        int        `json:"wrong_answers"`
	UnansweredQuestions int        `json:"unanswered_questions"`
	TimeTakenMinutes    float64    `json:"time_taken_minutes"`
	CreatedAt           time.Time  `json:"created_at"`
}

type LeaderboardResponse struct {
	Status      string             `json:"status" example:"success"`
	Exam        LeaderboardExam    `json:"exam"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	MyRank      *int               `json:"my_rank"`
}
