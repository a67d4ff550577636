package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/model"
	"github.com/lshigami/examapp/internal/repository"
	"github.com/lshigami/examapp/internal/testutil"
)

func TestCreateExamThenJoinByCodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")

	in := examInput("C", "A", "D")
	in.Questions[1].QuestionOrder = intPtr(5)
	created, err := f.exams.CreateExam(ctx, owner.ID, in, nil)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	if created.ExamID == uuid.Nil || len(created.ExamCode) != 9 {
		t.Fatalf("unexpected create response %+v", created)
	}

	exam, err := f.exams.FindByCode(ctx, created.ExamCode)
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if exam.ExamID != created.ExamID || exam.ExamName != "Cell biology" || exam.AttemptsAllowed != "single" {
		t.Fatalf("exam fields not round-tripped: %+v", exam)
	}
	if len(exam.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(exam.Questions))
	}
	wantOrder := []int{1, 3, 5}
	wantCorrect := []string{"C", "D", "A"}
	for i, q := range exam.Questions {
		if q.QuestionOrder != wantOrder[i] || q.CorrectAnswer != wantCorrect[i] {
			t.Errorf("question %d: order=%d correct=%s", i, q.QuestionOrder, q.CorrectAnswer)
		}
		if q.Options["C"].Text != "Mitochondria" || q.Marks != 1 {
			t.Errorf("question %d: options or marks not stored: %+v", i, q)
		}
	}
	if exam.Questions[0].QuestionText != in.Questions[0].QuestionText {
		t.Fatalf("question text changed: %q", exam.Questions[0].QuestionText)
	}

	lower, err := f.exams.FindByCode(ctx, "  "+strings.ToLower(created.ExamCode)+" ")
	if err != nil || lower.ExamID != created.ExamID {
		t.Fatalf("code lookup should ignore case and spaces: %v", err)
	}
}

func TestFindByCodeUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.exams.FindByCode(context.Background(), "ZZZZ-ZZZZ")
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = f.exams.FindByCode(context.Background(), " ")
	if !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error for blank code, got %v", err)
	}
}

func TestCreateExamRegeneratesTakenCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")
	testutil.CreateExam(t, f.db, owner.ID, "AAAA-AAAA", "A")

	f.exams.newCode = sequence("AAAA-AAAA", "BBBB-BBBB")
	created, err := f.exams.CreateExam(ctx, owner.ID, examInput("A"), nil)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	if created.ExamCode != "BBBB-BBBB" {
		t.Fatalf("expected the second candidate, got %s", created.ExamCode)
	}
}

// blindCodes hides existing codes so the insert itself has to hit the unique index.
type blindCodes struct{ repository.ExamRepository }

func (blindCodes) CodeExists(context.Context, string) (bool, error) { return false, nil }

func TestCreateExamRetriesOnUniqueViolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")
	testutil.CreateExam(t, f.db, owner.ID, "AAAA-AAAA", "A")

	f.exams.examRepo = blindCodes{f.exams.examRepo}
	f.exams.newCode = sequence("AAAA-AAAA", "CCCC-CCCC")
	created, err := f.exams.CreateExam(ctx, owner.ID, examInput("B"), nil)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	if created.ExamCode != "CCCC-CCCC" {
		t.Fatalf("expected a regenerated code, got %s", created.ExamCode)
	}
	exam, err := f.exams.FindByCode(ctx, "CCCC-CCCC")
	if err != nil || len(exam.Questions) != 1 {
		t.Fatalf("retried exam incomplete: %v", err)
	}
}

func TestCreateExamGivesUpWhenEveryCodeIsTaken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")
	testutil.CreateExam(t, f.db, owner.ID, "AAAA-AAAA", "A")

	f.exams.newCode = sequence("AAAA-AAAA")
	images := dto.ExamImages{QuestionImageField(1): {URL: "/uploads/x.png", ID: "exam-app/questions/x.png"}}
	_, err := f.exams.CreateExam(ctx, owner.ID, examInput("A"), images)
	if !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := f.images.Deleted(); len(got) != 1 || got[0] != "exam-app/questions/x.png" {
		t.Fatalf("uploaded image should be discarded, deleted=%v", got)
	}
	var count int64
	f.db.Model(&model.Exam{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected no new exam, found %d exams", count)
	}
}

func TestCreateExamValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")

	tests := map[string]func(*dto.ExamInput){
		"missing name":     func(in *dto.ExamInput) { in.ExamName = " " },
		"missing chapter":  func(in *dto.ExamInput) { in.Chapter = "" },
		"zero marks":       func(in *dto.ExamInput) { in.TotalMarks = 0 },
		"zero time":        func(in *dto.ExamInput) { in.TotalTimeMinutes = 0 },
		"no questions":     func(in *dto.ExamInput) { in.Questions = nil },
		"blank option":     func(in *dto.ExamInput) { in.Questions[0].OptCText = "" },
		"bad answer label": func(in *dto.ExamInput) { in.Questions[0].CorrectAnswer = "E" },
		"blank question":   func(in *dto.ExamInput) { in.Questions[0].QuestionText = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := examInput("A", "B")
			mutate(&in)
			_, err := f.exams.CreateExam(ctx, owner.ID, in, nil)
			if !apperror.Is(err, apperror.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateExamAttachesUploadedImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")

	images := dto.ExamImages{
		QuestionImageField(2):    {URL: "/uploads/exam-app/questions/q2.png", ID: "exam-app/questions/q2.png"},
		OptionImageField(1, "B"): {URL: "/uploads/exam-app/options/o1b.png", ID: "exam-app/options/o1b.png"},
	}
	created, err := f.exams.CreateExam(ctx, owner.ID, examInput("A", "B"), images)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	exam, err := f.exams.GetOwnExam(ctx, owner.ID, created.ExamID)
	if err != nil {
		t.Fatalf("GetOwnExam: %v", err)
	}
	if exam.Questions[0].QuestionImageURL != nil {
		t.Fatal("question 1 should have no image")
	}
	if got := exam.Questions[1].QuestionImageID; got == nil || *got != "exam-app/questions/q2.png" {
		t.Fatalf("question 2 image id = %v", got)
	}
	if got := exam.Questions[0].Options["B"].ImageURL; got == nil || *got != "/uploads/exam-app/options/o1b.png" {
		t.Fatalf("option B image url = %v", got)
	}
	if len(f.images.Deleted()) != 0 {
		t.Fatal("images of a committed exam must be kept")
	}
}

func TestOwnExamAccessIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")
	stranger := testutil.CreateUser(t, f.db, "Stranger", "stranger@example.com")
	exam := testutil.CreateExam(t, f.db, owner.ID, "AAAA-BBBB", "A")

	if _, err := f.exams.GetOwnExam(ctx, stranger.ID, exam.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("GetOwnExam by stranger: %v", err)
	}
	if _, err := f.exams.UpdateExam(ctx, stranger.ID, exam.ID, examInput("B"), nil); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("UpdateExam by stranger: %v", err)
	}
	if err := f.exams.DeleteExam(ctx, stranger.ID, exam.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("DeleteExam by stranger: %v", err)
	}
	if _, err := f.exams.GetOwnExam(ctx, owner.ID, exam.ID); err != nil {
		t.Fatalf("exam should be untouched: %v", err)
	}
}

func TestListOwnExams(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")
	for i := 0; i < 3; i++ {
		if _, err := f.exams.CreateExam(ctx, owner.ID, examInput("A", "B"), nil); err != nil {
			t.Fatalf("CreateExam: %v", err)
		}
	}

	page, err := f.exams.ListOwnExams(ctx, owner.ID, dto.PageQuery{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("ListOwnExams: %v", err)
	}
	if len(page.Exams) != 2 || page.Pagination.TotalExams != 3 || page.Pagination.TotalPages != 2 || !page.Pagination.HasNext {
		t.Fatalf("unexpected page %+v", page.Pagination)
	}
	if page.Exams[0].QuestionCount != 2 {
		t.Fatalf("question_count = %d, want 2", page.Exams[0].QuestionCount)
	}
}

func TestUpdateExamReplacesQuestionsAndKeepsCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")
	examinee := testutil.CreateUser(t, f.db, "Student", "student@example.com")

	created, err := f.exams.CreateExam(ctx, owner.ID, examInput("A", "B", "C"), nil)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	before, err := f.exams.GetOwnExam(ctx, owner.ID, created.ExamID)
	if err != nil {
		t.Fatalf("GetOwnExam: %v", err)
	}
	submitted, err := f.attempts.SubmitAttempt(ctx, examinee.ID, submissionFor(before, "A", "B", "C"))
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	update := examInput("D")
	update.ExamName = "Cell biology (revised)"
	updated, err := f.exams.UpdateExam(ctx, owner.ID, created.ExamID, update, nil)
	if err != nil {
		t.Fatalf("UpdateExam: %v", err)
	}
	if updated.ExamCode != created.ExamCode || updated.ExamName != "Cell biology (revised)" {
		t.Fatalf("unexpected updated exam %+v", updated)
	}
	if len(updated.Questions) != 1 || updated.Questions[0].CorrectAnswer != "D" {
		t.Fatalf("questions were not replaced: %+v", updated.Questions)
	}
	var questionCount int64
	f.db.Model(&model.Question{}).Where("exam_id = ?", created.ExamID).Count(&questionCount)
	if questionCount != 1 {
		t.Fatalf("old questions left behind: %d rows", questionCount)
	}

	detail, err := f.attempts.GetAttempt(ctx, examinee.ID, submitted.AttemptResultID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if len(detail.Questions) != 3 || detail.ExamName != "Cell biology" {
		t.Fatalf("snapshot changed after update: %+v", detail)
	}
	for _, q := range detail.Questions {
		if q.OriginalQuestionID != nil {
			t.Fatalf("snapshot still points at a removed question: %v", q.OriginalQuestionID)
		}
	}
}

func TestUpdateExamValidationFailureLeavesExamAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")
	created, err := f.exams.CreateExam(ctx, owner.ID, examInput("A", "B"), nil)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	bad := examInput("A")
	bad.TotalMarks = 0
	images := dto.ExamImages{QuestionImageField(1): {URL: "/uploads/n.png", ID: "n.png"}}
	if _, err := f.exams.UpdateExam(ctx, owner.ID, created.ExamID, bad, images); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := f.images.Deleted(); len(got) != 1 || got[0] != "n.png" {
		t.Fatalf("new upload should be discarded, deleted=%v", got)
	}
	exam, err := f.exams.GetOwnExam(ctx, owner.ID, created.ExamID)
	if err != nil || len(exam.Questions) != 2 {
		t.Fatalf("exam changed after a rejected update: %v, %+v", err, exam)
	}
}

func TestDeleteExamCascadesButKeepsAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Examiner", "examiner@example.com")
	examinee := testutil.CreateUser(t, f.db, "Student", "student@example.com")

	created, err := f.exams.CreateExam(ctx, owner.ID, examInput("A", "B"), nil)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	exam, err := f.exams.GetOwnExam(ctx, owner.ID, created.ExamID)
	if err != nil {
		t.Fatalf("GetOwnExam: %v", err)
	}
	submitted, err := f.attempts.SubmitAttempt(ctx, examinee.ID, submissionFor(exam, "A", ""))
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	if err := f.exams.DeleteExam(ctx, owner.ID, created.ExamID); err != nil {
		t.Fatalf("DeleteExam: %v", err)
	}

	var questions int64
	f.db.Model(&model.Question{}).Where("exam_id = ?", created.ExamID).Count(&questions)
	if questions != 0 {
		t.Fatalf("questions survived exam deletion: %d", questions)
	}
	if _, err := f.exams.FindByCode(ctx, created.ExamCode); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("deleted exam still joinable: %v", err)
	}

	detail, err := f.attempts.GetAttempt(ctx, examinee.ID, submitted.AttemptResultID)
	if err != nil {
		t.Fatalf("attempt lost with the exam: %v", err)
	}
	if detail.CorrectAnswers != 1 || detail.UnansweredQuestions != 1 || len(detail.Questions) != 2 {
		t.Fatalf("attempt changed after exam deletion: %+v", detail)
	}
	if detail.Questions[0].QuestionText != exam.Questions[0].QuestionText {
		t.Fatal("snapshot text changed")
	}

	board, err := f.leaderboard.ExamLeaderboard(ctx, examinee.ID, created.ExamID)
	if err != nil {
		t.Fatalf("leaderboard of deleted exam: %v", err)
	}
	if board.Exam.ExamName != "Cell biology" {
		t.Fatalf("leaderboard lost frozen exam info: %+v", board.Exam)
	}
}

func TestDiscardImagesSurvivesStoreErrors(t *testing.T) {
	f := newFixture(t)
	f.exams.images = &failingImages{}
	f.exams.discardImages(context.Background(), dto.ExamImages{"question_1_image": {ID: "x"}})
}

type failingImages struct{ recordingImages }

func (*failingImages) Delete(context.Context, string) error { return errors.New("store down") }

func intPtr(i int) *int { return &i }

// submissionFor answers the exam's questions in order; an empty label leaves a question unanswered.
func submissionFor(exam *dto.ExamResponse, selected ...string) dto.SubmitAttemptRequest {
	examID := exam.ExamID
	req := dto.SubmitAttemptRequest{ExamID: &examID, TimeTakenMinutes: 4.5}
	for i, q := range exam.Questions {
		qid := q.QuestionID
		in := dto.AttemptQuestionInput{
			QuestionID:       &qid,
			QuestionText:     q.QuestionText,
			QuestionImageURL: q.QuestionImageURL,
			CorrectAnswer:    q.CorrectAnswer,
			Marks:            &q.Marks,
		}
		for _, label := range model.OptionLabels {
			text := q.Options[label].Text
			in.Options = append(in.Options, dto.AttemptOptionInput{
				OptionLetter:   label,
				OptionText:     &text,
				SelectedByUser: i < len(selected) && selected[i] == label,
			})
		}
		req.Questions = append(req.Questions, in)
	}
	return req
}
