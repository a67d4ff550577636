package service

import (
	"context"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/repository"
	"github.com/lshigami/examapp/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	users       repository.UserRepository
	exams       *examService
	attempts    AttemptService
	leaderboard LeaderboardService
	images      *recordingImages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	examRepo := repository.NewExamRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	images := &recordingImages{}

	exams := NewExamService(examRepo, questionRepo, attemptRepo, images, db).(*examService)
	return &fixture{
		db:          db,
		users:       userRepo,
		exams:       exams,
		attempts:    NewAttemptService(attemptRepo, examRepo, db),
		leaderboard: NewLeaderboardService(attemptRepo, examRepo, userRepo),
		images:      images,
	}
}

// recordingImages is an ImageService that only remembers what it was asked to delete.
type recordingImages struct {
	mu      sync.Mutex
	deleted []string
}

func (r *recordingImages) Upload(context.Context, string, *multipart.FileHeader) (*dto.ImageRef, error) {
	return nil, nil
}

func (r *recordingImages) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *recordingImages) Deleted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleted...)
}

func examInput(correct ...string) dto.ExamInput {
	in := dto.ExamInput{
		ExamName:         "Cell biology",
		Subject:          "Biology",
		Chapter:          "3",
		ClassName:        "Ten",
		TotalMarks:       len(correct),
		TotalTimeMinutes: 20,
		ExaminerName:     "Mr. Karim",
	}
	for i, c := range correct {
		in.Questions = append(in.Questions, dto.QuestionInput{
			QuestionText:  "Which organelle? " + string(rune('A'+i)),
			OptAText:      "Nucleus",
			OptBText:      "Ribosome",
			OptCText:      "Mitochondria",
			OptDText:      "Golgi body",
			CorrectAnswer: c,
		})
	}
	return in
}

func lowCostAuth(users repository.UserRepository) *authService {
	svc := NewAuthService(users, newTokenService("test-secret", time.Hour)).(*authService)
	svc.cost = bcrypt.MinCost
	return svc
}
