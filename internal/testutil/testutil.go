// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/examapp/database"
	"github.com/lshigami/examapp/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// CreateUser inserts a user whose password is "secret123".
func CreateUser(t testing.TB, db *gorm.DB, name, email string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateExam inserts an exam owned by ownerID whose questions have the given correct answers.
func CreateExam(t testing.TB, db *gorm.DB, ownerID uuid.UUID, code string, correct ...string) *model.Exam {
	t.Helper()
	exam := &model.Exam{
		ExamCode:         code,
		UserID:           ownerID,
		ExamName:         "Algebra basics",
		Subject:          "Math",
		Chapter:          "1",
		ClassName:        "Nine",
		TotalMarks:       len(correct),
		TotalTimeMinutes: 30,
		AttemptsAllowed:  "single",
		ExaminerName:     "Ms. Rahman",
	}
	for i, label := range correct {
		exam.Questions = append(exam.Questions, model.Question{
			QuestionText:  "Question " + string(rune('1'+i)),
			OptionAText:   "alpha",
			OptionBText:   "beta",
			OptionCText:   "gamma",
			OptionDText:   "delta",
			CorrectAnswer: label,
			Marks:         1,
			QuestionOrder: i + 1,
		})
	}
	if err := db.Create(exam).Error; err != nil {
		t.Fatalf("create exam: %v", err)
	}
	return exam
}

func StrPtr(s string) *string { return &s }
