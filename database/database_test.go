package database

import (
	"testing"

	"gorm.io/gorm/logger"
)

func TestWithForeignKeys(t *testing.T) {
	cases := map[string]string{
		"exam.db":                         "exam.db?_pragma=foreign_keys(1)",
		"file::memory:?cache=shared":      "file::memory:?cache=shared&_pragma=foreign_keys(1)",
		"exam.db?_pragma=foreign_keys(1)": "exam.db?_pragma=foreign_keys(1)",
	}
	for in, want := range cases {
		if got := withForeignKeys(in); got != want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite", "file::memory:", logger.Silent)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	// every pooled connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, table := range []string{"users", "exams", "questions", "attempt_results", "attempt_questions"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "", logger.Silent); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
