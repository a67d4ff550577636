package dto

import (
	"math"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestOptionLabelRule(t *testing.T) {
	if err := RegisterValidations(); err != nil {
		t.Fatalf("RegisterValidations: %v", err)
	}

	valid := AttemptOptionInput{OptionLetter: "C"}
	if err := binding.Validator.ValidateStruct(&valid); err != nil {
		t.Fatalf("expected C to be accepted, got %v", err)
	}

	invalid := AttemptOptionInput{OptionLetter: "E"}
	err := binding.Validator.ValidateStruct(&invalid)
	if err == nil {
		t.Fatal("expected E to be rejected")
	}
	if got := ValidationMessage(err); got != "OptionLetter must be one of A, B, C or D" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name    string
		query   PageQuery
		total   int64
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{"empty", PageQuery{Page: 1, PerPage: 10}, 0, 0, false, false},
		{"single page", PageQuery{Page: 1, PerPage: 10}, 7, 1, false, false},
		{"first of three", PageQuery{Page: 1, PerPage: 2}, 5, 3, true, false},
		{"last of three", PageQuery{Page: 3, PerPage: 2}, 5, 3, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.query, tt.total)
			if p.TotalPages != tt.pages || p.HasNext != tt.hasNext || p.HasPrev != tt.hasPrev {
				t.Fatalf("got %+v", p)
			}
		})
	}
	if off := (PageQuery{Page: 3, PerPage: 20}).Offset(); off != 40 {
		t.Fatalf("Offset = %d, want 40", off)
	}
}

func TestPageQueryBounds(t *testing.T) {
	tests := []struct {
		name  string
		query PageQuery
		ok    bool
	}{
		{"first page", PageQuery{Page: 1, PerPage: 10}, true},
		{"last allowed page", PageQuery{Page: MaxPage, PerPage: 100}, true},
		{"page past the limit", PageQuery{Page: MaxPage + 1, PerPage: 10}, false},
		{"huge page", PageQuery{Page: math.MaxInt, PerPage: 10}, false},
		{"zero page", PageQuery{Page: 0, PerPage: 10}, false},
		{"per_page over 100", PageQuery{Page: 1, PerPage: 101}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.query)
			if (err == nil) != tt.ok {
				t.Fatalf("ValidateStruct(%+v) = %v, want ok=%v", tt.query, err, tt.ok)
			}
			if tt.ok && tt.query.Offset() < 0 {
				t.Fatalf("Offset = %d for an accepted query", tt.query.Offset())
			}
		})
	}
}
