package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrappedError(t *testing.T) {
	base := NotFound("exam %s not found", "X7B9-2K3M")
	wrapped := fmt.Errorf("join exam: %w", base)

	if got := KindOf(wrapped); got != KindNotFound {
		t.Fatalf("KindOf = %v, want %v", got, KindNotFound)
	}
	if !Is(wrapped, KindNotFound) {
		t.Fatal("Is(wrapped, KindNotFound) = false")
	}
	if base.Error() != "exam X7B9-2K3M not found" {
		t.Fatalf("unexpected message %q", base.Error())
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("KindOf(plain) = %v, want internal", got)
	}
	if Is(nil, KindInternal) {
		t.Fatal("nil error must not match any kind")
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := Persistence("failed to save attempt", cause)

	if !errors.Is(err, cause) {
		t.Fatal("persistence error should unwrap to its cause")
	}
	if err.Details != "deadlock detected" {
		t.Fatalf("Details = %q", err.Details)
	}
	if err.Kind.String() != "persistence" {
		t.Fatalf("Kind.String() = %q", err.Kind.String())
	}
}

func TestWithDetailsCopies(t *testing.T) {
	orig := Validation("exam_id is required")
	withDetails := orig.WithDetails("missing field")
	if orig.Details != "" {
		t.Fatal("WithDetails must not mutate the receiver")
	}
	if withDetails.Details != "missing field" || withDetails.Kind != KindValidation {
		t.Fatalf("unexpected copy %+v", withDetails)
	}
}
