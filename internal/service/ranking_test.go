package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/examapp/internal/model"
)

func attemptWith(score, minutes float64) model.AttemptResult {
	return model.AttemptResult{ID: uuid.New(), Score: score, TimeTakenMinutes: minutes}
}

func TestRankAttemptsFasterWinsOnEqualScore(t *testing.T) {
	slow := attemptWith(8, 2)
	fast := attemptWith(8, 1.5)

	ranked := RankAttempts([]model.AttemptResult{slow, fast})
	if ranked[0].Attempt.ID != fast.ID || ranked[0].Rank != 1 {
		t.Fatalf("expected the faster attempt first, got %+v", ranked[0])
	}
	if ranked[1].Attempt.ID != slow.ID || ranked[1].Rank != 2 {
		t.Fatalf("expected the slower attempt second, got %+v", ranked[1])
	}
}

func TestRankAttemptsOrdering(t *testing.T) {
	a := attemptWith(5, 10)
	b := attemptWith(9, 30)
	c := attemptWith(5, 4)
	d := attemptWith(0, 1)

	ranked := RankAttempts([]model.AttemptResult{a, b, c, d})
	wantOrder := []uuid.UUID{b.ID, c.ID, a.ID, d.ID}
	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Fatalf("rank at position %d = %d", i, r.Rank)
		}
		if r.Attempt.ID != wantOrder[i] {
			t.Fatalf("position %d holds the wrong attempt", i)
		}
	}
}

func TestRankAttemptsFullTiesGetConsecutiveRanks(t *testing.T) {
	first := attemptWith(3, 5)
	second := attemptWith(3, 5)

	ranked := RankAttempts([]model.AttemptResult{first, second})
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Fatalf("ranks = %d, %d; want 1, 2", ranked[0].Rank, ranked[1].Rank)
	}
	if ranked[0].Attempt.ID != first.ID {
		t.Fatal("ties must keep their input order")
	}
}

func TestRankAttemptsDoesNotReorderInput(t *testing.T) {
	input := []model.AttemptResult{attemptWith(1, 1), attemptWith(2, 1)}
	firstID := input[0].ID
	RankAttempts(input)
	if input[0].ID != firstID {
		t.Fatal("input slice was reordered")
	}
	if got := RankAttempts(nil); len(got) != 0 {
		t.Fatalf("expected no ranks for no attempts, got %d", len(got))
	}
}
