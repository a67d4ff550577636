package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/repository"
)

const unknownExaminee = "Unknown"

type LeaderboardService interface {
	// ExamLeaderboard ranks every attempt on the exam. my_rank is the viewer's best placing.
	ExamLeaderboard(ctx context.Context, viewerID, examID uuid.UUID) (*dto.LeaderboardResponse, error)
	// OwnerLeaderboard is ExamLeaderboard restricted to the examiner who owns the exam.
	OwnerLeaderboard(ctx context.Context, ownerID, examID uuid.UUID) (*dto.LeaderboardResponse, error)
}

type leaderboardService struct {
	attemptRepo repository.AttemptRepository
	examRepo    repository.ExamRepository
	userRepo    repository.UserRepository
}

func NewLeaderboardService(attemptRepo repository.AttemptRepository, examRepo repository.ExamRepository, userRepo repository.UserRepository) LeaderboardService {
	return &leaderboardService{attemptRepo: attemptRepo, examRepo: examRepo, userRepo: userRepo}
}

func (s *leaderboardService) OwnerLeaderboard(ctx context.Context, ownerID, examID uuid.UUID) (*dto.LeaderboardResponse, error) {
	exam, err := s.examRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch exam", err)
	}
	if exam == nil || exam.UserID != ownerID {
		return nil, apperror.NotFound("Exam not found")
	}
	return s.ExamLeaderboard(ctx, ownerID, examID)
}

func (s *leaderboardService) ExamLeaderboard(ctx context.Context, viewerID, examID uuid.UUID) (*dto.LeaderboardResponse, error) {
	attempts, err := s.attemptRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch leaderboard", err)
	}
	if len(attempts) == 0 {
		return nil, apperror.NotFound("No attempts found for this exam")
	}

	seen := make(map[uuid.UUID]struct{}, len(attempts))
	ids := make([]uuid.UUID, 0, len(attempts))
	for _, a := range attempts {
		if _, ok := seen[a.ExamineeID]; !ok {
			seen[a.ExamineeID] = struct{}{}
			ids = append(ids, a.ExamineeID)
		}
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Persistence("Failed to resolve examinees", err)
	}

	ranked := RankAttempts(attempts)
	resp := &dto.LeaderboardResponse{
		Status:      "success",
		Leaderboard: make([]dto.LeaderboardEntry, 0, len(ranked)),
	}
	for _, r := range ranked {
		a := r.Attempt
		entry := dto.LeaderboardEntry{
			AttemptExamID:       a.ID,
			Rank:                r.Rank,
			Name:                unknownExaminee,
			Score:               a.Score,
			CorrectAnswers:      a.CorrectAnswers,
			WrongAnswers:        a.WrongAnswers,
			UnansweredQuestions: a.UnansweredQuestions,
			TimeTakenMinutes:    a.TimeTakenMinutes,
			CreatedAt:           a.CreatedAt,
		}
		if u, ok := users[a.ExamineeID]; ok {
			id := u.ID
			entry.ExamineeID = &id
			entry.Name = u.Name
		}
		if a.ExamineeID == viewerID && resp.MyRank == nil {
			rank := r.Rank
			resp.MyRank = &rank
		}
		resp.Leaderboard = append(resp.Leaderboard, entry)
	}

	top := ranked[0].Attempt
	resp.Exam = dto.LeaderboardExam{
		ExamID:             top.ExamID,
		ExamName:           top.ExamName,
		Subject:            top.Subject,
		Chapter:            top.Chapter,
		ClassName:          top.ClassName,
		TotalQuestions:     top.TotalQuestions,
		TotalMarks:         top.TotalMarks,
		TotalTimeMinutes:   top.TotalTimeMinutes,
		NegativeMarksValue: top.NegativeMarksValue,
		ExaminerName:       top.ExaminerName,
	}
	return resp, nil
}
