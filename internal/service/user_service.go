package service

import (
	"context"

	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	ListUsers(ctx context.Context) (*dto.UserListResponse, error)
	CreateUser(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	cost     int
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo, cost: bcrypt.DefaultCost}
}

func (s *userService) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch users", err)
	}
	resp := &dto.UserListResponse{Users: make([]dto.UserResponse, 0, len(users)), Count: len(users)}
	for i := range users {
		resp.Users = append(resp.Users, *toUserResponse(&users[i]))
	}
	return resp, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := createUser(ctx, s.userRepo, s.cost, req)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}
