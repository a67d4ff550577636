package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/model"
	"github.com/lshigami/examapp/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// Authenticate resolves a bearer token to the user it was issued to.
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
	cost     int
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenService) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := createUser(ctx, s.userRepo, s.cost, req)
	if err != nil {
		return nil, err
	}
	log.Info().Str("userID", user.ID.String()).Msg("User registered")
	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, apperror.Persistence("Failed to look up user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("userID", user.ID.String()).Msg("Failed to sign token")
		return nil, &apperror.Error{Kind: apperror.KindInternal, Message: "Failed to issue token", Err: err}
	}
	return &dto.LoginResponse{
		Status:  "success",
		Message: "Login successful",
		Token:   token,
		User:    *toUserResponse(user),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.Persistence("Failed to load user", err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("User no longer exists")
	}
	return user, nil
}

func createUser(ctx context.Context, repo repository.UserRepository, cost int, req dto.RegisterRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, apperror.Validation("Name and email are required")
	}
	if req.Password == "" {
		return nil, apperror.Validation("Password is required")
	}

	exists, err := repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.Persistence("Failed to check email", err)
	}
	if exists {
		return nil, apperror.Conflict("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		return nil, &apperror.Error{Kind: apperror.KindInternal, Message: "Failed to hash password", Err: err}
	}
	user := &model.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := repo.Create(ctx, user); err != nil {
		// Two registrations racing past EmailExists meet at the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("User with this email already exists")
		}
		return nil, apperror.Persistence("Failed to create user", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(user *model.User) *dto.UserResponse {
	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		log.Error().Err(err).Msg("Failed to copy User model to UserResponse")
	}
	return &resp
}
