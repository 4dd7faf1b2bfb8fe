package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mobmart/storefront/internal/domain"
	"github.com/mobmart/storefront/internal/postgres"
	"github.com/mobmart/storefront/internal/security"
)

type UserService struct {
	userRepo *postgres.UserRepository
	jwt      *security.JWTSigner
	now      func() time.Time
}

func NewUserService(userRepo *postgres.UserRepository, jwt *security.JWTSigner) *UserService {
	return &UserService{
		userRepo: userRepo,
		jwt:      jwt,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	DateOfBirth time.Time
}

type AuthResult struct {
	User  *domain.User
	Token string
}

// Register хэширует пароль, создаёт пользователя и выпускает токен.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		DateOfBirth:  in.DateOfBirth,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.jwt.Sign(u.ID, u.Username, s.now())
	if err != nil {
		return nil, fmt.Errorf("jwt.Sign: %w", err)
	}

	return &AuthResult{User: u, Token: token}, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := security.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.jwt.Sign(u.ID, u.Username, s.now())
	if err != nil {
		return nil, fmt.Errorf("jwt.Sign: %w", err)
	}

	return &AuthResult{User: u, Token: token}, nil
}

func (s *UserService) AddAddress(ctx context.Context, a *domain.Address) error {
	if err := s.userRepo.AddAddress(ctx, a); err != nil {
		return fmt.Errorf("userRepo.AddAddress: %w", err)
	}
	return nil
}
