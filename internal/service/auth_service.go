package service

import (
	"context"
	"fmt"
	"log"

	"hidetrade/internal/model"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// --- Interface ---

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*TokenResponse, error)
	// SeedAdmin creates the initial back-office account when none exists.
	SeedAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	repo      repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(repo repository.UserRepository, jwtSecret []byte) AuthService {
	return &authService{repo: repo, jwtSecret: jwtSecret}
}

// --- Implementation ---

func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{Token: signed}, nil
}

func (s *authService) SeedAdmin(ctx context.Context, email, password string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := model.User{
		Username: "admin",
		Email:    email,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := s.repo.Create(ctx, &admin); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Printf("Seeded initial admin account %s", email)
	return nil
}
