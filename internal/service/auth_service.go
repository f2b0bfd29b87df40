package service

import (
	"context"
	"fmt"
	"strings"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/auth"
	"primariaPortal/internal/models"
	"primariaPortal/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Me(ctx context.Context, caller *auth.Identity) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, issuer TokenIssuer) AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", apperr.Unauthorized("email sau parolă incorectă")
	}

	user, err := s.userRepo.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("eroare la generarea tokenului: %w", err)
	}

	return user, token, nil
}

// Me returns the stored account behind a verified token.
func (s *authService) Me(ctx context.Context, caller *auth.Identity) (*models.User, error) {
	if err := auth.Authorize(caller); err != nil {
		return nil, err
	}
	return s.userRepo.GetUserByID(ctx, caller.UserID)
}
