package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/auth"
	"primariaPortal/internal/models"
	"primariaPortal/internal/repository"
	"primariaPortal/internal/validation"
)

type ProvisionRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,uppercase,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserService interface {
	Provision(ctx context.Context, req ProvisionRequest) (*models.User, error)
	ListUsers(ctx context.Context, caller *auth.Identity) ([]models.User, error)
	UpdateRole(ctx context.Context, caller *auth.Identity, userID string, role models.Role) (*models.User, error)
	SetRoleByEmail(ctx context.Context, email string, role models.Role) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
}

func NewUserService(userRepo repository.UserRepository, validate *validator.Validate) UserService {
	return &userService{
		userRepo: userRepo,
		validate: validate,
	}
}

// Provision creates an account. It is reachable only from the provisioning
// command, there is no public signup.
func (s *userService) Provision(ctx context.Context, req ProvisionRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))

	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	user := &models.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  models.Role(req.Role),
	}

	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, caller *auth.Identity) ([]models.User, error) {
	if err := auth.Authorize(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.ListUsers(ctx)
}

func (s *userService) UpdateRole(ctx context.Context, caller *auth.Identity, userID string, role models.Role) (*models.User, error) {
	if err := auth.Authorize(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}

	// an administrator cannot demote themselves and lock the office out
	if caller.UserID == userID && !role.Is(models.RoleAdmin) {
		return nil, apperr.Validation("role", "nu îți poți retrage propriul rol de administrator")
	}

	return s.setRole(ctx, userID, role)
}

// SetRoleByEmail is the provisioning counterpart of UpdateRole.
func (s *userService) SetRoleByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return s.setRole(ctx, user.ID, role)
}

func (s *userService) setRole(ctx context.Context, userID string, role models.Role) (*models.User, error) {
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	return s.userRepo.GetUserByID(ctx, userID)
}

func normalizeRole(role models.Role) (models.Role, error) {
	normalized := models.Role(strings.ToUpper(strings.TrimSpace(string(role))))
	if normalized == "" {
		return "", apperr.Validation("role", "este obligatoriu")
	}
	if len(normalized) > 32 {
		return "", apperr.Validation("role", "poate avea cel mult 32 de caractere")
	}
	return normalized, nil
}
