package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"smart-tasks/internal/auth"
	"smart-tasks/internal/model"
	"smart-tasks/internal/repository"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// UserService handles registration, login and profile lookups.
type UserService struct {
	userRepo *repository.UserRepository
	issuer   *auth.Issuer
}

func NewUserService(userRepo *repository.UserRepository, issuer *auth.Issuer) *UserService {
	return &UserService{userRepo: userRepo, issuer: issuer}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := model.User{Name: name, Email: email, Password: hash, Active: true}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return s.issue(&user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	ok, err := auth.CheckPassword(user.Password, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetActive enables or disables login for a user.
func (s *UserService) SetActive(ctx context.Context, userID uint, active bool) error {
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// DeleteUser removes a user and every task they own.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) issue(user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
