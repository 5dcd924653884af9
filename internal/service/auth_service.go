package service

import (
	"errors"
	"log"

	"clearclaim/config"
	"clearclaim/internal/auth"
	"clearclaim/internal/domain"
	"clearclaim/internal/models"
	"clearclaim/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrEmailTaken = errors.New("email already registered")

type AuthService struct {
	cfg      *config.Config
	users    *repository.UserRepository
	notifier *NotificationService
}

func NewAuthService(cfg *config.Config, users *repository.UserRepository, notifier *NotificationService) *AuthService {
	return &AuthService{cfg: cfg, users: users, notifier: notifier}
}

func (s *AuthService) Register(name, email, phone, password string) (*models.User, string, error) {
	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", err
	}
	if _, err := s.notifier.Notify(u.ID, domain.EventWelcome, 0, nil, "", ""); err != nil {
		log.Printf("[auth] welcome notification failed for user %d: %v", u.ID, err)
	}
	token, err := auth.GenerateToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
