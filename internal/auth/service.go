package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"scratch-tracker/internal/auth/db"
	"scratch-tracker/internal/config"
	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type DBLayer interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	CreateUser(user *models.User) error
}

type Service struct {
	DB     DBLayer
	Config config.AuthConfig
	Logger *logger.Logger
}

func NewService(dbLayer DBLayer, cfg config.AuthConfig, log *logger.Logger) *Service {
	return &Service{DB: dbLayer, Config: cfg, Logger: log}
}

func (s *Service) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	if _, err := s.DB.GetUserByEmail(email); err == nil {
		return nil, db.ErrDuplicate
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		CreatedAt:    time.Now(),
	}
	if err := s.DB.CreateUser(user); err != nil {
		return nil, err
	}

	s.Logger.Info("AUTH", fmt.Sprintf("user registered: %s", email))
	return s.respondWithToken(user)
}

func (s *Service) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.DB.GetUserByEmail(email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.Logger.Info("AUTH", fmt.Sprintf("user logged in: %s", email))
	return s.respondWithToken(user)
}

func (s *Service) GetMe(userID string) (*models.User, error) {
	return s.DB.GetUserByID(userID)
}

func (s *Service) respondWithToken(user *models.User) (*models.AuthResponse, error) {
	token, err := IssueToken(s.Config.JWTSecret, user.ID, user.Email, s.Config.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
