package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/internal/app/repository"
	"github.com/bazely/bazely-backend/pkg/logger"
	"github.com/bazely/bazely-backend/pkg/redis"
	"github.com/bazely/bazely-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserNotFound          = errors.New("user not found")
)

type AuthService interface {
	Register(username, email, password string) (*model.User, *util.TokenPair, error)
	Login(username, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, email string) (*model.User, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func validateRegistration(username, email, password string) fieldErrors {
	violations := fieldErrors{}
	if len(strings.TrimSpace(username)) < minNameLength {
		violations["username"] = "must be at least 3 characters"
	}
	if !strings.Contains(email, "@") {
		violations["email"] = "must be a valid email address"
	}
	if len(password) < 8 {
		violations["password"] = "must be at least 8 characters"
	}
	return violations
}

func (s *authService) Register(username, email, password string) (*model.User, *util.TokenPair, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateRegistration(username, email, password).err(); err != nil {
		return nil, nil, err
	}

	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
	})

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrUsernameAlreadyExists
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		if isDuplicateKey(err) {
			if strings.Contains(strings.ToLower(err.Error()), "email") {
				return nil, nil, ErrEmailAlreadyExists
			}
			return nil, nil, ErrUsernameAlreadyExists
		}
		logger.Error("Failed to create user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(user.ID, user.Username, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, tokens, nil
}

func (s *authService) Login(username, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"username": username,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(user.ID, user.Username, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, email string) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, (fieldErrors{"email": "must be a valid email address"}).err()
	}

	user.Email = email
	if err := s.userRepo.Update(user); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// Logout blacklists the presented access token for the remainder of its
// lifetime. Without Redis this is a no-op and tokens simply age out.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// An expired or garbled token needs no blacklisting.
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := redis.BlacklistToken(ctx, token, remaining); err != nil {
		logger.Error("Failed to blacklist token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}
	return nil
}
