package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hospital/internal/logger"
	"github.com/hospital/internal/model"
	"github.com/hospital/internal/repository"
	"github.com/hospital/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password too short")
)

const (
	bcryptCost  = 10
	minPassword = 6
)

// Валидация email: допустимый формат (упрощённый, без полного RFC).
var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UserStore — срез методов UserRepository, нужный сервису аутентификации.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, name, email, passwordHash, role string, departmentID *int) (int, error)
	TouchLastActive(ctx context.Context, userID int) error
}

// LimitStore — счётчик попыток входа (Redis или in-memory для -dev).
type LimitStore interface {
	CheckLoginLimit(ctx context.Context, email string) (bool, error)
	ResetLoginLimit(ctx context.Context, email string) error
}

type AuthService struct {
	users  UserStore
	limits LimitStore
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users UserStore, limits LimitStore, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, limits: limits, secret: secret, ttl: ttl}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login проверяет пару email/пароль и выпускает токен сессии.
// Несуществующий email и неверный пароль дают один и тот же
// ErrInvalidCredentials, чтобы не раскрывать, какие адреса зарегистрированы.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.UserPublic, error) {
	email = normalizeEmail(email)

	allowed, err := s.limits.CheckLoginLimit(ctx, email)
	if err != nil {
		// Redis недоступен — вход важнее лимита, пропускаем с записью в лог.
		logger.Errorf("auth.Login: rate limit check: %v", err)
	} else if !allowed {
		return "", nil, ErrRateLimitExceeded
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.Status != model.StatusActive {
		return "", nil, ErrUserDisabled
	}

	// Обновление last_active не должно ломать вход.
	if err := s.users.TouchLastActive(ctx, user.ID); err != nil {
		logger.Errorf("auth.Login: touch last_active user=%d: %v", user.ID, err)
	}
	if err := s.limits.ResetLoginLimit(ctx, email); err != nil {
		logger.Errorf("auth.Login: reset limit: %v", err)
	}

	tok, err := token.Issue(user.ID, user.Email, user.Name, user.Role, s.secret, s.ttl)
	if err != nil {
		return "", nil, err
	}
	pub := user.ToPublic()
	return tok, &pub, nil
}

// Signup регистрирует пользователя с ролью по умолчанию и сразу выпускает токен.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (string, *model.UserPublic, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || !emailRegexp.MatchString(email) {
		return "", nil, ErrInvalidEmail
	}
	if len(password) < minPassword {
		return "", nil, ErrWeakPassword
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if exists {
		return "", nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, err
	}
	id, err := s.users.Create(ctx, name, email, string(hash), model.RoleUser, nil)
	if err != nil {
		return "", nil, err
	}

	tok, err := token.Issue(id, email, name, model.RoleUser, s.secret, s.ttl)
	if err != nil {
		return "", nil, err
	}
	return tok, &model.UserPublic{ID: id, Name: name, Email: email, Role: model.RoleUser}, nil
}
