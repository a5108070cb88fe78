package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospital/internal/model"
	"github.com/hospital/internal/repository"
	"github.com/hospital/internal/token"
)

var testSecret = []byte("service-test-secret")

type fakeUserStore struct {
	users      map[string]*model.User
	nextID     int
	touchErr   error
	touchCalls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeUserStore) Create(_ context.Context, name, email, passwordHash, role string, departmentID *int) (int, error) {
	id := f.nextID
	f.nextID++
	f.users[email] = &model.User{
		ID: id, Name: name, Email: email, PasswordHash: passwordHash,
		Role: role, DepartmentID: departmentID, Status: model.StatusActive,
	}
	return id, nil
}

func (f *fakeUserStore) TouchLastActive(_ context.Context, _ int) error {
	f.touchCalls++
	return f.touchErr
}

type fakeLimitStore struct {
	allowed bool
	err     error
	resets  int
}

func (f *fakeLimitStore) CheckLoginLimit(_ context.Context, _ string) (bool, error) {
	return f.allowed, f.err
}

func (f *fakeLimitStore) ResetLoginLimit(_ context.Context, _ string) error {
	f.resets++
	return nil
}

func addUser(t *testing.T, store *fakeUserStore, email, password, status string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id := store.nextID
	store.nextID++
	u := &model.User{
		ID: id, Name: "Test User", Email: email,
		PasswordHash: string(hash), Role: model.RoleDoctor, Status: status,
	}
	store.users[email] = u
	return u
}

func newTestService(users *fakeUserStore, limits *fakeLimitStore) *AuthService {
	return NewAuthService(users, limits, testSecret, 24*time.Hour)
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	addUser(t, users, "doctor1@hospital.com", "doctor123", model.StatusActive)
	limits := &fakeLimitStore{allowed: true}
	svc := newTestService(users, limits)

	tok, pub, err := svc.Login(context.Background(), "doctor1@hospital.com", "doctor123")
	require.NoError(t, err)
	require.NotNil(t, pub)
	assert.Equal(t, "doctor1@hospital.com", pub.Email)

	claims, err := token.Verify(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, pub.ID, claims.UserID)
	assert.Equal(t, model.RoleDoctor, claims.Role)
	assert.Equal(t, 1, users.touchCalls)
	assert.Equal(t, 1, limits.resets)
}

func TestLoginNormalizesEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	addUser(t, users, "doctor1@hospital.com", "doctor123", model.StatusActive)
	svc := newTestService(users, &fakeLimitStore{allowed: true})

	_, pub, err := svc.Login(context.Background(), "  Doctor1@Hospital.COM ", "doctor123")
	require.NoError(t, err)
	assert.Equal(t, "doctor1@hospital.com", pub.Email)
}

// Неизвестный email и неверный пароль должны быть неотличимы для клиента.
func TestLoginUnknownEmailAndWrongPasswordSameError(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	addUser(t, users, "doctor1@hospital.com", "doctor123", model.StatusActive)
	svc := newTestService(users, &fakeLimitStore{allowed: true})

	tok, pub, err := svc.Login(context.Background(), "nobody@hospital.com", "doctor123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, tok)
	assert.Nil(t, pub)

	tok, pub, err = svc.Login(context.Background(), "doctor1@hospital.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, tok)
	assert.Nil(t, pub)
}

func TestLoginDisabledUser(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	addUser(t, users, "doctor1@hospital.com", "doctor123", model.StatusInactive)
	svc := newTestService(users, &fakeLimitStore{allowed: true})

	_, _, err := svc.Login(context.Background(), "doctor1@hospital.com", "doctor123")
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestLoginRateLimited(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	addUser(t, users, "doctor1@hospital.com", "doctor123", model.StatusActive)
	svc := newTestService(users, &fakeLimitStore{allowed: false})

	_, _, err := svc.Login(context.Background(), "doctor1@hospital.com", "doctor123")
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
}

// Отказавший Redis не должен запирать вход.
func TestLoginLimitStoreErrorIgnored(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	addUser(t, users, "doctor1@hospital.com", "doctor123", model.StatusActive)
	svc := newTestService(users, &fakeLimitStore{err: errors.New("redis down")})

	_, pub, err := svc.Login(context.Background(), "doctor1@hospital.com", "doctor123")
	require.NoError(t, err)
	assert.NotNil(t, pub)
}

// Ошибка обновления last_active не должна ломать вход.
func TestLoginTouchFailureSwallowed(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	addUser(t, users, "doctor1@hospital.com", "doctor123", model.StatusActive)
	users.touchErr = errors.New("db timeout")
	svc := newTestService(users, &fakeLimitStore{allowed: true})

	tok, _, err := svc.Login(context.Background(), "doctor1@hospital.com", "doctor123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
}

func TestSignupSuccessLogsIn(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestService(users, &fakeLimitStore{allowed: true})

	tok, pub, err := svc.Signup(context.Background(), "New User", "new@hospital.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, pub)
	assert.Equal(t, model.RoleUser, pub.Role)

	claims, err := token.Verify(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, pub.ID, claims.UserID)

	// Пароль сохранён в виде bcrypt-хэша, не открытым текстом.
	stored := users.users["new@hospital.com"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	addUser(t, users, "taken@hospital.com", "doctor123", model.StatusActive)
	svc := newTestService(users, &fakeLimitStore{allowed: true})

	_, _, err := svc.Signup(context.Background(), "New User", "taken@hospital.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserStore(), &fakeLimitStore{allowed: true})

	_, _, err := svc.Signup(context.Background(), "", "new@hospital.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, _, err = svc.Signup(context.Background(), "New User", "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, _, err = svc.Signup(context.Background(), "New User", "new@hospital.com", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
