package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/macxnet80/tigube-approval-service/internal/config"
	"github.com/macxnet80/tigube-approval-service/internal/domain"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

type fakeAdminRepo struct {
	admins map[string]*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*domain.Admin{}}
}

func (f *fakeAdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	if admin.ID == "" {
		admin.ID = "admin-1"
	}
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	f.admins[admin.ID] = admin
	return nil
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *admin
	return &clone, nil
}

func (f *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	for _, admin := range f.admins {
		if admin.Email == email {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func TestRegisterUser_CaretakerGetsEmptyProfile(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo:    users,
		AdminRepo:   newFakeAdminRepo(),
		ProfileRepo: profiles,
	})

	user, token, exp, err := svc.RegisterUser(context.Background(), "Maria", "Maria@Example.com", "secret123", domain.UserTypeCaretaker)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "maria@example.com" {
		t.Errorf("email should be lowercased, got %s", user.Email)
	}
	if token == "" || exp.Before(time.Now()) {
		t.Error("a valid token with a future expiry must be issued")
	}
	if _, ok := profiles.profiles[user.ID]; !ok {
		t.Error("caretaker registration must create the empty profile row")
	}
}

func TestRegisterUser_OwnerGetsNoProfile(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo:    users,
		AdminRepo:   newFakeAdminRepo(),
		ProfileRepo: profiles,
	})

	user, _, _, err := svc.RegisterUser(context.Background(), "Tom", "tom@example.com", "secret123", domain.UserTypeOwner)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := profiles.profiles[user.ID]; ok {
		t.Error("owners must not get a caretaker profile row")
	}
}

func TestRegisterUser_DuplicateEmailConflicts(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo:    newFakeUserRepo(),
		AdminRepo:   newFakeAdminRepo(),
		ProfileRepo: newFakeProfileRepo(),
	})

	if _, _, _, err := svc.RegisterUser(context.Background(), "A", "a@example.com", "secret123", domain.UserTypeOwner); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, _, err := svc.RegisterUser(context.Background(), "B", "A@Example.com", "secret456", domain.UserTypeOwner)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestLoginUser_WrongPasswordUnauthorized(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo:    newFakeUserRepo(),
		AdminRepo:   newFakeAdminRepo(),
		ProfileRepo: newFakeProfileRepo(),
	})
	if _, _, _, err := svc.RegisterUser(context.Background(), "A", "a@example.com", "secret123", domain.UserTypeOwner); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, _, err := svc.LoginUser(context.Background(), "a@example.com", "secret123"); err != nil {
		t.Fatalf("login should succeed: %v", err)
	}

	_, _, _, err := svc.LoginUser(context.Background(), "a@example.com", "wrong")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestLoginAdmin_InactiveForbidden(t *testing.T) {
	admins := newFakeAdminRepo()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo:    newFakeUserRepo(),
		AdminRepo:   admins,
		ProfileRepo: newFakeProfileRepo(),
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := admins.Create(context.Background(), &domain.Admin{
		Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash), Active: false,
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	_, _, _, loginErr := svc.LoginAdmin(context.Background(), "admin@example.com", "secret123")
	var domainErr *apperrors.DomainError
	if !errors.As(loginErr, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN, got %v", loginErr)
	}
}
