package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/internal/accounts"
	pkgauth "github.com/shopcart-app/shopcart-backend/pkg/auth"
	"github.com/shopcart-app/shopcart-backend/pkg/config"
	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
	"github.com/shopcart-app/shopcart-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "shopcart-test",
	ExpirationMinutes: 15,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubAccountsRepo struct {
	credential  *models.Credential
	user        *models.User
	created     *models.Credential
	createdUser *models.User
	logins      int
}

func (s *stubAccountsRepo) WithTx(tx *gorm.DB) accounts.Repository {
	return s
}

func (s *stubAccountsRepo) CreateCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	s.created = credential
	return credential, nil
}

func (s *stubAccountsRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.createdUser = user
	return user, nil
}

func (s *stubAccountsRepo) FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	if s.credential == nil || s.credential.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.credential, nil
}

func (s *stubAccountsRepo) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAccountsRepo) FindUserByCredential(ctx context.Context, credentialID uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.CredentialID != credentialID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubAccountsRepo) UpdateUserStatus(ctx context.Context, userID uuid.UUID, status enums.AccountStatus, expectedVersion int64) (int64, error) {
	return 0, nil
}

func (s *stubAccountsRepo) UpdateCredentialStatus(ctx context.Context, credentialID uuid.UUID, status enums.AccountStatus) (int64, error) {
	return 0, nil
}

func (s *stubAccountsRepo) RecordLogin(ctx context.Context, credentialID uuid.UUID) error {
	s.logins++
	return nil
}

func (s *stubAccountsRepo) ListAccounts(ctx context.Context, params pagination.Params, filters accounts.AccountFilters) (*accounts.AccountList, error) {
	return &accounts.AccountList{}, nil
}

type stubSessionManager struct {
	token string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.token, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %T: %v", err, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s got %s (%v)", code, typed.Code(), err)
	}
}

func newTestService(t *testing.T, repo *stubAccountsRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		AccountsRepo:   repo,
		Tx:             stubTxRunner{},
		SessionManager: &stubSessionManager{token: "refresh-token"},
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func seedApprovedAccount(t *testing.T, email, password string, role enums.MemberRole) (*models.Credential, *models.User) {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	credential := &models.Credential{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       enums.AccountStatusApproved,
		Version:      1,
	}
	user := &models.User{
		ID:           uuid.New(),
		CredentialID: credential.ID,
		FirstName:    "Asha",
		LastName:     "Rao",
		Role:         role,
		Status:       enums.AccountStatusApproved,
		Version:      1,
	}
	return credential, user
}

func TestRegister(t *testing.T) {
	repo := &stubAccountsRepo{}
	svc := newTestService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "Asha@Example.com",
		Password:  "correct horse battery",
		Role:      "seller",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resp.Status != enums.AccountStatusPending {
		t.Fatalf("new accounts must start pending, got %s", resp.Status)
	}
	if repo.created == nil || repo.createdUser == nil {
		t.Fatal("both records must be created")
	}
	if repo.created.Email != "asha@example.com" {
		t.Fatalf("email must be normalized, got %s", repo.created.Email)
	}
	if repo.createdUser.CredentialID != repo.created.ID {
		t.Fatal("profile must link to the credential")
	}
	if repo.created.PasswordHash == "correct horse battery" {
		t.Fatal("password must be hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	credential, _ := seedApprovedAccount(t, "asha@example.com", "pw-irrelevant-1", enums.MemberRoleBuyer)
	repo := &stubAccountsRepo{credential: credential}
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Password:  "another password",
		Role:      "buyer",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newTestService(t, &stubAccountsRepo{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Password:  "another password",
		Role:      "admin",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestLogin(t *testing.T) {
	credential, user := seedApprovedAccount(t, "asha@example.com", "correct horse battery", enums.MemberRoleSeller)
	repo := &stubAccountsRepo{credential: credential, user: user}
	svc := newTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Asha@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken != "refresh-token" {
		t.Fatalf("unexpected tokens %+v", resp)
	}
	if repo.logins != 1 {
		t.Fatal("login must be recorded")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.MemberRoleSeller {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	credential, user := seedApprovedAccount(t, "asha@example.com", "correct horse battery", enums.MemberRoleBuyer)
	svc := newTestService(t, &stubAccountsRepo{credential: credential, user: user})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong password",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, &stubAccountsRepo{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginUnapprovedAccount(t *testing.T) {
	for _, status := range []enums.AccountStatus{
		enums.AccountStatusPending,
		enums.AccountStatusRejected,
		enums.AccountStatusDeactivated,
	} {
		credential, user := seedApprovedAccount(t, "asha@example.com", "correct horse battery", enums.MemberRoleBuyer)
		credential.Status = status
		svc := newTestService(t, &stubAccountsRepo{credential: credential, user: user})

		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "asha@example.com",
			Password: "correct horse battery",
		})
		expectCode(t, err, pkgerrors.CodeForbidden)
	}
}
