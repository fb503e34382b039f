package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/bluecascade/tilestore/internal/domain/model"
	"github.com/bluecascade/tilestore/internal/repository"
	auth "github.com/bluecascade/tilestore/internal/usecase/auth_usecase"
)

// =====================
// Mocks
// =====================

type AdminRepoMock struct{ mock.Mock }

func (m *AdminRepoMock) FindByUsername(ctx context.Context, username string) (model.Admin, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(model.Admin)
	return a, args.Error(1)
}

func (m *AdminRepoMock) FindByID(ctx context.Context, id int64) (model.Admin, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Admin)
	return a, args.Error(1)
}

func (m *AdminRepoMock) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, entry model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repository.AuditLogFilter) ([]model.AuditLog, int64, error) {
	panic("not used in LoginUsecase tests")
}

func (m *AuditRepoMock) Recent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	panic("not used in LoginUsecase tests")
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

// real time so issued tokens pass expiry validation
var testNow = time.Now()

func newLoginUC(adminRepo *AdminRepoMock, auditRepo *AuditRepoMock) *auth.LoginUsecase {
	issuer := auth.NewTokenIssuer([]byte("test-secret"), 24*time.Hour)
	return auth.NewLoginUsecase(
		adminRepo,
		auditRepo,
		auth.NewBcryptPasswordVerifier(),
		issuer,
		issuer,
		&fixedClock{t: testNow},
		zap.NewNop(),
	)
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

// =====================
// Login
// =====================

func TestLoginUsecase_MissingCredentials(t *testing.T) {
	uc := newLoginUC(new(AdminRepoMock), new(AuditRepoMock))

	_, err := uc.Execute(context.Background(), auth.LoginInput{Username: "  ", Password: "x"})
	assert.ErrorIs(t, err, auth.ErrMissingCredentials)

	_, err = uc.Execute(context.Background(), auth.LoginInput{Username: "admin", Password: ""})
	assert.ErrorIs(t, err, auth.ErrMissingCredentials)
}

func TestLoginUsecase_UnknownUsername_AuditsFailure(t *testing.T) {
	adminRepo := new(AdminRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := newLoginUC(adminRepo, auditRepo)

	adminRepo.On("FindByUsername", mock.Anything, "ghost").Return(model.Admin{}, repository.ErrNotFound)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionLoginFailed &&
			l.Entity == model.AuditEntityAdmin &&
			l.EntityID == "ghost" &&
			l.AdminID == nil
	})).Return(nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	auditRepo.AssertExpectations(t)
}

func TestLoginUsecase_WrongPassword_SameErrorAsUnknownUser(t *testing.T) {
	adminRepo := new(AdminRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := newLoginUC(adminRepo, auditRepo)

	admin := model.Admin{ID: 1, Username: "admin", PasswordHash: hashPassword(t, "correct")}
	adminRepo.On("FindByUsername", mock.Anything, "admin").Return(admin, nil)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionLoginFailed && l.AdminID == nil
	})).Return(nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	auditRepo.AssertExpectations(t)
}

func TestLoginUsecase_Success(t *testing.T) {
	adminRepo := new(AdminRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := newLoginUC(adminRepo, auditRepo)

	admin := model.Admin{ID: 7, Username: "admin", PasswordHash: hashPassword(t, "correct")}
	adminRepo.On("FindByUsername", mock.Anything, "admin").Return(admin, nil)
	adminRepo.On("UpdateLastLogin", mock.Anything, int64(7), testNow).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionLoginSuccess &&
			l.AdminID != nil && *l.AdminID == 7
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.LoginInput{Username: " admin ", Password: "correct"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, testNow.Add(24*time.Hour), out.ExpiresAt)
	assert.Equal(t, int64(7), out.Admin.ID)

	adminRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestLoginUsecase_AuditFailureDoesNotBlockLogin(t *testing.T) {
	adminRepo := new(AdminRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := newLoginUC(adminRepo, auditRepo)

	admin := model.Admin{ID: 1, Username: "admin", PasswordHash: hashPassword(t, "correct")}
	adminRepo.On("FindByUsername", mock.Anything, "admin").Return(admin, nil)
	adminRepo.On("UpdateLastLogin", mock.Anything, int64(1), testNow).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	out, err := uc.Execute(context.Background(), auth.LoginInput{Username: "admin", Password: "correct"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token)
}

func TestLoginUsecase_LogsUnexpectedRepoError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	adminRepo := new(AdminRepoMock)
	issuer := auth.NewTokenIssuer([]byte("test-secret"), 24*time.Hour)
	uc := auth.NewLoginUsecase(
		adminRepo,
		new(AuditRepoMock),
		auth.NewBcryptPasswordVerifier(),
		issuer,
		issuer,
		&fixedClock{t: testNow},
		zap.New(core),
	)

	adminRepo.On("FindByUsername", mock.Anything, "admin").
		Return(model.Admin{}, errors.New("connection reset"))

	_, err := uc.Execute(context.Background(), auth.LoginInput{Username: "admin", Password: "x"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)

	assert.Equal(t, 1, logs.Len())
	assert.Contains(t, fmt.Sprint(logs.All()[0].ContextMap()["error"]), "connection reset")
}

// =====================
// VerifyToken
// =====================

func TestLoginUsecase_VerifyToken_AdminGone(t *testing.T) {
	adminRepo := new(AdminRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := newLoginUC(adminRepo, auditRepo)

	issuer := auth.NewTokenIssuer([]byte("test-secret"), 24*time.Hour)
	token, _, err := issuer.Issue(42, "gone", testNow)
	assert.NoError(t, err)

	adminRepo.On("FindByID", mock.Anything, int64(42)).Return(model.Admin{}, repository.ErrNotFound)

	_, err = uc.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLoginUsecase_VerifyToken_Success(t *testing.T) {
	adminRepo := new(AdminRepoMock)
	uc := newLoginUC(adminRepo, new(AuditRepoMock))

	issuer := auth.NewTokenIssuer([]byte("test-secret"), 24*time.Hour)
	token, _, err := issuer.Issue(7, "admin", testNow)
	assert.NoError(t, err)

	adminRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Admin{ID: 7, Username: "admin"}, nil)

	info, err := uc.VerifyToken(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), info.ID)
	assert.Equal(t, "admin", info.Username)
}
