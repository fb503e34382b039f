package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bluecascade/tilestore/internal/domain/model"
	"github.com/bluecascade/tilestore/internal/repository"
)

// Missing username or password in the request.
var ErrMissingCredentials = errors.New("username and password required")

// Unknown username and wrong password are indistinguishable to the
// caller, so a login attempt cannot be used to enumerate admins.
var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginInput struct {
	Username string
	Password string
}

type AdminInfo struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type LoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     AdminInfo `json:"admin"`
}

type LoginUsecase struct {
	adminRepo repository.AdminRepository
	auditRepo repository.AuditLogRepository
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	tokens    TokenVerifier
	clock     Clock
	log       *zap.Logger
}

// DI
func NewLoginUsecase(
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditLogRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	tokens TokenVerifier,
	clock Clock,
	log *zap.Logger,
) *LoginUsecase {
	return &LoginUsecase{
		adminRepo: adminRepo,
		auditRepo: auditRepo,
		verifier:  verifier,
		issuer:    issuer,
		tokens:    tokens,
		clock:     clock,
		log:       log,
	}
}

func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return out, ErrMissingCredentials
	}

	admin, err := u.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			u.auditLogin(ctx, model.AuditActionLoginFailed, nil, username)
			return out, ErrInvalidCredentials
		}
		u.log.Error("admin lookup failed", zap.Error(err))
		return out, err
	}

	if ok := u.verifier.Verify(in.Password, admin.PasswordHash); !ok {
		u.auditLogin(ctx, model.AuditActionLoginFailed, nil, username)
		return out, ErrInvalidCredentials
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(admin.ID, admin.Username, now)
	if err != nil {
		u.log.Error("token issue failed", zap.Error(err))
		return out, err
	}

	if err := u.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		u.log.Error("last login update failed", zap.Error(err))
		return out, err
	}

	u.auditLogin(ctx, model.AuditActionLoginSuccess, &admin.ID, admin.Username)

	out.Token = token
	out.ExpiresAt = expiresAt
	out.Admin = AdminInfo{
		ID:        admin.ID,
		Username:  admin.Username,
		LastLogin: &now,
	}
	return out, nil
}

// VerifyToken validates the token and confirms the admin still exists.
func (u *LoginUsecase) VerifyToken(ctx context.Context, raw string) (AdminInfo, error) {
	claims, err := u.tokens.Verify(raw)
	if err != nil {
		return AdminInfo{}, err
	}

	admin, err := u.adminRepo.FindByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AdminInfo{}, ErrInvalidToken
		}
		u.log.Error("admin lookup failed", zap.Error(err))
		return AdminInfo{}, err
	}

	return AdminInfo{
		ID:        admin.ID,
		Username:  admin.Username,
		LastLogin: admin.LastLogin,
	}, nil
}

// auditLogin never fails the login flow; a write error is logged for
// operator attention.
func (u *LoginUsecase) auditLogin(ctx context.Context, action model.AuditAction, adminID *int64, username string) {
	entry := model.AuditLog{
		Action:    action,
		Entity:    model.AuditEntityAdmin,
		EntityID:  username,
		AdminID:   adminID,
		CreatedAt: u.clock.Now(),
	}
	if err := u.auditRepo.Create(ctx, entry); err != nil {
		u.log.Error("audit write failed for login event",
			zap.String("action", string(action)),
			zap.String("username", username),
			zap.Error(err))
	}
}
