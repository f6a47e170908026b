package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/jwtauth"
	"webhost-storefront/internal/logging"
	"webhost-storefront/internal/mail"
	tokenrepo "webhost-storefront/internal/repository/token"
	userrepo "webhost-storefront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = domain.Errorf(domain.ErrUnauthorized, "invalid credentials")
	// ErrSendEmail is returned when a reset code could not be delivered.
	ErrSendEmail = errors.New("failed to send email")
)

// ForgotPasswordMessage is returned for every forgot-password request so
// callers cannot tell which emails are registered.
const ForgotPasswordMessage = "If an account with that email exists, a reset code has been sent"

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
	Parse(raw string) (*jwtauth.Claims, error)
}

// Service handles registration, login and password recovery.
type Service struct {
	users       userrepo.Repository
	codes       *resetCodes
	tokens      TokenIssuer
	mailer      mail.Sender
	logger      logrus.FieldLogger
	passwordMin int
}

func New(users userrepo.Repository, tokens tokenrepo.Repository, issuer TokenIssuer, mailer mail.Sender, logger logrus.FieldLogger) *Service {
	logger = logging.OrDiscard(logger)
	return &Service{
		users:       users,
		codes:       newResetCodes(tokens, 15*time.Minute, logger),
		tokens:      issuer,
		mailer:      mailer,
		logger:      logger,
		passwordMin: 6,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a customer account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Invalid("missing fields")
	}
	if err := s.validatePassword(in.Password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         domain.RoleCustomer,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, domain.Invalid("email already in use")
	}
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", u.ID).Info("auth: user registered")
	return u, nil
}

// LoginUser is the public part of the logged in account.
type LoginUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// Login validates credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("missing fields")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: token,
		User:  LoginUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	}, nil
}

// Authenticate resolves a bearer token to the current state of its user.
func (s *Service) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Profile returns the stored account of the authenticated user.
func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

type ProfileInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UpdateProfile applies the non-empty fields of in.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	var upd userrepo.ProfileUpdate
	if v := strings.TrimSpace(in.Name); v != "" {
		upd.Name = &v
	}
	if v := normalizeEmail(in.Email); v != "" {
		upd.Email = &v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		upd.Phone = &v
	}
	if in.Password != "" {
		if err := s.validatePassword(in.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hashed)
		upd.PasswordHash = &h
	}
	if upd.Name == nil && upd.Email == nil && upd.Phone == nil && upd.PasswordHash == nil {
		return nil, domain.Invalid("nothing to update")
	}

	u, err := s.users.UpdateProfile(ctx, userID, upd)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, domain.Invalid("email already in use")
	}
	return u, err
}

// ForgotPassword emails a one-time reset code when email belongs to an account.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Invalid("email required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Debug("auth: reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	code, err := s.codes.Issue(ctx, u.ID)
	if err != nil {
		return err
	}
	msg := mail.PasswordResetCode(u.Email, u.Name, code, int(s.codes.ttl.Minutes()))
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Error("auth: send reset code")
		return ErrSendEmail
	}
	s.logger.WithField("user_id", u.ID).Info("auth: reset code sent")
	return nil
}

type ResetPasswordInput struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword consumes a reset code and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	email := normalizeEmail(in.Email)
	otp := strings.TrimSpace(in.OTP)
	if email == "" || otp == "" || in.NewPassword == "" {
		return domain.Invalid("missing fields")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Errorf(domain.ErrNotFound, "user not found")
	}
	if err != nil {
		return err
	}
	if err := s.codes.Verify(ctx, u.ID, otp); err != nil {
		return err
	}
	if err := s.validatePassword(in.NewPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPasswordHash(ctx, u.ID, string(hashed)); err != nil {
		return err
	}
	if err := s.codes.Consume(ctx, u.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err := s.mailer.Send(ctx, mail.PasswordChanged(u.Email, u.Name)); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("auth: send password changed notice")
	}
	s.logger.WithField("user_id", u.ID).Info("auth: password reset")
	return nil
}

// passwordMaxBytes is bcrypt's input limit.
const passwordMaxBytes = 72

func (s *Service) validatePassword(p string) error {
	if len(p) < s.passwordMin {
		return domain.Invalid("password must be at least %d characters", s.passwordMin)
	}
	if len(p) > passwordMaxBytes {
		return domain.Invalid("password must be at most %d bytes", passwordMaxBytes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
