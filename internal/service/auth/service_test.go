package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/jwtauth"
	"webhost-storefront/internal/mail"
	tokenrepo "webhost-storefront/internal/repository/token"
	userrepo "webhost-storefront/internal/repository/user"
)

// memoryUsers is a lightweight in-memory user repository for tests.
type memoryUsers struct {
	byID map[string]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]domain.User)}
}

func (r *memoryUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	u.ID = "user-" + u.Email
	r.byID[u.ID] = u
	return &u, nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUsers) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUsers) UpdateProfile(_ context.Context, id string, in userrepo.ProfileUpdate) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Email != nil {
		for otherID, other := range r.byID {
			if otherID != id && other.Email == *in.Email {
				return nil, domain.ErrAlreadyExists
			}
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.PasswordHash != nil {
		u.PasswordHash = *in.PasswordHash
	}
	r.byID[id] = u
	return &u, nil
}

func (r *memoryUsers) SetPasswordHash(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	r.byID[id] = u
	return nil
}

func (r *memoryUsers) SetRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Role = role
	r.byID[id] = u
	return &u, nil
}

type memoryTokens struct {
	byUser    map[string]tokenrepo.Token
	deleteErr error
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{byUser: make(map[string]tokenrepo.Token)}
}

func (r *memoryTokens) Replace(_ context.Context, t tokenrepo.Token) error {
	r.byUser[t.UserID+"/"+t.Kind] = t
	return nil
}

func (r *memoryTokens) GetForUser(_ context.Context, userID, kind string) (*tokenrepo.Token, error) {
	t, ok := r.byUser[userID+"/"+kind]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *memoryTokens) DeleteForUser(_ context.Context, userID, kind string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byUser[userID+"/"+kind]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byUser, userID+"/"+kind)
	return nil
}

type recordingMailer struct {
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func (m *recordingMailer) lastCode(t *testing.T) string {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatalf("no mail sent")
	}
	code := codePattern.FindString(m.sent[len(m.sent)-1].Text)
	if code == "" {
		t.Fatalf("no code in %q", m.sent[len(m.sent)-1].Text)
	}
	return code
}

type fixture struct {
	svc    *Service
	users  *memoryUsers
	tokens *memoryTokens
	mailer *recordingMailer
}

func newFixture() fixture {
	users := newMemoryUsers()
	tokens := newMemoryTokens()
	mailer := &recordingMailer{}
	issuer := jwtauth.NewTokens("0123456789abcdef0123456789abcdef", time.Hour)
	return fixture{
		svc:    New(users, tokens, issuer, mailer, nil),
		users:  users,
		tokens: tokens,
		mailer: mailer,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u, err := f.svc.Register(ctx, RegisterInput{Name: "Jane", Email: " Jane@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "jane@example.com" || u.Role != domain.RoleCustomer {
		t.Fatalf("unexpected user %+v", u)
	}

	res, err := f.svc.Login(ctx, "JANE@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || res.User.ID != u.ID || res.User.Role != domain.RoleCustomer {
		t.Fatalf("unexpected login result %+v", res)
	}

	authed, err := f.svc.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != u.ID {
		t.Fatalf("authenticated %q, want %q", authed.ID, u.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing name", RegisterInput{Email: "a@b.c", Password: "secret1"}, "missing fields"},
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}, "missing fields"},
		{"short password", RegisterInput{Name: "A", Email: "a@b.c", Password: "123"}, "password must be at least 6 characters"},
		{"long password", RegisterInput{Name: "A", Email: "a@b.c", Password: strings.Repeat("x", 80)}, "password must be at most 72 bytes"},
	}
	for _, tc := range cases {
		_, err := f.svc.Register(ctx, tc.in)
		if !errors.Is(err, domain.ErrInvalidInput) || err.Error() != tc.msg {
			t.Fatalf("%s: got %v, want %q", tc.name, err, tc.msg)
		}
	}

	if _, err := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := f.svc.Register(ctx, RegisterInput{Name: "B", Email: "A@b.c", Password: "secret1"})
	if !errors.Is(err, domain.ErrInvalidInput) || err.Error() != "email already in use" {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.svc.Login(ctx, "a@b.c", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "missing@b.c", "secret1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for missing user, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})
	res, err := f.svc.Login(ctx, "a@b.c", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	delete(f.users.byID, u.ID)
	if _, err := f.svc.Authenticate(ctx, res.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthenticate_RoleChangeApplies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})
	res, _ := f.svc.Login(ctx, "a@b.c", "secret1")

	if _, err := f.users.SetRole(ctx, u.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	authed, err := f.svc.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.Role != domain.RoleAdmin {
		t.Fatalf("role = %q, want admin", authed.Role)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})
	_, _ = f.svc.Register(ctx, RegisterInput{Name: "B", Email: "taken@b.c", Password: "secret1"})

	if _, err := f.svc.UpdateProfile(ctx, u.ID, ProfileInput{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected nothing to update, got %v", err)
	}
	if _, err := f.svc.UpdateProfile(ctx, u.ID, ProfileInput{Email: "TAKEN@b.c"}); err == nil || err.Error() != "email already in use" {
		t.Fatalf("expected email collision, got %v", err)
	}

	updated, err := f.svc.UpdateProfile(ctx, u.ID, ProfileInput{Name: "Alice", Phone: "+27 11 000 0000", Password: "newpass"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Alice" || updated.Phone != "+27 11 000 0000" || updated.Email != "a@b.c" {
		t.Fatalf("unexpected user %+v", updated)
	}
	if _, err := f.svc.Login(ctx, "a@b.c", "newpass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})

	if err := f.svc.ForgotPassword(ctx, "nobody@b.c"); err != nil {
		t.Fatalf("unknown email should succeed silently: %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("mail sent for unknown email")
	}

	if err := f.svc.ForgotPassword(ctx, "A@b.c"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	code := f.mailer.lastCode(t)

	err := f.svc.ResetPassword(ctx, ResetPasswordInput{Email: "a@b.c", OTP: "000000x", NewPassword: "newpass"})
	if err == nil || err.Error() != "invalid reset code" {
		t.Fatalf("expected invalid code, got %v", err)
	}

	if err := f.svc.ResetPassword(ctx, ResetPasswordInput{Email: "a@b.c", OTP: code, NewPassword: "newpass"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := f.svc.Login(ctx, "a@b.c", "newpass"); err != nil {
		t.Fatalf("login with reset password: %v", err)
	}
	if got := f.mailer.sent[len(f.mailer.sent)-1].Subject; got != "Your password was changed" {
		t.Fatalf("confirmation subject = %q", got)
	}

	err = f.svc.ResetPassword(ctx, ResetPasswordInput{Email: "a@b.c", OTP: code, NewPassword: "another"})
	if err == nil || err.Error() != "no password reset request found" {
		t.Fatalf("code reuse should fail, got %v", err)
	}
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})

	if err := f.svc.ForgotPassword(ctx, "a@b.c"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	code := f.mailer.lastCode(t)

	f.svc.codes.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	err := f.svc.ResetPassword(ctx, ResetPasswordInput{Email: "a@b.c", OTP: code, NewPassword: "newpass"})
	if err == nil || err.Error() != "reset code has expired" {
		t.Fatalf("expected expiry, got %v", err)
	}
	if _, err := f.tokens.GetForUser(ctx, u.ID, tokenrepo.KindPasswordReset); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expired code should be deleted, got %v", err)
	}
}

func TestResetPassword_UnknownUser(t *testing.T) {
	f := newFixture()
	err := f.svc.ResetPassword(context.Background(), ResetPasswordInput{Email: "x@b.c", OTP: "123456", NewPassword: "newpass"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestForgotPassword_MailFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})
	f.mailer.err = errors.New("smtp down")

	if err := f.svc.ForgotPassword(ctx, "a@b.c"); !errors.Is(err, ErrSendEmail) {
		t.Fatalf("expected ErrSendEmail, got %v", err)
	}
}

func TestRandomCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := randomCode()
		if err != nil {
			t.Fatalf("randomCode: %v", err)
		}
		if !regexp.MustCompile(`^\d{6}$`).MatchString(code) {
			t.Fatalf("bad code %q", code)
		}
	}
}

func TestResetPassword_LongNewPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})

	if err := f.svc.ForgotPassword(ctx, "a@b.c"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	code := f.mailer.lastCode(t)

	err := f.svc.ResetPassword(ctx, ResetPasswordInput{Email: "a@b.c", OTP: code, NewPassword: strings.Repeat("p", 73)})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerify_ExpiredCodeDeleteFailureIsLogged(t *testing.T) {
	tokens := newMemoryTokens()
	logger, hook := logtest.NewNullLogger()
	codes := newResetCodes(tokens, time.Minute, logger)
	ctx := context.Background()

	code, err := codes.Issue(ctx, "u-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	codes.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	tokens.deleteErr = errors.New("db down")

	err = codes.Verify(ctx, "u-1", code)
	if err == nil || err.Error() != "reset code has expired" {
		t.Fatalf("expected expiry, got %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Message != "auth: delete expired reset code" {
		t.Fatalf("expected warn log, got %+v", entry)
	}
}
