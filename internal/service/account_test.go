package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiftdesk-dev/shiftdesk/internal/auth"
	"github.com/shiftdesk-dev/shiftdesk/internal/config"
	"github.com/shiftdesk-dev/shiftdesk/internal/models"
	"github.com/shiftdesk-dev/shiftdesk/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUserRepo implements repository.UserRepository in memory, with the
// same conditional-update semantics as the gorm implementation.
type memoryUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) ConsumeVerificationToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == token && token != "" {
			u.IsVerified = true
			u.VerificationToken = ""
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) SetResetToken(_ context.Context, email, token string, issuedAt time.Time) error {
	for _, u := range r.users {
		if u.Email == email {
			u.ResetToken = token
			u.ResetTokenIssuedAt = issuedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memoryUserRepo) ClearResetToken(_ context.Context, username string) error {
	for _, u := range r.users {
		if u.Username == username {
			u.ResetToken = ""
		}
	}
	return nil
}

func (r *memoryUserRepo) ConsumePasswordReset(_ context.Context, username, token, passwordHash string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.ResetToken == token && token != "" {
			u.ResetToken = ""
			u.PasswordHash = passwordHash
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) UpdateEmail(_ context.Context, id uint, email string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		u.Email = email
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

// fakeSender records sends and can be told to fail.
type fakeSender struct {
	verifications []string
	resets        []string
	lastLink      string
	failNext      bool
}

func (s *fakeSender) SendVerification(to, link string) error {
	if s.failNext {
		return errors.New("smtp unreachable")
	}
	s.verifications = append(s.verifications, to)
	s.lastLink = link
	return nil
}

func (s *fakeSender) SendPasswordReset(to, link string) error {
	if s.failNext {
		return errors.New("smtp unreachable")
	}
	s.resets = append(s.resets, to)
	s.lastLink = link
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Secret:      "test-secret",
		SessionTTL:  time.Hour,
		ResetWindow: 10 * time.Minute,
		FrontendURL: "http://localhost:5173",
		SiteName:    "Office Manager",
	}
}

func newTestAccountService() (AccountService, *memoryUserRepo, *fakeSender) {
	repo := newMemoryUserRepo()
	sender := &fakeSender{}
	return NewAccountService(repo, sender, testConfig()), repo, sender
}

func signupAlice(t *testing.T, svc AccountService) *models.User {
	t.Helper()
	user, err := svc.Signup(context.Background(), SignupInput{
		Username:  "Alice",
		FirstName: "A",
		LastName:  "Liu",
		Password:  "pw1",
		Email:     "a@x.com",
	})
	require.NoError(t, err)
	return user
}

func TestSignup_NormalizesAndCreatesUnverified(t *testing.T) {
	svc, repo, sender := newTestAccountService()

	user, err := svc.Signup(context.Background(), SignupInput{
		Username:  "  ALICE ",
		FirstName: "A",
		LastName:  "LIU",
		Password:  "pw1",
		Email:     " A@X.COM ",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "liu", user.LastName)
	assert.Equal(t, "a@x.com", user.Email)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	require.Len(t, sender.verifications, 1)
	assert.Contains(t, sender.lastLink, user.VerificationToken)

	stored, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, stored.IsVerified)
}

func TestSignup_DuplicateEmailAndUsernameAreDistinct(t *testing.T) {
	svc, repo, _ := newTestAccountService()
	signupAlice(t, svc)

	_, err := svc.Signup(context.Background(), SignupInput{
		Username: "bob", FirstName: "B", LastName: "B", Password: "pw", Email: "a@x.com",
	})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.Signup(context.Background(), SignupInput{
		Username: "alice", FirstName: "A", LastName: "A", Password: "pw", Email: "other@x.com",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)

	// Neither failed attempt left a record behind.
	assert.Len(t, repo.users, 1)
}

func TestSignup_DeliveryFailureReportsFailed(t *testing.T) {
	repo := newMemoryUserRepo()
	sender := &fakeSender{failNext: true}
	svc := NewAccountService(repo, sender, testConfig())

	_, err := svc.Signup(context.Background(), SignupInput{
		Username: "alice", FirstName: "A", LastName: "Liu", Password: "pw1", Email: "a@x.com",
	})
	assert.ErrorIs(t, err, ErrDeliveryFailure)

	// Known inconsistency: the unverified record persists even though the
	// operation is reported failed.
	assert.Len(t, repo.users, 1)
}

func TestVerifyEmail_ConsumesToken(t *testing.T) {
	svc, _, _ := newTestAccountService()
	created := signupAlice(t, svc)

	_, err := svc.VerifyEmail(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidToken)

	verified, err := svc.VerifyEmail(context.Background(), created.VerificationToken)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.VerificationToken)

	// The token is unusable after consumption.
	_, err = svc.VerifyEmail(context.Background(), created.VerificationToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin_RequiresVerification(t *testing.T) {
	svc, _, _ := newTestAccountService()
	signupAlice(t, svc)

	_, _, err := svc.Login(context.Background(), "alice", "pw1")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLogin_DistinguishesKindsInternally(t *testing.T) {
	svc, _, _ := newTestAccountService()
	created := signupAlice(t, svc)
	_, err := svc.VerifyEmail(context.Background(), created.VerificationToken)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "nobody", "pw1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredential)
}

func TestLogin_IssuesSessionTokenWithUsernameClaim(t *testing.T) {
	svc, _, _ := newTestAccountService()
	created := signupAlice(t, svc)
	_, err := svc.VerifyEmail(context.Background(), created.VerificationToken)
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), " ALICE ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	claims, err := auth.ParseSessionToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestForgotPassword_StampsTokenAndSends(t *testing.T) {
	svc, repo, sender := newTestAccountService()
	signupAlice(t, svc)

	_, err := svc.ForgotPassword(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	user, err := svc.ForgotPassword(context.Background(), " A@X.COM ")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ResetToken)
	assert.WithinDuration(t, time.Now(), user.ResetTokenIssuedAt, time.Minute)

	require.Len(t, sender.resets, 1)
	assert.Contains(t, sender.lastLink, user.ResetToken)

	stored, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ResetToken, stored.ResetToken)
}

func TestForgotPassword_TokenPersistsWhenSendFails(t *testing.T) {
	repo := newMemoryUserRepo()
	sender := &fakeSender{}
	svc := NewAccountService(repo, sender, testConfig())
	signupAlice(t, svc)

	sender.failNext = true
	_, err := svc.ForgotPassword(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrDeliveryFailure)

	stored, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ResetToken)
}

func TestResetPassword_WithinWindowSucceedsOnce(t *testing.T) {
	svc, repo, _ := newTestAccountService()
	signupAlice(t, svc)

	before, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	user, err := svc.ForgotPassword(context.Background(), "a@x.com")
	require.NoError(t, err)

	updated, err := svc.ResetPassword(context.Background(), user.ResetToken, "alice", "pw2")
	require.NoError(t, err)
	assert.Empty(t, updated.ResetToken)
	assert.NotEqual(t, before.PasswordHash, updated.PasswordHash)
	require.NoError(t, auth.CheckPassword(updated.PasswordHash, "pw2"))

	// Replaying the consumed token fails.
	_, err = svc.ResetPassword(context.Background(), user.ResetToken, "alice", "pw3")
	assert.ErrorIs(t, err, ErrTokenMismatch)
}

func TestResetPassword_ExpiredWindowClearsToken(t *testing.T) {
	svc, repo, _ := newTestAccountService()
	signupAlice(t, svc)

	user, err := svc.ForgotPassword(context.Background(), "a@x.com")
	require.NoError(t, err)

	// Simulate issuance eleven minutes in the past.
	require.NoError(t, repo.SetResetToken(context.Background(), "a@x.com", user.ResetToken, time.Now().Add(-11*time.Minute)))

	_, err = svc.ResetPassword(context.Background(), user.ResetToken, "alice", "pw2")
	assert.ErrorIs(t, err, ErrTokenExpired)

	stored, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, stored.ResetToken)
}

func TestResetPassword_MismatchClearsToken(t *testing.T) {
	svc, repo, _ := newTestAccountService()
	signupAlice(t, svc)

	_, err := svc.ForgotPassword(context.Background(), "a@x.com")
	require.NoError(t, err)

	_, err = svc.ResetPassword(context.Background(), "some-other-token", "alice", "pw2")
	assert.ErrorIs(t, err, ErrTokenMismatch)

	// Single-use on mismatch too.
	stored, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, stored.ResetToken)
}

func TestResetPassword_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAccountService()

	_, err := svc.ResetPassword(context.Background(), "token", "nobody", "pw2")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateEmail_ChecksCurrentPassword(t *testing.T) {
	svc, _, _ := newTestAccountService()
	created := signupAlice(t, svc)

	_, err := svc.UpdateEmail(context.Background(), created.ID, "wrong", "new@x.com")
	assert.ErrorIs(t, err, ErrBadCredential)

	updated, err := svc.UpdateEmail(context.Background(), created.ID, "pw1", "NEW@X.com")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", updated.Email)

	_, err = svc.UpdateEmail(context.Background(), 999, "pw1", "new@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccountLifecycle_EndToEnd(t *testing.T) {
	svc, _, sender := newTestAccountService()

	created, err := svc.Signup(context.Background(), SignupInput{
		Username: "alice", FirstName: "A", LastName: "Liu", Password: "pw1", Email: "a@x.com",
	})
	require.NoError(t, err)
	require.Len(t, sender.verifications, 1)

	_, err = svc.VerifyEmail(context.Background(), created.VerificationToken)
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
}
