package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
	portssvc "github.com/rtsyr/rtsyr_backend/internal/core/ports/services"
	"github.com/rtsyr/rtsyr_backend/internal/core/services"
	"github.com/rtsyr/rtsyr_backend/internal/platform/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- In-memory repositories ---
// They keep the same conflict and single-use semantics as the pgsql
// repositories so service flows can be exercised end to end.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]domain.User{}}
}

func (r *memUserRepo) conflict(user domain.User) error {
	for id, u := range r.users {
		if id == user.UserID {
			continue
		}
		if u.Email == user.Email {
			return apperrors.ErrEmailTaken
		}
		if u.Phone != nil && user.Phone != nil && *u.Phone == *user.Phone {
			return apperrors.ErrPhoneTaken
		}
	}
	return nil
}

func (r *memUserRepo) SaveUser(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(user)
}

func (r *memUserRepo) saveLocked(user domain.User) error {
	if _, exists := r.users[user.UserID]; exists {
		return apperrors.ErrDuplicate
	}
	if err := r.conflict(user); err != nil {
		return err
	}
	r.users[user.UserID] = user
	return nil
}

func (r *memUserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.UserID == userID })
}

func (r *memUserRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *memUserRepo) FindUserByPhone(_ context.Context, phone string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (r *memUserRepo) FindUsers(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if filter.Role == nil || u.Role == *filter.Role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateUser(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.UserID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := r.conflict(user); err != nil {
		return err
	}
	user.PasswordHash = existing.PasswordHash
	user.EmailVerificationOTP = existing.EmailVerificationOTP
	user.OTPExpiresAt = existing.OTPExpiresAt
	r.users[user.UserID] = user
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = &passwordHash
	r.users[userID] = u
	return nil
}

func (r *memUserRepo) DeleteUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *memUserRepo) SetEmailOTP(_ context.Context, userID string, otp string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.EmailVerificationOTP = &otp
	u.OTPExpiresAt = &expiresAt
	r.users[userID] = u
	return nil
}

func (r *memUserRepo) MarkEmailVerified(_ context.Context, userID string, otp string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.EmailVerified || u.EmailVerificationOTP == nil || *u.EmailVerificationOTP != otp || u.OTPExpired(now) {
		return false, nil
	}
	u.EmailVerified = true
	u.EmailVerificationOTP = nil
	u.OTPExpiresAt = nil
	r.users[userID] = u
	return true, nil
}

func (r *memUserRepo) CountUsers(_ context.Context, role *domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if role == nil || u.Role == *role {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) CountVerifiedUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.EmailVerified {
			n++
		}
	}
	return n, nil
}

// otpFor returns the code currently stored for userID.
func (r *memUserRepo) otpFor(t *testing.T, userID string) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	require.True(t, ok, "user %s not stored", userID)
	require.NotNil(t, u.EmailVerificationOTP, "no code stored for %s", userID)
	return *u.EmailVerificationOTP
}

func (r *memUserRepo) expireOTP(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	past := time.Now().Add(-time.Minute)
	u.OTPExpiresAt = &past
	r.users[userID] = u
}

type memSignupRepo struct {
	mu       sync.Mutex
	requests map[string]domain.SignupRequest
	users    *memUserRepo
}

func newMemSignupRepo(users *memUserRepo) *memSignupRepo {
	return &memSignupRepo{requests: map[string]domain.SignupRequest{}, users: users}
}

func (r *memSignupRepo) SaveSignupRequest(_ context.Context, req domain.SignupRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.Email == req.Email && existing.IsPending() {
			return apperrors.ErrSignupAlreadyPending
		}
	}
	r.requests[req.RequestID] = req
	return nil
}

func (r *memSignupRepo) FindSignupRequestByID(_ context.Context, requestID string) (*domain.SignupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &req, nil
}

func (r *memSignupRepo) FindPendingSignupRequestByEmail(_ context.Context, email string) (*domain.SignupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.Email == email && req.IsPending() {
			found := req
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memSignupRepo) FindSignupRequests(_ context.Context, filter domain.SignupRequestFilter) ([]domain.SignupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.SignupRequest{}
	for _, req := range r.requests {
		if filter.Status == nil || req.Status == *filter.Status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memSignupRepo) CountSignupRequests(_ context.Context, status domain.SignupRequestStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.requests {
		if req.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memSignupRepo) CloseSignupRequest(_ context.Context, req domain.SignupRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.requests[req.RequestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !existing.IsPending() {
		return apperrors.ErrSignupAlreadyClosed
	}
	r.requests[req.RequestID] = req
	return nil
}

func (r *memSignupRepo) ApproveSignupRequest(_ context.Context, req domain.SignupRequest, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.requests[req.RequestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !existing.IsPending() {
		return apperrors.ErrSignupAlreadyClosed
	}
	r.users.mu.Lock()
	err := r.users.saveLocked(user)
	r.users.mu.Unlock()
	if err != nil {
		return err
	}
	r.requests[req.RequestID] = req
	return nil
}

type memRefreshRepo struct {
	mu        sync.Mutex
	tokens    map[string]domain.RefreshToken
	createErr error
}

func newMemRefreshRepo() *memRefreshRepo {
	return &memRefreshRepo{tokens: map[string]domain.RefreshToken{}}
}

func (r *memRefreshRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.tokens[token.Token]; exists {
		return apperrors.ErrDuplicate
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *memRefreshRepo) Consume(_ context.Context, token string, now time.Time) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	if !ok || stored.IsExpired(now) {
		return nil, apperrors.ErrNotFound
	}
	delete(r.tokens, token)
	return &stored, nil
}

func (r *memRefreshRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *memRefreshRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

// failCreate makes every later Create return err.
func (r *memRefreshRepo) failCreate(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createErr = err
}

func (r *memRefreshRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

var (
	_ portsrepo.UserRepositoryFacade          = (*memUserRepo)(nil)
	_ portsrepo.SignupRequestRepositoryFacade = (*memSignupRepo)(nil)
	_ portsrepo.RefreshTokenRepository        = (*memRefreshRepo)(nil)
)

// --- Mock Mailer ---
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

var _ portssvc.Mailer = (*MockMailer)(nil)

// testStack wires the real services over the in-memory repositories.
type testStack struct {
	cfg      *config.Config
	users    *memUserRepo
	signups  *memSignupRepo
	refresh  *memRefreshRepo
	mailer   *MockMailer
	services *portssvc.ServiceContainer
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:                  "test-access-secret",
		JWTExpiryDuration:          15 * time.Minute,
		JWTIssuer:                  "rtsyr-test",
		RefreshTokenSecret:         "test-refresh-secret",
		RefreshTokenExpiryDuration: 7 * 24 * time.Hour,
		DefaultPhoneRegion:         "SY",
	}
}

// newTestStack builds a stack whose mailer is unconfigured, so codes are only
// logged.
func newTestStack(t *testing.T) *testStack {
	t.Helper()
	mailer := new(MockMailer)
	mailer.On("Configured").Return(false).Maybe()
	return newTestStackWithMailer(t, mailer)
}

func newTestStackWithMailer(t *testing.T, mailer *MockMailer) *testStack {
	t.Helper()
	users := newMemUserRepo()
	signups := newMemSignupRepo(users)
	refresh := newMemRefreshRepo()
	cfg := newTestConfig()

	container, err := services.NewServiceContainer(cfg, portsrepo.RepositoryProvider{
		UserRepo:          users,
		SignupRequestRepo: signups,
		RefreshTokenRepo:  refresh,
	}, mailer)
	require.NoError(t, err)

	return &testStack{
		cfg:      cfg,
		users:    users,
		signups:  signups,
		refresh:  refresh,
		mailer:   mailer,
		services: container,
	}
}
