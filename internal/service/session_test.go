package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danupra/hrisgo/internal/auth"
	"github.com/danupra/hrisgo/internal/domain"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *mockUserRepository) Suspend(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) Unsuspend(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- In-memory token store ---

// fakeTokenStore is a map-backed RefreshTokenRepository so tests can assert
// on the net set of live tokens after an operation.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]domain.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]domain.RefreshToken)}
}

func (s *fakeTokenStore) Create(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = domain.RefreshToken{Token: token, UserID: userID, CreatedAt: time.Now().UTC()}
	return nil
}

func (s *fakeTokenStore) Find(_ context.Context, token string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tokens[token]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rt, nil
}

func (s *fakeTokenStore) Consume(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.tokens, token)
	return nil
}

func (s *fakeTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *fakeTokenStore) DeleteByUserID(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, rt := range s.tokens {
		if rt.UserID == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}

func (s *fakeTokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *fakeTokenStore) countForUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rt := range s.tokens {
		if rt.UserID == userID {
			n++
		}
	}
	return n
}

func (s *fakeTokenStore) has(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok
}

// --- Event recorder ---

type recordedEvents struct {
	mu         sync.Mutex
	registered []string
	suspended  []string
}

func (r *recordedEvents) UserRegistered(_ context.Context, user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, user.ID)
}

func (r *recordedEvents) UserSuspended(_ context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suspended = append(r.suspended, userID)
}

// --- Test helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newServiceCodec() *auth.TokenCodec {
	return auth.NewTokenCodec("test-access-secret-key", "test-refresh-secret-key", time.Hour, 168*time.Hour)
}

func newSessionFixture(users *mockUserRepository) (*SessionService, *fakeTokenStore, *recordedEvents) {
	store := newFakeTokenStore()
	events := &recordedEvents{}
	svc := NewSessionService(users, store, newServiceCodec(), events, "role-default", newTestLogger())
	return svc, store, events
}

// hashForTest creates a bcrypt hash with cost 4 for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func activeUser() *domain.User {
	return &domain.User{
		ID:           "u-1",
		Name:         "Budi Santoso",
		Email:        "budi@example.com",
		PhoneNumber:  "+628123456789",
		PasswordHash: hashForTest("rahasia123"),
		Role:         domain.Role{ID: "role-1", Name: "employee"},
	}
}

func assertAppMessage(t *testing.T, err error, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got: %v", err)
	assert.Equal(t, message, appErr.Message)
}

func validSignUp() SignUpInput {
	return SignUpInput{
		Name:            "Budi Santoso",
		Email:           "budi@example.com",
		PhoneNumber:     "+628123456789",
		Password:        "rahasia123",
		ConfirmPassword: "rahasia123",
	}
}

// --- SignUp ---

func TestSignUp_Success(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, events := newSessionFixture(users)

	users.On("GetByEmail", mock.Anything, "budi@example.com").Return(nil, apperrors.ErrNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, pair, err := svc.SignUp(context.Background(), validSignUp())

	require.NoError(t, err)
	assert.Equal(t, "role-default", user.Role.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.True(t, store.has(pair.RefreshToken), "refresh token must be persisted")
	assert.Equal(t, 1, store.countForUser(user.ID))
	assert.Equal(t, []string{user.ID}, events.registered)

	// Password is stored hashed, never verbatim.
	assert.NotEqual(t, "rahasia123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("rahasia123")))

	users.AssertExpectations(t)
}

func TestSignUp_MissingFields(t *testing.T) {
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	input := validSignUp()
	input.PhoneNumber = ""

	_, _, err := svc.SignUp(context.Background(), input)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	users.AssertNotCalled(t, "Create")
}

func TestSignUp_PasswordMismatch(t *testing.T) {
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	input := validSignUp()
	input.ConfirmPassword = "berbeda"

	_, _, err := svc.SignUp(context.Background(), input)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assertAppMessage(t, err, "password and confirm password does not match")
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, events := newSessionFixture(users)

	users.On("GetByEmail", mock.Anything, "budi@example.com").Return(activeUser(), nil)

	_, _, err := svc.SignUp(context.Background(), validSignUp())

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assertAppMessage(t, err, "email already exists")
	assert.Zero(t, store.count())
	assert.Empty(t, events.registered)
	users.AssertNotCalled(t, "Create")
}

// --- SignIn ---

func TestSignIn_Success(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)

	users.On("GetByEmail", mock.Anything, "budi@example.com").Return(activeUser(), nil)

	pair, err := svc.SignIn(context.Background(), SignInInput{Email: "budi@example.com", Password: "rahasia123"})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.True(t, store.has(pair.RefreshToken))
	assert.Equal(t, 1, store.countForUser("u-1"))

	claims, err := newServiceCodec().VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	_, err := svc.SignIn(context.Background(), SignInInput{Email: "ghost@example.com", Password: "x"})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assertAppMessage(t, err, "email not found")
}

func TestSignIn_DeletedAccount_SameMessageAsUnknown(t *testing.T) {
	// A deleted account must be indistinguishable from an unknown email.
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	deletedAt := time.Now().UTC()
	u := activeUser()
	u.DeletedAt = &deletedAt
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	_, err := svc.SignIn(context.Background(), SignInInput{Email: u.Email, Password: "rahasia123"})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assertAppMessage(t, err, "email not found")
}

func TestSignIn_CompanyExpired(t *testing.T) {
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	expired := time.Now().UTC().Add(-24 * time.Hour)
	u := activeUser()
	u.Company = &domain.Company{ID: "comp-1", Name: "PT Sawit Jaya", ExpiredAt: &expired}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	// Checked before the password, so even the correct password is rejected.
	_, err := svc.SignIn(context.Background(), SignInInput{Email: u.Email, Password: "rahasia123"})

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSignIn_CompanyNotExpired(t *testing.T) {
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	future := time.Now().UTC().Add(24 * time.Hour)
	u := activeUser()
	u.Company = &domain.Company{ID: "comp-1", ExpiredAt: &future}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	_, err := svc.SignIn(context.Background(), SignInInput{Email: u.Email, Password: "rahasia123"})

	assert.NoError(t, err)
}

func TestSignIn_WrongPassword(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)

	users.On("GetByEmail", mock.Anything, "budi@example.com").Return(activeUser(), nil)

	_, err := svc.SignIn(context.Background(), SignInInput{Email: "budi@example.com", Password: "salah"})

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assertAppMessage(t, err, "password not match")
	assert.Zero(t, store.count())
}

func TestSignIn_OwnCookie_RetiresThatTokenOnly(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "old-session", "u-1"))
	require.NoError(t, store.Create(ctx, "other-device", "u-1"))
	users.On("GetByEmail", mock.Anything, "budi@example.com").Return(activeUser(), nil)

	pair, err := svc.SignIn(ctx, SignInInput{
		Email:    "budi@example.com",
		Password: "rahasia123",
		Cookie:   "old-session",
	})

	require.NoError(t, err)
	assert.False(t, store.has("old-session"), "presented token must be retired")
	assert.True(t, store.has("other-device"), "other sessions survive an owned cookie")
	assert.True(t, store.has(pair.RefreshToken))
	assert.Equal(t, 2, store.countForUser("u-1"))
}

func TestSignIn_UnknownCookie_RevokesAllSessions(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "device-a", "u-1"))
	require.NoError(t, store.Create(ctx, "device-b", "u-1"))
	require.NoError(t, store.Create(ctx, "device-c", "u-1"))
	users.On("GetByEmail", mock.Anything, "budi@example.com").Return(activeUser(), nil)

	pair, err := svc.SignIn(ctx, SignInInput{
		Email:    "budi@example.com",
		Password: "rahasia123",
		Cookie:   "stolen-and-already-rotated",
	})

	require.NoError(t, err)
	// All three prior sessions are gone; only the freshly issued one lives.
	assert.Equal(t, 1, store.countForUser("u-1"))
	assert.True(t, store.has(pair.RefreshToken))
}

func TestSignIn_ForeignCookie_RevokesAllSessions(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "someone-elses-token", "u-2"))
	require.NoError(t, store.Create(ctx, "device-a", "u-1"))
	users.On("GetByEmail", mock.Anything, "budi@example.com").Return(activeUser(), nil)

	pair, err := svc.SignIn(ctx, SignInInput{
		Email:    "budi@example.com",
		Password: "rahasia123",
		Cookie:   "someone-elses-token",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, store.countForUser("u-1"))
	assert.True(t, store.has(pair.RefreshToken))
	// The foreign owner's token is untouched; only the signing-in user pays.
	assert.True(t, store.has("someone-elses-token"))
}

// --- Refresh ---

func TestRefresh_Success_RotatesToken(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	codec := newServiceCodec()
	oldToken, err := codec.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, oldToken, "u-1"))
	users.On("GetByID", mock.Anything, "u-1").Return(activeUser(), nil)

	pair, err := svc.Refresh(ctx, oldToken)

	require.NoError(t, err)
	assert.False(t, store.has(oldToken), "consumed token must be deleted")
	assert.True(t, store.has(pair.RefreshToken))
	assert.NotEqual(t, oldToken, pair.RefreshToken)
	assert.Equal(t, 1, store.countForUser("u-1"))

	claims, err := codec.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

// rendezvousTokenStore holds every Find caller at a barrier until all of
// them have read the row, forcing concurrent refreshes to race on consume.
type rendezvousTokenStore struct {
	*fakeTokenStore
	findBarrier *sync.WaitGroup
}

func (s *rendezvousTokenStore) Find(ctx context.Context, token string) (*domain.RefreshToken, error) {
	rt, err := s.fakeTokenStore.Find(ctx, token)
	s.findBarrier.Done()
	s.findBarrier.Wait()
	return rt, err
}

func TestRefresh_ConcurrentSameToken_SingleWinner(t *testing.T) {
	users := new(mockUserRepository)
	var barrier sync.WaitGroup
	barrier.Add(2)
	store := &rendezvousTokenStore{fakeTokenStore: newFakeTokenStore(), findBarrier: &barrier}
	svc := NewSessionService(users, store, newServiceCodec(), &recordedEvents{}, "role-default", newTestLogger())
	ctx := context.Background()

	codec := newServiceCodec()
	token, err := codec.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, token, "u-1"))
	users.On("GetByID", mock.Anything, "u-1").Return(activeUser(), nil)

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Refresh(ctx, token)
			results <- err
		}()
	}

	var wins int
	var loserErr error
	for i := 0; i < 2; i++ {
		if err := <-results; err == nil {
			wins++
		} else {
			loserErr = err
		}
	}

	assert.Equal(t, 1, wins, "exactly one concurrent refresh may win")
	require.Error(t, loserErr)
	assert.ErrorIs(t, loserErr, apperrors.ErrForbidden)
	assertAppMessage(t, loserErr, "refresh token not found")
	assert.False(t, store.has(token), "the raced token is consumed")
}

func TestRefresh_EmptyToken(t *testing.T) {
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	_, err := svc.Refresh(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assertAppMessage(t, err, "refresh token not found")
}

func TestRefresh_ReplayedToken_RevokesAllSessions(t *testing.T) {
	// A token that verifies but is absent from the store was already
	// consumed: replaying it costs the user every live session.
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	replayed, err := newServiceCodec().GenerateRefreshToken("u-1")
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, "device-a", "u-1"))
	require.NoError(t, store.Create(ctx, "device-b", "u-1"))
	require.NoError(t, store.Create(ctx, "other-user", "u-2"))

	_, err = svc.Refresh(ctx, replayed)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, store.countForUser("u-1"))
	assert.Equal(t, 1, store.countForUser("u-2"), "other users keep their sessions")
}

func TestRefresh_GarbageToken_NoRevocation(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "device-a", "u-1"))

	_, err := svc.Refresh(ctx, "not-a-jwt-at-all")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assertAppMessage(t, err, "refresh token not found")
	assert.Equal(t, 1, store.countForUser("u-1"), "unverifiable tokens must not revoke anything")
}

func TestRefresh_ExpiredUnstoredToken(t *testing.T) {
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	expiredCodec := auth.NewTokenCodec("test-access-secret-key", "test-refresh-secret-key", time.Hour, -time.Minute)
	expired, err := expiredCodec.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), expired)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assertAppMessage(t, err, "refresh token expired")
}

func TestRefresh_StoredUnderDifferentUser(t *testing.T) {
	// Store says u-2, claims say u-1: reject without issuing anything.
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	token, err := newServiceCodec().GenerateRefreshToken("u-1")
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, token, "u-2"))

	_, err = svc.Refresh(ctx, token)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assertAppMessage(t, err, "refresh token expired")
}

// --- Logout ---

func TestLogout_Success(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "session-token", "u-1"))

	err := svc.Logout(ctx, "session-token")

	assert.NoError(t, err)
	assert.False(t, store.has("session-token"))
}

func TestLogout_EmptyToken(t *testing.T) {
	users := new(mockUserRepository)
	svc, _, _ := newSessionFixture(users)

	err := svc.Logout(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assertAppMessage(t, err, "refresh token not found")
}

func TestLogout_Twice(t *testing.T) {
	users := new(mockUserRepository)
	svc, store, _ := newSessionFixture(users)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "session-token", "u-1"))

	require.NoError(t, svc.Logout(ctx, "session-token"))

	// The second logout reports NotFound but the end state is identical.
	err := svc.Logout(ctx, "session-token")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, store.count())
}
