package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/service/auth"
	"github.com/tenxcards/cards-api/internal/store"
)

type fakeUserStore struct {
	byEmail map[string]*domain.User
}

var _ store.UserStore = (*fakeUserStore)(nil)

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, exists := s.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	copied := *user
	s.byEmail[user.Email] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, found := s.byEmail[email]
	if !found {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type staticJWTService struct {
	token string
}

func (s *staticJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return s.token, nil
}

func (s *staticJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func newAuthHandler(userStore store.UserStore) *AuthHandler {
	return NewAuthHandler(
		userStore,
		&staticJWTService{token: "issued.jwt.token"},
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewBcryptVerifier(),
	)
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates a user and issues a token", func(t *testing.T) {
		t.Parallel()
		userStore := newFakeUserStore()
		handler := newAuthHandler(userStore)

		body := strings.NewReader(`{"email": "dev@example.com", "password": "a-strong-password"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "issued.jwt.token", resp.AccessToken)
		assert.NotEqual(t, uuid.Nil, resp.UserID)

		stored, err := userStore.GetByEmail(context.Background(), "dev@example.com")
		require.NoError(t, err)
		// Only the bcrypt hash is persisted.
		assert.NotEqual(t, "a-strong-password", stored.HashedPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		userStore := newFakeUserStore()
		handler := newAuthHandler(userStore)

		body := `{"email": "dev@example.com", "password": "a-strong-password"}`
		first := httptest.NewRecorder()
		handler.Register(first, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, first.Code)

		second := httptest.NewRecorder()
		handler.Register(second, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()
		handler := newAuthHandler(newFakeUserStore())

		body := strings.NewReader(`{"email": "dev@example.com", "password": "short"}`)
		rec := httptest.NewRecorder()
		handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		t.Parallel()
		handler := newAuthHandler(newFakeUserStore())

		body := strings.NewReader(`{"email": "not-an-email", "password": "a-strong-password"}`)
		rec := httptest.NewRecorder()
		handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	registeredStore := func(t *testing.T) *fakeUserStore {
		t.Helper()
		userStore := newFakeUserStore()
		handler := newAuthHandler(userStore)

		body := strings.NewReader(`{"email": "dev@example.com", "password": "a-strong-password"}`)
		rec := httptest.NewRecorder()
		handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", body))
		require.Equal(t, http.StatusCreated, rec.Code)
		return userStore
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		handler := newAuthHandler(registeredStore(t))

		body := strings.NewReader(`{"email": "dev@example.com", "password": "a-strong-password"}`)
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "issued.jwt.token", resp.AccessToken)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		t.Parallel()
		handler := newAuthHandler(registeredStore(t))

		wrongPassword := httptest.NewRecorder()
		handler.Login(wrongPassword, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email": "dev@example.com", "password": "wrong-password"}`)))

		unknownEmail := httptest.NewRecorder()
		handler.Login(unknownEmail, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email": "nobody@example.com", "password": "a-strong-password"}`)))

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})
}
