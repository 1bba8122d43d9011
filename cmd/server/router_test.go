package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ddipendrac/mystery-message/internal/config"
	"github.com/ddipendrac/mystery-message/internal/handlers"
	"github.com/ddipendrac/mystery-message/internal/models"
	"github.com/ddipendrac/mystery-message/internal/repository"
	"github.com/ddipendrac/mystery-message/internal/services"
)

// memoryUserStore is a map-backed UserStore so the full request path can be
// driven through the router without a database.
type memoryUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func (s *memoryUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, user)
	return user, nil
}

func (s *memoryUserStore) GetUserByUsername(ctx context.Context, username string, verifiedOnly bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username && (!verifiedOnly || u.IsVerified) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryUserStore) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryUserStore) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID != id {
			continue
		}
		if v, ok := update["hashed_password"].(string); ok {
			u.HashedPassword = v
		}
		if v, ok := update["verify_code"].(string); ok {
			u.VerifyCode = v
		}
		if v, ok := update["verify_code_expiry"].(time.Time); ok {
			u.VerifyCodeExpiry = v
		}
		if v, ok := update["is_verified"].(bool); ok {
			u.IsVerified = v
		}
		if v, ok := update["is_accepting_message"].(bool); ok {
			u.IsAcceptingMessage = v
		}
		u.UpdatedAt = time.Now()
		return nil
	}
	return repository.ErrNotFound
}

func (s *memoryUserStore) AppendMessage(ctx context.Context, userID primitive.ObjectID, message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == userID {
			u.Messages = append(u.Messages, *message)
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memoryUserStore) GetMessagesSorted(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID != userID {
			continue
		}
		messages := make([]models.Message, len(u.Messages))
		copy(messages, u.Messages)
		sort.SliceStable(messages, func(i, j int) bool {
			return messages[i].CreatedAt.After(messages[j].CreatedAt)
		})
		return messages, nil
	}
	return nil, repository.ErrNotFound
}

// captureMailer records the last verification code instead of sending it.
type captureMailer struct {
	code string
}

func (m *captureMailer) SendVerificationCode(to, username, code string) error {
	m.code = code
	return nil
}

func newTestRouter(t *testing.T) (*mux.Router, *captureMailer) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		TokenExpiry:    time.Hour,
		SuggestTimeout: time.Second,
	}

	store := &memoryUserStore{}
	mailer := &captureMailer{}

	completer := &services.MockCompleter{Chunks: []string{"What makes you smile?||What is your dream trip?"}}
	completer.On("StreamCompletion", mock.Anything, mock.Anything).Return(nil)

	userHandler := handlers.NewUserHandler(services.NewUserService(store, mailer), cfg)
	messageHandler := handlers.NewMessageHandler(services.NewMessageService(store))
	suggestionHandler := handlers.NewSuggestionHandler(services.NewSuggestionService(completer, cfg.SuggestTimeout))

	return newRouter(cfg, userHandler, messageHandler, suggestionHandler, nil), mailer
}

func doRequest(router *mux.Router, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRouterFullFlow(t *testing.T) {
	router, mailer := newTestRouter(t)

	// Sign up and capture the emailed verification code.
	rec := doRequest(router, http.MethodPost, "/api/sign-up",
		`{"username":"carol","email":"carol@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, mailer.code)

	// Verify the account with that code.
	rec = doRequest(router, http.MethodPost, "/api/verify-code",
		`{"username":"carol","code":"`+mailer.code+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Sign in and take the session token.
	rec = doRequest(router, http.MethodPost, "/api/sign-in",
		`{"identifier":"carol@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	// New accounts accept messages by default.
	rec = doRequest(router, http.MethodGet, "/api/accept-messages", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["isAcceptingMessages"])

	// An anonymous sender needs no session.
	rec = doRequest(router, http.MethodPost, "/api/send-message",
		`{"username":"carol","content":"You are a star"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	// The message shows up in the recipient's mailbox.
	rec = doRequest(router, http.MethodPost, "/api/get-messages", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decodeBody(t, rec)["messages"].([]interface{})
	require.Len(t, messages, 1)
	require.Equal(t, "You are a star", messages[0].(map[string]interface{})["content"])

	// Turning the toggle off blocks further anonymous messages.
	rec = doRequest(router, http.MethodPost, "/api/accept-messages",
		`{"acceptMessage":false}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/send-message",
		`{"username":"carol","content":"One more"}`, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/accept-messages", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["isAcceptingMessages"])
}

func TestRouterAuthAttachment(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/accept-messages", ""},
		{http.MethodPost, "/api/accept-messages", `{"acceptMessage":true}`},
		{http.MethodPost, "/api/get-messages", ""},
	}
	for _, tc := range cases {
		rec := doRequest(router, tc.method, tc.path, tc.body, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouterSuggestMessage(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/suggest-message",
		`{"messages":[{"role":"user","content":"Give me questions"}]}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "What makes you smile?")
}
