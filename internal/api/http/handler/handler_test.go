package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	httpcontext "github.com/dtroode/convo-server/internal/api/http/context"
	"github.com/dtroode/convo-server/internal/api/http/middleware"
	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
	"github.com/dtroode/convo-server/internal/service"
	"github.com/dtroode/convo-server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRegister struct {
	err error
}

func (f fakeRegister) Register(_ context.Context, username, email, _ string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	return model.User{ID: uuid.New(), Username: username, Email: email}, nil
}

type fakeLogin struct {
	session service.Session
	err     error
}

func (f fakeLogin) Login(context.Context, string, string) (service.Session, error) {
	return f.session, f.err
}

type fakeAccount struct {
	user    model.User
	getErr  error
	deleted bool
	delErr  error
}

func (f fakeAccount) GetUser(context.Context, uuid.UUID) (model.User, error) {
	return f.user, f.getErr
}

func (f fakeAccount) DeleteAccount(context.Context, uuid.UUID) (bool, error) {
	return f.deleted, f.delErr
}

type fakeConversations struct {
	reply       model.Reply
	respondErr  error
	gotMessage  string
	gotHistory  *int64
	summaries   []model.ConversationSummary
	conv        model.Conversation
	getErr      error
	deleted     bool
	deleteErr   error
	deletedWith int64
}

func (f *fakeConversations) Respond(_ context.Context, _ uuid.UUID, message string, historyID *int64) (model.Reply, error) {
	f.gotMessage, f.gotHistory = message, historyID
	return f.reply, f.respondErr
}

func (f *fakeConversations) List(context.Context, uuid.UUID) ([]model.ConversationSummary, error) {
	return f.summaries, nil
}

func (f *fakeConversations) Get(context.Context, uuid.UUID, int64) (model.Conversation, error) {
	return f.conv, f.getErr
}

func (f *fakeConversations) Delete(_ context.Context, _ uuid.UUID, id int64) (bool, error) {
	f.deletedWith = id
	return f.deleted, f.deleteErr
}

// authed simulates the authentication middleware for a fixed user.
func authed(cm *httpcontext.Manager, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(cm.SetUserIDToContext(c.Request.Context(), userID))
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "created",
			body:       `{"username":"alice","email":"alice@x.com","password":"pw123"}`,
			wantStatus: http.StatusCreated,
			wantBody:   `{"success":true,"message":"User registered successfully"}`,
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Missing required fields"}`,
		},
		{
			name:       "missing field",
			body:       `{"username":"alice"}`,
			err:        model.NewMissingFieldError("email"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Missing required fields"}`,
		},
		{
			name:       "wrapped missing field",
			body:       `{"username":"alice","email":"alice@x.com"}`,
			err:        fmt.Errorf("register: %w", model.NewMissingFieldError("password")),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Missing required fields"}`,
		},
		{
			name:       "duplicate",
			body:       `{"username":"alice","email":"alice@x.com","password":"pw123"}`,
			err:        model.ErrDuplicateIdentity,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Username or email already exists"}`,
		},
		{
			name:       "malformed email",
			body:       `{"username":"alice","email":"nope","password":"pw123"}`,
			err:        model.NewValidationError("email", "is malformed"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Invalid email"}`,
		},
		{
			name:       "store failure",
			body:       `{"username":"alice","email":"alice@x.com","password":"pw123"}`,
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuth(fakeRegister{err: tt.err}, fakeLogin{}, httpcontext.NewManager(), testutil.MakeNoopLogger())
			r := gin.New()
			r.POST("/register", h.Register)

			w := do(r, http.MethodPost, "/register", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAuth_Login(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		login      fakeLogin
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			body:       `{"email":"alice@x.com","password":"pw123"}`,
			login:      fakeLogin{session: service.Session{AccessToken: "tok", User: model.User{ID: userID, Username: "alice"}}},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"access_token":"tok","user_id":"` + userID.String() + `","username":"alice"}`,
		},
		{
			name:       "missing password",
			body:       `{"email":"alice@x.com"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Missing email or password"}`,
		},
		{
			name:       "bad credentials",
			body:       `{"email":"alice@x.com","password":"wrong"}`,
			login:      fakeLogin{err: model.ErrInvalidCredential},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"success":false,"message":"Invalid email or password"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuth(fakeRegister{}, tt.login, httpcontext.NewManager(), testutil.MakeNoopLogger())
			r := gin.New()
			r.POST("/login", h.Login)

			w := do(r, http.MethodPost, "/login", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAuth_Protected(t *testing.T) {
	cm := httpcontext.NewManager()
	userID := uuid.New()
	h := NewAuth(fakeRegister{}, fakeLogin{}, cm, testutil.MakeNoopLogger())

	r := gin.New()
	r.GET("/protected", authed(cm, userID), h.Protected)
	r.GET("/unauthed", h.Protected)

	w := do(r, http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"logged_in_as":"`+userID.String()+`"}`, w.Body.String())

	w = do(r, http.MethodGet, "/unauthed", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUser_Get(t *testing.T) {
	cm := httpcontext.NewManager()
	userID := uuid.New()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		h := NewUser(fakeAccount{user: model.User{ID: userID, Username: "alice", Email: "alice@x.com", PasswordHash: []byte("secret"), CreatedAt: created}}, cm, testutil.MakeNoopLogger())
		r := gin.New()
		r.GET("/user", authed(cm, userID), h.Get)

		w := do(r, http.MethodGet, "/user", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"`+userID.String()+`","username":"alice","email":"alice@x.com","created_at":"2024-05-01T10:00:00Z"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "secret")
	})

	t.Run("missing", func(t *testing.T) {
		h := NewUser(fakeAccount{getErr: model.ErrUserNotFound}, cm, testutil.MakeNoopLogger())
		r := gin.New()
		r.GET("/user", authed(cm, userID), h.Get)

		w := do(r, http.MethodGet, "/user", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
	})
}

func TestUser_Delete(t *testing.T) {
	cm := httpcontext.NewManager()
	userID := uuid.New()

	tests := []struct {
		name       string
		account    fakeAccount
		wantStatus int
		wantBody   string
	}{
		{
			name:       "deleted",
			account:    fakeAccount{deleted: true},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"message":"User deleted successfully"}`,
		},
		{
			name:       "store reported nothing removed",
			account:    fakeAccount{deleted: false},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to delete user"}`,
		},
		{
			name:       "unknown user",
			account:    fakeAccount{delErr: model.ErrUserNotFound},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"User not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUser(tt.account, cm, testutil.MakeNoopLogger())
			r := gin.New()
			r.DELETE("/delete_account", authed(cm, userID), h.Delete)

			w := do(r, http.MethodDelete, "/delete_account", "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestConversation_Respond(t *testing.T) {
	cm := httpcontext.NewManager()
	userID := uuid.New()

	tests := []struct {
		name        string
		body        string
		svc         *fakeConversations
		wantStatus  int
		wantBody    string
		wantHistory *int64
	}{
		{
			name:       "new conversation",
			body:       `{"message":"hello"}`,
			svc:        &fakeConversations{reply: model.Reply{Response: "hi", HistoryID: 9}},
			wantStatus: http.StatusOK,
			wantBody:   `{"response":"hi","history_id":9}`,
		},
		{
			name:        "explicit null history",
			body:        `{"message":"hello","history_id":null}`,
			svc:         &fakeConversations{reply: model.Reply{Response: "hi", HistoryID: 10}},
			wantStatus:  http.StatusOK,
			wantBody:    `{"response":"hi","history_id":10}`,
			wantHistory: nil,
		},
		{
			name:       "bad history id",
			body:       `{"message":"hello","history_id":-1}`,
			svc:        &fakeConversations{},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"history_id: must be a positive integer"}`,
		},
		{
			name:       "forbidden",
			body:       `{"message":"hello","history_id":3}`,
			svc:        &fakeConversations{respondErr: model.ErrForbidden},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"access denied"}`,
		},
		{
			name:       "engine down",
			body:       `{"message":"hello"}`,
			svc:        &fakeConversations{respondErr: model.ErrEngineUnavailable},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"answering engine unavailable"}`,
		},
		{
			name:       "blank message",
			body:       `{"message":"  "}`,
			svc:        &fakeConversations{respondErr: model.NewMissingFieldError("message")},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"message: is required"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewConversation(tt.svc, cm, testutil.MakeNoopLogger())
			r := gin.New()
			r.POST("/get_response", authed(cm, userID), h.Respond)

			w := do(r, http.MethodPost, "/get_response", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantHistory, tt.svc.gotHistory)
			}
		})
	}
}

func TestConversation_ListAndGet(t *testing.T) {
	cm := httpcontext.NewManager()
	userID := uuid.New()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	svc := &fakeConversations{
		summaries: []model.ConversationSummary{{ID: 4, Title: "hello", TurnCount: 2, Opening: model.Turn{Message: "hello", Reply: "hi"}, CreatedAt: ts, UpdatedAt: ts}},
		conv: model.Conversation{
			ID:            4,
			OwnerID:       userID,
			OwnerUsername: "alice",
			Title:         "hello",
			Turns:         []model.Turn{{Position: 1, Message: "hello", Reply: "hi"}, {Position: 2, Message: "again", Reply: "sure"}},
			CreatedAt:     ts,
			UpdatedAt:     ts,
		},
	}
	h := NewConversation(svc, cm, testutil.MakeNoopLogger())
	r := gin.New()
	r.GET("/history", authed(cm, userID), h.List)
	r.GET("/history/:id", authed(cm, userID), h.Get)

	w := do(r, http.MethodGet, "/history", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"chat_history":[{"history_id":4,"title":"hello","turn_count":2,"chat":[{"user":"hello","ai":"hi"}],"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"}]}`, w.Body.String())

	w = do(r, http.MethodGet, "/history/4", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"history_id": 4,
		"title": "hello",
		"username": "alice",
		"chat": [{"user":"hello","ai":"hi"},{"user":"again","ai":"sure"}],
		"created_at": "2024-05-01T10:00:00Z",
		"updated_at": "2024-05-01T10:00:00Z"
	}`, w.Body.String())

	w = do(r, http.MethodGet, "/history/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversation_List_EmptyIsArray(t *testing.T) {
	cm := httpcontext.NewManager()
	userID := uuid.New()
	h := NewConversation(&fakeConversations{summaries: nil}, cm, testutil.MakeNoopLogger())
	r := gin.New()
	r.GET("/history", authed(cm, userID), h.List)

	w := do(r, http.MethodGet, "/history", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"chat_history":[]}`, w.Body.String())
}

func TestConversation_Delete(t *testing.T) {
	cm := httpcontext.NewManager()
	userID := uuid.New()

	tests := []struct {
		name       string
		path       string
		svc        *fakeConversations
		wantStatus int
		wantBody   string
	}{
		{name: "deleted", path: "/delete_chat/4", svc: &fakeConversations{deleted: true}, wantStatus: http.StatusOK, wantBody: `{"success":true}`},
		{name: "already gone", path: "/delete_chat/4", svc: &fakeConversations{deleted: false}, wantStatus: http.StatusOK, wantBody: `{"success":false}`},
		{name: "not owner", path: "/delete_chat/4", svc: &fakeConversations{deleteErr: model.ErrForbidden}, wantStatus: http.StatusForbidden, wantBody: `{"error":"access denied"}`},
		{name: "zero id", path: "/delete_chat/0", svc: &fakeConversations{}, wantStatus: http.StatusBadRequest, wantBody: `{"error":"id: must be a positive integer"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewConversation(tt.svc, cm, testutil.MakeNoopLogger())
			r := gin.New()
			r.DELETE("/delete_chat/:id", authed(cm, userID), h.Delete)

			w := do(r, http.MethodDelete, tt.path, "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: model.NewValidationError("f", "r"), want: http.StatusBadRequest},
		{err: model.ErrUnauthenticated, want: http.StatusUnauthorized},
		{err: model.ErrInvalidCredential, want: http.StatusUnauthorized},
		{err: model.ErrForbidden, want: http.StatusForbidden},
		{err: model.ErrUserNotFound, want: http.StatusNotFound},
		{err: model.ErrConversationNotFound, want: http.StatusNotFound},
		{err: model.ErrDuplicateIdentity, want: http.StatusBadRequest},
		{err: errors.Join(errors.New("wrapped"), model.ErrEngineUnavailable), want: http.StatusBadGateway},
		{err: fmt.Errorf("request cancelled: %w", context.Canceled), want: StatusClientClosedRequest},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleError_Logging(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		wantLog    []string
		absentLog  string
	}{
		{
			name:       "unexpected error",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
			wantLog:    []string{"level=ERROR", "request_id=req-7", "path=/history", `error="connection refused"`},
		},
		{
			name:       "client went away",
			err:        fmt.Errorf("request cancelled: %w", context.Canceled),
			wantStatus: StatusClientClosedRequest,
			wantLog:    []string{"level=INFO", "request_id=req-7", "client went away"},
			absentLog:  "level=ERROR",
		},
		{
			name:       "expected error is not logged",
			err:        model.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"access denied"}`,
			absentLog:  "request_id=req-7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&buf, -4)

			r := gin.New()
			r.Use(middleware.RequestID())
			r.GET("/history", func(c *gin.Context) { handleError(c, log, tt.err) })

			req := httptest.NewRequest(http.MethodGet, "/history", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-7")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			} else {
				assert.Empty(t, w.Body.String())
			}
			for _, want := range tt.wantLog {
				assert.Contains(t, buf.String(), want)
			}
			if tt.absentLog != "" {
				assert.NotContains(t, buf.String(), tt.absentLog)
			}
		})
	}
}

func TestHome(t *testing.T) {
	r := gin.New()
	r.GET("/home", Home)

	w := do(r, http.MethodGet, "/home", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Chat App API!"}`, w.Body.String())
}
