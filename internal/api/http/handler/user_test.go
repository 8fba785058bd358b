package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mpetrov/user-service/internal/model"
	"github.com/mpetrov/user-service/internal/testutil"
)

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newUserTestRouter(service UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUser(service, testutil.MakeNoopLogger())

	e := gin.New()
	e.GET("/users", h.List)
	e.POST("/users", h.Create)
	e.GET("/users/:id", h.Get)
	e.DELETE("/users/:id", h.Delete)
	return e
}

func decodeErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp
}

func TestUser_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("ListUsers", mock.Anything).Return([]model.User{
			{ID: 1, Name: "Alice", Email: "alice@example.com", Age: 30},
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var users []model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
		require.Len(t, users, 1)
		assert.Equal(t, "Alice", users[0].Name)
	})

	t.Run("empty list is a JSON array", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("ListUsers", mock.Anything).Return([]model.User{}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("storage fault", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("ListUsers", mock.Anything).Return([]model.User(nil), errors.New("boom"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeErrorResponse(t, w.Body)
		assert.Equal(t, "Internal Server Error", resp.Error)
		assert.Equal(t, "An unexpected error occurred", resp.Message)
		assert.NotEmpty(t, resp.Timestamp)
	})

	t.Run("database unavailable", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("ListUsers", mock.Anything).Return([]model.User(nil), model.ErrUnavailable)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestUser_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("GetUser", mock.Anything, int64(7)).Return(
			model.User{ID: 7, Name: "Alice", Email: "alice@example.com", Age: 30}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var user model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, int64(7), user.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("GetUser", mock.Anything, int64(7)).Return(model.User{}, model.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeErrorResponse(t, w.Body)
		assert.Equal(t, "User not found", resp.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &MockUserService{}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetUser")
	})
}

func TestUser_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &MockUserService{}
		params := model.CreateUserParams{Name: "Alice", Email: "alice@example.com", Age: 30}
		svc.On("CreateUser", mock.Anything, params).Return(
			model.User{ID: 1, Name: "Alice", Email: "alice@example.com", Age: 30}, nil)

		body := bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","age":30}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		req.Header.Set("Content-Type", "application/json")
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var user model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		svc := &MockUserService{}

		body := bytes.NewBufferString(`{"email":"alice@example.com","age":30}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		req.Header.Set("Content-Type", "application/json")
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateUser")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("CreateUser", mock.Anything, mock.Anything).Return(model.User{}, model.ErrEmailTaken)

		body := bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","age":30}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		req.Header.Set("Content-Type", "application/json")
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeErrorResponse(t, w.Body)
		assert.Equal(t, "Email already exists", resp.Message)
	})
}

func TestUser_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("DeleteUser", mock.Anything, int64(5)).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/users/5", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "User 5 deleted successfully")
	})

	t.Run("not found", func(t *testing.T) {
		svc := &MockUserService{}
		svc.On("DeleteUser", mock.Anything, int64(5)).Return(model.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/users/5", nil)
		newUserTestRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
