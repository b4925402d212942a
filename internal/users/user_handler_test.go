package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sklad/pkg/models"
	"sklad/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, passwordHash string) error {
	args := m.Called(req, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(username string, changes *models.UserChanges) error {
	args := m.Called(username, changes)
	return args.Error(0)
}

func setupUsersRouter(repo UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	handler := NewHandler(repo)
	router.POST("/api/users", handler.RegisterUser)
	router.PATCH("/api/users/:username", handler.UpdateUser)
	router.GET("/api/users/:username", handler.GetUser)
	router.GET("/api/users", handler.GetUserList)
	return router
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterUser_StoresDigestNotPlaintext(t *testing.T) {
	repo := new(MockUserRepository)
	router := setupUsersRouter(repo)

	repo.On("PersistUser", mock.Anything, security.HashPassword("hunter22")).Return(nil)

	w := performJSON(router, "POST", "/api/users", models.CreateUserRequest{
		Username:    "jnovak",
		Password:    "hunter22",
		DisplayName: "Jan Novak",
		Role:        "user",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestRegisterUser_RejectsShortPassword(t *testing.T) {
	repo := new(MockUserRepository)
	router := setupUsersRouter(repo)

	w := performJSON(router, "POST", "/api/users", models.CreateUserRequest{
		Username:    "jnovak",
		Password:    "abc",
		DisplayName: "Jan Novak",
		Role:        "user",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything)
}

func TestRegisterUser_RejectsUnknownRole(t *testing.T) {
	repo := new(MockUserRepository)
	router := setupUsersRouter(repo)

	w := performJSON(router, "POST", "/api/users", models.CreateUserRequest{
		Username:    "jnovak",
		Password:    "hunter22",
		DisplayName: "Jan Novak",
		Role:        "root",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything)
}

func TestUpdateUser_OnlyChangedFields(t *testing.T) {
	repo := new(MockUserRepository)
	router := setupUsersRouter(repo)

	existing := &models.User{Username: "jnovak", DisplayName: "Jan Novak", Role: "user"}
	repo.On("GetUser", "jnovak").Return(existing, nil)

	repo.On("UpdateUser", "jnovak", mock.MatchedBy(func(changes *models.UserChanges) bool {
		return changes.Role != nil && *changes.Role == "moderator" &&
			changes.DisplayName == nil && changes.PasswordHash == nil
	})).Return(nil)

	role := "moderator"
	sameName := "Jan Novak"
	w := performJSON(router, "PATCH", "/api/users/jnovak", models.UpdateUserRequest{
		DisplayName: &sameName,
		Role:        &role,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestUpdateUser_NoChangesSkipsWrite(t *testing.T) {
	repo := new(MockUserRepository)
	router := setupUsersRouter(repo)

	existing := &models.User{Username: "jnovak", DisplayName: "Jan Novak", Role: "user"}
	repo.On("GetUser", "jnovak").Return(existing, nil)

	w := performJSON(router, "PATCH", "/api/users/jnovak", models.UpdateUserRequest{})

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestGetUser_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	router := setupUsersRouter(repo)

	repo.On("GetUser", "ghost").Return(nil, assert.AnError)

	req, _ := http.NewRequest("GET", "/api/users/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserList(t *testing.T) {
	repo := new(MockUserRepository)
	router := setupUsersRouter(repo)

	repo.On("GetUsers").Return([]models.User{
		{Username: "jnovak", DisplayName: "Jan Novak", Role: "user"},
		{Username: "admin", DisplayName: "Admin", Role: "admin"},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var userList []models.User
	err := json.Unmarshal(w.Body.Bytes(), &userList)
	assert.Nil(t, err)
	assert.Len(t, userList, 2)
}
