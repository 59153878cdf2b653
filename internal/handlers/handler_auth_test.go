package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
	"github.com/pennypusher/pennypusher/internal/handlers"
	"github.com/pennypusher/pennypusher/internal/platform/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockUserService  *MockUserService
	mockTokenService *MockTokenService
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockUserService = new(MockUserService)
	suite.mockTokenService = new(MockTokenService)

	cfg := &config.Config{JWTSecret: "test-secret-key-that-is-long-enough"}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		User:          suite.mockUserService,
		Token:         suite.mockTokenService,
		Pusher:        new(MockPusherService),
		Encapsulation: new(MockEncapsulationService),
		Entity:        new(MockEntityService),
		NetWorth:      new(MockNetWorthService),
	})
}

func (suite *AuthHandlerTestSuite) postJSON(target string, payload []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestRegister_Created() {
	payload := []byte(`{
		"username": "alice",
		"email": "alice@example.com",
		"password": "hunter2hunter2",
		"first_name": "Alice",
		"last_name": "Smith"
	}`)
	created := &domain.User{
		UserID:    uuid.NewString(),
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
	}

	suite.mockUserService.On("Register", mock.Anything, mock.MatchedBy(func(req dto.RegisterUserRequest) bool {
		return req.Username == "alice" && req.Email == "alice@example.com"
	})).Return(created, nil).Once()

	w := suite.postJSON("/user/register/", payload)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("alice", body.Username)
	suite.NotContains(w.Body.String(), "password")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRegister_MissingFields() {
	payload := []byte(`{"username": "alice"}`)

	w := suite.postJSON("/user/register/", payload)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "Register", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestRegister_DuplicateUsername() {
	payload := []byte(`{
		"username": "alice",
		"email": "alice@example.com",
		"password": "hunter2hunter2",
		"first_name": "Alice",
		"last_name": "Smith"
	}`)

	suite.mockUserService.On("Register", mock.Anything, mock.AnythingOfType("dto.RegisterUserRequest")).
		Return(nil, apperrors.NewConflictError("The username alice is already taken.")).Once()

	w := suite.postJSON("/user/register/", payload)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("The username alice is already taken.", body["description"])
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	payload := []byte(`{"username": "alice", "password": "hunter2hunter2"}`)
	user := &domain.User{UserID: uuid.NewString(), Username: "alice"}
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)

	suite.mockUserService.On("Authenticate", mock.Anything, "alice", "hunter2hunter2").Return(user, nil).Once()
	suite.mockTokenService.On("GenerateAccessToken", mock.Anything, user).Return("signed.jwt.token", expiresAt, nil).Once()

	w := suite.postJSON("/auth/login/", payload)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("signed.jwt.token", body.Token)
	suite.Equal("alice", body.User.Username)
	suite.mockTokenService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogin_BadCredentials() {
	payload := []byte(`{"username": "alice", "password": "wrong-password"}`)

	suite.mockUserService.On("Authenticate", mock.Anything, "alice", "wrong-password").
		Return(nil, apperrors.NewUnauthorizedError("Invalid username or password.")).Once()

	w := suite.postJSON("/auth/login/", payload)

	suite.Equal(http.StatusUnauthorized, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("Invalid username or password.", body["description"])
	suite.mockTokenService.AssertNotCalled(suite.T(), "GenerateAccessToken", mock.Anything, mock.Anything)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
