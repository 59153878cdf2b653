package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
	"github.com/pennypusher/pennypusher/internal/handlers"
	"github.com/pennypusher/pennypusher/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, requestingUserID string) ([]domain.User, error) {
	args := m.Called(ctx, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, requestingUserID, username string) error {
	args := m.Called(ctx, requestingUserID, username)
	return args.Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Mock PusherService ---
type MockPusherService struct {
	mock.Mock
}

func (m *MockPusherService) CreatePusher(ctx context.Context, creatorUserID, name string) (*domain.Pusher, error) {
	args := m.Called(ctx, creatorUserID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pusher), args.Error(1)
}

func (m *MockPusherService) Authorize(ctx context.Context, pusherKey, userID string) (*domain.Pusher, error) {
	args := m.Called(ctx, pusherKey, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pusher), args.Error(1)
}

func (m *MockPusherService) ListUserPushers(ctx context.Context, userID string) ([]domain.Pusher, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pusher), args.Error(1)
}

func (m *MockPusherService) RenamePusher(ctx context.Context, pusherKey, userID, newName string) (*domain.Pusher, error) {
	args := m.Called(ctx, pusherKey, userID, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pusher), args.Error(1)
}

func (m *MockPusherService) DeletePusher(ctx context.Context, pusherKey, userID string) error {
	args := m.Called(ctx, pusherKey, userID)
	return args.Error(0)
}

func (m *MockPusherService) GrantAccess(ctx context.Context, requestingUserID, username, pusherKey string) (*domain.PusherAccess, error) {
	args := m.Called(ctx, requestingUserID, username, pusherKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PusherAccess), args.Error(1)
}

func (m *MockPusherService) ListPusherAccess(ctx context.Context, requestingUserID, pusherKey string) ([]domain.PusherAccess, error) {
	args := m.Called(ctx, requestingUserID, pusherKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PusherAccess), args.Error(1)
}

func (m *MockPusherService) ListUserAccess(ctx context.Context, userID, pusherKey string) ([]domain.PusherAccess, error) {
	args := m.Called(ctx, userID, pusherKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PusherAccess), args.Error(1)
}

func (m *MockPusherService) RevokeAccess(ctx context.Context, requestingUserID, username, pusherKey string) error {
	args := m.Called(ctx, requestingUserID, username, pusherKey)
	return args.Error(0)
}

var _ portssvc.PusherSvcFacade = (*MockPusherService)(nil)

// --- Mock EncapsulationService ---
type MockEncapsulationService struct {
	mock.Mock
}

func (m *MockEncapsulationService) Create(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, data json.RawMessage) (any, error) {
	args := m.Called(ctx, pusher, kind, name, data)
	return args.Get(0), args.Error(1)
}

func (m *MockEncapsulationService) List(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind) (any, error) {
	args := m.Called(ctx, pusher, kind)
	return args.Get(0), args.Error(1)
}

func (m *MockEncapsulationService) Replace(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, data json.RawMessage) (any, error) {
	args := m.Called(ctx, pusher, kind, name, data)
	return args.Get(0), args.Error(1)
}

func (m *MockEncapsulationService) Delete(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string) error {
	args := m.Called(ctx, pusher, kind, name)
	return args.Error(0)
}

func (m *MockEncapsulationService) CreateValue(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, req dto.CreateEncapsulationValueRequest) (*dto.EncapsulationValueResponse, error) {
	args := m.Called(ctx, pusher, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EncapsulationValueResponse), args.Error(1)
}

func (m *MockEncapsulationService) ListValues(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, params dto.PageParams) (*dto.PagedResponse, error) {
	args := m.Called(ctx, pusher, kind, name, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PagedResponse), args.Error(1)
}

func (m *MockEncapsulationService) DeleteValue(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, ts time.Time) error {
	args := m.Called(ctx, pusher, kind, name, ts)
	return args.Error(0)
}

var _ portssvc.EncapsulationSvcFacade = (*MockEncapsulationService)(nil)

// --- Mock EntityService ---
type MockEntityService struct {
	mock.Mock
}

func (m *MockEntityService) Create(ctx context.Context, pusher *domain.Pusher, userID string, kind domain.EntityKind, data json.RawMessage) (any, error) {
	args := m.Called(ctx, pusher, userID, kind, data)
	return args.Get(0), args.Error(1)
}

func (m *MockEntityService) List(ctx context.Context, pusher *domain.Pusher, kind domain.EntityKind, params dto.PageParams) (*dto.PagedResponse, error) {
	args := m.Called(ctx, pusher, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PagedResponse), args.Error(1)
}

func (m *MockEntityService) Replace(ctx context.Context, pusher *domain.Pusher, userID string, kind domain.EntityKind, data json.RawMessage) (any, error) {
	args := m.Called(ctx, pusher, userID, kind, data)
	return args.Get(0), args.Error(1)
}

func (m *MockEntityService) Delete(ctx context.Context, pusher *domain.Pusher, kind domain.EntityKind, query dto.EntityQuery) error {
	args := m.Called(ctx, pusher, kind, query)
	return args.Error(0)
}

var _ portssvc.EntitySvcFacade = (*MockEntityService)(nil)

// --- Mock NetWorthService ---
type MockNetWorthService struct {
	mock.Mock
}

func (m *MockNetWorthService) History(ctx context.Context, pusher *domain.Pusher, params dto.PageParams) (*dto.PagedResponse, error) {
	args := m.Called(ctx, pusher, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PagedResponse), args.Error(1)
}

var _ portssvc.NetWorthSvcFacade = (*MockNetWorthService)(nil)

// --- Test Suite ---
type EntityHandlerTestSuite struct {
	suite.Suite
	router                   *gin.Engine
	mockUserService          *MockUserService
	mockTokenService         *MockTokenService
	mockPusherService        *MockPusherService
	mockEncapsulationService *MockEncapsulationService
	mockEntityService        *MockEntityService
	mockNetWorthService      *MockNetWorthService
	jwtSecret                string
	pusher                   *domain.Pusher
}

func (suite *EntityHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "pennypusher-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *EntityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockUserService = new(MockUserService)
	suite.mockTokenService = new(MockTokenService)
	suite.mockPusherService = new(MockPusherService)
	suite.mockEncapsulationService = new(MockEncapsulationService)
	suite.mockEntityService = new(MockEntityService)
	suite.mockNetWorthService = new(MockNetWorthService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		User:          suite.mockUserService,
		Token:         suite.mockTokenService,
		Pusher:        suite.mockPusherService,
		Encapsulation: suite.mockEncapsulationService,
		Entity:        suite.mockEntityService,
		NetWorth:      suite.mockNetWorthService,
	})

	suite.pusher = &domain.Pusher{
		PusherID: uuid.NewString(),
		Name:     "household",
		Key:      "AB12CD34",
	}
}

func (suite *EntityHandlerTestSuite) authedRequest(method, target string, body []byte, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *EntityHandlerTestSuite) TestListEntities_Success() {
	userID := uuid.NewString()
	paged := &dto.PagedResponse{
		Count:    1,
		Page:     1,
		PageSize: 50,
		Results: []dto.IncomeResponse{
			{Pusher: "household", Item: "salary", Amount: decimal.NewFromInt(2500), Source: "Acme"},
		},
	}

	suite.mockPusherService.On("Authorize", mock.Anything, suite.pusher.Key, userID).Return(suite.pusher, nil).Once()
	suite.mockEntityService.On("List", mock.Anything, suite.pusher, domain.KindIncome, mock.AnythingOfType("dto.PageParams")).Return(paged, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/entity/?pusher_key=AB12CD34&type=income", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.PagedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(int64(1), body.Count)
	suite.mockEntityService.AssertExpectations(suite.T())
}

func (suite *EntityHandlerTestSuite) TestListEntities_NonMemberRejected() {
	userID := uuid.NewString()

	suite.mockPusherService.On("Authorize", mock.Anything, suite.pusher.Key, userID).
		Return(nil, apperrors.NewUnauthorizedError("You do not have access to this pusher.")).Once()

	w := suite.authedRequest(http.MethodGet, "/entity/?pusher_key=AB12CD34&type=income", nil, userID)

	suite.Equal(http.StatusUnauthorized, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("You do not have access to this pusher.", body["description"])
	suite.mockEntityService.AssertNotCalled(suite.T(), "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntityHandlerTestSuite) TestListEntities_UnknownPusherKey() {
	userID := uuid.NewString()

	suite.mockPusherService.On("Authorize", mock.Anything, "FFFFFFFF", userID).
		Return(nil, apperrors.NewNotFoundError("The pusher FFFFFFFF does not exist.")).Once()

	w := suite.authedRequest(http.MethodGet, "/entity/?pusher_key=FFFFFFFF&type=income", nil, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("The pusher FFFFFFFF does not exist.", body["description"])
}

func (suite *EntityHandlerTestSuite) TestListEntities_InvalidTypeTag() {
	userID := uuid.NewString()

	w := suite.authedRequest(http.MethodGet, "/entity/?pusher_key=AB12CD34&type=stocks", nil, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("The type [stocks] is not a valid entity type.", body["description"])
	suite.mockPusherService.AssertNotCalled(suite.T(), "Authorize", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntityHandlerTestSuite) TestListEntities_MissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/entity/?pusher_key=AB12CD34&type=income", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPusherService.AssertNotCalled(suite.T(), "Authorize", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntityHandlerTestSuite) TestCreateEntity_Created() {
	userID := uuid.NewString()
	payload := []byte(`{
		"pusher_key": "AB12CD34",
		"type": "expense",
		"data": {"item": "coffee", "amount": "4.50"}
	}`)
	created := dto.ExpenseResponse{
		Pusher: "household",
		Item:   "coffee",
		Amount: decimal.RequireFromString("4.50"),
	}

	suite.mockPusherService.On("Authorize", mock.Anything, suite.pusher.Key, userID).Return(suite.pusher, nil).Once()
	suite.mockEntityService.On("Create", mock.Anything, suite.pusher, userID, domain.KindExpense, mock.AnythingOfType("json.RawMessage")).Return(created, nil).Once()

	w := suite.authedRequest(http.MethodPost, "/entity/new/", payload, userID)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("coffee", body.Item)
	suite.mockEntityService.AssertExpectations(suite.T())
}

func (suite *EntityHandlerTestSuite) TestDeleteEntity_NoContent() {
	userID := uuid.NewString()

	suite.mockPusherService.On("Authorize", mock.Anything, suite.pusher.Key, userID).Return(suite.pusher, nil).Once()
	suite.mockEntityService.On("Delete", mock.Anything, suite.pusher, domain.KindSubscription, mock.MatchedBy(func(q dto.EntityQuery) bool {
		return q.Item == "netflix"
	})).Return(nil).Once()

	w := suite.authedRequest(http.MethodDelete, "/entity/?pusher_key=AB12CD34&type=subscription&item=netflix", nil, userID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockEntityService.AssertExpectations(suite.T())
}

func (suite *EntityHandlerTestSuite) TestReplaceEntity_NonElectiveRejected() {
	userID := uuid.NewString()
	payload := []byte(`{
		"pusher_key": "AB12CD34",
		"type": "income",
		"data": {"item": "salary", "amount": "2500"}
	}`)

	suite.mockPusherService.On("Authorize", mock.Anything, suite.pusher.Key, userID).Return(suite.pusher, nil).Once()
	suite.mockEntityService.On("Replace", mock.Anything, suite.pusher, userID, domain.KindIncome, mock.AnythingOfType("json.RawMessage")).
		Return(nil, apperrors.NewValidationFailedError("The type [income] cannot be updated.")).Once()

	w := suite.authedRequest(http.MethodPut, "/entity/", payload, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("The type [income] cannot be updated.", body["description"])
}

func TestEntityHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EntityHandlerTestSuite))
}
