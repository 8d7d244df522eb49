package usecase_test

import (
	"context"
	"errors"
	"testing"

	authrepo "orgmanager/internal/auth/domain/repository"
	"orgmanager/internal/auth/usecase"
	"orgmanager/internal/organization/domain/model"
	apperrors "orgmanager/internal/shared/errors"
	"orgmanager/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mock organization repository
type mockOrganizationRepository struct {
	mock.Mock
}

func (m *mockOrganizationRepository) InsertOrganization(ctx context.Context, org *model.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *mockOrganizationRepository) FindByName(ctx context.Context, organizationName string) (*model.Organization, error) {
	args := m.Called(ctx, organizationName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *mockOrganizationRepository) FindByEmail(ctx context.Context, email string) (*model.Organization, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *mockOrganizationRepository) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *mockOrganizationRepository) UpdateOrganization(ctx context.Context, organizationName string, patch map[string]interface{}) (bool, error) {
	args := m.Called(ctx, organizationName, patch)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrganizationRepository) DeleteOrganization(ctx context.Context, organizationName string) (bool, error) {
	args := m.Called(ctx, organizationName)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrganizationRepository) CreateCollection(ctx context.Context, collectionName string) error {
	args := m.Called(ctx, collectionName)
	return args.Error(0)
}

func (m *mockOrganizationRepository) DropCollection(ctx context.Context, collectionName string) error {
	args := m.Called(ctx, collectionName)
	return args.Error(0)
}

func (m *mockOrganizationRepository) ListDocuments(ctx context.Context, collectionName string, limit int64) ([]map[string]interface{}, error) {
	args := m.Called(ctx, collectionName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]interface{}), args.Error(1)
}

func (m *mockOrganizationRepository) CountDocuments(ctx context.Context, collectionName string) (int64, error) {
	args := m.Called(ctx, collectionName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrganizationRepository) InsertDocument(ctx context.Context, collectionName string, doc map[string]interface{}) error {
	args := m.Called(ctx, collectionName, doc)
	return args.Error(0)
}

func (m *mockOrganizationRepository) MigrateCollection(ctx context.Context, source, dest string) error {
	args := m.Called(ctx, source, dest)
	return args.Error(0)
}

// Mock credential service
type mockCredentialService struct {
	mock.Mock
}

func (m *mockCredentialService) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *mockCredentialService) Verify(hash, plaintext string) error {
	args := m.Called(hash, plaintext)
	return args.Error(0)
}

// Mock token service
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken(ctx context.Context, email, organizationID, organizationName string) (string, error) {
	args := m.Called(ctx, email, organizationID, organizationName)
	return args.String(0), args.Error(1)
}

func (m *mockTokenService) ValidateToken(ctx context.Context, tokenString string) (*authrepo.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authrepo.Claims), args.Error(1)
}

type AuthUsecaseTestSuite struct {
	suite.Suite
	mockRepo  *mockOrganizationRepository
	mockCreds *mockCredentialService
	mockToken *mockTokenService
	usecase   *usecase.AuthUsecase
	ctx       context.Context
}

func (suite *AuthUsecaseTestSuite) SetupTest() {
	suite.mockRepo = &mockOrganizationRepository{}
	suite.mockCreds = &mockCredentialService{}
	suite.mockToken = &mockTokenService{}
	suite.usecase = usecase.NewAuthUsecase(suite.mockRepo, suite.mockCreds, suite.mockToken, logger.NewLogger())
	suite.ctx = context.Background()
}

func (suite *AuthUsecaseTestSuite) organization(name string) *model.Organization {
	return &model.Organization{
		ID:               primitive.NewObjectID(),
		OrganizationName: name,
		Email:            "admin@" + name + ".example.com",
		PasswordHash:     "stored-hash",
		CollectionName:   model.CollectionNameFor(name),
	}
}

func (suite *AuthUsecaseTestSuite) TestLogin_Success() {
	// Arrange
	org := suite.organization("acme")
	req := usecase.LoginRequest{Email: org.Email, Password: "secret123"}

	suite.mockRepo.On("FindByEmail", suite.ctx, org.Email).Return(org, nil)
	suite.mockCreds.On("Verify", "stored-hash", "secret123").Return(nil)
	suite.mockToken.On("GenerateToken", suite.ctx, org.Email, org.ID.Hex(), "acme").Return("jwt-token", nil)

	// Act
	resp, err := suite.usecase.Login(suite.ctx, req)

	// Assert
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "jwt-token", resp.AccessToken)
	assert.Equal(suite.T(), "bearer", resp.TokenType)
	assert.Equal(suite.T(), "acme", resp.OrganizationName)
}

func (suite *AuthUsecaseTestSuite) TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable() {
	org := suite.organization("acme")

	suite.mockRepo.On("FindByEmail", suite.ctx, "unknown@example.com").Return(nil, model.ErrOrganizationNotFound)
	suite.mockRepo.On("FindByEmail", suite.ctx, org.Email).Return(org, nil)
	suite.mockCreds.On("Verify", "stored-hash", "wrong").Return(errors.New("mismatch"))

	_, unknownErr := suite.usecase.Login(suite.ctx, usecase.LoginRequest{Email: "unknown@example.com", Password: "secret123"})
	_, wrongErr := suite.usecase.Login(suite.ctx, usecase.LoginRequest{Email: org.Email, Password: "wrong"})

	require.Error(suite.T(), unknownErr)
	require.Error(suite.T(), wrongErr)
	assert.True(suite.T(), apperrors.IsAuthentication(unknownErr))
	assert.True(suite.T(), apperrors.IsAuthentication(wrongErr))

	unknownApp := unknownErr.(*apperrors.AppError)
	wrongApp := wrongErr.(*apperrors.AppError)
	assert.Equal(suite.T(), unknownApp.Message, wrongApp.Message)
}

func (suite *AuthUsecaseTestSuite) TestResolveCaller_Success() {
	org := suite.organization("acme")
	claims := &authrepo.Claims{OrganizationID: org.ID.Hex(), OrganizationName: "acme"}

	suite.mockToken.On("ValidateToken", suite.ctx, "valid-token").Return(claims, nil)
	suite.mockRepo.On("FindByName", suite.ctx, "acme").Return(org, nil)

	caller, err := suite.usecase.ResolveCaller(suite.ctx, "valid-token")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "acme", caller.OrganizationName)
	assert.Equal(suite.T(), "org_acme", caller.CollectionName)
}

func (suite *AuthUsecaseTestSuite) TestResolveCaller_InvalidToken() {
	suite.mockToken.On("ValidateToken", suite.ctx, "bad-token").Return(nil, errors.New("signature invalid"))

	caller, err := suite.usecase.ResolveCaller(suite.ctx, "bad-token")

	assert.Nil(suite.T(), caller)
	assert.True(suite.T(), apperrors.IsAuthentication(err))
}

func (suite *AuthUsecaseTestSuite) TestResolveCaller_DeletedTenantIsNotFound() {
	// A syntactically valid token whose tenant no longer exists. The failure
	// must be a missing resource, not an authentication failure.
	claims := &authrepo.Claims{OrganizationName: "ghost"}

	suite.mockToken.On("ValidateToken", suite.ctx, "stale-token").Return(claims, nil)
	suite.mockRepo.On("FindByName", suite.ctx, "ghost").Return(nil, model.ErrOrganizationNotFound)

	caller, err := suite.usecase.ResolveCaller(suite.ctx, "stale-token")

	assert.Nil(suite.T(), caller)
	assert.True(suite.T(), apperrors.IsNotFound(err))
	assert.False(suite.T(), apperrors.IsAuthentication(err))
}

func (suite *AuthUsecaseTestSuite) TestAuthorizeOwnTenant_OwnTenant() {
	caller := &usecase.CallerIdentity{OrganizationName: "acme"}

	err := suite.usecase.AuthorizeOwnTenant(caller, "acme")

	assert.NoError(suite.T(), err)
}

func (suite *AuthUsecaseTestSuite) TestAuthorizeOwnTenant_CrossTenantForbidden() {
	caller := &usecase.CallerIdentity{OrganizationName: "acme"}

	err := suite.usecase.AuthorizeOwnTenant(caller, "other")

	require.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsAuthorization(err))
}

func (suite *AuthUsecaseTestSuite) TestAuthorizeOwnTenant_NilCaller() {
	err := suite.usecase.AuthorizeOwnTenant(nil, "acme")

	require.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsAuthentication(err))
}

func TestAuthUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUsecaseTestSuite))
}
