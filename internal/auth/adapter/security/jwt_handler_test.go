package security_test

import (
	"context"
	"testing"
	"time"

	"orgmanager/internal/auth/adapter/security"
	"orgmanager/internal/auth/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type JWTokenServiceTestSuite struct {
	suite.Suite
	service *security.JWTokenService
	config  *config.Config
	ctx     context.Context
}

func (suite *JWTokenServiceTestSuite) SetupTest() {
	suite.config = &config.Config{
		JWTSecretKey:   "test-secret-key",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 15 * time.Minute,
	}

	service, err := security.NewJWTokenService(suite.config)
	require.NoError(suite.T(), err)
	suite.service = service
	suite.ctx = context.Background()
}

func (suite *JWTokenServiceTestSuite) TestNewJWTokenService_EmptySecret() {
	cfg := &config.Config{JWTIssuer: "issuer", AccessTokenTTL: time.Minute}

	service, err := security.NewJWTokenService(cfg)

	assert.Nil(suite.T(), service)
	assert.Error(suite.T(), err)
}

func (suite *JWTokenServiceTestSuite) TestGenerateAndValidateToken() {
	token, err := suite.service.GenerateToken(suite.ctx, "admin@acme.com", "org-id-123", "acme")
	require.NoError(suite.T(), err)
	require.NotEmpty(suite.T(), token)

	claims, err := suite.service.ValidateToken(suite.ctx, token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "admin@acme.com", claims.Subject)
	assert.Equal(suite.T(), "org-id-123", claims.OrganizationID)
	assert.Equal(suite.T(), "acme", claims.OrganizationName)
	assert.Equal(suite.T(), "test-issuer", claims.Issuer)
}

func (suite *JWTokenServiceTestSuite) TestValidateToken_Empty() {
	claims, err := suite.service.ValidateToken(suite.ctx, "")

	assert.Nil(suite.T(), claims)
	assert.ErrorIs(suite.T(), err, security.ErrTokenInvalid)
}

func (suite *JWTokenServiceTestSuite) TestValidateToken_Malformed() {
	claims, err := suite.service.ValidateToken(suite.ctx, "not.a.token")

	assert.Nil(suite.T(), claims)
	assert.ErrorIs(suite.T(), err, security.ErrTokenInvalid)
}

func (suite *JWTokenServiceTestSuite) TestValidateToken_WrongSecret() {
	otherCfg := &config.Config{
		JWTSecretKey:   "a-different-secret",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 15 * time.Minute,
	}
	otherService, err := security.NewJWTokenService(otherCfg)
	require.NoError(suite.T(), err)

	token, err := otherService.GenerateToken(suite.ctx, "admin@acme.com", "org-id-123", "acme")
	require.NoError(suite.T(), err)

	claims, err := suite.service.ValidateToken(suite.ctx, token)

	assert.Nil(suite.T(), claims)
	assert.ErrorIs(suite.T(), err, security.ErrTokenSignatureInvalid)
}

func (suite *JWTokenServiceTestSuite) TestValidateToken_Expired() {
	expiredCfg := &config.Config{
		JWTSecretKey:   "test-secret-key",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: time.Nanosecond,
	}
	expiredService, err := security.NewJWTokenService(expiredCfg)
	require.NoError(suite.T(), err)

	token, err := expiredService.GenerateToken(suite.ctx, "admin@acme.com", "org-id-123", "acme")
	require.NoError(suite.T(), err)

	time.Sleep(10 * time.Millisecond)

	claims, err := suite.service.ValidateToken(suite.ctx, token)

	assert.Nil(suite.T(), claims)
	assert.ErrorIs(suite.T(), err, security.ErrTokenExpired)
}

func TestJWTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JWTokenServiceTestSuite))
}
