package mongodb_test

import (
	"context"
	"testing"
	"time"

	"orgmanager/internal/organization/adapter/persistence/mongodb"
	"orgmanager/internal/organization/domain/model"
	"orgmanager/internal/organization/domain/repository"
	"orgmanager/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrganizationRepoTestSuite struct {
	suite.Suite
	client     *mongo.Client
	database   *mongo.Database
	repository repository.OrganizationRepository
}

func (suite *OrganizationRepoTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		suite.T().Skip("MongoDB not available for testing")
		return
	}
	if err := client.Ping(ctx, nil); err != nil {
		suite.T().Skip("MongoDB not available for testing")
		return
	}

	suite.client = client
	suite.database = client.Database("orgmanager_test_db")

	repo, err := mongodb.NewMongoOrganizationRepository(suite.database, logger.NewLogger())
	require.NoError(suite.T(), err)
	suite.repository = repo
}

func (suite *OrganizationRepoTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.database.Drop(context.Background())
		suite.client.Disconnect(context.Background())
	}
}

func (suite *OrganizationRepoTestSuite) TearDownTest() {
	if suite.database != nil {
		suite.database.Collection("organizations").Drop(context.Background())
	}
}

func (suite *OrganizationRepoTestSuite) newOrganization(name, email string) *model.Organization {
	org, err := model.NewOrganization(name, email, "hashed-password")
	require.NoError(suite.T(), err)
	return org
}

func (suite *OrganizationRepoTestSuite) TestInsertOrganization_AssignsIDAndTimestamps() {
	ctx := context.Background()
	org := suite.newOrganization("acme", "admin@acme.com")

	err := suite.repository.InsertOrganization(ctx, org)

	require.NoError(suite.T(), err)
	assert.False(suite.T(), org.ID.IsZero())
	assert.False(suite.T(), org.CreatedAt.IsZero())
}

func (suite *OrganizationRepoTestSuite) TestInsertOrganization_DuplicateName() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.repository.InsertOrganization(ctx, suite.newOrganization("acme", "first@acme.com")))

	err := suite.repository.InsertOrganization(ctx, suite.newOrganization("acme", "second@acme.com"))
	assert.ErrorIs(suite.T(), err, model.ErrOrganizationExists)
}

func (suite *OrganizationRepoTestSuite) TestInsertOrganization_DuplicateEmail() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.repository.InsertOrganization(ctx, suite.newOrganization("acme", "admin@acme.com")))

	err := suite.repository.InsertOrganization(ctx, suite.newOrganization("other", "admin@acme.com"))
	assert.ErrorIs(suite.T(), err, model.ErrOrganizationExists)
}

func (suite *OrganizationRepoTestSuite) TestInsertOrganization_Nil() {
	err := suite.repository.InsertOrganization(context.Background(), nil)
	assert.Error(suite.T(), err)
}

func (suite *OrganizationRepoTestSuite) TestFindByName() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.repository.InsertOrganization(ctx, suite.newOrganization("acme", "admin@acme.com")))

	found, err := suite.repository.FindByName(ctx, "acme")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "org_acme", found.CollectionName)

	_, err = suite.repository.FindByName(ctx, "ghost")
	assert.ErrorIs(suite.T(), err, model.ErrOrganizationNotFound)
}

func (suite *OrganizationRepoTestSuite) TestFindByID_BadHex() {
	_, err := suite.repository.FindByID(context.Background(), "not-a-hex-id")
	assert.ErrorIs(suite.T(), err, model.ErrOrganizationNotFound)
}

func (suite *OrganizationRepoTestSuite) TestUpdateOrganization_MergesPatch() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.repository.InsertOrganization(ctx, suite.newOrganization("acme", "admin@acme.com")))

	modified, err := suite.repository.UpdateOrganization(ctx, "acme", map[string]interface{}{
		"settings.plan": "premium",
	})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), modified)

	found, err := suite.repository.FindByName(ctx, "acme")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "premium", found.Settings["plan"])
}

func (suite *OrganizationRepoTestSuite) TestUpdateOrganization_MissingRecord() {
	modified, err := suite.repository.UpdateOrganization(context.Background(), "ghost", map[string]interface{}{
		"settings.plan": "premium",
	})
	require.NoError(suite.T(), err)
	assert.False(suite.T(), modified)
}

func (suite *OrganizationRepoTestSuite) TestDeleteOrganization() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.repository.InsertOrganization(ctx, suite.newOrganization("acme", "admin@acme.com")))

	removed, err := suite.repository.DeleteOrganization(ctx, "acme")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), removed)

	removed, err = suite.repository.DeleteOrganization(ctx, "acme")
	require.NoError(suite.T(), err)
	assert.False(suite.T(), removed)
}

func (suite *OrganizationRepoTestSuite) TestCreateCollection_Idempotent() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.repository.CreateCollection(ctx, "org_idem"))
	require.NoError(suite.T(), suite.repository.CreateCollection(ctx, "org_idem"))

	suite.database.Collection("org_idem").Drop(ctx)
}

func (suite *OrganizationRepoTestSuite) TestDropCollection_AbsentIsNoop() {
	assert.NoError(suite.T(), suite.repository.DropCollection(context.Background(), "org_never_created"))
}

func (suite *OrganizationRepoTestSuite) TestDocumentOperations() {
	ctx := context.Background()
	collection := "org_docs"
	require.NoError(suite.T(), suite.repository.CreateCollection(ctx, collection))
	defer suite.database.Collection(collection).Drop(ctx)

	for i := 0; i < 15; i++ {
		require.NoError(suite.T(), suite.repository.InsertDocument(ctx, collection, map[string]interface{}{
			"index": i,
		}))
	}

	count, err := suite.repository.CountDocuments(ctx, collection)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(15), count)

	docs, err := suite.repository.ListDocuments(ctx, collection, 10)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), docs, 10)
	// Raw object IDs never leak; previews carry hex strings.
	for _, doc := range docs {
		if id, ok := doc["_id"]; ok {
			_, isString := id.(string)
			assert.True(suite.T(), isString)
		}
	}
}

func (suite *OrganizationRepoTestSuite) TestListDocuments_EmptyCollection() {
	docs, err := suite.repository.ListDocuments(context.Background(), "org_empty", 10)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), docs)
	assert.Empty(suite.T(), docs)
}

func (suite *OrganizationRepoTestSuite) TestMigrateCollection() {
	ctx := context.Background()
	source := "org_migrate_src"
	dest := "org_migrate_dst"
	require.NoError(suite.T(), suite.repository.CreateCollection(ctx, source))
	require.NoError(suite.T(), suite.repository.CreateCollection(ctx, dest))
	defer suite.database.Collection(source).Drop(ctx)
	defer suite.database.Collection(dest).Drop(ctx)

	for i := 0; i < 5; i++ {
		require.NoError(suite.T(), suite.repository.InsertDocument(ctx, source, map[string]interface{}{
			"index": i,
		}))
	}

	require.NoError(suite.T(), suite.repository.MigrateCollection(ctx, source, dest))

	count, err := suite.repository.CountDocuments(ctx, dest)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), count)
}

func (suite *OrganizationRepoTestSuite) TestMigrateCollection_EmptySource() {
	assert.NoError(suite.T(), suite.repository.MigrateCollection(context.Background(), "org_empty_src", "org_empty_dst"))
}

func TestOrganizationRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationRepoTestSuite))
}
