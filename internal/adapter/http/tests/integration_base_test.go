//go:build integration
// +build integration

package tests

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"heunets/pkg/translator"
)

const translationFolder = "../../../../pkg/translator/translation"

type IntegrationSuiteBase struct {
	suite.Suite

	client     *mongo.Client
	DB         *mongo.Database
	testDBName string
}

func (s *IntegrationSuiteBase) SetupSuite() {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  translationFolder,
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	uri := envOrDefault("MONGO_URI", "mongodb://127.0.0.1:27017")
	database := envOrDefault("MONGO_TEST_DATABASE", envOrDefault("MONGO_DATABASE", "heunets")+"_test")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err == nil {
		err = client.Ping(ctx, readpref.Primary())
	}
	if err != nil {
		s.T().Skipf("skipping integration suite: could not connect to mongodb: %v", err)
	}

	s.client = client
	s.DB = client.Database(database)
	s.testDBName = database
}

func (s *IntegrationSuiteBase) TearDownSuite() {
	if s.client == nil {
		return
	}

	// Drop test database to keep local environment clean after integration runs.
	if strings.HasSuffix(s.testDBName, "_test") {
		s.Require().NoError(s.DB.Drop(context.Background()))
	}
	s.Require().NoError(s.client.Disconnect(context.Background()))
}

func (s *IntegrationSuiteBase) ResetDatabase() {
	ctx := context.Background()
	for _, name := range []string{"workitems", "users"} {
		s.Require().NoError(s.DB.Collection(name).Drop(ctx))
	}
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
