package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/triage-api/schema"
)

type AlertMongoTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
	store        MongoStore
}

func NewAlertMongoTestSuite(connURI, dbName string) *AlertMongoTestSuite {
	return &AlertMongoTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *AlertMongoTestSuite) SetupSuite() {
	opts := options.Client().ApplyURI(s.connURI)
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		s.T().Fatalf("create mongo client with error: %s", err)
	}

	if err = mongoClient.Connect(context.Background()); nil != err {
		s.T().Fatalf("connect mongo database with error: %s", err.Error())
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)
	s.store = NewMongoStore(mongoClient, s.testDBName)
}

// SetupTest makes sure every test is run with a clean environment
func (s *AlertMongoTestSuite) SetupTest() {
	if err := s.testDatabase.Drop(context.Background()); err != nil {
		s.T().Fatal(err)
	}
	schema.NewMongoDBIndexer(s.connURI, s.testDBName).IndexAll()
}

func (s *AlertMongoTestSuite) TearDownSuite() {
	s.store.Close()
}

func (s *AlertMongoTestSuite) TestCreateAllocatesIncreasingIDs() {
	ctx := context.Background()

	first, err := s.store.Create(ctx, testNewAlert(testWorker))
	s.NoError(err)
	second, err := s.store.Create(ctx, testNewAlert(testWorker))
	s.NoError(err)
	s.Equal(first.ID+1, second.ID)

	stored, err := s.store.Get(ctx, second.ID)
	s.NoError(err)
	s.Equal(schema.AlertNew, stored.Status)
	s.Equal(testWorker, stored.AssignedWorker)
	s.Equal(6.5244, *stored.PatientLocation.Lat)
	s.Equal(schema.Yes, stored.Symptoms.IsCrushing)
}

func (s *AlertMongoTestSuite) TestListForWorker() {
	ctx := context.Background()
	for _, w := range []schema.Worker{testWorker, otherWorker, testWorker} {
		_, err := s.store.Create(ctx, testNewAlert(w))
		s.NoError(err)
	}

	alerts, err := s.store.ListForWorker(ctx, testWorker.ID)
	s.NoError(err)
	s.Len(alerts, 2)
	s.True(alerts[0].ID > alerts[1].ID)
}

func (s *AlertMongoTestSuite) TestLifecycle() {
	ctx := context.Background()
	a, err := s.store.Create(ctx, testNewAlert(testWorker))
	s.NoError(err)

	_, err = s.store.Resolve(ctx, a.ID, schema.ResolutionCouldNotReach, "")
	s.Equal(ErrInvalidTransition, err)

	a, err = s.store.UpdateStatus(ctx, a.ID, schema.AlertContacting)
	s.NoError(err)
	s.Equal(schema.AlertContacting, a.Status)

	_, err = s.store.Resolve(ctx, a.ID, "Sent home", "")
	s.Equal(ErrInvalidResolution, err)

	a, err = s.store.Resolve(ctx, a.ID, schema.ResolutionEmergencyServicesAlerted, "ambulance dispatched")
	s.NoError(err)
	s.Equal(schema.AlertResolved, a.Status)
	s.Equal("ambulance dispatched", a.Notes)
	s.NotNil(a.ResolvedAt)

	_, err = s.store.Resolve(ctx, a.ID, schema.ResolutionCouldNotReach, "")
	s.Equal(ErrAlertResolved, err)

	_, err = s.store.UpdateStatus(ctx, 4242, schema.AlertContacting)
	s.Equal(ErrAlertNotFound, err)
}

// TestAlertMongoTestSuite needs a running mongodb, pointed to by TRIAGE_TEST_MONGO
func TestAlertMongoTestSuite(t *testing.T) {
	uri := os.Getenv("TRIAGE_TEST_MONGO")
	if uri == "" {
		t.Skip("TRIAGE_TEST_MONGO is not set")
	}
	suite.Run(t, NewAlertMongoTestSuite(uri, "triage-test-db"))
}
