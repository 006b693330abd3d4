package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/bitmark-inc/triage-api/schema"
)

func TestMemoryWorkerStoreSeed(t *testing.T) {
	s := NewMemoryWorkerStore(DemoWorkers...)

	workers, err := s.ListWorkers(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []schema.Worker{
		{ID: 1, FullName: "Adebayo Akinwunmi", Phone: "+2348012345678"},
		{ID: 2, FullName: "Fatima Bello", Phone: "+2348023456789"},
		{ID: 3, FullName: "Chinedu Okoro", Phone: "+2348034567890"},
	}, workers)

	// seeding never touches the shared slice
	assert.Equal(t, int64(0), DemoWorkers[0].ID)
}

func TestMemoryWorkerStoreCreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWorkerStore()

	a := &schema.WorkerAccount{FullName: "Ngozi Eze", Email: "Ngozi@chw.example", Phone: "+2348051234567"}
	assert.NoError(t, s.CreateWorker(ctx, a))
	assert.Equal(t, int64(1), a.ID)

	err := s.CreateWorker(ctx, &schema.WorkerAccount{FullName: "Someone", Email: "ngozi@CHW.example"})
	assert.Equal(t, ErrEmailTaken, err)

	found, err := s.GetWorkerByEmail(ctx, "NGOZI@chw.example")
	assert.NoError(t, err)
	assert.Equal(t, "Ngozi Eze", found.FullName)

	_, err = s.GetWorker(ctx, 2)
	assert.Equal(t, ErrWorkerNotFound, err)

	_, err = s.GetWorkerByEmail(ctx, "nobody@chw.example")
	assert.Equal(t, ErrWorkerNotFound, err)
}

type ORMWorkerStoreTestSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	ormDB *gorm.DB
	store *ORMWorkerStore
}

func (s *ORMWorkerStoreTestSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)

	ormDB, err := gorm.Open("postgres", db)
	s.Require().NoError(err)

	s.mock = mock
	s.ormDB = ormDB
	s.store = NewORMWorkerStore(ormDB)
}

func (s *ORMWorkerStoreTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.ormDB.Close()
}

func (s *ORMWorkerStoreTestSuite) TestCreateWorker() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "workers"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	s.mock.ExpectCommit()

	a := &schema.WorkerAccount{FullName: "Ngozi Eze", Email: "Ngozi@chw.example", PasswordHash: "hash"}
	s.NoError(s.store.CreateWorker(context.Background(), a))
	s.Equal(int64(7), a.ID)
	s.Equal("ngozi@chw.example", a.Email)
}

func (s *ORMWorkerStoreTestSuite) TestCreateWorkerDuplicateEmail() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "workers"`)).
		WillReturnError(&pq.Error{Code: "23505"})
	s.mock.ExpectRollback()

	err := s.store.CreateWorker(context.Background(), &schema.WorkerAccount{Email: "ngozi@chw.example"})
	s.Equal(ErrEmailTaken, err)
}

func (s *ORMWorkerStoreTestSuite) TestGetWorkerByEmail() {
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "workers"`)).
		WithArgs("fatima@chw.example").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "password_hash", "created_at", "updated_at"}).
			AddRow(2, "Fatima Bello", "fatima@chw.example", "+2348023456789", "hash", createdAt, createdAt))

	a, err := s.store.GetWorkerByEmail(context.Background(), "Fatima@chw.example")
	s.NoError(err)
	s.Equal(int64(2), a.ID)
	s.Equal(schema.Worker{ID: 2, FullName: "Fatima Bello", Phone: "+2348023456789"}, a.Worker())
}

func (s *ORMWorkerStoreTestSuite) TestGetWorkerNotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "workers"`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.store.GetWorker(context.Background(), 9)
	s.Equal(ErrWorkerNotFound, err)
}

func (s *ORMWorkerStoreTestSuite) TestListWorkers() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "workers"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "phone"}).
			AddRow(1, "Adebayo Akinwunmi", "+2348012345678").
			AddRow(3, "Chinedu Okoro", "+2348034567890"))

	workers, err := s.store.ListWorkers(context.Background())
	s.NoError(err)
	s.Equal([]schema.Worker{
		{ID: 1, FullName: "Adebayo Akinwunmi", Phone: "+2348012345678"},
		{ID: 3, FullName: "Chinedu Okoro", Phone: "+2348034567890"},
	}, workers)
}

func TestORMWorkerStoreTestSuite(t *testing.T) {
	suite.Run(t, new(ORMWorkerStoreTestSuite))
}
