package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"

	"github.com/bitmark-inc/triage-api/schema"
)

// DemoWorkers are registered by default when no worker database is configured
var DemoWorkers = []schema.WorkerAccount{
	{FullName: "Adebayo Akinwunmi", Email: "adebayo@chw.example", Phone: "+2348012345678"},
	{FullName: "Fatima Bello", Email: "fatima@chw.example", Phone: "+2348023456789"},
	{FullName: "Chinedu Okoro", Email: "chinedu@chw.example", Phone: "+2348034567890"},
}

// MemoryWorkerStore keeps worker accounts in process
type MemoryWorkerStore struct {
	sync.RWMutex
	lastID   int64
	accounts map[int64]*schema.WorkerAccount
	emails   map[string]int64
}

// NewMemoryWorkerStore returns a store holding the given accounts. Their ids
// are reassigned in order starting from 1.
func NewMemoryWorkerStore(seed ...schema.WorkerAccount) *MemoryWorkerStore {
	s := &MemoryWorkerStore{
		accounts: make(map[int64]*schema.WorkerAccount),
		emails:   make(map[string]int64),
	}
	for _, a := range seed {
		a := a
		_ = s.CreateWorker(context.Background(), &a)
	}
	return s
}

func (s *MemoryWorkerStore) CreateWorker(_ context.Context, account *schema.WorkerAccount) error {
	s.Lock()
	defer s.Unlock()

	email := strings.ToLower(account.Email)
	if _, ok := s.emails[email]; ok {
		return ErrEmailTaken
	}

	s.lastID++
	account.ID = s.lastID
	account.CreatedAt = now()
	account.UpdatedAt = account.CreatedAt

	stored := *account
	s.accounts[stored.ID] = &stored
	s.emails[email] = stored.ID
	return nil
}

func (s *MemoryWorkerStore) GetWorker(_ context.Context, id int64) (*schema.WorkerAccount, error) {
	s.RLock()
	defer s.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrWorkerNotFound
	}
	c := *a
	return &c, nil
}

func (s *MemoryWorkerStore) GetWorkerByEmail(ctx context.Context, email string) (*schema.WorkerAccount, error) {
	s.RLock()
	id, ok := s.emails[strings.ToLower(email)]
	s.RUnlock()
	if !ok {
		return nil, ErrWorkerNotFound
	}
	return s.GetWorker(ctx, id)
}

func (s *MemoryWorkerStore) ListWorkers(_ context.Context) ([]schema.Worker, error) {
	s.RLock()
	workers := make([]schema.Worker, 0, len(s.accounts))
	for _, a := range s.accounts {
		workers = append(workers, a.Worker())
	}
	s.RUnlock()

	sort.Slice(workers, func(i, j int) bool {
		return workers[i].ID < workers[j].ID
	})
	return workers, nil
}

// ORMWorkerStore keeps worker accounts in postgres
type ORMWorkerStore struct {
	ormDB *gorm.DB
}

func NewORMWorkerStore(ormDB *gorm.DB) *ORMWorkerStore {
	return &ORMWorkerStore{ormDB: ormDB}
}

// Ping is to check the storage health status
func (s *ORMWorkerStore) Ping() error {
	return s.ormDB.DB().Ping()
}

func (s *ORMWorkerStore) CreateWorker(ctx context.Context, account *schema.WorkerAccount) error {
	account.Email = strings.ToLower(account.Email)
	if err := s.ormDB.Create(account).Error; err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *ORMWorkerStore) GetWorker(ctx context.Context, id int64) (*schema.WorkerAccount, error) {
	var account schema.WorkerAccount
	if err := s.ormDB.Where("id = ?", id).First(&account).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *ORMWorkerStore) GetWorkerByEmail(ctx context.Context, email string) (*schema.WorkerAccount, error) {
	var account schema.WorkerAccount
	if err := s.ormDB.Where("email = ?", strings.ToLower(email)).First(&account).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *ORMWorkerStore) ListWorkers(ctx context.Context) ([]schema.Worker, error) {
	var accounts []schema.WorkerAccount
	if err := s.ormDB.Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}

	workers := make([]schema.Worker, 0, len(accounts))
	for _, a := range accounts {
		workers = append(workers, a.Worker())
	}
	return workers, nil
}
